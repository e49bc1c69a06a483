// Package controls maps the interactive key bindings onto renderer actions.
package controls

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Command is one runtime control
type Command int

const (
	ToggleShadows Command = iota
	ToggleReflections
	CycleLightingMode
	RenderFrame
	SaveImage
	Help
	Quit
)

var commandNames = map[Command]string{
	ToggleShadows:     "shadows",
	ToggleReflections: "reflections",
	CycleLightingMode: "mode",
	RenderFrame:       "render",
	SaveImage:         "save",
	Help:              "help",
	Quit:              "quit",
}

// Key bindings and aliases; the F-keys match the render window shortcuts
var commandAliases = map[string]Command{
	"f2":          ToggleShadows,
	"shadows":     ToggleShadows,
	"f3":          ToggleReflections,
	"reflections": ToggleReflections,
	"f6":          CycleLightingMode,
	"mode":        CycleLightingMode,
	"r":           RenderFrame,
	"render":      RenderFrame,
	"x":           SaveImage,
	"save":        SaveImage,
	"h":           Help,
	"?":           Help,
	"help":        Help,
	"q":           Quit,
	"quit":        Quit,
	"exit":        Quit,
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ErrUnknownCommand is returned by Parse for unrecognized input
var ErrUnknownCommand = errors.New("unknown command")

// Parse reads one command line, case-insensitively
func Parse(line string) (Command, error) {
	key := strings.ToLower(strings.TrimSpace(line))
	if cmd, ok := commandAliases[key]; ok {
		return cmd, nil
	}
	return 0, fmt.Errorf("%w %q (type help)", ErrUnknownCommand, line)
}

const helpText = `Commands:
  F2 | shadows       toggle shadows
  F3 | reflections   toggle reflections
  F6 | mode          cycle lighting mode
  R  | render        render a frame
  X  | save          save the last frame
  H  | help          show this help
  Q  | quit          exit
`

// Controller executes commands against a renderer
type Controller struct {
	Renderer *renderer.Renderer
	// SavePath returns where the next saved frame goes
	SavePath func(now time.Time) string
	Log      *zap.Logger
	Out      io.Writer
}

// Execute runs one command. quit is true only for Quit.
func (c *Controller) Execute(ctx context.Context, cmd Command) (quit bool, err error) {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	switch cmd {
	case ToggleShadows:
		c.printf("Shadows: %s\n", onOff(c.Renderer.ToggleShadows()))
	case ToggleReflections:
		c.printf("Reflections: %s\n", onOff(c.Renderer.ToggleReflections()))
	case CycleLightingMode:
		c.printf("LightingMode: %s\n", c.Renderer.CycleLightingMode())
	case RenderFrame:
		stats, err := c.Renderer.Render(ctx)
		if err != nil {
			return false, err
		}
		c.printf("Rendered %dx%d in %v (%s, %d workers)\n",
			stats.Width, stats.Height, stats.Duration.Round(time.Millisecond), stats.Scheduler, stats.Workers)
	case SaveImage:
		path := renderer.DefaultImageName
		if c.SavePath != nil {
			path = c.SavePath(time.Now())
		}
		if err := c.Renderer.SaveBufferToImage(path); err != nil {
			return false, err
		}
		c.printf("Saved %s\n", path)
	case Help:
		c.printf("%s", helpText)
	case Quit:
		log.Debug("Quit requested")
		return true, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrUnknownCommand, cmd)
	}
	return false, nil
}

// Run reads commands from in until Quit, end of input or ctx is done.
// Unknown commands and failed actions are reported and the loop continues.
func (c *Controller) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	c.printf("%s", helpText)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, err := Parse(line)
		if err != nil {
			c.printf("%v\n", err)
			continue
		}

		quit, err := c.Execute(ctx, cmd)
		if err != nil {
			if c.Log != nil {
				c.Log.Error("Command failed", zap.Stringer("command", cmd), zap.Error(err))
			}
			c.printf("%s failed: %v\n", cmd, err)
			continue
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func (c *Controller) printf(format string, args ...any) {
	if c.Out != nil {
		fmt.Fprintf(c.Out, format, args...)
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
