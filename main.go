package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-whitted-raytracer/internal/config"
	"github.com/df07/go-whitted-raytracer/internal/controls"
	"github.com/df07/go-whitted-raytracer/internal/logger"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printScenes(os.Stdout)
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, flags, err := config.Load(args)
	if err != nil {
		return err
	}

	if flags.SaveConfig {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(stdout, "Config saved to %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return nil
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	selectedScene, err := createScene(cfg.Scene)
	if err != nil {
		return err
	}
	logger.Info("Scene loaded",
		zap.String("scene", selectedScene.Name),
		zap.Int("primitives", selectedScene.PrimitiveCount()),
		zap.Int("lights", len(selectedScene.Lights())),
	)

	opts, err := cfg.Render.Options()
	if err != nil {
		return err
	}
	sched, err := cfg.Render.NewScheduler()
	if err != nil {
		return err
	}

	raytracer, err := renderer.NewRenderer(selectedScene, cfg.Render.Width, cfg.Render.Height, opts, sched, logger.Named("renderer"))
	if err != nil {
		return err
	}

	savePath := func(now time.Time) string {
		return cfg.Output.FramePath(selectedScene.Name, now)
	}

	if flags.Interactive {
		ctrl := &controls.Controller{
			Renderer: raytracer,
			SavePath: savePath,
			Log:      logger.Named("controls"),
			Out:      stdout,
		}
		if _, err := ctrl.Execute(ctx, controls.RenderFrame); err != nil {
			return err
		}
		return ctrl.Run(ctx, stdin)
	}

	stats, err := raytracer.Render(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render completed in %v (%s, %d workers, %.0f%% of pixels hit geometry)\n",
		stats.Duration.Round(time.Millisecond), stats.Scheduler, stats.Workers, stats.HitRatio()*100)
	fmt.Fprintf(stdout, "Throughput %.0f pixels/s, average luminance %.3f\n", stats.PixelsPerSecond(), stats.AverageLuminance)

	filename := savePath(time.Now())
	if err := raytracer.SaveBufferToImage(filename); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Render saved as %s\n", filename)
	return nil
}

// createScene builds the scene named by cfg; a scene file wins over a built-in name
func createScene(cfg config.SceneConfig) (*scene.Scene, error) {
	if cfg.File != "" {
		return scene.LoadFile(cfg.File)
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("no scene selected (available: %s)", strings.Join(scene.Names(), ", "))
	}
	return scene.New(cfg.Name)
}

func printScenes(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Fprintf(w, "  %-16s %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output is saved to <output>/<scene>/render_<timestamp>.<format>")
}
