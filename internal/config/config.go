// Package config handles ray tracer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Config holds all settings for the CLI and the preview server.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Scene   SceneConfig   `yaml:"scene"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// RenderConfig holds frame size and integrator settings.
type RenderConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	MaxBounces      int     `yaml:"max_bounces"`
	ReflectionDecay float64 `yaml:"reflection_decay"`
	Mode            string  `yaml:"mode"` // observed-area, radiance, brdf, combined
	Shadows         bool    `yaml:"shadows"`
	Reflections     bool    `yaml:"reflections"`
	Scheduler       string  `yaml:"scheduler"` // sequential, partition, parallel-for
	Workers         int     `yaml:"workers"`   // 0 = one per CPU
}

// SceneConfig selects what to render.
type SceneConfig struct {
	Name string `yaml:"name"` // Built-in scene
	File string `yaml:"file"` // YAML scene file, takes priority over Name
	Dir  string `yaml:"dir"`  // Directory listed by the preview server
}

// OutputConfig controls where rendered frames are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // bmp or png
}

// FramePath returns output/<scene>/render_<timestamp>.<format> for a frame finished at now.
func (o OutputConfig) FramePath(sceneName string, now time.Time) string {
	ext := strings.ToLower(o.Format)
	if ext == "" {
		ext = "bmp"
	}
	return filepath.Join(o.Dir, sceneName, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), ext))
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	Port          int           `yaml:"port"`
	MaxWidth      int           `yaml:"max_width"`
	MaxHeight     int           `yaml:"max_height"`
	RenderTimeout time.Duration `yaml:"render_timeout"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := integrator.DefaultOptions()
	return &Config{
		Render: RenderConfig{
			Width:           640,
			Height:          480,
			MaxBounces:      opts.MaxBounces,
			ReflectionDecay: opts.ReflectionDecay,
			Mode:            opts.Mode.String(),
			Shadows:         opts.Shadows,
			Reflections:     opts.Reflections,
			Scheduler:       "parallel-for",
			Workers:         0,
		},
		Scene: SceneConfig{
			Name: "reference",
			Dir:  "scenes",
		},
		Output: OutputConfig{
			Dir:    "output",
			Format: "bmp",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Port:          8080,
			MaxWidth:      1920,
			MaxHeight:     1080,
			RenderTimeout: 30 * time.Second,
		},
	}
}

// Options converts the render settings into integrator options.
func (r RenderConfig) Options() (integrator.Options, error) {
	mode, err := integrator.ParseLightingMode(r.Mode)
	if err != nil {
		return integrator.Options{}, err
	}

	opts := integrator.DefaultOptions()
	opts.Mode = mode
	opts.Shadows = r.Shadows
	opts.Reflections = r.Reflections
	opts.MaxBounces = r.MaxBounces
	opts.ReflectionDecay = r.ReflectionDecay
	return opts, nil
}

// NewScheduler builds the configured scheduler.
func (r RenderConfig) NewScheduler() (renderer.Scheduler, error) {
	return renderer.NewScheduler(r.Scheduler, r.Workers)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.MaxBounces < 1 {
		err = multierr.Append(err, fmt.Errorf("max_bounces must be at least 1, got %d", c.Render.MaxBounces))
	}
	if c.Render.ReflectionDecay < 0 || c.Render.ReflectionDecay > 1 {
		err = multierr.Append(err, fmt.Errorf("reflection_decay must be in [0,1], got %g", c.Render.ReflectionDecay))
	}
	if _, modeErr := integrator.ParseLightingMode(c.Render.Mode); modeErr != nil {
		err = multierr.Append(err, modeErr)
	}
	if _, schedErr := c.Render.NewScheduler(); schedErr != nil {
		err = multierr.Append(err, schedErr)
	}
	if c.Render.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("workers must not be negative, got %d", c.Render.Workers))
	}
	if c.Scene.Name == "" && c.Scene.File == "" {
		err = multierr.Append(err, errors.New("either scene.name or scene.file is required"))
	}
	switch strings.ToLower(c.Output.Format) {
	case "bmp", "png":
	default:
		err = multierr.Append(err, fmt.Errorf("output format must be bmp or png, got %q", c.Output.Format))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("server port out of range: %d", c.Server.Port))
	}

	return err
}
