package config

import (
	"flag"
	"strconv"
)

// Flags holds the parsed command line. Only flags that were given override the config.
type Flags struct {
	ConfigPath  string
	Interactive bool
	SaveConfig  bool

	set map[string]string
}

// ParseFlags parses args (without the program name).
func ParseFlags(args []string) (*Flags, error) {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)

	f := &Flags{set: map[string]string{}}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Interactive, "interactive", false, "Read control commands from stdin after the first frame")
	fs.BoolVar(&f.SaveConfig, "save-config", false, "Write the effective config to the user config directory and exit")

	fs.String("scene", "", "Built-in scene name")
	fs.String("scene-file", "", "YAML scene file (overrides -scene)")
	fs.Int("width", 0, "Image width")
	fs.Int("height", 0, "Image height")
	fs.Int("bounces", 0, "Maximum reflection bounces")
	fs.String("mode", "", "Lighting mode: observed-area, radiance, brdf, combined")
	fs.Bool("shadows", true, "Enable shadow rays")
	fs.Bool("reflections", true, "Enable mirror reflections")
	fs.String("scheduler", "", "Pixel scheduler: sequential, partition, parallel-for")
	fs.Int("workers", 0, "Number of workers (0 = one per CPU)")
	fs.String("output", "", "Output directory")
	fs.String("format", "", "Image format: bmp or png")
	fs.Bool("debug", false, "Enable debug logging")
	fs.Int("port", 0, "Preview server port")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = fl.Value.String()
	})
	return f, nil
}

// IsSet reports whether a flag was given on the command line.
func (f *Flags) IsSet(name string) bool {
	_, ok := f.set[name]
	return ok
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	for name, value := range f.set {
		switch name {
		case "scene":
			cfg.Scene.Name = value
			cfg.Scene.File = ""
		case "scene-file":
			cfg.Scene.File = value
		case "width":
			cfg.Render.Width = atoi(value)
		case "height":
			cfg.Render.Height = atoi(value)
		case "bounces":
			cfg.Render.MaxBounces = atoi(value)
		case "mode":
			cfg.Render.Mode = value
		case "shadows":
			cfg.Render.Shadows = value == "true"
		case "reflections":
			cfg.Render.Reflections = value == "true"
		case "scheduler":
			cfg.Render.Scheduler = value
		case "workers":
			cfg.Render.Workers = atoi(value)
		case "output":
			cfg.Output.Dir = value
		case "format":
			cfg.Output.Format = value
		case "debug":
			if value == "true" {
				cfg.Logging.Level = "debug"
			}
		case "port":
			cfg.Server.Port = atoi(value)
		}
	}
	// -scene-file wins over -scene regardless of map order
	if v, ok := f.set["scene-file"]; ok {
		cfg.Scene.File = v
	}
}

// Values were already validated by the flag package
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
