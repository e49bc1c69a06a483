package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	opts, err := cfg.Render.Options()
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if opts != integrator.DefaultOptions() {
		t.Errorf("default render config should map to default options, got %+v", opts)
	}
}

func TestLoad_Priority(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "raytracer.yaml")
	data := `
render:
  width: 320
  height: 200
  mode: brdf
  shadows: false
scene:
  name: week1
server:
  render_timeout: 5s
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, flags, err := Load([]string{"-config", path, "-height", "100", "-scheduler", "partition", "-reflections=false", "-interactive"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// File overrides defaults
	if cfg.Render.Width != 320 || cfg.Render.Mode != "brdf" || cfg.Render.Shadows || cfg.Scene.Name != "week1" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Server.RenderTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Server.RenderTimeout)
	}
	// Flags override the file
	if cfg.Render.Height != 100 || cfg.Render.Scheduler != "partition" || cfg.Render.Reflections {
		t.Errorf("flag values not applied: %+v", cfg.Render)
	}
	// Untouched values keep their defaults
	if cfg.Render.MaxBounces != 3 || cfg.Output.Format != "bmp" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if !flags.Interactive || !flags.IsSet("height") || flags.IsSet("width") {
		t.Errorf("unexpected flags %+v", flags)
	}
}

func TestLoad_SceneFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, _, err := Load([]string{"-scene", "week2"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene.Name != "week2" || cfg.Scene.File != "" {
		t.Errorf("unexpected scene config %+v", cfg.Scene)
	}

	cfg, _, err = Load([]string{"-scene", "week2", "-scene-file", "my.yaml", "-debug"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene.File != "my.yaml" || cfg.Logging.Level != "debug" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, _, err := Load([]string{"-width", "abc"}); err == nil {
		t.Error("expected error for a non-numeric width")
	}
	if _, _, err := Load([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
	if _, _, err := Load([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for a missing config file")
	}
	if _, _, err := Load([]string{"-mode", "lit"}); err == nil || !strings.Contains(err.Error(), "lit") {
		t.Errorf("expected invalid mode error, got %v", err)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Render.Width = 0
	cfg.Render.Mode = "lit"
	cfg.Render.Scheduler = "threads"
	cfg.Output.Format = "gif"

	err := cfg.Validate()
	if got := len(multierr.Errors(err)); got != 4 {
		t.Errorf("expected 4 errors, got %d: %v", got, err)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Render.Width = 123
	cfg.Scene.Name = "week4"

	path := filepath.Join(t.TempDir(), "nested", "raytracer.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, _, err := Load([]string{"-config", path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Render.Width != 123 || loaded.Scene.Name != "week4" {
		t.Errorf("saved values not loaded back: %+v", loaded)
	}
}

func TestFramePath(t *testing.T) {
	out := OutputConfig{Dir: "output", Format: "PNG"}
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	got := out.FramePath("week3", at)
	want := filepath.Join("output", "week3", "render_20260314_150926.png")
	if got != want {
		t.Errorf("FramePath = %s, want %s", got, want)
	}
}
