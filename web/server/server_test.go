package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/df07/go-whitted-raytracer/internal/config"
)

const testSceneFile = `# name: Test Ball
# description: one sphere
camera: {origin: [0, 0, 0], lookAt: [0, 0, 1], fov: 45}
materials:
  - {name: white, type: lambert, color: [1, 1, 1]}
spheres:
  - {center: [0, 0, 5], radius: 1, material: white}
lights:
  - {type: point, origin: [0, 5, 0], intensity: 50}
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ball.yaml"), []byte(testSceneFile), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Scene.Dir = dir
	cfg.Render.Width = 32
	cfg.Render.Height = 24
	cfg.Render.Scheduler = "sequential"
	cfg.Server.MaxWidth = 200
	cfg.Server.MaxHeight = 100
	cfg.Server.RenderTimeout = 10 * time.Second

	ts := httptest.NewServer(NewServer(cfg, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts, "/api/health")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("Unexpected body %v", body)
	}
}

func TestScenes(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts, "/api/scenes")

	var body ScenesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}

	ids := map[string]string{}
	for _, info := range body.Scenes {
		ids[info.ID] = info.Type
	}
	if ids["reference"] != "builtin" {
		t.Errorf("Expected built-in reference scene, got %v", ids)
	}
	if ids["file:ball"] != "file" {
		t.Errorf("Expected scene file entry, got %v", ids)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name          string
		query         string
		width, height int
	}{
		{"defaults", "", 32, 24},
		{"built-in with options", "?scene=week3&width=40&height=30&mode=brdf&shadows=false&reflections=0&bounces=2&scheduler=partition", 40, 30},
		{"scene file by name", "?scene=file:ball.yaml&width=8&height=8", 8, 8},
		{"scene file", "?scene=file:ball&width=16&height=16", 16, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, ts, "/api/render"+tt.query)
			if resp.StatusCode != http.StatusOK {
				var buf bytes.Buffer
				buf.ReadFrom(resp.Body)
				t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, buf.String())
			}
			if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
				t.Errorf("Expected image/png, got %q", ct)
			}
			if lum, err := strconv.ParseFloat(resp.Header.Get("X-Render-Luminance"), 64); err != nil || lum < 0 || lum > 1 {
				t.Errorf("Expected luminance header in [0,1], got %q", resp.Header.Get("X-Render-Luminance"))
			}

			img, err := png.Decode(resp.Body)
			if err != nil {
				t.Fatalf("Failed to decode PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("Expected %dx%d, got %dx%d", tt.width, tt.height, b.Dx(), b.Dy())
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"width not a number", "?width=abc", http.StatusBadRequest},
		{"width over limit", "?width=201", http.StatusBadRequest},
		{"height zero", "?height=0", http.StatusBadRequest},
		{"unknown mode", "?mode=sepia", http.StatusBadRequest},
		{"bad bool", "?shadows=maybe", http.StatusBadRequest},
		{"bounces zero", "?bounces=0", http.StatusBadRequest},
		{"unknown scheduler", "?scheduler=magic", http.StatusBadRequest},
		{"unknown scene", "?scene=nonexistent", http.StatusNotFound},
		{"missing scene file", "?scene=file:missing.yaml", http.StatusNotFound},
		{"scene file outside dir", "?scene=file:../ball.yaml", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, ts, "/api/render"+tt.query)
			if resp.StatusCode != tt.status {
				t.Fatalf("Expected %d, got %d", tt.status, resp.StatusCode)
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["error"] == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestRender_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/render", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", resp.StatusCode)
	}
}

func TestInspect(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts, "/api/inspect?scene=single-sphere&width=11&height=11&x=5&y=5")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var hit InspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&hit); err != nil {
		t.Fatal(err)
	}
	if !hit.Hit || hit.MaterialType != "lambert" {
		t.Fatalf("Expected lambert hit, got %+v", hit)
	}
	if math.Abs(hit.Distance-4) > 1e-9 {
		t.Errorf("Expected distance 4, got %f", hit.Distance)
	}
	if math.Abs(hit.Normal[2]+1) > 1e-9 {
		t.Errorf("Expected normal facing the camera, got %v", hit.Normal)
	}

	resp = get(t, ts, "/api/inspect?scene=single-sphere&width=11&height=11&x=0&y=0")
	var miss InspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&miss); err != nil {
		t.Fatal(err)
	}
	if miss.Hit || miss.Bounces != 0 {
		t.Errorf("Expected a miss, got %+v", miss)
	}
}

func TestInspect_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		query  string
		status int
	}{
		{"?scene=single-sphere", http.StatusBadRequest},
		{"?scene=single-sphere&width=10&height=10&x=10&y=0", http.StatusBadRequest},
		{"?scene=single-sphere&x=-1&y=0", http.StatusBadRequest},
		{"?scene=nonexistent&x=0&y=0", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := get(t, ts, "/api/inspect"+tt.query)
			if resp.StatusCode != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}
