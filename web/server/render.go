package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const sceneFilePrefix = "file:"

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene     string // Built-in scene ID or "file:<name>" as listed by /api/scenes
	Width     int
	Height    int
	Scheduler string
	Options   integrator.Options
}

// errSceneNotFound marks scene lookups that should answer 404
var errSceneNotFound = errors.New("scene not found")

// parseRenderRequest parses request parameters, falling back to the configured render defaults
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	defaults := s.cfg.Render

	opts, err := defaults.Options()
	if err != nil {
		return nil, err
	}
	req := &RenderRequest{
		Scene:     query.Get("scene"),
		Scheduler: defaults.Scheduler,
	}
	if req.Scene == "" {
		req.Scene = s.cfg.Scene.Name
	}

	if req.Width, err = parseIntParam(query, "width", min(defaults.Width, s.cfg.Server.MaxWidth), 1, s.cfg.Server.MaxWidth); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", min(defaults.Height, s.cfg.Server.MaxHeight), 1, s.cfg.Server.MaxHeight); err != nil {
		return nil, err
	}
	if opts.MaxBounces, err = parseIntParam(query, "bounces", opts.MaxBounces, 1, 64); err != nil {
		return nil, err
	}
	if opts.Shadows, err = parseBoolParam(query, "shadows", opts.Shadows); err != nil {
		return nil, err
	}
	if opts.Reflections, err = parseBoolParam(query, "reflections", opts.Reflections); err != nil {
		return nil, err
	}
	if mode := query.Get("mode"); mode != "" {
		if opts.Mode, err = integrator.ParseLightingMode(mode); err != nil {
			return nil, err
		}
	}
	if name := query.Get("scheduler"); name != "" {
		if _, err := renderer.NewScheduler(name, 0); err != nil {
			return nil, err
		}
		req.Scheduler = name
	}

	req.Options = opts
	return req, nil
}

// loadScene resolves a built-in scene ID or a scene file inside the configured scene directory
func (s *Server) loadScene(id string) (*scene.Scene, error) {
	if name, ok := strings.CutPrefix(id, sceneFilePrefix); ok {
		// Only bare file names are accepted so requests cannot leave the scene directory
		if name == "" || name != filepath.Base(name) {
			return nil, fmt.Errorf("%w: %q", errSceneNotFound, id)
		}
		candidates := []string{name}
		if filepath.Ext(name) == "" {
			candidates = []string{name + ".yaml", name + ".yml"}
		}
		for _, candidate := range candidates {
			sc, err := scene.LoadFile(filepath.Join(s.cfg.Scene.Dir, candidate))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return sc, err
		}
		return nil, fmt.Errorf("%w: %q", errSceneNotFound, id)
	}

	sc, err := scene.New(id)
	if errors.Is(err, scene.ErrUnknownScene) {
		return nil, fmt.Errorf("%w: %v", errSceneNotFound, err)
	}
	return sc, err
}

// newRenderer parses the request and builds a renderer for it, answering errors itself
func (s *Server) newRenderer(w http.ResponseWriter, r *http.Request) (*RenderRequest, *renderer.Renderer, bool) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, nil, false
	}

	sc, err := s.loadScene(req.Scene)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errSceneNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return nil, nil, false
	}

	sched, err := renderer.NewScheduler(req.Scheduler, s.cfg.Render.Workers)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, nil, false
	}

	rt, err := renderer.NewRenderer(sc, req.Width, req.Height, req.Options, sched, s.log.Named("renderer"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, nil, false
	}
	return req, rt, true
}

// handleRender renders one frame and answers with a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, rt, ok := s.newRenderer(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if s.cfg.Server.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Server.RenderTimeout)
		defer cancel()
	}

	stats, err := rt.Render(ctx)
	if err != nil {
		s.log.Warn("Render aborted", zap.String("scene", req.Scene), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rt.FrameBuffer().Image()); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to encode image: %w", err))
		return
	}

	s.log.Info("Render served",
		zap.String("scene", req.Scene),
		zap.Int("width", req.Width),
		zap.Int("height", req.Height),
		zap.Stringer("mode", req.Options.Mode),
		zap.Duration("duration", stats.Duration),
	)

	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Cache-Control", "no-cache")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	h.Set("X-Render-Hits", strconv.Itoa(stats.Hits))
	h.Set("X-Render-Scheduler", stats.Scheduler)
	h.Set("X-Render-Luminance", strconv.FormatFloat(stats.AverageLuminance, 'f', 4, 64))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
