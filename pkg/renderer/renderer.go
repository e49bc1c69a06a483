package renderer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// Renderer renders a scene into its frame buffer, one frame per Render call
type Renderer struct {
	scene     integrator.Scene
	fb        *FrameBuffer
	scheduler Scheduler
	log       *zap.Logger

	mu   sync.Mutex // guards opts
	opts integrator.Options

	frameMu sync.Mutex // one frame at a time per buffer
}

// NewRenderer creates a renderer for a width×height frame. The background color
// comes from the scene. A nil scheduler renders with ParallelFor on every CPU and
// a nil logger discards output.
func NewRenderer(s integrator.Scene, width, height int, opts integrator.Options, sched Scheduler, log *zap.Logger) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if opts.MaxBounces < 1 {
		return nil, fmt.Errorf("max bounces must be at least 1, got %d", opts.MaxBounces)
	}
	if sched == nil {
		sched, _ = NewScheduler("parallel-for", 0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	opts.Background = s.Background()

	return &Renderer{
		scene:     s,
		fb:        NewFrameBuffer(width, height),
		scheduler: sched,
		log:       log,
		opts:      opts,
	}, nil
}

// Render computes one frame. Options are snapshotted at the start, so toggles made
// while a frame is in flight apply to the next one.
func (r *Renderer) Render(ctx context.Context) (RenderStats, error) {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()

	opts := r.Options()
	in := integrator.NewIntegrator(r.scene, r.fb.Width, r.fb.Height, opts)
	width := r.fb.Width

	var hits atomic.Int64
	renderPixel := func(pixelIndex int) {
		result := in.TracePixel(pixelIndex%width, pixelIndex/width)
		if result.Primary.DidHit {
			hits.Add(1)
		}
		r.fb.SetPixel(pixelIndex, result.Color.MaxToOne())
	}

	r.log.Debug("Rendering frame",
		zap.Int("width", r.fb.Width),
		zap.Int("height", r.fb.Height),
		zap.String("scheduler", r.scheduler.Name()),
		zap.Int("workers", r.scheduler.Workers()),
		zap.Stringer("mode", opts.Mode),
	)

	start := time.Now()
	err := r.scheduler.Run(ctx, r.fb.NumPixels(), renderPixel)
	stats := RenderStats{
		Width:     r.fb.Width,
		Height:    r.fb.Height,
		Pixels:    r.fb.NumPixels(),
		Hits:      int(hits.Load()),
		Duration:  time.Since(start),
		Workers:   r.scheduler.Workers(),
		Scheduler: r.scheduler.Name(),
		Mode:      opts.Mode,
		Shadows:   opts.Shadows,
		Reflect:   opts.Reflections,
	}
	if err != nil {
		r.log.Warn("Frame cancelled", zap.Error(err))
		return stats, fmt.Errorf("render cancelled: %w", err)
	}

	stats.AverageLuminance = CalculateAverageLuminance(r.fb.Image())
	r.log.Info("Frame rendered",
		zap.Duration("duration", stats.Duration),
		zap.Int("pixels", stats.Pixels),
		zap.Int("hits", stats.Hits),
		zap.Float64("pixels_per_second", stats.PixelsPerSecond()),
		zap.Float64("avg_luminance", stats.AverageLuminance),
	)
	return stats, nil
}

// Options returns a copy of the current options
func (r *Renderer) Options() integrator.Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// SetOptions replaces the options used by the next frame
func (r *Renderer) SetOptions(opts integrator.Options) {
	r.mu.Lock()
	r.opts = opts
	r.mu.Unlock()
}

// ToggleShadows flips shadow testing and returns the new state
func (r *Renderer) ToggleShadows() bool {
	r.mu.Lock()
	r.opts.Shadows = !r.opts.Shadows
	enabled := r.opts.Shadows
	r.mu.Unlock()

	r.log.Info("Shadows toggled", zap.Bool("enabled", enabled))
	return enabled
}

// ToggleReflections flips the reflection chain and returns the new state
func (r *Renderer) ToggleReflections() bool {
	r.mu.Lock()
	r.opts.Reflections = !r.opts.Reflections
	enabled := r.opts.Reflections
	r.mu.Unlock()

	r.log.Info("Reflections toggled", zap.Bool("enabled", enabled))
	return enabled
}

// CycleLightingMode advances to the next lighting mode and returns it
func (r *Renderer) CycleLightingMode() integrator.LightingMode {
	r.mu.Lock()
	r.opts.Mode = r.opts.Mode.Next()
	mode := r.opts.Mode
	r.mu.Unlock()

	r.log.Info("Lighting mode changed", zap.Stringer("mode", mode))
	return mode
}

// FrameBuffer returns the buffer written by Render
func (r *Renderer) FrameBuffer() *FrameBuffer {
	return r.fb
}

// Scheduler returns the scheduling strategy
func (r *Renderer) Scheduler() Scheduler {
	return r.scheduler
}

// SaveBufferToImage writes the last rendered frame to path
func (r *Renderer) SaveBufferToImage(path string) error {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()

	if path == "" {
		path = DefaultImageName
	}
	if err := r.fb.SaveFile(path); err != nil {
		return err
	}
	r.log.Info("Saved image", zap.String("path", path))
	return nil
}
