package renderer

import (
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about one rendered frame
type RenderStats struct {
	Width     int
	Height    int
	Pixels    int           // Total number of pixels rendered
	Hits      int           // Pixels whose primary ray hit a primitive
	Duration  time.Duration // Wall time spent in the scheduler
	Workers   int           // Workers used by the scheduler
	Scheduler string        // Scheduler name
	Mode      integrator.LightingMode
	Shadows   bool
	Reflect   bool

	AverageLuminance float64 // Mean luminance of the finished frame in [0,1]
}

// HitRatio returns the fraction of pixels that hit geometry
func (s RenderStats) HitRatio() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Pixels)
}

// PixelsPerSecond returns the frame throughput
func (s RenderStats) PixelsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Pixels) / s.Duration.Seconds()
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0,1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	count := bounds.Dx() * bounds.Dy()
	if count == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += core.NewColor(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff).Luminance()
		}
	}
	return total / float64(count)
}
