package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultImageName is the file written when no output path is configured
const DefaultImageName = "RayTracing_Buffer.bmp"

// FrameBuffer is a flat row-major RGB buffer, three bytes per pixel.
// Concurrent SetPixel calls are safe as long as they target different offsets.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrameBuffer allocates a black buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// NumPixels returns Width*Height
func (fb *FrameBuffer) NumPixels() int {
	return fb.Width * fb.Height
}

// SetPixel quantizes c (clamped to [0,1]) into the pixel at flat offset
func (fb *FrameBuffer) SetPixel(offset int, c core.Vec3) {
	r, g, b := Quantize(c)
	i := offset * 3
	fb.Pix[i] = r
	fb.Pix[i+1] = g
	fb.Pix[i+2] = b
}

// Quantize converts a tone-mapped color to 8 bits per channel
func Quantize(c core.Vec3) (r, g, b uint8) {
	c = c.Clamp(0, 1)
	return uint8(c.X * 255), uint8(c.Y * 255), uint8(c.Z * 255)
}

// At returns the pixel at (x, y)
func (fb *FrameBuffer) At(x, y int) color.RGBA {
	i := (y*fb.Width + x) * 3
	return color.RGBA{R: fb.Pix[i], G: fb.Pix[i+1], B: fb.Pix[i+2], A: 255}
}

// Clear sets every pixel to black
func (fb *FrameBuffer) Clear() {
	clear(fb.Pix)
}

// Image copies the buffer into an RGBA image
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for p := 0; p < fb.NumPixels(); p++ {
		img.Pix[p*4] = fb.Pix[p*3]
		img.Pix[p*4+1] = fb.Pix[p*3+1]
		img.Pix[p*4+2] = fb.Pix[p*3+2]
		img.Pix[p*4+3] = 255
	}
	return img
}

// SaveBMP writes the buffer as a 24-bit bitmap
func (fb *FrameBuffer) SaveBMP(w io.Writer) error {
	return bmp.Encode(w, fb.Image())
}

// SavePNG writes the buffer as a PNG
func (fb *FrameBuffer) SavePNG(w io.Writer) error {
	return png.Encode(w, fb.Image())
}

// SaveFile writes the buffer to path, choosing the format from the extension
// (.png, otherwise bitmap). Parent directories are created as needed.
func (fb *FrameBuffer) SaveFile(path string) (err error) {
	if path == "" {
		path = DefaultImageName
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close image file: %w", closeErr)
		}
	}()

	w := bufio.NewWriter(file)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = fb.SavePNG(w)
	default:
		err = fb.SaveBMP(w)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
