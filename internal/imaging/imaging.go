// Package imaging provides the image decode boundary used by the
// classification pipeline: blob -> Bitmap -> Surface -> PixelBuffer.
// Bitmaps are transient, owned by a single request, and must be released
// exactly once.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"

	// Register the supported input codecs.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// maxSurfacePixels caps surface allocation; decoded frames beyond this are
// treated as an environment limitation rather than an allocation attempt.
const maxSurfacePixels = 64 << 20

// ErrSurfaceUnavailable is returned when a 2D drawing surface cannot be
// acquired for the requested dimensions.
var ErrSurfaceUnavailable = errors.New("could not get 2d context")

// Bitmap is a decoded image frame. Release must be called exactly once when
// the owning request finishes, on every exit path.
type Bitmap struct {
	img      image.Image
	width    int
	height   int
	released bool
}

func (b *Bitmap) Width() int  { return b.width }
func (b *Bitmap) Height() int { return b.height }

// Released reports whether Release has been called.
func (b *Bitmap) Released() bool { return b.released }

// Release frees the decoded frame. Releasing twice is a caller bug and
// returns an error so tests can catch it.
func (b *Bitmap) Release() error {
	if b.released {
		return errors.New("bitmap already released")
	}
	b.released = true
	b.img = nil
	return nil
}

// Decode parses an encoded image blob (JPEG, PNG or GIF) into a Bitmap.
func Decode(blob []byte) (*Bitmap, error) {
	img, _, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	return &Bitmap{img: img, width: bounds.Dx(), height: bounds.Dy()}, nil
}

// PixelBuffer is raw RGBA pixel data extracted from a surface, suitable as
// model input.
type PixelBuffer struct {
	Width  int
	Height int
	// Pix holds 4 bytes per pixel in RGBA order, row-major.
	Pix []uint8
}

// Surface is a transient drawing target sized to one bitmap. It is scoped
// to a single request and never shared.
type Surface struct {
	rgba *image.RGBA
}

// NewSurface acquires a drawing surface of the given dimensions.
func NewSurface(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 || w*h > maxSurfacePixels {
		return nil, ErrSurfaceUnavailable
	}
	return &Surface{rgba: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

// Render draws the bitmap onto the surface and extracts the raw pixels.
func (s *Surface) Render(b *Bitmap) (*PixelBuffer, error) {
	if b == nil || b.img == nil || b.released {
		return nil, errors.New("render: bitmap unavailable")
	}
	draw.Draw(s.rgba, s.rgba.Bounds(), b.img, b.img.Bounds().Min, draw.Src)
	return &PixelBuffer{
		Width:  s.rgba.Rect.Dx(),
		Height: s.rgba.Rect.Dy(),
		Pix:    s.rgba.Pix,
	}, nil
}
