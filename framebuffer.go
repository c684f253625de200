package softgpu

import (
	"image"

	"github.com/gogpu/gputypes"
)

// FrameBuffer is the color buffer of a device. It is owned by the surface
// and replaced on resize.
type FrameBuffer struct {
	img    *image.RGBA
	format gputypes.TextureFormat
}

// Width returns the framebuffer width in pixels.
func (f *FrameBuffer) Width() int { return f.img.Rect.Dx() }

// Height returns the framebuffer height in pixels.
func (f *FrameBuffer) Height() int { return f.img.Rect.Dy() }

// Stride returns the number of bytes per row. It may exceed Width*4.
func (f *FrameBuffer) Stride() int { return f.img.Stride }

// Pixels returns direct access to the color bytes, in the order given by
// Format.
func (f *FrameBuffer) Pixels() []byte { return f.img.Pix }

// Image returns the color buffer as stored. For BGRA8Unorm the R and B
// fields of its colors are swapped; use RGBA for a true-color copy.
func (f *FrameBuffer) Image() *image.RGBA { return f.img }

// Format returns the pixel format.
func (f *FrameBuffer) Format() gputypes.TextureFormat { return f.format }

// RGBA returns the color buffer in RGBA byte order. It is the buffer itself
// when no conversion is needed and a packed copy otherwise.
func (f *FrameBuffer) RGBA() *image.RGBA {
	if f.format != gputypes.TextureFormatBGRA8Unorm {
		return f.img
	}
	w, h := f.Width(), f.Height()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := f.img.Pix[y*f.img.Stride : y*f.img.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for i := 0; i < len(src); i += 4 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+2], src[i+1], src[i], src[i+3]
		}
	}
	return out
}
