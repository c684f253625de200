package softgpu

import (
	"fmt"
	"image"
	"math/bits"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/softgpu/internal/raster"
)

// Texture is an RGBA8 image with power-of-two sides. Sampling wraps.
type Texture struct {
	img   *image.RGBA
	view  *raster.Texture
	bytes int64
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.img.Rect.Dx() }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

// Image returns the texels. Writes bypass UpdateTexture but are seen by the
// next draw.
func (t *Texture) Image() *image.RGBA { return t.img }

func isPow2(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

func checkTextureSize(w, h, limit int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: texture %dx%d", ErrInvalidDimensions, w, h)
	}
	if !isPow2(w) || !isPow2(h) {
		return fmt.Errorf("%w: %dx%d", ErrTextureSize, w, h)
	}
	if w > limit || h > limit {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrTextureTooLarge, w, h, limit)
	}
	return nil
}

// toRGBA converts src into a new origin-based RGBA image.
func toRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}
