package softgpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/surface"
)

// Option configures a Device during creation.
//
// Example:
//
//	// Fixed-point pipeline presenting into padded rows
//	s := surface.NewImageSurface(64)
//	dev, err := softgpu.New(320, 240,
//	    softgpu.WithNumeric(softgpu.NumericFixed),
//	    softgpu.WithSurface(s))
type Option func(*options)

// DefaultMaxTextureSize is the largest texture side accepted by default.
const DefaultMaxTextureSize = 4096

type options struct {
	numeric    Numeric
	surface    surface.Surface
	surfaceSet bool
	farScale   float32
	memLimit   int64
	pressure   func() bool
	maxTexture int
	format     gputypes.TextureFormat
}

func defaultOptions() options {
	return options{
		numeric:    defaultNumeric,
		farScale:   1,
		maxTexture: DefaultMaxTextureSize,
		format:     gputypes.TextureFormatRGBA8Unorm,
	}
}

// WithNumeric selects the scalar representation of the pipeline.
func WithNumeric(n Numeric) Option {
	return func(o *options) {
		o.numeric = n
	}
}

// WithSurface sets the surface that owns the color buffer. Without it the
// device presents into a surface.ImageSurface.
func WithSurface(s surface.Surface) Option {
	return func(o *options) {
		o.surface = s
		o.surfaceSet = true
	}
}

// WithFarPlaneScale sets k in the far clip plane w - z*k. The default is 1;
// smaller values push the far plane out.
func WithFarPlaneScale(k float32) Option {
	return func(o *options) {
		if k > 0 {
			o.farScale = k
		}
	}
}

// WithMemoryLimit caps the bytes held by framebuffers, textures and vertex
// buffers. Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memLimit = max(bytes, 0)
	}
}

// WithMemoryPressureHook sets the function called when an allocation does
// not fit the memory limit. It reports whether it released anything; the
// allocation is then retried.
//
// Example:
//
//	dev, _ := softgpu.New(w, h,
//	    softgpu.WithMemoryLimit(8<<20),
//	    softgpu.WithMemoryPressureHook(func() bool {
//	        return cache.EvictOldest(dev) // calls dev.DeleteTexture
//	    }))
func WithMemoryPressureHook(hook func() bool) Option {
	return func(o *options) {
		o.pressure = hook
	}
}

// WithSurfaceFormat sets the byte order of the color buffer. RGBA8Unorm
// (the default) and BGRA8Unorm are supported; New fails with
// ErrUnsupportedFormat for anything else.
func WithSurfaceFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithMaxTextureSize sets the largest accepted texture side.
func WithMaxTextureSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTexture = n
		}
	}
}
