package softgpu

import "errors"

var (
	// ErrInvalidDimensions is returned for a zero or negative width or
	// height.
	ErrInvalidDimensions = errors.New("softgpu: invalid dimensions")

	// ErrTextureSize is returned for textures whose sides are not powers
	// of two.
	ErrTextureSize = errors.New("softgpu: texture size is not a power of two")

	// ErrTextureTooLarge is returned for textures above the maximum size.
	ErrTextureTooLarge = errors.New("softgpu: texture too large")

	// ErrOutOfMemory is returned when an allocation does not fit the memory
	// budget even after the pressure hook ran. Callers should treat it as
	// fatal.
	ErrOutOfMemory = errors.New("softgpu: out of memory")

	// ErrNilSurface is returned when WithSurface is given nil.
	ErrNilSurface = errors.New("softgpu: nil surface")

	// ErrUnsupportedFormat is returned for a surface format the pipeline
	// cannot write.
	ErrUnsupportedFormat = errors.New("softgpu: unsupported surface format")

	// ErrClosed is returned by operations on a closed device.
	ErrClosed = errors.New("softgpu: device closed")
)
