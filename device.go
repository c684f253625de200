package softgpu

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/softgpu/internal/blend"
	"github.com/gogpu/softgpu/internal/clip"
	"github.com/gogpu/softgpu/internal/fixed"
	"github.com/gogpu/softgpu/internal/numeric"
	"github.com/gogpu/softgpu/internal/pipeline"
	"github.com/gogpu/softgpu/internal/raster"
	"github.com/gogpu/softgpu/surface"
)

// MatrixKind names a stored matrix.
type MatrixKind uint8

const (
	MatrixView MatrixKind = iota
	MatrixProjection
)

// ClearFlags selects the buffers Clear resets.
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
)

// FogMode selects the fog falloff.
type FogMode = raster.FogMode

const (
	FogLinear = raster.FogLinear
	FogExp    = raster.FogExp
	FogExp2   = raster.FogExp2
)

// Stats counts pipeline work since BeginFrame.
type Stats struct {
	Quads     int // quads submitted
	Inside    int // quads drawn without clipping
	Clipped   int // quads clipped to a smaller polygon
	Discarded int // quads entirely outside the frustum
	Triangles int // triangles rasterized
	Culled    int
	Pixels    int // pixels written
}

// Info describes a device.
type Info struct {
	Backend        string
	Width, Height  int
	Stride         int
	Format         gputypes.TextureFormat
	MaxTextureSize int
	MemoryUsed     int64
	MemoryLimit    int64 // zero when unlimited
	Stats          Stats
}

// Device is a software rendering device. It is not safe for concurrent use.
type Device struct {
	opts    options
	r       pipeline.Renderer
	surf    surface.Surface
	ownSurf bool
	fb      FrameBuffer
	fbBytes int64
	scissor *clip.ScissorStack
	mem     memoryBudget

	view, proj Matrix
	format     VertexFormat
	vb         *VertexBuffer
	tex        *Texture
	fog        raster.Fog
	clearColor color.RGBA

	depthOnly bool
	colorMask blend.Mask // mask to restore after depth-only rendering
	closed    bool
}

// New creates a device with a width x height framebuffer.
func New(width, height int, opts ...Option) (*Device, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.surfaceSet && o.surface == nil {
		return nil, ErrNilSurface
	}
	switch o.format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, o.format)
	}

	d := &Device{
		opts:       o,
		surf:       o.surface,
		mem:        memoryBudget{limit: o.memLimit, hook: o.pressure},
		fog:        raster.Fog{Mode: raster.FogLinear, Density: 1, End: 1},
		clearColor: color.RGBA{A: 255},
	}
	if d.surf == nil {
		d.surf = surface.NewImageSurface(0)
		d.ownSurf = true
	}
	switch o.numeric {
	case NumericFixed:
		d.r = pipeline.New[fixed.Q16](numeric.Fixed{}, o.farScale)
	default:
		d.r = pipeline.New[float32](numeric.Float{}, o.farScale)
	}
	d.fb.format = o.format
	d.r.SetBGRA(o.format == gputypes.TextureFormatBGRA8Unorm)

	if err := d.resize(width, height); err != nil {
		return nil, err
	}
	d.LoadMVP(Identity(), Identity())
	d.r.SetFog(d.fog)

	Logger().Info("softgpu: device created",
		"backend", d.r.Backend(), "width", width, "height", height, "stride", d.fb.Stride(), "format", o.format)
	return d, nil
}

// resize charges and allocates a width x height framebuffer.
func (d *Device) resize(width, height int) error {
	// The old buffer stays attached until the new one exists.
	old := d.fbBytes
	d.mem.release(old)

	// Color at its packed size plus one depth value per pixel.
	n := int64(width) * int64(height) * 8
	if err := d.mem.reserve(n, "framebuffer"); err != nil {
		d.mem.restore(old)
		return err
	}
	img, err := d.surf.Framebuffer(width, height)
	if err != nil {
		d.mem.release(n)
		d.mem.restore(old)
		return fmt.Errorf("softgpu: allocate framebuffer: %w", err)
	}
	d.fbBytes = n
	d.fb.img = img
	d.r.Attach(img)
	if d.scissor == nil {
		d.scissor = clip.NewScissorStack(img.Rect)
	} else {
		d.scissor.Reset(img.Rect)
		d.applyScissor()
	}
	d.r.Clear(d.clearColor, true, true)
	return nil
}

// Close releases the framebuffer and a surface the device created.
// Close is idempotent.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.mem.release(d.fbBytes)
	d.fbBytes = 0
	d.vb = nil
	d.tex = nil
	if d.ownSurf {
		return d.surf.Close()
	}
	return nil
}

// OnWindowResize reallocates the framebuffer. Previous contents are lost
// and the viewport is reset to the whole framebuffer.
func (d *Device) OnWindowResize(width, height int) error {
	if d.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	Logger().Debug("softgpu: resize", "width", width, "height", height)
	return d.resize(width, height)
}

// FrameBuffer returns the current color buffer.
func (d *Device) FrameBuffer() *FrameBuffer { return &d.fb }

// SetVertexFormat selects the layout read by draw calls.
func (d *Device) SetVertexFormat(f VertexFormat) {
	d.format = f
	d.r.SetFormat(f.geom())
}

// CreateVertexBuffer allocates a buffer of count vertices.
func (d *Device) CreateVertexBuffer(f VertexFormat, count int) (*VertexBuffer, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: vertex count %d", ErrInvalidDimensions, count)
	}
	n := int64(count) * int64(f.Stride())
	if err := d.mem.reserve(n, "vertex buffer"); err != nil {
		return nil, err
	}
	Logger().Debug("softgpu: vertex buffer created", "format", f, "count", count)
	return &VertexBuffer{format: f, verts: make([]Vertex, count), bytes: n}, nil
}

// BindVertexBuffer selects the buffer read by DrawIndexedTriangles.
func (d *Device) BindVertexBuffer(vb *VertexBuffer) { d.vb = vb }

// DeleteVertexBuffer releases vb. Deleting nil or a deleted buffer is a
// no-op.
func (d *Device) DeleteVertexBuffer(vb *VertexBuffer) {
	if vb == nil || vb.verts == nil {
		return
	}
	d.mem.release(vb.bytes)
	vb.verts = nil
	if d.vb == vb {
		d.vb = nil
	}
}

// CreateTexture copies img into a new texture. Both sides must be powers of
// two no larger than the maximum texture size.
func (d *Device) CreateTexture(img image.Image) (*Texture, error) {
	b := img.Bounds()
	if err := checkTextureSize(b.Dx(), b.Dy(), d.opts.maxTexture); err != nil {
		return nil, err
	}
	n := int64(b.Dx()) * int64(b.Dy()) * 4
	if err := d.mem.reserve(n, "texture"); err != nil {
		return nil, err
	}
	rgba := toRGBA(img)
	Logger().Debug("softgpu: texture created", "width", b.Dx(), "height", b.Dy())
	return &Texture{img: rgba, view: raster.TextureOf(rgba), bytes: n}, nil
}

// UpdateTexture copies img into t with its top-left corner at (x, y).
func (d *Device) UpdateTexture(t *Texture, x, y int, img image.Image) error {
	b := img.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	if !r.In(t.img.Rect) {
		return fmt.Errorf("%w: update %v outside texture %v", ErrInvalidDimensions, r, t.img.Rect)
	}
	draw.Draw(t.img, r, img, b.Min, draw.Src)
	return nil
}

// BindTexture selects the texture sampled by textured draws. Nil binds
// opaque white.
func (d *Device) BindTexture(t *Texture) {
	d.tex = t
	if t == nil {
		d.r.SetTexture(nil)
		return
	}
	d.r.SetTexture(t.view)
}

// DeleteTexture releases t, unbinding it if bound.
func (d *Device) DeleteTexture(t *Texture) {
	if t == nil || t.view == nil {
		return
	}
	d.mem.release(t.bytes)
	if d.tex == t {
		d.BindTexture(nil)
	}
	t.view = nil
}

// LoadMatrix replaces the view or projection matrix.
func (d *Device) LoadMatrix(kind MatrixKind, m Matrix) {
	switch kind {
	case MatrixView:
		d.view = m
	case MatrixProjection:
		d.proj = m
	}
	d.r.SetMVP(d.view.Mul(d.proj))
}

// LoadIdentityMatrix resets the view or projection matrix.
func (d *Device) LoadIdentityMatrix(kind MatrixKind) {
	d.LoadMatrix(kind, Identity())
}

// LoadMVP replaces both matrices.
func (d *Device) LoadMVP(view, proj Matrix) {
	d.view, d.proj = view, proj
	d.r.SetMVP(view.Mul(proj))
}

// EnableTextureOffset adds (u, v) to the coordinates of textured vertices.
func (d *Device) EnableTextureOffset(u, v float32) { d.r.SetTextureOffset(u, v) }

// DisableTextureOffset removes the texture offset.
func (d *Device) DisableTextureOffset() { d.r.SetTextureOffset(0, 0) }

func (d *Device) update(fn func(s *raster.State)) {
	s := d.r.State()
	fn(&s)
	d.r.SetState(s)
}

func (d *Device) SetDepthTest(on bool)  { d.update(func(s *raster.State) { s.DepthTest = on }) }
func (d *Device) SetDepthWrite(on bool) { d.update(func(s *raster.State) { s.DepthWrite = on }) }
func (d *Device) SetAlphaTest(on bool)  { d.update(func(s *raster.State) { s.AlphaTest = on }) }
func (d *Device) SetAlphaBlend(on bool) { d.update(func(s *raster.State) { s.AlphaBlend = on }) }

// SetFaceCulling skips triangles that wind counter-clockwise on screen.
func (d *Device) SetFaceCulling(on bool) { d.update(func(s *raster.State) { s.Cull = on }) }

// SetColorWrite enables writes per color channel.
func (d *Device) SetColorWrite(r, g, b, a bool) {
	m := blend.Mask{R: r, G: g, B: b, A: a}
	if d.depthOnly {
		d.colorMask = m
		return
	}
	d.update(func(s *raster.State) { s.Mask = m })
}

// DepthOnlyRendering masks all color writes while on. Turning it off
// restores the previous color mask.
func (d *Device) DepthOnlyRendering(on bool) {
	if on == d.depthOnly {
		return
	}
	d.depthOnly = on
	if on {
		d.colorMask = d.r.State().Mask
		d.update(func(s *raster.State) { s.Mask = blend.Mask{} })
		return
	}
	d.update(func(s *raster.State) { s.Mask = d.colorMask })
}

func (d *Device) setFog(fn func(f *raster.Fog)) {
	fn(&d.fog)
	d.r.SetFog(d.fog)
}

func (d *Device) SetFog(on bool)             { d.setFog(func(f *raster.Fog) { f.Enabled = on }) }
func (d *Device) SetFogColor(c color.RGBA)   { d.setFog(func(f *raster.Fog) { f.Color = c }) }
func (d *Device) SetFogMode(m FogMode)       { d.setFog(func(f *raster.Fog) { f.Mode = m }) }
func (d *Device) SetFogDensity(v float32)    { d.setFog(func(f *raster.Fog) { f.Density = v }) }
func (d *Device) SetFogEnd(v float32)        { d.setFog(func(f *raster.Fog) { f.End = v }) }
func (d *Device) SetClearColor(c color.RGBA) { d.clearColor = c }

// Clear resets the selected buffers. Depth clears to the far value.
func (d *Device) Clear(flags ClearFlags) {
	d.r.Clear(d.clearColor, flags&ClearColor != 0, flags&ClearDepth != 0)
}

// SetViewport maps normalized device coordinates to the given pixel
// rectangle.
func (d *Device) SetViewport(x, y, width, height int) {
	d.r.SetViewport(image.Rect(x, y, x+width, y+height))
}

// SetScissor limits drawing to the given pixel rectangle, discarding any
// pushed scissors. A rectangle covering the framebuffer disables the
// scissor test.
func (d *Device) SetScissor(x, y, width, height int) {
	d.scissor.Reset(d.fb.img.Rect)
	d.PushScissor(x, y, width, height)
}

// PushScissor narrows the scissor rectangle to its intersection with the
// given one until the matching PopScissor.
func (d *Device) PushScissor(x, y, width, height int) {
	d.scissor.Push(image.Rect(x, y, x+width, y+height))
	d.applyScissor()
}

// PopScissor restores the scissor rectangle before the last PushScissor.
func (d *Device) PopScissor() {
	d.scissor.Pop()
	d.applyScissor()
}

func (d *Device) applyScissor() {
	d.update(func(s *raster.State) {
		s.ScissorTest = d.scissor.Active()
		s.Scissor = d.scissor.Bounds()
	})
}

// BeginFrame starts a frame and resets the work counters.
func (d *Device) BeginFrame() {
	d.r.ResetStats()
}

// EndFrame presents the framebuffer.
func (d *Device) EndFrame() error {
	if d.closed {
		return ErrClosed
	}
	return d.surf.Present(d.fb.img)
}

// DrawIndexedTriangles draws vertexCount/4 quads from the bound vertex
// buffer, starting at startVertex. The range is clamped to the buffer.
func (d *Device) DrawIndexedTriangles(vertexCount, startVertex int) {
	if v := d.vertices(vertexCount, startVertex); v != nil {
		d.r.DrawQuads(v)
	}
}

// DrawIndexedTrianglesHint is DrawIndexedTriangles with a draw hint. Hints
// only apply in 2D mode.
func (d *Device) DrawIndexedTrianglesHint(vertexCount, startVertex int, hint DrawHint) {
	if hint != HintSprite || !d.r.In2D() {
		d.DrawIndexedTriangles(vertexCount, startVertex)
		return
	}
	if v := d.vertices(vertexCount, startVertex); v != nil {
		d.r.DrawQuads2D(v, true)
	}
}

func (d *Device) vertices(count, start int) []Vertex {
	if d.closed || d.vb == nil || start < 0 || count <= 0 {
		return nil
	}
	all := d.vb.verts
	if start >= len(all) {
		return nil
	}
	return all[start : start+min(count, len(all)-start)]
}

// Begin2D switches to pixel-space drawing: vertices are framebuffer
// coordinates, the matrices are ignored, and depth, culling and fog are off.
// Blending and alpha test changes apply at once; depth, culling and fog
// changes apply after End2D.
func (d *Device) Begin2D() { d.r.Begin2D() }

// End2D restores 3D drawing.
func (d *Device) End2D() { d.r.End2D() }

// Screenshot writes the framebuffer as PNG.
func (d *Device) Screenshot(w io.Writer) error {
	if d.closed {
		return ErrClosed
	}
	if err := png.Encode(w, d.fb.RGBA()); err != nil {
		return fmt.Errorf("softgpu: screenshot: %w", err)
	}
	return nil
}

// DepthAt returns the stored depth at (x, y).
func (d *Device) DepthAt(x, y int) float32 { return d.r.DepthAt(x, y) }

// Info describes the device and its work since BeginFrame.
func (d *Device) Info() Info {
	s := d.r.Stats()
	return Info{
		Backend:        d.r.Backend(),
		Width:          d.fb.Width(),
		Height:         d.fb.Height(),
		Stride:         d.fb.Stride(),
		Format:         d.fb.format,
		MaxTextureSize: d.opts.maxTexture,
		MemoryUsed:     d.mem.used,
		MemoryLimit:    d.mem.limit,
		Stats: Stats{
			Quads:     s.Quads,
			Inside:    s.Clip.Inside,
			Clipped:   s.Clip.Clipped,
			Discarded: s.Clip.Discarded,
			Triangles: s.Raster.Triangles,
			Culled:    s.Raster.Culled,
			Pixels:    s.Raster.Pixels,
		},
	}
}
