// Package pipeline drives quads through transform, clipping, viewport mapping
// and rasterization for one numeric backend.
//
// The stages are generic over the scalar representation. Renderer is the
// backend-independent view the device holds; New returns one for each
// backend.
package pipeline

import (
	"image"
	"image/color"

	"github.com/gogpu/softgpu/internal/clip"
	"github.com/gogpu/softgpu/internal/fixed"
	"github.com/gogpu/softgpu/internal/geom"
	"github.com/gogpu/softgpu/internal/numeric"
	"github.com/gogpu/softgpu/internal/raster"
)

// Renderer is a pipeline instantiated for one backend.
type Renderer interface {
	// Backend names the numeric backend.
	Backend() string

	// Attach makes img the color buffer and allocates a matching depth
	// buffer. The viewport is reset to cover img.
	Attach(img *image.RGBA)

	// SetBGRA selects blue-first byte order for the attached color buffer
	// and any attached later.
	SetBGRA(on bool)

	SetMVP(mvp [16]float32)
	SetTextureOffset(u, v float32)
	SetFormat(f geom.Format)
	SetState(s raster.State)
	State() raster.State
	SetTexture(t *raster.Texture)
	SetFog(f raster.Fog)
	SetViewport(r image.Rectangle)
	Viewport() image.Rectangle
	SetFarScale(k float32)

	// Clear resets the selected buffers.
	Clear(c color.RGBA, colorBuf, depthBuf bool)

	// DrawQuads draws len(v)/4 quads of object-space vertices.
	DrawQuads(v []geom.Vertex)

	// Begin2D switches to pixel-space drawing; End2D restores 3D state.
	Begin2D()
	End2D()
	In2D() bool

	// DrawQuads2D draws pixel-space quads. With sprite set, textured quads
	// are blitted as axis-aligned rectangles.
	DrawQuads2D(v []geom.Vertex, sprite bool)

	// DepthAt returns the stored depth at (x, y) as a float.
	DepthAt(x, y int) float32

	Stats() Stats
	ResetStats()
}

// Stats aggregates the per-stage counters.
type Stats struct {
	Quads  int
	Clip   clip.Stats
	Raster raster.Stats
}

// Pipeline is the Renderer for backend M.
type Pipeline[S numeric.Scalar, M numeric.Math[S]] struct {
	m       M
	xf      geom.Transformer[S, M]
	frustum *clip.Frustum[S, M]
	vp      *raster.Viewport[S, M]
	rast    *raster.Rasterizer[S, M]
	target  *raster.Target[S]

	format geom.Format
	bgra   bool
	state  raster.State
	one    S
	quads  int

	in2D   bool
	saved  raster.State
	savedF raster.Fog

	// scratch for mapped fan vertices
	screen [clip.MaxVertices]raster.ScreenVertex[S]
	valid  [clip.MaxVertices]bool
}

var (
	_ Renderer = (*Pipeline[float32, numeric.Float])(nil)
	_ Renderer = (*Pipeline[fixed.Q16, numeric.Fixed])(nil)
)

// New builds a pipeline for backend m. farScale is the far-plane k.
func New[S numeric.Scalar, M numeric.Math[S]](m M, farScale float32) *Pipeline[S, M] {
	p := &Pipeline[S, M]{
		m:       m,
		frustum: clip.NewFrustum[S](m, farScale),
		vp:      raster.NewViewport[S](m, image.Rectangle{}),
		rast:    raster.NewRasterizer[S](m),
		state:   raster.DefaultState(),
		one:     m.FromInt(1),
	}
	p.xf.SetMVP(geom.FromFloats[S](m, identity))
	return p
}

var identity = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

func (p *Pipeline[S, M]) Backend() string { return p.m.Name() }

func (p *Pipeline[S, M]) Attach(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	p.target = raster.NewTarget(img, make([]S, w*h), w)
	p.target.BGRA = p.bgra
	p.target.ClearDepth(p.m.Far())
	p.rast.SetTarget(p.target)
	p.vp.Set(img.Rect)
}

func (p *Pipeline[S, M]) SetBGRA(on bool) {
	p.bgra = on
	if p.target != nil {
		p.target.BGRA = on
	}
}

func (p *Pipeline[S, M]) SetMVP(mvp [16]float32) {
	p.xf.SetMVP(geom.FromFloats[S](p.m, mvp))
}

func (p *Pipeline[S, M]) SetTextureOffset(u, v float32) { p.xf.SetTextureOffset(u, v) }

func (p *Pipeline[S, M]) SetFormat(f geom.Format) {
	p.format = f
	p.state.Textured = f == geom.FormatTextured
	p.saved.Textured = p.state.Textured
	p.rast.SetState(p.state)
}

func (p *Pipeline[S, M]) SetState(s raster.State) {
	s.Textured = p.format == geom.FormatTextured
	if p.in2D {
		// Depth and culling stay off until End2D restores s.
		p.saved = s
		s = flat(s)
	}
	p.state = s
	p.rast.SetState(s)
}

// flat is s without the 3D-only tests.
func flat(s raster.State) raster.State {
	s.DepthTest = false
	s.DepthWrite = false
	s.Cull = false
	return s
}

func (p *Pipeline[S, M]) State() raster.State {
	if p.in2D {
		return p.saved
	}
	return p.state
}

func (p *Pipeline[S, M]) SetTexture(t *raster.Texture) { p.rast.SetTexture(t) }

func (p *Pipeline[S, M]) SetFog(f raster.Fog) {
	if p.in2D {
		p.savedF = f
		return
	}
	p.rast.SetFog(f)
}

func (p *Pipeline[S, M]) SetViewport(r image.Rectangle) { p.vp.Set(r) }

func (p *Pipeline[S, M]) Viewport() image.Rectangle { return p.vp.Rect() }

func (p *Pipeline[S, M]) SetFarScale(k float32) { p.frustum.SetFarScale(k) }

func (p *Pipeline[S, M]) Clear(c color.RGBA, colorBuf, depthBuf bool) {
	if p.target == nil {
		return
	}
	if colorBuf {
		p.target.ClearColor(c)
	}
	if depthBuf {
		p.target.ClearDepth(p.m.Far())
	}
}

func (p *Pipeline[S, M]) DrawQuads(v []geom.Vertex) {
	if p.target == nil {
		return
	}
	if p.in2D {
		p.DrawQuads2D(v, false)
		return
	}

	var q clip.Quad[S]
	for i := 0; i+4 <= len(v); i += 4 {
		p.quads++
		for j := range q {
			q[j] = p.xf.Vertex(&v[i+j], p.format)
		}
		if p.frustum.Inside(&q) {
			p.frustum.CountInside()
			p.fan(q[:])
			continue
		}
		poly := p.frustum.Clip(&q)
		if poly.N >= 3 {
			p.fan(poly.V[:poly.N])
		}
	}
}

// fan maps a convex polygon to the screen and draws it as triangles sharing
// vertex 0.
func (p *Pipeline[S, M]) fan(poly []geom.ClipVertex[S]) {
	for i := range poly {
		p.valid[i] = p.vp.Map(&poly[i], &p.screen[i])
	}
	if !p.valid[0] {
		return
	}
	for k := 1; k+1 < len(poly); k++ {
		if p.valid[k] && p.valid[k+1] {
			p.rast.Triangle(&p.screen[0], &p.screen[k], &p.screen[k+1])
		}
	}
}

func (p *Pipeline[S, M]) Begin2D() {
	if p.in2D {
		return
	}
	p.in2D = true
	p.saved = p.state
	p.savedF = p.rast.Fog()

	p.state = flat(p.state)
	p.rast.SetState(p.state)
	p.rast.SetFog(raster.Fog{})
}

func (p *Pipeline[S, M]) End2D() {
	if !p.in2D {
		return
	}
	p.in2D = false
	p.state = p.saved
	p.rast.SetState(p.state)
	p.rast.SetFog(p.savedF)
}

func (p *Pipeline[S, M]) In2D() bool { return p.in2D }

func (p *Pipeline[S, M]) DrawQuads2D(v []geom.Vertex, sprite bool) {
	if p.target == nil {
		return
	}
	m := p.m
	textured := p.format == geom.FormatTextured
	var sv [4]raster.ScreenVertex[S]
	for i := 0; i+4 <= len(v); i += 4 {
		p.quads++
		for j := range sv {
			src := &v[i+j]
			sv[j] = raster.ScreenVertex[S]{
				X:     m.FromFloat(src.X),
				Y:     m.FromFloat(src.Y),
				InvW:  p.one,
				Color: src.Color,
			}
			if textured {
				sv[j].U = m.FromFloat(src.U)
				sv[j].V = m.FromFloat(src.V)
			}
		}
		if sprite && textured {
			p.rast.Sprite(&sv[0], &sv[1], &sv[2])
			continue
		}
		p.rast.Triangle(&sv[0], &sv[1], &sv[2])
		p.rast.Triangle(&sv[0], &sv[2], &sv[3])
	}
}

func (p *Pipeline[S, M]) DepthAt(x, y int) float32 {
	return p.m.ToFloat(p.target.DepthAt(x, y))
}

func (p *Pipeline[S, M]) Stats() Stats {
	return Stats{Quads: p.quads, Clip: p.frustum.Stats(), Raster: p.rast.Stats()}
}

func (p *Pipeline[S, M]) ResetStats() {
	p.quads = 0
	p.frustum.ResetStats()
	p.rast.ResetStats()
}
