package raster

import "github.com/gogpu/softgpu/internal/blend"

// Sprite blits the axis-aligned textured rectangle with top-left corner a,
// top-right corner b and bottom-right corner c. Texels are stepped with
// integer arithmetic; when the rectangle and its texture window have the same
// size the mapping is one to one. The color of a modulates every texel.
func (r *Rasterizer[S, M]) Sprite(a, b, c *ScreenVertex[S]) {
	m := r.m
	minX, minY := m.Floor(a.X), m.Floor(a.Y)
	maxX, maxY := m.Floor(b.X), m.Floor(c.Y)
	width, height := maxX-minX, maxY-minY
	if width <= 0 || height <= 0 {
		r.stats.Degenerate++
		return
	}

	clip := r.clipRect()
	x0, y0 := max(minX, clip.Min.X), max(minY, clip.Min.Y)
	x1, y1 := min(maxX, clip.Max.X), min(maxY, clip.Max.Y)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	r.stats.Triangles += 2

	tex := r.tex
	begU := m.Floor(m.Mul(a.U, r.texW))
	begV := m.Floor(m.Mul(a.V, r.texH))
	delU := m.Floor(m.Mul(b.U, r.texW)) - begU
	delV := m.Floor(m.Mul(c.V, r.texH)) - begV

	st := &r.state
	pix, stride := r.target.Color.Pix, r.target.Color.Stride
	for y := y0; y < y1; y++ {
		ty := begV + delV*(y-minY)/height
		row := y * stride
		for x := x0; x < x1; x++ {
			tx := begU + delU*(x-minX)/width
			src := blend.Modulate(tex.Texel(tx, ty), a.Color)
			if st.AlphaTest && src.A < blend.AlphaCutoff {
				continue
			}
			if st.AlphaBlend && src.A == 0 {
				continue
			}
			i := row + x*4
			r.put(pix[i:i+4:i+4], src)
		}
	}
}
