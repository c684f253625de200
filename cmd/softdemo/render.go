package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/gogpu/softgpu"
)

const (
	zNear = 0.1
	zFar  = 100
)

func radians(deg float32) float32 { return deg * math32.Pi / 180 }

// checker is a 2x2 texture; with wrapping, UVs 0..n repeat it n times.
func checker(a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, a)
	img.SetRGBA(1, 1, a)
	img.SetRGBA(1, 0, b)
	img.SetRGBA(0, 1, b)
	return img
}

// viewMatrix moves the world so the camera sits at the origin looking down -z.
func viewMatrix(c Camera) softgpu.Matrix {
	p := c.Position
	return softgpu.Translate(-p[0], -p[1], -p[2]).
		Mul(softgpu.RotateY(-radians(c.Yaw))).
		Mul(softgpu.RotateX(-radians(c.Pitch)))
}

// floorVertices tiles the floor so that quads near the camera stay small.
// Each tile is wound clockwise as seen from above.
func floorVertices(f Floor) []softgpu.Vertex {
	n := f.Tiles
	step := f.Size / float32(n)
	half := f.Size / 2
	c := color.RGBA(f.Color)
	verts := make([]softgpu.Vertex, 0, n*n*4)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			x0, z0 := -half+float32(i)*step, -half+float32(j)*step
			x1, z1 := x0+step, z0+step
			u0, v0 := float32(i), float32(j)
			verts = append(verts,
				softgpu.Vertex{X: x0, Z: z0, Color: c, U: u0, V: v0},
				softgpu.Vertex{X: x1, Z: z0, Color: c, U: u0 + 1, V: v0},
				softgpu.Vertex{X: x1, Z: z1, Color: c, U: u0 + 1, V: v0 + 1},
				softgpu.Vertex{X: x0, Z: z1, Color: c, U: u0, V: v0 + 1},
			)
		}
	}
	return verts
}

// quadVertices returns the corners of q facing +z before rotation.
func quadVertices(q Quad) []softgpu.Vertex {
	c := color.RGBA(q.Color)
	if q.Alpha != nil {
		c.A = *q.Alpha
	}
	w, h := q.Size[0]/2, q.Size[1]/2
	m := softgpu.RotateY(radians(q.Rotate)).
		Mul(softgpu.Translate(q.Center[0], q.Center[1], q.Center[2]))
	corners := [4][4]float32{
		{-w, h, 0, 0}, {w, h, 1, 0}, {w, -h, 1, 1}, {-w, -h, 0, 1},
	}
	verts := make([]softgpu.Vertex, 4)
	for i, k := range corners {
		x, y, z, _ := m.Transform(k[0], k[1], 0, 1)
		verts[i] = softgpu.Vertex{X: x, Y: y, Z: z, Color: c, U: k[2], V: k[3]}
	}
	return verts
}

// overlayVertices is a full-width bar in pixel coordinates.
func overlayVertices(o Overlay, width int) []softgpu.Vertex {
	c := color.RGBA(o.Color)
	w, h := float32(width), float32(o.Height)
	return []softgpu.Vertex{
		{X: 0, Y: 0, Color: c}, {X: w, Y: 0, Color: c},
		{X: w, Y: h, Color: c}, {X: 0, Y: h, Color: c},
	}
}

// render draws s into dev as one frame.
func render(dev *softgpu.Device, s *Scene) error {
	fb := dev.FrameBuffer()
	aspect := float32(fb.Width()) / float32(fb.Height())
	dev.LoadMVP(viewMatrix(s.Camera), softgpu.Perspective(radians(s.Camera.FOV), aspect, zNear, zFar))

	floor := floorVertices(s.Floor)
	verts := append([]softgpu.Vertex(nil), floor...)
	for _, q := range s.Quads {
		verts = append(verts, quadVertices(q)...)
	}
	overlayAt := len(verts)
	if s.Overlay.Height > 0 {
		verts = append(verts, overlayVertices(s.Overlay, fb.Width())...)
	}

	vb, err := dev.CreateVertexBuffer(softgpu.VertexTextured, len(verts))
	if err != nil {
		return err
	}
	defer dev.DeleteVertexBuffer(vb)
	copy(vb.Vertices(), verts)

	tex, err := dev.CreateTexture(checker(color.RGBA(white), color.RGBA{R: 64, G: 64, B: 64, A: 255}))
	if err != nil {
		return err
	}
	defer dev.DeleteTexture(tex)

	dev.BeginFrame()
	dev.SetClearColor(color.RGBA(s.Clear))
	dev.Clear(softgpu.ClearColor | softgpu.ClearDepth)

	if s.Fog != nil {
		mode, err := s.Fog.mode()
		if err != nil {
			return err
		}
		dev.SetFogMode(mode)
		dev.SetFogColor(color.RGBA(s.Fog.Color))
		dev.SetFogDensity(s.Fog.Density)
		dev.SetFogEnd(s.Fog.End)
		dev.SetFog(true)
	}

	dev.BindVertexBuffer(vb)
	dev.SetFaceCulling(true)
	dev.SetVertexFormat(softgpu.VertexTextured)
	dev.BindTexture(tex)
	dev.DrawIndexedTriangles(len(floor), 0)

	// Quads are two-sided; opaque ones first so blended ones see them.
	dev.SetFaceCulling(false)
	for pass := 0; pass < 2; pass++ {
		blended := pass == 1
		dev.SetAlphaBlend(blended)
		dev.SetDepthWrite(!blended)
		for i, q := range s.Quads {
			if (q.Alpha != nil && *q.Alpha < 255) != blended {
				continue
			}
			if q.Texture == "checker" {
				dev.SetVertexFormat(softgpu.VertexTextured)
				dev.BindTexture(tex)
			} else {
				dev.SetVertexFormat(softgpu.VertexColored)
			}
			dev.DrawIndexedTriangles(4, len(floor)+i*4)
		}
	}
	dev.SetAlphaBlend(false)
	dev.SetDepthWrite(true)
	dev.SetFog(false)

	if s.Overlay.Height > 0 {
		dev.Begin2D()
		dev.SetVertexFormat(softgpu.VertexColored)
		dev.SetAlphaBlend(true)
		dev.DrawIndexedTriangles(4, overlayAt)
		dev.SetAlphaBlend(false)
		dev.End2D()
	}

	if err := dev.EndFrame(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}
