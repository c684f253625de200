package softgpu

import "github.com/gogpu/softgpu/internal/geom"

// Vertex is an object-space vertex: position, color and texture coordinate.
// In 2D mode X and Y are pixel coordinates.
type Vertex = geom.Vertex

// VertexFormat selects which vertex fields draw calls read.
type VertexFormat uint8

const (
	// VertexColored vertices carry position and color.
	VertexColored VertexFormat = iota
	// VertexTextured vertices also carry U and V.
	VertexTextured
)

// String returns the format name.
func (f VertexFormat) String() string {
	return f.geom().String()
}

// Stride is the packed size of one vertex in bytes, as charged against the
// memory limit.
func (f VertexFormat) Stride() int {
	if f == VertexTextured {
		return 24
	}
	return 16
}

func (f VertexFormat) geom() geom.Format {
	if f == VertexTextured {
		return geom.FormatTextured
	}
	return geom.FormatColored
}

// DrawHint lets 2D draw calls take a faster path.
type DrawHint uint8

const (
	// HintNone draws quads as two triangles.
	HintNone DrawHint = iota
	// HintSprite draws textured 2D quads as axis-aligned blits. The quad
	// corners must be top-left, top-right, bottom-right, bottom-left.
	HintSprite
)

// VertexBuffer holds vertices for indexed quad drawing. Every four
// consecutive vertices form one quad.
type VertexBuffer struct {
	format VertexFormat
	verts  []Vertex
	bytes  int64
}

// Vertices returns the backing slice. Writes are seen by the next draw.
func (vb *VertexBuffer) Vertices() []Vertex { return vb.verts }

// Len returns the vertex count.
func (vb *VertexBuffer) Len() int { return len(vb.verts) }

// Format returns the format the buffer was created with.
func (vb *VertexBuffer) Format() VertexFormat { return vb.format }
