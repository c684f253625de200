package softgpu

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softgpu/surface"
)

const size = 64

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

// quad returns a screen-aligned quad wound clockwise on screen under
// pixelProjection. z is view space, so depth is -z/100.
func quad(x0, y0, x1, y1, z float32, c color.RGBA) []Vertex {
	return []Vertex{
		{X: x0, Y: y0, Z: z, Color: c, U: 0, V: 0},
		{X: x1, Y: y0, Z: z, Color: c, U: 1, V: 0},
		{X: x1, Y: y1, Z: z, Color: c, U: 1, V: 1},
		{X: x0, Y: y1, Z: z, Color: c, U: 0, V: 1},
	}
}

func pixelProjection() Matrix { return Orthographic(size, size, 0, 100) }

func backends() []Numeric { return []Numeric{NumericFloat, NumericFixed} }

// newDevice creates a size x size device with pixel coordinates loaded.
func newDevice(t *testing.T, n Numeric, opts ...Option) *Device {
	t.Helper()
	d, err := New(size, size, append([]Option{WithNumeric(n)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { d.Close() })
	d.LoadMVP(Identity(), pixelProjection())
	d.BeginFrame()
	d.Clear(ClearColor | ClearDepth)
	return d
}

// drawQuads uploads vertices into a fresh buffer and draws them.
func drawQuads(t *testing.T, d *Device, f VertexFormat, verts []Vertex) {
	t.Helper()
	vb, err := d.CreateVertexBuffer(f, len(verts))
	if err != nil {
		t.Fatal(err)
	}
	copy(vb.Vertices(), verts)
	d.SetVertexFormat(f)
	d.BindVertexBuffer(vb)
	d.DrawIndexedTriangles(len(verts), 0)
	d.DeleteVertexBuffer(vb)
}

func pixel(d *Device, x, y int) color.RGBA {
	return d.FrameBuffer().Image().RGBAAt(x, y)
}

func countColor(d *Device, c color.RGBA) int {
	n := 0
	img := d.FrameBuffer().Image()
	for y := 0; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Rect.Dx(); x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func checker2x2() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, white)
	img.SetRGBA(1, 0, black)
	img.SetRGBA(0, 1, black)
	img.SetRGBA(1, 1, white)
	return img
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		opts   []Option
		target error
	}{
		{"zero width", 0, 10, nil, ErrInvalidDimensions},
		{"negative height", 10, -1, nil, ErrInvalidDimensions},
		{"nil surface", 10, 10, []Option{WithSurface(nil)}, ErrNilSurface},
		{"framebuffer over limit", 10, 10, []Option{WithMemoryLimit(100)}, ErrOutOfMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.h, tt.opts...)
			if !errors.Is(err, tt.target) {
				t.Errorf("New() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	for _, n := range backends() {
		t.Run(n.String(), func(t *testing.T) {
			d := newDevice(t, n, WithMemoryLimit(1<<20))
			info := d.Info()
			if info.Backend != n.String() {
				t.Errorf("Backend = %q, want %q", info.Backend, n)
			}
			if info.Width != size || info.Height != size || info.Stride != size*4 {
				t.Errorf("size = %dx%d stride %d", info.Width, info.Height, info.Stride)
			}
			if info.MemoryUsed != size*size*8 || info.MemoryLimit != 1<<20 {
				t.Errorf("memory = %d of %d", info.MemoryUsed, info.MemoryLimit)
			}
			if info.MaxTextureSize != DefaultMaxTextureSize {
				t.Errorf("MaxTextureSize = %d", info.MaxTextureSize)
			}
		})
	}
}

func TestTexturedCheckerboard(t *testing.T) {
	for _, n := range backends() {
		t.Run(n.String(), func(t *testing.T) {
			d := newDevice(t, n)
			tex, err := d.CreateTexture(checker2x2())
			if err != nil {
				t.Fatal(err)
			}
			d.BindTexture(tex)
			d.SetFaceCulling(true)
			drawQuads(t, d, VertexTextured, quad(16, 16, 48, 48, -50, white))

			cells := []struct {
				x, y int
				want color.RGBA
			}{
				{20, 20, white},
				{44, 20, black},
				{20, 44, black},
				{44, 44, white},
				{8, 8, black}, // clear color
			}
			for _, c := range cells {
				if got := pixel(d, c.x, c.y); got != c.want {
					t.Errorf("(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
				}
			}
			if depth := d.DepthAt(32, 32); math.Abs(float64(depth)-0.5) > 1e-3 {
				t.Errorf("depth = %v, want 0.5", depth)
			}
			s := d.Info().Stats
			if s.Quads != 1 || s.Inside != 1 || s.Triangles != 2 || s.Pixels != 32*32 {
				t.Errorf("stats = %+v", s)
			}
		})
	}
}

func TestPerspectiveFloorClipped(t *testing.T) {
	for _, n := range backends() {
		t.Run(n.String(), func(t *testing.T) {
			d := newDevice(t, n)
			d.LoadMVP(Translate(0, -1, 0), Perspective(math.Pi/2, 1, 0.1, 100))

			floor := []Vertex{
				{X: -4, Y: 0, Z: -20, Color: green},
				{X: 4, Y: 0, Z: -20, Color: green},
				{X: 4, Y: 0, Z: 3, Color: green},
				{X: -4, Y: 0, Z: 3, Color: green},
			}
			drawQuads(t, d, VertexColored, floor)

			if s := d.Info().Stats; s.Clipped != 1 || s.Triangles == 0 {
				t.Fatalf("stats = %+v, want one clipped quad", s)
			}
			if got := pixel(d, size/2, size-1); got != green {
				t.Errorf("floor missing below the camera: %v", got)
			}
			if got := pixel(d, size/2, 4); got != black {
				t.Errorf("floor drawn above the horizon: %v", got)
			}
		})
	}
}

func TestBehindCamera(t *testing.T) {
	d := newDevice(t, NumericFloat)
	d.LoadMVP(Identity(), Perspective(math.Pi/2, 1, 0.1, 100))
	drawQuads(t, d, VertexColored, quad(-1, -1, 1, 1, 5, green))

	if n := countColor(d, green); n != 0 {
		t.Errorf("quad behind the camera drew %d pixels", n)
	}
	if s := d.Info().Stats; s.Discarded != 1 {
		t.Errorf("stats = %+v, want one discarded quad", s)
	}
}

func TestDepthOrder(t *testing.T) {
	for _, n := range backends() {
		t.Run(n.String(), func(t *testing.T) {
			d := newDevice(t, n)
			// Near quad first; the far one must not overwrite it.
			drawQuads(t, d, VertexColored, quad(8, 8, 40, 40, -20, red))
			drawQuads(t, d, VertexColored, quad(24, 24, 56, 56, -60, blue))

			if got := pixel(d, 30, 30); got != red {
				t.Errorf("overlap = %v, want near red", got)
			}
			if got := pixel(d, 50, 50); got != blue {
				t.Errorf("far only = %v, want blue", got)
			}

			d.SetDepthTest(false)
			drawQuads(t, d, VertexColored, quad(24, 24, 56, 56, -60, blue))
			if got := pixel(d, 30, 30); got != blue {
				t.Errorf("depth test off: overlap = %v, want blue", got)
			}
		})
	}
}

func TestDepthOrderFar(t *testing.T) {
	pairs := []struct{ near, far float32 }{
		{-30, -35},
		{-70, -75},
	}
	for _, n := range backends() {
		for _, p := range pairs {
			t.Run(fmt.Sprintf("%s/%v", n, p.near), func(t *testing.T) {
				d := newDevice(t, n)
				d.LoadMVP(Identity(), Perspective(math.Pi/2, 1, 0.1, 100))

				drawQuads(t, d, VertexColored, quad(-10, -10, 10, 10, p.near, red))
				drawQuads(t, d, VertexColored, quad(-10, -10, 10, 10, p.far, blue))

				if got := pixel(d, size/2, size/2); got != red {
					t.Errorf("center = %v, want the nearer red quad", got)
				}
			})
		}
	}
}

func TestSurfaceFormat(t *testing.T) {
	if _, err := New(8, 8, WithSurfaceFormat(gputypes.TextureFormatR8Unorm)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("R8 error = %v, want ErrUnsupportedFormat", err)
	}

	for _, n := range backends() {
		t.Run(n.String(), func(t *testing.T) {
			d := newDevice(t, n, WithSurfaceFormat(gputypes.TextureFormatBGRA8Unorm))
			if f := d.Info().Format; f != gputypes.TextureFormatBGRA8Unorm {
				t.Fatalf("Info().Format = %v", f)
			}
			drawQuads(t, d, VertexColored, quad(0, 0, 32, 32, -50, red))

			pix := d.FrameBuffer().Pixels()
			if pix[0] != 0 || pix[2] != 255 || pix[3] != 255 {
				t.Errorf("stored bytes = %v, want blue first", pix[:4])
			}
			if got := d.FrameBuffer().RGBA().RGBAAt(4, 4); got != red {
				t.Errorf("RGBA() = %v, want red", got)
			}

			var buf bytes.Buffer
			if err := d.Screenshot(&buf); err != nil {
				t.Fatal(err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if got := color.RGBAModel.Convert(img.At(4, 4)); got != red {
				t.Errorf("screenshot = %v, want red", got)
			}
		})
	}
}

func TestAlphaBlend(t *testing.T) {
	for _, n := range backends() {
		t.Run(n.String(), func(t *testing.T) {
			d := newDevice(t, n)
			drawQuads(t, d, VertexColored, quad(0, 0, size, size, -60, red))

			d.SetAlphaBlend(true)
			drawQuads(t, d, VertexColored, quad(16, 16, 48, 48, -50, color.RGBA{B: 255, A: 128}))

			got := pixel(d, 32, 32)
			if got.R < 120 || got.R > 136 || got.B < 120 || got.B > 136 || got.A != 255 {
				t.Errorf("blended = %v, want half red half blue", got)
			}
			if got := pixel(d, 4, 4); got != red {
				t.Errorf("outside = %v, want red", got)
			}
		})
	}
}

func TestAlphaTestDiscardsTexels(t *testing.T) {
	tex := image.NewRGBA(image.Rect(0, 0, 2, 1))
	tex.SetRGBA(0, 0, green)
	tex.SetRGBA(1, 0, color.RGBA{G: 255, A: 16})

	d := newDevice(t, NumericFloat)
	tx, err := d.CreateTexture(tex)
	if err != nil {
		t.Fatal(err)
	}
	d.BindTexture(tx)
	d.SetAlphaTest(true)
	drawQuads(t, d, VertexTextured, quad(0, 0, 32, 32, -50, white))

	if got := pixel(d, 8, 8); got != green {
		t.Errorf("opaque texel = %v, want green", got)
	}
	if got := pixel(d, 24, 8); got != black {
		t.Errorf("transparent texel = %v, want discarded", got)
	}
	if depth := d.DepthAt(24, 8); depth < 1 {
		t.Errorf("discarded texel wrote depth %v", depth)
	}
}

func TestDepthOnlyRendering(t *testing.T) {
	d := newDevice(t, NumericFloat)
	d.SetColorWrite(true, true, false, true)
	d.DepthOnlyRendering(true)
	drawQuads(t, d, VertexColored, quad(0, 0, 32, 32, -20, green))

	if n := countColor(d, green); n != 0 {
		t.Errorf("depth-only pass drew %d pixels", n)
	}
	if depth := d.DepthAt(8, 8); math.Abs(float64(depth)-0.2) > 1e-3 {
		t.Errorf("depth = %v, want 0.2", depth)
	}

	d.DepthOnlyRendering(false)
	// Behind the depth-only quad: hidden.
	drawQuads(t, d, VertexColored, quad(0, 0, 64, 64, -40, white))
	if got := pixel(d, 8, 8); got != black {
		t.Errorf("occluded pixel = %v", got)
	}
	// The restored mask keeps blue off.
	if got := pixel(d, 48, 48); got != (color.RGBA{R: 255, G: 255, A: 255}) {
		t.Errorf("masked pixel = %v, want blue channel kept", got)
	}
}

func TestScissor(t *testing.T) {
	d := newDevice(t, NumericFixed)
	d.SetScissor(0, 0, 16, 16)
	drawQuads(t, d, VertexColored, quad(0, 0, size, size, -50, green))
	if n := countColor(d, green); n != 16*16 {
		t.Errorf("scissored draw covered %d pixels, want 256", n)
	}

	d.SetScissor(-10, -10, 1000, 1000)
	drawQuads(t, d, VertexColored, quad(0, 0, size, size, -40, blue))
	if n := countColor(d, blue); n != size*size {
		t.Errorf("full scissor covered %d pixels", n)
	}
}

func TestViewport(t *testing.T) {
	d := newDevice(t, NumericFloat)
	d.SetViewport(0, 0, size/2, size/2)
	drawQuads(t, d, VertexColored, quad(0, 0, size, size, -50, green))

	if n := countColor(d, green); n != size*size/4 {
		t.Errorf("viewport draw covered %d pixels, want %d", n, size*size/4)
	}
	if got := pixel(d, 40, 40); got != black {
		t.Error("drew outside the viewport")
	}
}

func TestFog(t *testing.T) {
	for _, n := range backends() {
		t.Run(n.String(), func(t *testing.T) {
			d := newDevice(t, n)
			d.SetFogColor(blue)
			d.SetFogMode(FogLinear)
			d.SetFogEnd(1)
			d.SetFog(true)
			// Orthographic w is 1: every fragment is at the fog end.
			drawQuads(t, d, VertexColored, quad(0, 0, 32, 32, -50, green))

			got := pixel(d, 8, 8)
			if got.B < 250 || got.G > 5 {
				t.Errorf("fogged = %v, want fog color", got)
			}

			d.SetFog(false)
			drawQuads(t, d, VertexColored, quad(32, 32, 64, 64, -50, green))
			if got := pixel(d, 40, 40); got != green {
				t.Errorf("unfogged = %v, want green", got)
			}
		})
	}
}

func TestTextureOffset(t *testing.T) {
	d := newDevice(t, NumericFloat)
	tex, err := d.CreateTexture(checker2x2())
	if err != nil {
		t.Fatal(err)
	}
	d.BindTexture(tex)
	d.EnableTextureOffset(0.5, 0)
	drawQuads(t, d, VertexTextured, quad(0, 0, 32, 32, -50, white))
	if got := pixel(d, 4, 4); got != black {
		t.Errorf("offset texel = %v, want black", got)
	}

	d.DisableTextureOffset()
	drawQuads(t, d, VertexTextured, quad(0, 0, 32, 32, -40, white))
	if got := pixel(d, 4, 4); got != white {
		t.Errorf("texel = %v, want white", got)
	}
}

func TestTextureValidation(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		opts   []Option
		target error
	}{
		{"power of two", 64, 32, nil, nil},
		{"non power of two", 3, 4, nil, ErrTextureSize},
		{"empty", 0, 4, nil, ErrInvalidDimensions},
		{"too large", 128, 128, []Option{WithMaxTextureSize(64)}, ErrTextureTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDevice(t, NumericFloat, tt.opts...)
			tex, err := d.CreateTexture(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)))
			if !errors.Is(err, tt.target) {
				t.Fatalf("CreateTexture() error = %v, want %v", err, tt.target)
			}
			if err == nil && (tex.Width() != tt.w || tex.Height() != tt.h) {
				t.Errorf("size = %dx%d", tex.Width(), tex.Height())
			}
		})
	}
}

func TestCreateTextureConverts(t *testing.T) {
	// A gray image with a non-zero origin.
	src := image.NewGray(image.Rect(10, 10, 14, 12))
	src.Pix[0] = 200

	d := newDevice(t, NumericFloat)
	tex, err := d.CreateTexture(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := tex.Image().RGBAAt(0, 0); got != (color.RGBA{200, 200, 200, 255}) {
		t.Errorf("texel = %v", got)
	}
	if tex.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v", tex.Format())
	}
}

func TestUpdateTexture(t *testing.T) {
	d := newDevice(t, NumericFloat)
	tex, err := d.CreateTexture(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatal(err)
	}
	patch := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range patch.Pix {
		patch.Pix[i] = 255
	}

	if err := d.UpdateTexture(tex, 2, 2, patch); err != nil {
		t.Fatal(err)
	}
	if got := tex.Image().RGBAAt(3, 3); got != white {
		t.Errorf("updated texel = %v, want white", got)
	}
	if got := tex.Image().RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("untouched texel = %v", got)
	}
	if err := d.UpdateTexture(tex, 3, 3, patch); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("out-of-bounds update error = %v", err)
	}
}

func TestMemoryPressure(t *testing.T) {
	const fb = 16 * 16 * 8
	const texBytes = 16 * 16 * 4

	var (
		d     *Device
		live  []*Texture
		calls int
	)
	evict := func() bool {
		calls++
		if len(live) == 0 {
			return false
		}
		d.DeleteTexture(live[0])
		live = live[1:]
		return true
	}
	d, err := New(16, 16, WithMemoryLimit(fb+texBytes+texBytes/2), WithMemoryPressureHook(evict))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < 3; i++ {
		tex, err := d.CreateTexture(img)
		if err != nil {
			t.Fatalf("texture %d: %v", i, err)
		}
		live = append(live, tex)
	}
	if calls != 2 || len(live) != 1 {
		t.Errorf("hook calls = %d, live = %d; want 2 and 1", calls, len(live))
	}
	if used := d.Info().MemoryUsed; used != fb+texBytes {
		t.Errorf("MemoryUsed = %d, want %d", used, fb+texBytes)
	}

	// Nothing left to free.
	live = nil
	if _, err := d.CreateTexture(image.NewRGBA(image.Rect(0, 0, 32, 32))); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("error = %v, want ErrOutOfMemory", err)
	}
}

func TestMemoryPressureRetryLimit(t *testing.T) {
	calls := 0
	liar := func() bool { calls++; return true }
	d, err := New(4, 4, WithMemoryLimit(4*4*8), WithMemoryPressureHook(liar))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if _, err := d.CreateVertexBuffer(VertexTextured, 4); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("error = %v, want ErrOutOfMemory", err)
	}
	if calls != maxPressureRetries {
		t.Errorf("hook called %d times, want %d", calls, maxPressureRetries)
	}
}

func TestPaddedSurface(t *testing.T) {
	const pad = 24
	for _, n := range backends() {
		t.Run(n.String(), func(t *testing.T) {
			s := surface.NewImageSurface(pad)
			d := newDevice(t, n, WithSurface(s))
			d.SetClearColor(blue)
			d.Clear(ClearColor)
			drawQuads(t, d, VertexColored, quad(size-16, 0, size, 16, -50, green))

			fb := d.FrameBuffer()
			if fb.Stride() != size*4+pad {
				t.Fatalf("Stride = %d, want %d", fb.Stride(), size*4+pad)
			}
			pix := fb.Pixels()
			for y := 0; y < size-1; y++ {
				for _, b := range pix[y*fb.Stride()+size*4 : (y+1)*fb.Stride()] {
					if b != 0 {
						t.Fatalf("row %d padding written", y)
					}
				}
			}

			if err := d.EndFrame(); err != nil {
				t.Fatal(err)
			}
			snap := s.Snapshot()
			if got := snap.RGBAAt(size-1, 0); got != green {
				t.Errorf("last column = %v, want green", got)
			}
			if got := snap.RGBAAt(0, size-1); got != blue {
				t.Errorf("cleared pixel = %v, want blue", got)
			}
			if s.Frames() != 1 {
				t.Errorf("Frames() = %d, want 1", s.Frames())
			}
		})
	}
}

func TestResize(t *testing.T) {
	d := newDevice(t, NumericFloat, WithMemoryLimit(1<<20))
	if err := d.OnWindowResize(32, 16); err != nil {
		t.Fatal(err)
	}
	if w, h := d.FrameBuffer().Width(), d.FrameBuffer().Height(); w != 32 || h != 16 {
		t.Errorf("size = %dx%d, want 32x16", w, h)
	}
	if used := d.Info().MemoryUsed; used != 32*16*8 {
		t.Errorf("MemoryUsed = %d, want %d", used, 32*16*8)
	}

	// The viewport follows the new size.
	d.LoadMVP(Identity(), Orthographic(32, 16, 0, 100))
	drawQuads(t, d, VertexColored, quad(0, 0, 32, 16, -50, green))
	if n := countColor(d, green); n != 32*16 {
		t.Errorf("covered %d pixels, want %d", n, 32*16)
	}

	if err := d.OnWindowResize(0, 16); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("error = %v, want ErrInvalidDimensions", err)
	}
}

func TestResizeOutOfMemory(t *testing.T) {
	const fb = size * size * 8
	d := newDevice(t, NumericFloat, WithMemoryLimit(fb+fb/4))

	if err := d.OnWindowResize(2*size, 2*size); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("error = %v, want ErrOutOfMemory", err)
	}
	if used := d.Info().MemoryUsed; used != fb {
		t.Errorf("MemoryUsed = %d, want %d for the kept framebuffer", used, fb)
	}
	if w := d.FrameBuffer().Width(); w != size {
		t.Errorf("width = %d, want %d", w, size)
	}

	drawQuads(t, d, VertexColored, quad(0, 0, size, size, -50, green))
	if n := countColor(d, green); n != size*size {
		t.Errorf("covered %d pixels after failed resize, want %d", n, size*size)
	}
}

func TestDrawRange(t *testing.T) {
	d := newDevice(t, NumericFloat)
	vb, err := d.CreateVertexBuffer(VertexColored, 8)
	if err != nil {
		t.Fatal(err)
	}
	copy(vb.Vertices(), quad(0, 0, 8, 8, -50, red))
	copy(vb.Vertices()[4:], quad(8, 8, 16, 16, -50, green))
	d.BindVertexBuffer(vb)

	tests := []struct {
		name         string
		count, start int
		wantQuads    int
	}{
		{"all", 8, 0, 2},
		{"second", 4, 4, 1},
		{"clamped", 100, 4, 1},
		{"past end", 4, 8, 0},
		{"negative start", 4, -4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d.BeginFrame()
			d.DrawIndexedTriangles(tt.count, tt.start)
			if got := d.Info().Stats.Quads; got != tt.wantQuads {
				t.Errorf("Quads = %d, want %d", got, tt.wantQuads)
			}
		})
	}

	d.DeleteVertexBuffer(vb)
	d.BeginFrame()
	d.DrawIndexedTriangles(8, 0)
	if d.Info().Stats.Quads != 0 {
		t.Error("deleted buffer still drawn")
	}
}

func TestMode2D(t *testing.T) {
	for _, n := range backends() {
		t.Run(n.String(), func(t *testing.T) {
			d := newDevice(t, n)
			drawQuads(t, d, VertexColored, quad(0, 0, size, size, -10, red))

			d.Begin2D()
			// Pixel coordinates and no depth test against the 3D quad.
			drawQuads(t, d, VertexColored, quad(4, 4, 12, 12, 0, green))
			d.End2D()

			if got := countColor(d, green); got != 64 {
				t.Errorf("2D quad covered %d pixels, want 64", got)
			}
			drawQuads(t, d, VertexColored, quad(0, 0, size, size, -50, blue))
			if got := pixel(d, 30, 30); got != red {
				t.Errorf("depth test not restored after End2D: %v", got)
			}
		})
	}
}

func TestSpriteHint(t *testing.T) {
	tex := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range tex.Pix {
		tex.Pix[i] = 255
	}
	tex.SetRGBA(7, 7, green)

	d := newDevice(t, NumericFloat)
	tx, err := d.CreateTexture(tex)
	if err != nil {
		t.Fatal(err)
	}
	vb, err := d.CreateVertexBuffer(VertexTextured, 4)
	if err != nil {
		t.Fatal(err)
	}
	copy(vb.Vertices(), quad(20, 20, 28, 28, 0, white))

	d.SetVertexFormat(VertexTextured)
	d.BindTexture(tx)
	d.BindVertexBuffer(vb)
	d.Begin2D()
	d.DrawIndexedTrianglesHint(4, 0, HintSprite)
	d.End2D()

	if got := pixel(d, 27, 27); got != green {
		t.Errorf("last texel = %v, want green", got)
	}
	if got := countColor(d, white) + countColor(d, green); got != 64 {
		t.Errorf("sprite covered %d pixels, want 64", got)
	}
}

func TestScreenshot(t *testing.T) {
	d := newDevice(t, NumericFixed, WithSurface(surface.NewImageSurface(16)))
	drawQuads(t, d, VertexColored, quad(0, 0, 16, 16, -50, green))

	var buf bytes.Buffer
	if err := d.Screenshot(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, size, size) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if got := color.RGBAModel.Convert(img.At(8, 8)); got != green {
		t.Errorf("pixel = %v, want green", got)
	}
}

func TestClose(t *testing.T) {
	d, err := New(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Error("second Close failed")
	}
	if err := d.EndFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("EndFrame after Close error = %v", err)
	}
	if err := d.Screenshot(&bytes.Buffer{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Screenshot after Close error = %v", err)
	}
}

func TestBlendIn2D(t *testing.T) {
	d := newDevice(t, NumericFloat)
	drawQuads(t, d, VertexColored, quad(0, 0, size, size, -10, red))

	d.Begin2D()
	d.SetAlphaBlend(true)
	d.SetDepthTest(true)
	drawQuads(t, d, VertexColored, quad(40, 40, 48, 48, 0, color.RGBA{B: 255, A: 128}))
	d.End2D()

	got := pixel(d, 44, 44)
	if got.R < 120 || got.R > 136 || got.B < 120 || got.B > 136 {
		t.Errorf("2D blend = %v, want half red half blue", got)
	}
	// Depth test was deferred, blending carried over.
	drawQuads(t, d, VertexColored, quad(0, 0, 8, 8, -50, color.RGBA{B: 255, A: 128}))
	if got := pixel(d, 4, 4); got != red {
		t.Errorf("far quad = %v, want hidden by depth", got)
	}
}

func TestScissorStack(t *testing.T) {
	d := newDevice(t, NumericFloat)
	d.PushScissor(0, 0, 32, 32)
	d.PushScissor(16, 16, 32, 32)
	drawQuads(t, d, VertexColored, quad(0, 0, size, size, -50, green))
	if n := countColor(d, green); n != 16*16 {
		t.Errorf("nested scissor covered %d pixels, want 256", n)
	}

	d.PopScissor()
	drawQuads(t, d, VertexColored, quad(0, 0, size, size, -40, blue))
	if n := countColor(d, blue); n != 32*32 {
		t.Errorf("outer scissor covered %d pixels, want 1024", n)
	}

	d.PopScissor()
	drawQuads(t, d, VertexColored, quad(0, 0, size, size, -30, red))
	if n := countColor(d, red); n != size*size {
		t.Errorf("unscissored draw covered %d pixels", n)
	}
}
