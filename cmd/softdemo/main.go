// Command softdemo renders a scene with the softgpu software pipeline and
// saves it as PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/softgpu"
	"github.com/gogpu/softgpu/surface"
)

func main() {
	var (
		width    = flag.Int("width", 320, "framebuffer width")
		height   = flag.Int("height", 200, "framebuffer height")
		scale    = flag.Int("scale", 2, "integer upscale of the saved image")
		scene    = flag.String("scene", "", "YAML scene file (built-in scene if empty)")
		output   = flag.String("output", "softdemo.png", "output file")
		useFixed = flag.Bool("fixed", false, "use the 16.16 fixed-point pipeline")
		surfName = flag.String("surface", "image", "surface backend: "+strings.Join(surface.List(), ", "))
		memLimit = flag.Int64("mem", 0, "memory limit in bytes (0 = unlimited)")
		bgra     = flag.Bool("bgra", false, "render into a BGRA8 color buffer")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		softgpu.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	s, err := loadScene(*scene)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	surf, err := surface.NewSurfaceByName(*surfName, surface.Options{})
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}
	defer surf.Close()

	numeric := softgpu.NumericFloat
	if *useFixed {
		numeric = softgpu.NumericFixed
	}
	format := gputypes.TextureFormatRGBA8Unorm
	if *bgra {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	dev, err := softgpu.New(*width, *height,
		softgpu.WithNumeric(numeric),
		softgpu.WithSurface(surf),
		softgpu.WithSurfaceFormat(format),
		softgpu.WithMemoryLimit(*memLimit))
	if err != nil {
		log.Fatalf("Failed to create device: %v", err)
	}
	defer dev.Close()

	if err := render(dev, s); err != nil {
		// Out of memory is fatal for the host.
		log.Fatalf("Failed to render: %v", err)
	}
	info := dev.Info()

	if err := save(*output, dev.FrameBuffer().RGBA(), *scale); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Rendered %s with the %s pipeline: %d quads (%d clipped), %d triangles, %d pixels",
		*output, info.Backend, info.Stats.Quads, info.Stats.Clipped, info.Stats.Triangles, info.Stats.Pixels)
}

// save writes img upscaled by an integer factor.
func save(path string, img *image.RGBA, scale int) error {
	out := image.Image(img)
	if scale > 1 {
		r := img.Rect
		dst := image.NewRGBA(image.Rect(0, 0, r.Dx()*scale, r.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Rect, img, r, draw.Src, nil)
		out = dst
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
