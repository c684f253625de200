// Package softgpu is a software 3D rendering device for targets without a GPU.
//
// # Overview
//
// softgpu draws flat-colored and textured quads through a complete fixed
// function pipeline on the CPU: vertex transform, homogeneous clipping against
// the six frustum planes, viewport mapping, perspective-correct edge-function
// rasterization, depth test, texture sampling, alpha test and alpha blend.
// The same pipeline runs on float32 or on 16.16 fixed point.
//
// # Quick Start
//
//	import "github.com/gogpu/softgpu"
//
//	dev, err := softgpu.New(320, 240)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	dev.LoadMVP(softgpu.Identity(), softgpu.Perspective(1.2, 4.0/3, 0.1, 100))
//	vb, _ := dev.CreateVertexBuffer(softgpu.VertexTextured, 4)
//	copy(vb.Vertices(), quad)
//	dev.BindVertexBuffer(vb)
//
//	dev.BeginFrame()
//	dev.Clear(softgpu.ClearColor | softgpu.ClearDepth)
//	dev.DrawIndexedTriangles(4, 0)
//	dev.EndFrame()
//
// # Numeric Backends
//
// WithNumeric selects float32 or fixed point at construction. Builds with the
// softgpu_fixed tag default to fixed point, for hardware without an FPU.
//
// # Coordinate System
//
// Matrices are row-major with translation in the last row and vertices are
// row vectors, so MVP = View * Proj. Perspective and Orthographic are
// right-handed and map depth to [0, 1]. Screen space has the origin at the
// top-left, y increasing down. Front faces wind clockwise after projection.
//
// # Presentation
//
// The color buffer is owned by a surface.Surface. EndFrame presents it. The
// default surface keeps frames in memory.
package softgpu

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
