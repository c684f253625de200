package clip

import "image"

// ScissorStack manages nested pixel clip rectangles. Each Push narrows the
// current rectangle to its intersection with the pushed one; Pop restores it.
type ScissorStack struct {
	prev   []image.Rectangle
	bounds image.Rectangle
	full   image.Rectangle
}

// NewScissorStack creates a stack whose outermost rectangle is full,
// typically the framebuffer bounds.
func NewScissorStack(full image.Rectangle) *ScissorStack {
	return &ScissorStack{
		prev:   make([]image.Rectangle, 0, 8),
		bounds: full,
		full:   full,
	}
}

// Push narrows the current rectangle to r.
func (s *ScissorStack) Push(r image.Rectangle) {
	s.prev = append(s.prev, s.bounds)
	s.bounds = s.bounds.Intersect(r)
}

// Pop restores the rectangle before the last Push. It is a no-op on an
// empty stack.
func (s *ScissorStack) Pop() {
	if len(s.prev) == 0 {
		return
	}
	last := len(s.prev) - 1
	s.bounds = s.prev[last]
	s.prev = s.prev[:last]
}

// Bounds returns the current rectangle.
func (s *ScissorStack) Bounds() image.Rectangle { return s.bounds }

// Active reports whether the current rectangle is smaller than the full one.
func (s *ScissorStack) Active() bool { return s.bounds != s.full }

// Depth returns the number of pushed rectangles.
func (s *ScissorStack) Depth() int { return len(s.prev) }

// Reset empties the stack and sets a new outermost rectangle.
func (s *ScissorStack) Reset(full image.Rectangle) {
	s.prev = s.prev[:0]
	s.bounds = full
	s.full = full
}
