package softgpu

// Numeric selects the scalar representation used by the pipeline.
type Numeric uint8

const (
	// NumericFloat runs the pipeline on float32.
	NumericFloat Numeric = iota
	// NumericFixed runs the pipeline on 16.16 fixed point.
	NumericFixed
)

// String returns the backend name.
func (n Numeric) String() string {
	switch n {
	case NumericFloat:
		return "float"
	case NumericFixed:
		return "fixed"
	default:
		return "unknown"
	}
}
