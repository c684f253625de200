//go:build softgpu_fixed

package softgpu

const defaultNumeric = NumericFixed
