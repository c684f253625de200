// Package blend implements the per-pixel color operations of the rasterizer:
// texture modulation, alpha blending, fog mixing and the color write mask.
//
// All channels are 8-bit. Products are scaled back with the shift form of a
// divide by 255, (x + 255) >> 8, which is exact at both ends of the range:
// x*255 maps to x and x*0 maps to 0.
package blend

// div255 divides x by 255 with a shift.
//
// The result is at most one above x/255 for x in [0, 255*255].
func div255(x uint16) uint16 {
	return (x + 255) >> 8
}

// mulDiv255 returns a*b/255 with the shift approximation.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint16(a) * uint16(b)))
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// mix returns a*w + b*(255-w), the shared kernel of blending and fog.
func mix(a, b, w byte) byte {
	return addClamp(mulDiv255(a, w), mulDiv255(b, 255-w))
}
