package raster

import (
	"image/color"

	"github.com/chewxy/math32"
)

// FogMode selects the fog falloff.
type FogMode uint8

const (
	FogLinear FogMode = iota // visibility = (end - d) / end
	FogExp                   // visibility = e^(-density*d)
	FogExp2                  // visibility = e^(-(density*d)^2)
)

// String returns the mode name.
func (f FogMode) String() string {
	switch f {
	case FogLinear:
		return "linear"
	case FogExp:
		return "exp"
	case FogExp2:
		return "exp2"
	default:
		return "unknown"
	}
}

// Fog holds the fog parameters.
type Fog struct {
	Enabled bool
	Mode    FogMode
	Color   color.RGBA
	Density float32
	End     float32
}

const fogSteps = 256

// fogTable maps eye distance to visibility. Entry i covers distance
// i*span/255; anything beyond span is fully fogged.
type fogTable struct {
	vis  [fogSteps]uint8
	span float32
}

// logVisible is ln(255): the exponent at which exp fog drops below one step.
var logVisible = math32.Log(255)

func buildFogTable(f Fog) fogTable {
	var t fogTable
	switch f.Mode {
	case FogExp:
		t.span = logVisible / max(f.Density, 1e-6)
	case FogExp2:
		t.span = math32.Sqrt(logVisible) / max(f.Density, 1e-6)
	default:
		t.span = max(f.End, 1e-6)
	}

	for i := range t.vis {
		d := float32(i) * t.span / (fogSteps - 1)
		var v float32
		switch f.Mode {
		case FogExp:
			v = math32.Exp(-f.Density * d)
		case FogExp2:
			dd := f.Density * d
			v = math32.Exp(-dd * dd)
		default:
			v = (t.span - d) / t.span
		}
		t.vis[i] = uint8(max(0, min(255, math32.Round(v*255))))
	}
	t.vis[fogSteps-1] = 0
	return t
}

// visibility returns the table entry for a distance index, clamping to the
// table range.
func (t *fogTable) visibility(i int) uint8 {
	if i <= 0 {
		return t.vis[0]
	}
	if i >= fogSteps {
		return 0
	}
	return t.vis[i]
}
