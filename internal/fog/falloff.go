package fog

import (
	"fmt"
	"strings"
)

// DefaultInnerRatio is the fraction of the radius that is fully cleared.
const DefaultInnerRatio = 0.2

// Falloff names the curve used between the inner hard-clear zone and the rim.
type Falloff int

const (
	FalloffLinear Falloff = iota
	FalloffSmooth
)

func (f Falloff) String() string {
	if f == FalloffSmooth {
		return "smooth"
	}
	return "linear"
}

// ParseFalloff accepts "linear" or "smooth".
func ParseFalloff(s string) (Falloff, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return FalloffLinear, nil
	case "smooth", "smoothstep":
		return FalloffSmooth, nil
	}
	return FalloffLinear, fmt.Errorf("unknown falloff %q (supported: linear, smooth)", s)
}

// EraseAlpha returns the erase strength at normalised distance t. It is 1 up
// to inner, 0 from 1 outward, and non-increasing in between.
func (f Falloff) EraseAlpha(t, inner float64) float64 {
	if inner < 0 {
		inner = 0
	}
	if inner >= 1 {
		if t <= 1 {
			return 1
		}
		return 0
	}
	switch {
	case t != t: // NaN
		return 0
	case t <= inner:
		return 1
	case t >= 1:
		return 0
	}
	u := 1 - (t-inner)/(1-inner)
	if f == FalloffSmooth {
		u = u * u * (3 - 2*u)
	}
	return u
}

// AlphaFunc binds the falloff to an inner ratio.
func (f Falloff) AlphaFunc(inner float64) AlphaFunc {
	return func(t float64) float64 { return f.EraseAlpha(t, inner) }
}
