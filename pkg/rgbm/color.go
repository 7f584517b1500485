// Package rgbm encodes linear HDR color into 8-bit RGBM and packs whole
// cubemap mip chains with their face seams averaged.
//
// RGBM stores a gamma-space color scaled by a shared multiplier in alpha:
//
//	gamma = RGB/255 * A/255 * Range
//	linear = gamma^2
//
// Values that would exceed the encodable range are leveled off with a soft
// tonemap before quantization.
package rgbm

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// LinearColor is an RGBA color with float32 components in linear space.
type LinearColor struct {
	R, G, B, A float32
}

// Color is an RGBM-encoded texel.
type Color struct {
	R, G, B, A uint8
}

// Add returns the component-wise sum of c and o.
func (c LinearColor) Add(o LinearColor) LinearColor {
	return LinearColor{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Scale returns c with every component multiplied by s.
func (c LinearColor) Scale(s float32) LinearColor {
	return LinearColor{c.R * s, c.G * s, c.B * s, c.A * s}
}

// String returns a human-readable color representation.
func (c LinearColor) String() string {
	return fmt.Sprintf("RGBA(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}

// String returns a human-readable color representation.
func (c Color) String() string {
	return fmt.Sprintf("RGBM(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}

// Hex returns the texel as a hex string (#RRGGBBAA).
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sanitize maps NaN and negative components to 0 and caps infinities at
// the largest finite half-float value.
func sanitize(v float32) float32 {
	if v != v || v < 0 {
		return 0
	}
	return float32(math.Min(float64(v), MaxInput))
}

// clean reports whether v is encodable without sanitizing.
func clean(v float32) bool {
	return v == v && v >= 0 && v <= MaxInput
}
