package rgbm

import "math"

const (
	// Range is the multiplier applied on decode.
	Range = 16.0

	// MaxInput is the largest linear component accepted before clamping.
	MaxInput = 65504.0

	// delta keeps the multiplier away from zero for black input.
	delta = 1e-5

	// tonemapThreshold is the gamma-space maximum above which values are
	// leveled off.
	tonemapThreshold = 0.75
)

// Encode converts a linear color to RGBM. The input alpha is ignored.
// Negative and NaN components encode as 0.
func Encode(c LinearColor) Color {
	r := float32(math.Sqrt(float64(sanitize(c.R)))) / Range
	g := float32(math.Sqrt(float64(sanitize(c.G)))) / Range
	b := float32(math.Sqrt(float64(sanitize(c.B)))) / Range

	m := max(r, g, b, delta)
	if m > tonemapThreshold {
		t := (m - tonemapThreshold*tonemapThreshold) / (m - 0.5)
		s := t / m
		r, g, b = r*s, g*s, b*s
		m = t
	}

	a := clamp(float32(math.Ceil(float64(m*255))), 1, 255)
	return Color{
		R: quantize(r, a),
		G: quantize(g, a),
		B: quantize(b, a),
		A: uint8(a),
	}
}

func quantize(v, a float32) uint8 {
	return uint8(clamp(float32(math.Round(float64(v*255/a*255))), 0, 255))
}

// Decode converts an RGBM texel back to linear color with alpha 1.
func Decode(c Color) LinearColor {
	scale := float32(c.A) / 255 * Range
	dec := func(v uint8) float32 {
		g := float32(v) / 255 * scale
		return g * g
	}
	return LinearColor{R: dec(c.R), G: dec(c.G), B: dec(c.B), A: 1}
}

// IsDegenerate reports whether encoding c relies on clamping: a component
// is NaN, negative or out of range, or the multiplier would round to zero.
func IsDegenerate(c LinearColor) bool {
	if !clean(c.R) || !clean(c.G) || !clean(c.B) {
		return true
	}
	m := float32(math.Sqrt(float64(max(c.R, c.G, c.B)))) / Range
	return math.Ceil(float64(m*255)) < 1
}
