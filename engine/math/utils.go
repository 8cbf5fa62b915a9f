package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Lerp linearly interpolates between a and b.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// ToByte converts a [0,1] channel to 0..255.
func ToByte(f float32) uint8 {
	return uint8(Clamp(f, 0, 1)*255 + 0.5)
}

// FromByte converts a 0..255 channel to [0,1].
func FromByte(b uint8) float32 {
	return float32(b) / 255
}
