package math

import "golang.org/x/exp/constraints"

// Lerp maps the unit fraction p onto [lo, hi]. The endpoints are returned
// exactly for p == 0 and p == 1.
func Lerp[T constraints.Float](p, lo, hi T) T {
	switch p {
	case 0:
		return lo
	case 1:
		return hi
	}
	return lo + (hi-lo)*p
}

// Clamp01 limits v to the unit interval.
func Clamp01[T constraints.Float](v T) T {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Range is a fixed (lo, hi) pair a unit fraction is interpolated into.
type Range struct {
	Lo, Hi float32
}

// At interpolates the fraction p (float64, as stored in parameter sets)
// into the range.
func (r Range) At(p float64) float32 {
	return Lerp(float32(p), r.Lo, r.Hi)
}
