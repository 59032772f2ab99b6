package core

import "math"

// Quadratic solves a*t^2 + b*t + c = 0 and returns the real roots in ascending
// order. It uses the cancellation-free form q = -(b + sign(b)*sqrt(disc))/2.
func Quadratic(a, b, c float64) (t0, t1 float64, ok bool) {
	if a == 0 {
		if b == 0 {
			return 0, 0, false
		}
		t := -c / b
		return t, t, true
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, 0, false
	}

	root := math.Sqrt(discriminant)
	var q float64
	if b < 0 {
		q = -0.5 * (b - root)
	} else {
		q = -0.5 * (b + root)
	}

	if q == 0 {
		// b and c are both zero
		return 0, 0, true
	}

	t0 = q / a
	t1 = c / q
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}
