package utils

import "math"

const (
	NODETOL = 1.e-12
)

// Near compares with a tolerance relative to the larger magnitude, floored at one
func Near(a, b float64, tol ...float64) bool {
	t := NODETOL
	if len(tol) != 0 {
		t = tol[0]
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= t*scale
}
