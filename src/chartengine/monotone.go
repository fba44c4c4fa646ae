package chartengine

import "math"

// Point is a pixel-space coordinate.
type Point struct {
	X, Y float64
}

// samples per knot interval when densifying a smoothed path
const curveSteps = 8

// monotonePath densifies a polyline through the given knots using
// Fritsch-Carlson monotone cubic interpolation: the curve passes through every
// knot and never overshoots between adjacent knots, so a monotone run of
// values stays monotone on screen. Knots must be ordered by strictly
// increasing X. Fewer than two knots yield the knots unchanged.
func monotonePath(knots []Point) []Point {
	n := len(knots)
	if n < 3 {
		out := make([]Point, n)
		copy(out, knots)
		return out
	}

	// interval secant slopes
	h := make([]float64, n-1)
	delta := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = knots[i+1].X - knots[i].X
		delta[i] = (knots[i+1].Y - knots[i].Y) / h[i]
	}

	// knot tangents, clamped so no interval overshoots
	m := make([]float64, n)
	m[0] = delta[0]
	m[n-1] = delta[n-2]
	for i := 1; i < n-1; i++ {
		if delta[i-1]*delta[i] <= 0 {
			m[i] = 0
		} else {
			m[i] = (delta[i-1] + delta[i]) / 2
		}
	}
	for i := 0; i < n-1; i++ {
		if delta[i] == 0 {
			m[i] = 0
			m[i+1] = 0
			continue
		}
		a := m[i] / delta[i]
		b := m[i+1] / delta[i]
		if s := a*a + b*b; s > 9 {
			t := 3 / math.Sqrt(s)
			m[i] = t * a * delta[i]
			m[i+1] = t * b * delta[i]
		}
	}

	out := make([]Point, 0, (n-1)*curveSteps+1)
	out = append(out, knots[0])
	for i := 0; i < n-1; i++ {
		for s := 1; s <= curveSteps; s++ {
			t := float64(s) / curveSteps
			out = append(out, hermite(knots[i], knots[i+1], m[i], m[i+1], h[i], t))
		}
	}
	return out
}

// hermite evaluates the cubic Hermite basis on one interval at parameter t.
func hermite(p0, p1 Point, m0, m1, h, t float64) Point {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return Point{
		X: p0.X + t*h,
		Y: h00*p0.Y + h10*h*m0 + h01*p1.Y + h11*h*m1,
	}
}
