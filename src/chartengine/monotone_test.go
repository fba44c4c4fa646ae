package chartengine

import (
	"testing"
)

func TestMonotonePath_PassesThroughKnots(t *testing.T) {
	knots := []Point{{0, 100}, {50, 60}, {100, 80}, {150, 20}}
	path := monotonePath(knots)
	if len(path) != (len(knots)-1)*curveSteps+1 {
		t.Fatalf("unexpected path length %d", len(path))
	}
	for i, k := range knots {
		p := path[i*curveSteps]
		if absf(p.X-k.X) > 1e-9 || absf(p.Y-k.Y) > 1e-9 {
			t.Fatalf("knot %d not on path: %v vs %v", i, p, k)
		}
	}
}

func TestMonotonePath_XStrictlyIncreasing(t *testing.T) {
	knots := []Point{{0, 10}, {30, 40}, {60, 40}, {90, 5}}
	path := monotonePath(knots)
	for i := 1; i < len(path); i++ {
		if path[i].X <= path[i-1].X {
			t.Fatalf("x not increasing at %d: %v then %v", i, path[i-1], path[i])
		}
	}
}

// A monotone run of knot values must not overshoot between knots.
func TestMonotonePath_NoOvershoot(t *testing.T) {
	knots := []Point{{0, 100}, {40, 90}, {80, 50}, {120, 48}, {160, 10}}
	path := monotonePath(knots)
	for i := 1; i < len(path); i++ {
		if path[i].Y > path[i-1].Y+1e-9 {
			t.Fatalf("descending run overshoots at %d: %v then %v", i, path[i-1], path[i])
		}
	}
	if path[0].Y != 100 || path[len(path)-1].Y != 10 {
		t.Fatalf("endpoints moved: %v .. %v", path[0], path[len(path)-1])
	}
}

func TestMonotonePath_ShortInputsUnchanged(t *testing.T) {
	if got := monotonePath(nil); len(got) != 0 {
		t.Fatalf("nil input: %v", got)
	}
	two := []Point{{0, 1}, {10, 2}}
	got := monotonePath(two)
	if len(got) != 2 || got[0] != two[0] || got[1] != two[1] {
		t.Fatalf("two knots must pass through unchanged: %v", got)
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
