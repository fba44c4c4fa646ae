package chartengine

import (
	"fmt"
	"math"
)

// linearScale maps a data domain onto a pixel range. The y scale is built with
// r0 > r1 so larger values land higher on screen.
type linearScale struct {
	d0, d1 float64
	r0, r1 float64
}

func (s linearScale) apply(v float64) float64 {
	if s.d1 == s.d0 {
		return s.r0
	}
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Tick is one labelled axis position in data space.
type Tick struct {
	Value float64
	Label string
}

// Reference value the intake percentages are measured against, and the floor
// the y domain may not rise above so the band under it stays visible.
const (
	referenceValue = 100.0
	domainFloor    = 90.0
)

// yDomain computes the y axis bounds for the currently visible values:
// the lower bound is min(domainFloor, observed min), the upper the observed
// max, both rounded outward to a nice tick step. An empty or all-NaN set gets
// a fallback domain around the reference value.
func yDomain(minV, maxV float64) (float64, float64) {
	if math.IsNaN(minV) || math.IsNaN(maxV) || minV > maxV {
		return domainFloor, referenceValue + 10
	}
	lo := math.Min(domainFloor, minV)
	hi := maxV
	if hi <= lo {
		hi = lo + 1
	}
	step := niceStep(lo, hi, 6)
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step
	return lo, hi
}

// niceStep picks a tick increment from 1/2/2.5/5/10 scaled by the span's
// order of magnitude, aiming for about n ticks.
func niceStep(min, max float64, n int) float64 {
	if n < 2 {
		n = 2
	}
	span := max - min
	if span <= 0 {
		span = 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	return bestStep
}

// niceTicks generates up to about n tick marks between [min, max] on nice
// increments.
func niceTicks(min, max float64, n int) []Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	step := niceStep(min, max, n)
	start := math.Ceil(min/step) * step
	ticks := []Tick{}
	for v := start; v <= max+step/2; v += step {
		ticks = append(ticks, Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
