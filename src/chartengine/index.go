package chartengine

import (
	"math"

	"github.com/zivadanika/UK-Household-Nutrition-Visualisation/src/dataset"
)

// Sample is one (record, year) pair flattened into pixel space. Samples are
// rebuilt from scratch on every data update; indices are only valid against
// the index that produced them.
type Sample struct {
	X, Y    float64
	Record  int // index into the visible record slice
	YearIdx int // index into the year domain
}

// sampleIndex answers nearest-sample queries for the pointer controller.
// A linear scan is deliberate: the domain tops out at a few hundred points,
// so a tree buys nothing over seeding the scan with the previous hit.
type sampleIndex struct {
	samples []Sample
}

// buildSampleIndex flattens every non-NaN value of the visible records into a
// pixel-space sample. Sample order follows record order, then year order,
// which fixes the tie-break for equidistant queries.
func buildSampleIndex(visible []dataset.Record, xs, ys linearScale) *sampleIndex {
	idx := &sampleIndex{}
	for ri, rec := range visible {
		for yi, v := range rec.Values {
			if math.IsNaN(v) {
				continue
			}
			idx.samples = append(idx.samples, Sample{
				X:       xs.apply(float64(yi)),
				Y:       ys.apply(v),
				Record:  ri,
				YearIdx: yi,
			})
		}
	}
	return idx
}

// nearest returns the index of the sample closest to (px, py) by Euclidean
// distance, or ok=false when the index is empty. hint, when >= 0, seeds the
// scan with a previous result so small pointer motions start near the answer.
// Ties resolve to the lowest sample index.
func (s *sampleIndex) nearest(px, py float64, hint int) (int, bool) {
	if len(s.samples) == 0 {
		return 0, false
	}
	best := -1
	bestD := math.Inf(1)
	if hint >= 0 && hint < len(s.samples) {
		best = hint
		bestD = sqDist(s.samples[hint], px, py)
	}
	for i, sm := range s.samples {
		d := sqDist(sm, px, py)
		if d < bestD || (d == bestD && (best < 0 || i < best)) {
			bestD = d
			best = i
		}
	}
	return best, true
}

func sqDist(s Sample, px, py float64) float64 {
	dx := s.X - px
	dy := s.Y - py
	return dx*dx + dy*dy
}
