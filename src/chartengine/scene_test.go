package chartengine

import (
	"math"
	"testing"

	"github.com/zivadanika/UK-Household-Nutrition-Visualisation/src/dataset"
)

func labelNode(val, naturalY float64) *SeriesNode {
	return &SeriesNode{
		HasLabel:   true,
		FinalValue: val,
		Label:      Label{NaturalY: naturalY, Y: naturalY},
	}
}

// Two labels whose natural positions are 8px apart end up exactly 12px apart,
// with the lower-valued one untouched.
func TestLayoutLabels_PushesCrowdedLabelUp(t *testing.T) {
	low := labelNode(100, 200)  // bottom label
	high := labelNode(104, 192) // 8px above, too close
	layoutLabels([]*SeriesNode{high, low})

	if low.Label.Y != 200 {
		t.Fatalf("bottom label moved: got %v want 200", low.Label.Y)
	}
	if high.Label.Y != 188 {
		t.Fatalf("pushed label: got %v want 188", high.Label.Y)
	}
	if gap := low.Label.Y - high.Label.Y; gap != labelGap {
		t.Fatalf("gap: got %v want %v", gap, labelGap)
	}
}

func TestLayoutLabels_UncrowdedStayNatural(t *testing.T) {
	a := labelNode(95, 260)
	b := labelNode(105, 180)
	layoutLabels([]*SeriesNode{a, b})
	if a.Label.Y != 260 || b.Label.Y != 180 {
		t.Fatalf("well-separated labels must keep natural positions: %v, %v", a.Label.Y, b.Label.Y)
	}
}

// Separation invariant: after the pass every adjacent pair (by final value)
// is at least labelGap apart, even when many labels share one position.
func TestLayoutLabels_SeparationInvariant(t *testing.T) {
	nodes := []*SeriesNode{
		labelNode(100, 150),
		labelNode(100.1, 150),
		labelNode(100.2, 150),
		labelNode(100.3, 150),
		labelNode(99, 152),
	}
	layoutLabels(nodes)

	ys := []float64{}
	for _, n := range nodes {
		ys = append(ys, n.Label.Y)
	}
	// resort by final value to check adjacency bottom-up
	order := []int{4, 0, 1, 2, 3}
	for i := 1; i < len(order); i++ {
		below := nodes[order[i-1]].Label.Y
		above := nodes[order[i]].Label.Y
		if below-above < labelGap-1e-9 {
			t.Fatalf("labels %d/%d too close: %v then %v (all: %v)", order[i-1], order[i], below, above, ys)
		}
	}
	// pushes go upward only
	for _, n := range nodes {
		if n.Label.Y > n.Label.NaturalY {
			t.Fatalf("label pushed downward: %v below natural %v", n.Label.Y, n.Label.NaturalY)
		}
	}
}

func TestReconcile_KeyedEnterUpdateExit(t *testing.T) {
	mk := func(nut, reg string) dataset.Record {
		return dataset.Record{NutrientType: "Vitamin", Nutrient: nut, Region: reg, Values: []float64{100}}
	}
	first, created, dropped := reconcile(nil, []dataset.Record{mk("Vitamin C", "North"), mk("Folate", "North")})
	if len(created) != 2 || len(dropped) != 0 {
		t.Fatalf("initial reconcile: created=%v dropped=%v", created, dropped)
	}

	// Folate survives, Vitamin C leaves, Iron enters
	second, created, dropped := reconcile(first, []dataset.Record{mk("Folate", "North"), mk("Iron", "North")})
	if len(created) != 1 || len(dropped) != 1 {
		t.Fatalf("second reconcile: created=%v dropped=%v", created, dropped)
	}
	if second[0] != first[1] {
		t.Fatalf("surviving key must keep its node (update in place)")
	}
	if second[1] == first[0] {
		t.Fatalf("new key must not reuse a dropped node")
	}
}

func TestRegionColor_SelectionOrderAndNeutral(t *testing.T) {
	sel := []string{"North", "South"}
	if RegionColor("North", sel) != regionPalette[0] {
		t.Fatalf("first selected region must take palette slot 0")
	}
	if RegionColor("South", sel) != regionPalette[1] {
		t.Fatalf("second selected region must take palette slot 1")
	}
	if RegionColor("East", sel) != neutralColor {
		t.Fatalf("unselected region must render neutral")
	}
}

func TestFillSeries_GapSplitsSegments(t *testing.T) {
	xs := linearScale{d0: 0, d1: 4, r0: 0, r1: 400}
	ys := linearScale{d0: 0, d1: 100, r0: 100, r1: 0}
	rec := dataset.Record{
		Nutrient: "Iron", Region: "North",
		Values: []float64{50, 60, math.NaN(), 70, 80},
	}
	node := &SeriesNode{Key: rec.Key()}
	fillSeries(node, rec, xs, ys)

	if len(node.Segments) != 2 {
		t.Fatalf("NaN must split the path: got %d segments", len(node.Segments))
	}
	if len(node.Knots) != 4 {
		t.Fatalf("knots: got %d want 4", len(node.Knots))
	}
	if !node.HasLabel || node.FinalValue != 80 {
		t.Fatalf("label must sit at the final non-NaN value: %+v", node.Label)
	}
}

func TestFillSeries_TrailingNaNLabel(t *testing.T) {
	xs := linearScale{d0: 0, d1: 2, r0: 0, r1: 200}
	ys := linearScale{d0: 0, d1: 100, r0: 100, r1: 0}
	rec := dataset.Record{
		Nutrient: "Iron", Region: "North",
		Values: []float64{50, 60, math.NaN()},
	}
	node := &SeriesNode{Key: rec.Key()}
	fillSeries(node, rec, xs, ys)
	if !node.HasLabel || node.FinalValue != 60 {
		t.Fatalf("label must fall back to last non-NaN value, got %+v", node)
	}

	allNaN := dataset.Record{Nutrient: "Zinc", Region: "North", Values: []float64{math.NaN()}}
	node2 := &SeriesNode{Key: allNaN.Key()}
	fillSeries(node2, allNaN, xs, ys)
	if node2.HasLabel || len(node2.Segments) != 0 {
		t.Fatalf("all-NaN series must render nothing: %+v", node2)
	}
}
