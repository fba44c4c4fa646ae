package chartengine

import (
	"image/color"
	"math"
	"sort"

	"github.com/zivadanika/UK-Household-Nutrition-Visualisation/src/dataset"
)

// Minimum vertical separation between adjacent end-of-line labels.
const labelGap = 12.0

// regionPalette is the fixed two-color palette assigned to the currently
// selected regions in selection order.
var regionPalette = []color.RGBA{
	{R: 0xE8, G: 0x6A, B: 0x2E, A: 0xFF}, // orange
	{R: 0x2E, G: 0x7E, B: 0xB8, A: 0xFF}, // blue
}

// neutralColor is used for the defensive case of a visible record whose
// region is not in the current selection.
var neutralColor = color.RGBA{R: 0x9A, G: 0x9A, B: 0x9A, A: 0xFF}

// AxisTick is a tick already mapped to pixel space.
type AxisTick struct {
	Pos   float64
	Label string
}

// Label is an end-of-line series label. NaturalY is the pixel position of the
// final value; Y is the position after de-collision.
type Label struct {
	Text     string
	X        float64
	NaturalY float64
	Y        float64
}

// SeriesNode is the renderable state of one visible record. Nodes survive
// redraws by (region, nutrient) key: an update refills the fields of the
// existing node so the rendering layer can keep its objects bound to it.
type SeriesNode struct {
	Key      string
	Region   string
	Nutrient string
	Color    color.RGBA

	// Knots are the raw (year, value) positions, one per non-NaN cell.
	// Segments are the smoothed polylines, split at NaN gaps.
	Knots    []Point
	Segments [][]Point

	Label    Label
	HasLabel bool
	// FinalValue is the value the label marks (last non-NaN cell).
	FinalValue float64
}

// Scene is the full renderable description of the chart: axes, the reference
// line at 100, and one node per visible series, in visible-record order.
type Scene struct {
	Width, Height float64
	XTicks        []AxisTick
	YTicks        []AxisTick
	RefLineY      float64
	Series        []*SeriesNode
}

// reconcile applies keyed enter/update/exit semantics: records whose key
// existed in prev keep their node (refreshed in place), new keys get fresh
// nodes, and keys absent from the incoming set are dropped. The returned
// slice follows the incoming record order.
func reconcile(prev []*SeriesNode, visible []dataset.Record) (nodes []*SeriesNode, created, dropped []string) {
	old := make(map[string]*SeriesNode, len(prev))
	for _, n := range prev {
		old[n.Key] = n
	}
	nodes = make([]*SeriesNode, 0, len(visible))
	seen := make(map[string]bool, len(visible))
	for _, rec := range visible {
		key := rec.Key()
		node, ok := old[key]
		if !ok {
			node = &SeriesNode{Key: key}
			created = append(created, key)
		}
		node.Region = rec.Region
		node.Nutrient = rec.Nutrient
		nodes = append(nodes, node)
		seen[key] = true
	}
	for _, n := range prev {
		if !seen[n.Key] {
			dropped = append(dropped, n.Key)
		}
	}
	return nodes, created, dropped
}

// RegionColor maps a record's region to its palette slot, neutral when the
// region is not among the selected ones.
func RegionColor(region string, selected []string) color.RGBA {
	for i, r := range selected {
		if r == region && i < len(regionPalette) {
			return regionPalette[i]
		}
	}
	return neutralColor
}

// fillSeries recomputes a node's geometry from its record under the given
// scales: knot positions, gap-split smoothed segments, and the natural label
// position at the final non-NaN value.
func fillSeries(node *SeriesNode, rec dataset.Record, xs, ys linearScale) {
	node.Knots = node.Knots[:0]
	node.Segments = nil
	node.HasLabel = false

	var run []Point
	flush := func() {
		if len(run) > 0 {
			node.Segments = append(node.Segments, monotonePath(run))
			run = nil
		}
	}
	for yi, v := range rec.Values {
		if math.IsNaN(v) {
			flush()
			continue
		}
		p := Point{X: xs.apply(float64(yi)), Y: ys.apply(v)}
		node.Knots = append(node.Knots, p)
		run = append(run, p)
	}
	flush()

	for yi := len(rec.Values) - 1; yi >= 0; yi-- {
		if v := rec.Values[yi]; !math.IsNaN(v) {
			node.FinalValue = v
			node.Label = Label{
				Text:     rec.Nutrient,
				X:        xs.apply(float64(len(rec.Values)-1)) + 6,
				NaturalY: ys.apply(v),
			}
			node.Label.Y = node.Label.NaturalY
			node.HasLabel = true
			break
		}
	}
}

// layoutLabels runs the greedy de-collision pass: labels sorted ascending by
// final value, walked from the bottom of the chart upward; each label is
// pushed up just far enough to keep labelGap pixels from the one below it,
// and never pushed down. With enough crowding the topmost label may leave the
// chart area; that matches the upstream layout policy.
func layoutLabels(nodes []*SeriesNode) {
	labelled := make([]*SeriesNode, 0, len(nodes))
	for _, n := range nodes {
		if n.HasLabel {
			labelled = append(labelled, n)
		}
	}
	sort.SliceStable(labelled, func(i, j int) bool {
		return labelled[i].FinalValue < labelled[j].FinalValue
	})
	prev := math.Inf(1)
	for _, n := range labelled {
		y := n.Label.NaturalY
		if y > prev-labelGap {
			y = prev - labelGap
		}
		n.Label.Y = y
		prev = y
	}
}
