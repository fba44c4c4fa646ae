// Package chartengine turns a filtered set of nutrient-intake records into a
// renderable multi-series trend scene and answers pointer queries against it.
// The engine owns its scales, the current visible set, the sample index and
// the last pointer hit as explicit state; UpdateData and the Pointer methods
// are its only mutating entry points.
package chartengine

import (
	"fmt"
	"math"

	"github.com/zivadanika/UK-Household-Nutrition-Visualisation/src/dataset"
)

// Plot margins inside the drawing surface.
const (
	marginTop    = 16.0
	marginRight  = 110.0 // room for end-of-line labels
	marginBottom = 28.0
	marginLeft   = 44.0
)

// Opacity applied to series unrelated to the highlighted nutrient.
const (
	DimOpacity  = 0.2
	FullOpacity = 1.0
)

// Marker is one highlight dot: the value of a matched-nutrient series at the
// matched year, with its formatted value text.
type Marker struct {
	Key   string
	X, Y  float64
	Value float64
	Text  string
}

// HighlightFrame describes one overlay state: which nutrient is active, which
// series keys fall back to DimOpacity, and the markers to place. It never
// implies a scene redraw.
type HighlightFrame struct {
	Nutrient string
	Year     string
	Dimmed   map[string]bool
	Markers  []Marker
}

// Engine is the interactive chart core. Width is read once at construction;
// the x scale is fixed for the engine's lifetime while the y scale follows
// the visible data. Not safe for concurrent use; all calls are expected on
// the UI event loop.
type Engine struct {
	width, height float64
	years         []string

	xs, ys linearScale
	yLo    float64
	yHi    float64

	visible []dataset.Record
	scene   Scene
	index   *sampleIndex

	tracking bool
	lastHit  int
}

// New creates an engine for a fixed surface size and the full year domain.
// The x scale never changes afterwards, so pointer hit positions stay
// comparable across data updates.
func New(years []string, width, height float64) (*Engine, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("chartengine: empty year domain")
	}
	if width <= marginLeft+marginRight || height <= marginTop+marginBottom {
		return nil, fmt.Errorf("chartengine: surface %gx%g too small", width, height)
	}
	e := &Engine{
		width:   width,
		height:  height,
		years:   years,
		lastHit: -1,
	}
	e.xs = linearScale{
		d0: 0, d1: float64(len(years) - 1),
		r0: marginLeft, r1: width - marginRight,
	}
	e.index = &sampleIndex{}
	e.updateScales(nil)
	e.rebuildAxes()
	return e, nil
}

// Years returns the shared x domain.
func (e *Engine) Years() []string { return e.years }

// PlotInsets reports the left and bottom plot margins, for rendering layers
// that draw the axis frame around the scene.
func PlotInsets() (left, bottom float64) { return marginLeft, marginBottom }

// Scene returns the current renderable state. The pointer stays valid across
// updates; its contents are refreshed in place by UpdateData.
func (e *Engine) Scene() *Scene { return &e.scene }

// YDomain returns the current y axis bounds.
func (e *Engine) YDomain() (float64, float64) { return e.yLo, e.yHi }

// YAxisTicks returns the current y ticks in data space, for export renderers
// that build their own axes.
func (e *Engine) YAxisTicks() []Tick { return niceTicks(e.yLo, e.yHi, 6) }

// UpdateData is the redraw entry point: it recomputes the y scale from the
// incoming visible set, reconciles series nodes by (region, nutrient) key,
// rebuilds geometry and labels, and rebuilds the sample index — all before
// returning, so a pointer query issued afterwards never sees a stale index.
// selectedRegions drives the per-region color assignment.
func (e *Engine) UpdateData(visible []dataset.Record, selectedRegions []string) *Scene {
	e.visible = visible
	e.updateScales(visible)

	nodes, _, _ := reconcile(e.scene.Series, visible)
	for i, rec := range visible {
		nodes[i].Color = RegionColor(rec.Region, selectedRegions)
		fillSeries(nodes[i], rec, e.xs, e.ys)
	}
	layoutLabels(nodes)
	e.scene.Series = nodes
	e.rebuildAxes()

	e.index = buildSampleIndex(visible, e.xs, e.ys)
	// any remembered hit indexes into the old sample slice
	e.lastHit = -1
	return &e.scene
}

// PointerIn marks the pointer as inside the surface with no prior match.
func (e *Engine) PointerIn() {
	e.tracking = true
	e.lastHit = -1
}

// PointerOut leaves tracking and clears the remembered match. The caller
// restores full opacity and hides its overlay.
func (e *Engine) PointerOut() {
	e.tracking = false
	e.lastHit = -1
}

// PointerMoved answers a pointer position with the overlay state it implies.
// ok is false when nothing changed: the pointer is not tracked, no samples
// exist, or the nearest sample equals the previous one — in that case the
// caller must not touch its overlay.
func (e *Engine) PointerMoved(px, py float64) (HighlightFrame, bool) {
	if !e.tracking {
		return HighlightFrame{}, false
	}
	hit, found := e.index.nearest(px, py, e.lastHit)
	if !found || hit == e.lastHit {
		return HighlightFrame{}, false
	}
	e.lastHit = hit
	return e.frameFor(e.index.samples[hit]), true
}

// frameFor builds the highlight for a matched sample: series of any other
// nutrient dim out, and every record sharing the matched nutrient gets a
// marker at the matched year, skipping NaN gaps.
func (e *Engine) frameFor(s Sample) HighlightFrame {
	matched := e.visible[s.Record]
	frame := HighlightFrame{
		Nutrient: matched.Nutrient,
		Year:     e.years[s.YearIdx],
		Dimmed:   make(map[string]bool),
	}
	for _, rec := range e.visible {
		if rec.Nutrient != matched.Nutrient {
			frame.Dimmed[rec.Key()] = true
			continue
		}
		v := rec.Values[s.YearIdx]
		if math.IsNaN(v) {
			continue
		}
		frame.Markers = append(frame.Markers, Marker{
			Key:   rec.Key(),
			X:     e.xs.apply(float64(s.YearIdx)),
			Y:     e.ys.apply(v),
			Value: v,
			Text:  fmt.Sprintf("%.1f", v),
		})
	}
	return frame
}

func (e *Engine) updateScales(visible []dataset.Record) {
	minV := math.NaN()
	maxV := math.NaN()
	for _, rec := range visible {
		for _, v := range rec.Values {
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(minV) || v < minV {
				minV = v
			}
			if math.IsNaN(maxV) || v > maxV {
				maxV = v
			}
		}
	}
	e.yLo, e.yHi = yDomain(minV, maxV)
	e.ys = linearScale{
		d0: e.yLo, d1: e.yHi,
		r0: e.height - marginBottom, r1: marginTop,
	}
}

func (e *Engine) rebuildAxes() {
	e.scene.Width = e.width
	e.scene.Height = e.height

	e.scene.XTicks = e.scene.XTicks[:0]
	for i, y := range e.years {
		e.scene.XTicks = append(e.scene.XTicks, AxisTick{Pos: e.xs.apply(float64(i)), Label: y})
	}
	e.scene.YTicks = e.scene.YTicks[:0]
	for _, t := range niceTicks(e.yLo, e.yHi, 6) {
		e.scene.YTicks = append(e.scene.YTicks, AxisTick{Pos: e.ys.apply(t.Value), Label: t.Label})
	}
	e.scene.RefLineY = e.ys.apply(referenceValue)
}
