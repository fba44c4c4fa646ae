package main

import (
	"fmt"
	"image/color"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/zivadanika/UK-Household-Nutrition-Visualisation/src/chartengine"
)

// chartSurface renders the engine's scene as canvas objects and applies
// highlight frames as pure overlay updates. Pointer events route to the
// engine; a move that does not change the nearest sample refreshes nothing.
type chartSurface struct {
	widget.BaseWidget

	engine *chartengine.Engine

	hovering   bool
	frame      *chartengine.HighlightFrame
	sceneDirty bool
}

func newChartSurface(engine *chartengine.Engine) *chartSurface {
	s := &chartSurface{engine: engine, sceneDirty: true}
	s.ExtendBaseWidget(s)
	return s
}

// SetEngine rebinds the surface after a new table load.
func (s *chartSurface) SetEngine(engine *chartengine.Engine) {
	s.engine = engine
	s.frame = nil
	s.sceneDirty = true
	s.Refresh()
}

// SceneChanged marks the series geometry stale after an UpdateData call.
func (s *chartSurface) SceneChanged() {
	s.frame = nil
	s.sceneDirty = true
	s.Refresh()
}

func (s *chartSurface) MouseIn(_ *desktop.MouseEvent) {
	s.hovering = true
	if s.engine != nil {
		s.engine.PointerIn()
	}
	s.Refresh()
}

func (s *chartSurface) MouseMoved(ev *desktop.MouseEvent) {
	if s.engine == nil || !s.hovering {
		return
	}
	frame, ok := s.engine.PointerMoved(float64(ev.Position.X), float64(ev.Position.Y))
	if !ok {
		return
	}
	s.frame = &frame
	s.Refresh()
}

func (s *chartSurface) MouseOut() {
	s.hovering = false
	if s.engine != nil {
		s.engine.PointerOut()
	}
	s.frame = nil
	s.Refresh()
}

var _ desktop.Hoverable = (*chartSurface)(nil)

func (s *chartSurface) CreateRenderer() fyne.WidgetRenderer {
	r := &surfaceRenderer{
		s:      s,
		bg:     canvas.NewRectangle(color.RGBA{R: 0xFC, G: 0xFC, B: 0xFA, A: 0xFF}),
		xAxis:  canvas.NewLine(axisColor),
		yAxis:  canvas.NewLine(axisColor),
		ref:    canvas.NewLine(refColor),
		series: map[string]*seriesGroup{},
	}
	r.xAxis.StrokeWidth = 1
	r.yAxis.StrokeWidth = 1
	r.ref.StrokeWidth = 1
	r.rebuild()
	return r
}

var (
	axisColor  = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xFF}
	tickColor  = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF}
	refColor   = color.RGBA{R: 0xB0, G: 0xB0, B: 0xB0, A: 0xFF}
	markerText = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF}
)

// seriesGroup is the canvas material of one series node, reused across
// redraws while its (region, nutrient) key survives.
type seriesGroup struct {
	node  *chartengine.SeriesNode
	lines []*canvas.Line
	label *canvas.Text
}

type surfaceRenderer struct {
	s *chartSurface

	bg           *canvas.Rectangle
	xAxis, yAxis *canvas.Line
	ref          *canvas.Line
	tickLabels   []*canvas.Text

	series map[string]*seriesGroup

	markerDots   []*canvas.Circle
	markerLabels []*canvas.Text

	objects []fyne.CanvasObject
}

func (r *surfaceRenderer) Destroy() {}

func (r *surfaceRenderer) MinSize() fyne.Size {
	sc := r.scene()
	if sc == nil {
		return fyne.NewSize(200, 120)
	}
	return fyne.NewSize(float32(sc.Width), float32(sc.Height))
}

func (r *surfaceRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *surfaceRenderer) Layout(fyne.Size) {
	// All positions are absolute in the engine's pixel space; the surface is
	// sized once from its container and never re-laid-out on resize.
}

func (r *surfaceRenderer) Refresh() {
	if r.s.sceneDirty {
		r.rebuild()
		r.s.sceneDirty = false
	}
	r.applyHighlight()
	for _, o := range r.objects {
		o.Refresh()
	}
}

func (r *surfaceRenderer) scene() *chartengine.Scene {
	if r.s.engine == nil {
		return nil
	}
	return r.s.engine.Scene()
}

// rebuild synchronizes canvas objects with the scene, reusing groups whose
// key survived the data update and dropping the rest.
func (r *surfaceRenderer) rebuild() {
	sc := r.scene()
	if sc == nil {
		r.objects = []fyne.CanvasObject{r.bg}
		return
	}

	w := float32(sc.Width)
	h := float32(sc.Height)
	r.bg.Resize(fyne.NewSize(w, h))
	r.bg.Move(fyne.NewPos(0, 0))

	plotLeft, plotBottom := chartengine.PlotInsets()
	r.xAxis.Position1 = fyne.NewPos(float32(plotLeft), h-float32(plotBottom))
	r.xAxis.Position2 = fyne.NewPos(w, h-float32(plotBottom))
	r.yAxis.Position1 = fyne.NewPos(float32(plotLeft), 0)
	r.yAxis.Position2 = fyne.NewPos(float32(plotLeft), h-float32(plotBottom))
	r.ref.Position1 = fyne.NewPos(float32(plotLeft), float32(sc.RefLineY))
	r.ref.Position2 = fyne.NewPos(w, float32(sc.RefLineY))

	r.tickLabels = r.tickLabels[:0]
	for i, tk := range sc.XTicks {
		// thin out x labels when the year domain is dense
		if len(sc.XTicks) > 14 && i%2 == 1 {
			continue
		}
		t := canvas.NewText(tk.Label, tickColor)
		t.TextSize = 11
		t.Move(fyne.NewPos(float32(tk.Pos)-14, h-float32(plotBottom)+4))
		r.tickLabels = append(r.tickLabels, t)
	}
	for _, tk := range sc.YTicks {
		t := canvas.NewText(tk.Label, tickColor)
		t.TextSize = 11
		t.Move(fyne.NewPos(4, float32(tk.Pos)-7))
		r.tickLabels = append(r.tickLabels, t)
	}

	seen := map[string]bool{}
	for _, node := range sc.Series {
		g := r.series[node.Key]
		if g == nil {
			g = &seriesGroup{}
			r.series[node.Key] = g
		}
		g.node = node
		g.sync()
		seen[node.Key] = true
	}
	for key := range r.series {
		if !seen[key] {
			delete(r.series, key)
		}
	}

	r.objects = r.objects[:0]
	r.objects = append(r.objects, r.bg, r.ref, r.xAxis, r.yAxis)
	for _, t := range r.tickLabels {
		r.objects = append(r.objects, t)
	}
	// series in scene order so the draw order is stable across redraws
	for _, node := range sc.Series {
		g := r.series[node.Key]
		for _, ln := range g.lines {
			r.objects = append(r.objects, ln)
		}
		if g.label != nil {
			r.objects = append(r.objects, g.label)
		}
	}
	for _, d := range r.markerDots {
		r.objects = append(r.objects, d)
	}
	for _, t := range r.markerLabels {
		r.objects = append(r.objects, t)
	}
}

// sync lays the group's line segments along the node's smoothed path.
func (g *seriesGroup) sync() {
	want := 0
	for _, seg := range g.node.Segments {
		if len(seg) > 1 {
			want += len(seg) - 1
		}
	}
	for len(g.lines) < want {
		ln := canvas.NewLine(g.node.Color)
		ln.StrokeWidth = 2
		g.lines = append(g.lines, ln)
	}
	g.lines = g.lines[:want]

	i := 0
	for _, seg := range g.node.Segments {
		for j := 1; j < len(seg); j++ {
			ln := g.lines[i]
			ln.Position1 = fyne.NewPos(float32(seg[j-1].X), float32(seg[j-1].Y))
			ln.Position2 = fyne.NewPos(float32(seg[j].X), float32(seg[j].Y))
			ln.StrokeColor = g.node.Color
			i++
		}
	}

	if !g.node.HasLabel {
		g.label = nil
		return
	}
	if g.label == nil {
		g.label = canvas.NewText("", g.node.Color)
		g.label.TextSize = 12
	}
	g.label.Text = g.node.Label.Text
	g.label.Color = g.node.Color
	g.label.Move(fyne.NewPos(float32(g.node.Label.X), float32(g.node.Label.Y)-7))
}

// applyHighlight dims unrelated series and positions the per-series markers.
// Runs for every frame change and for the clear on pointer-out.
func (r *surfaceRenderer) applyHighlight() {
	frame := r.s.frame
	for key, g := range r.series {
		opacity := chartengine.FullOpacity
		if frame != nil && frame.Dimmed[key] {
			opacity = chartengine.DimOpacity
		}
		col := withOpacity(g.node.Color, opacity)
		for _, ln := range g.lines {
			ln.StrokeColor = col
		}
		if g.label != nil {
			g.label.Color = col
		}
	}

	var markers []chartengine.Marker
	if frame != nil {
		markers = frame.Markers
	}
	for len(r.markerDots) < len(markers) {
		d := canvas.NewCircle(color.RGBA{})
		t := canvas.NewText("", markerText)
		t.TextSize = 11
		t.TextStyle = fyne.TextStyle{Bold: true}
		r.markerDots = append(r.markerDots, d)
		r.markerLabels = append(r.markerLabels, t)
		r.objects = append(r.objects, d, t)
	}
	for i := range r.markerDots {
		if i >= len(markers) {
			r.markerDots[i].Hide()
			r.markerLabels[i].Hide()
			continue
		}
		m := markers[i]
		d := r.markerDots[i]
		d.FillColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
		d.StrokeColor = markerText
		d.StrokeWidth = 1.5
		d.Resize(fyne.NewSize(8, 8))
		d.Move(fyne.NewPos(float32(m.X)-4, float32(m.Y)-4))
		d.Show()
		t := r.markerLabels[i]
		t.Text = m.Text
		t.Move(fyne.NewPos(float32(m.X)+6, float32(m.Y)-16))
		t.Show()
	}
}

// withOpacity scales a color's alpha, keeping the base color intact.
func withOpacity(c color.RGBA, opacity float64) color.Color {
	if opacity >= 1 {
		return c
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A) * opacity)}
}

// describeFilter is the status line shown under the chart.
func describeFilter(nutrientType string, regions []string) string {
	if len(regions) == 0 {
		return fmt.Sprintf("%s — no regions selected", nutrientType)
	}
	out := nutrientType + " — " + regions[0]
	for _, rg := range regions[1:] {
		out += " vs " + rg
	}
	return out
}
