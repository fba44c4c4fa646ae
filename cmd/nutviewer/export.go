package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/zivadanika/UK-Household-Nutrition-Visualisation/src/chartengine"
	"github.com/zivadanika/UK-Household-Nutrition-Visualisation/src/dataset"
)

// exportChartPNG renders the current visible subset to a PNG chosen by the
// user.
func exportChartPNG(state *uiState) {
	if state == nil || state.engine == nil || state.table == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	img := renderExportImage(state.engine, state.table, state.filter)
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img); err != nil {
			fmt.Printf("[viewer] export encode error: %v\n", err)
		}
	}, state.window)
	fs.SetFileName("nutrition_trend.png")
	fs.Show()
}

// renderExportImage draws the visible subset with go-chart: one series per
// non-NaN run of each record, a dotted reference line at 100, the engine's y
// domain and ticks, and a caption naming the active filter.
func renderExportImage(engine *chartengine.Engine, tbl *dataset.Table, filter dataset.FilterState) image.Image {
	visible := dataset.Apply(tbl.Records, filter)
	years := engine.Years()
	lo, hi := engine.YDomain()

	series := buildExportSeries(visible, filter.Regions, len(years))

	// reference line across the full x domain
	series = append(series, chart.ContinuousSeries{
		XValues: []float64{0, float64(len(years) - 1)},
		YValues: []float64{100, 100},
		Style: chart.Style{
			StrokeColor:     drawing.Color{R: 0xB0, G: 0xB0, B: 0xB0, A: 0xFF},
			StrokeWidth:     1,
			StrokeDashArray: []float64{4, 3},
		},
	})

	xTicks := make([]chart.Tick, 0, len(years))
	for i, y := range years {
		if len(years) > 14 && i%2 == 1 {
			continue
		}
		xTicks = append(xTicks, chart.Tick{Value: float64(i), Label: y})
	}
	yTicks := make([]chart.Tick, 0, 8)
	for _, t := range engine.YAxisTicks() {
		yTicks = append(yTicks, chart.Tick{Value: t.Value, Label: t.Label})
	}

	ch := chart.Chart{
		Title:      "Nutrient intake, % of reference",
		Width:      1100,
		Height:     550,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 20, Bottom: 32}},
		XAxis: chart.XAxis{
			Ticks: xTicks,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(years) - 1)},
		},
		YAxis: chart.YAxis{
			Ticks: yTicks,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[viewer] export render error: %v; using blank fallback\n", err)
		return blank(ch.Width, ch.Height)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[viewer] export decode error: %v; using blank fallback\n", err)
		return blank(ch.Width, ch.Height)
	}
	return drawCaption(img, describeFilter(filter.NutrientType, filter.Regions))
}

// buildExportSeries converts records to go-chart series. NaN cells split a
// record into separate runs so gaps stay gaps; only the first run of a record
// carries the legend name.
func buildExportSeries(visible []dataset.Record, selectedRegions []string, nYears int) []chart.Series {
	out := []chart.Series{}
	for _, rec := range visible {
		col := exportColor(rec.Region, selectedRegions)
		style := chart.Style{StrokeColor: col, StrokeWidth: 2}
		name := rec.Nutrient + " (" + rec.Region + ")"

		var xs, ys []float64
		flush := func() {
			if len(xs) == 0 {
				xs, ys = nil, nil
				return
			}
			if len(xs) == 1 {
				// go-chart needs two points to draw anything
				xs = append(xs, xs[0]+0.001)
				ys = append(ys, ys[0])
			}
			s := chart.ContinuousSeries{XValues: xs, YValues: ys, Style: style}
			if name != "" {
				s.Name = name
				name = ""
			}
			out = append(out, s)
			xs, ys = nil, nil
		}
		for i := 0; i < nYears && i < len(rec.Values); i++ {
			v := rec.Values[i]
			if math.IsNaN(v) {
				flush()
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
		flush()
	}
	return out
}

func exportColor(region string, selected []string) drawing.Color {
	c := chartengine.RegionColor(region, selected)
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// runScreenshotsMode renders one chart per nutrient type headlessly, using
// the first two regions, and writes them under outDir.
func runScreenshotsMode(filePath, outDir string) error {
	if filePath == "" {
		return fmt.Errorf("screenshots mode needs -file")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	tbl, err := dataset.LoadFile(filePath)
	if err != nil {
		return err
	}
	w, h := computeSurfaceSize(1060)
	for _, nt := range tbl.NutrientTypes {
		filter := defaultFilter(tbl, dataset.FilterState{NutrientType: nt})
		engine, err := chartengine.New(tbl.Years, float64(w), float64(h))
		if err != nil {
			return err
		}
		engine.UpdateData(dataset.Apply(tbl.Records, filter), filter.Regions)
		img := renderExportImage(engine, tbl, filter)

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("png encode %s: %w", nt, err)
		}
		outPath := filepath.Join(outDir, slug(nt)+".png")
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		fmt.Printf("[viewer] wrote %s\n", outPath)
	}
	return nil
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-' {
			return r
		}
		return -1
	}, s)
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 0xFC, G: 0xFC, B: 0xFA, A: 0xFF})
		}
	}
	return img
}

// drawCaption stamps the active filter description near the bottom-left of an
// exported image.
func drawCaption(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	x := b.Min.X + 10
	y := b.Max.Y - 8
	tw := dr.MeasureString(text).Ceil()

	pad := 4
	bg := image.NewUniform(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xD0})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)

	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
