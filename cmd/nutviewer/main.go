package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/zivadanika/UK-Household-Nutrition-Visualisation/src/chartengine"
	"github.com/zivadanika/UK-Household-Nutrition-Visualisation/src/dataset"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	filePath string
	table    *dataset.Table
	filter   dataset.FilterState

	engine  *chartengine.Engine
	surface *chartSurface

	// widgets
	fileLabel      *widget.Label
	statusLabel    *widget.Label
	nutrientSelect *widget.Select
	regionBox      *fyne.Container
	regionChecks   map[string]*widget.Check
}

func main() {
	var fileFlag string
	var screenshotsDir string
	flag.StringVar(&fileFlag, "file", "", "Path to the nutrient intake CSV table")
	flag.StringVar(&screenshotsDir, "screenshots", "", "Render charts headlessly into this directory and exit")
	flag.Parse()

	if screenshotsDir != "" {
		if err := runScreenshotsMode(fileFlag, screenshotsDir); err != nil {
			fmt.Fprintf(os.Stderr, "screenshots: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.zivadanika.nutviewer")
	w := a.NewWindow("Household Nutrition Viewer")
	w.Resize(fyne.NewSize(1100, 700))

	state := &uiState{
		app:          a,
		window:       w,
		filePath:     fileFlag,
		regionChecks: map[string]*widget.Check{},
	}

	state.fileLabel = widget.NewLabel(truncatePath(state.filePath, 60))
	state.statusLabel = widget.NewLabel("")
	state.nutrientSelect = widget.NewSelect(nil, func(v string) {
		if state.applyFilterChange(filterChange{Key: filterKeyNutrientType, NutrientType: v}) {
			savePrefs(state)
			redraw(state)
		}
	})
	state.nutrientSelect.PlaceHolder = "Nutrient type"
	state.regionBox = container.NewHBox()
	state.surface = newChartSurface(nil)

	openBtn := widget.NewButton("Open…", func() { openFileDialog(state) })
	exportBtn := widget.NewButton("Export PNG", func() { exportChartPNG(state) })

	top := container.NewHBox(openBtn, state.fileLabel, widget.NewSeparator(), exportBtn)
	filters := container.NewHBox(widget.NewLabel("Type:"), state.nutrientSelect, widget.NewLabel("Regions:"), state.regionBox)
	content := container.NewBorder(
		container.NewVBox(top, filters),
		state.statusLabel,
		nil, nil,
		container.NewScroll(state.surface),
	)
	w.SetContent(content)

	loadPrefs(state)
	if state.filePath != "" {
		loadAll(state)
	}
	w.ShowAndRun()
}

// loadAll parses the table, rebuilds the filter controls from its domains and
// replaces the engine. The chart width is read once here; later window
// resizes do not re-scale the surface.
func loadAll(state *uiState) {
	tbl, err := dataset.LoadFile(state.filePath)
	if err != nil {
		if state.window != nil {
			dialog.ShowError(err, state.window)
		}
		fmt.Printf("[viewer] load failed: %v\n", err)
		return
	}
	state.table = tbl
	if state.fileLabel != nil {
		state.fileLabel.SetText(truncatePath(state.filePath, 60))
	}
	fmt.Printf("[viewer] loaded %d series, %d years, %d types, %d regions\n",
		len(tbl.Records), len(tbl.Years), len(tbl.NutrientTypes), len(tbl.Regions))

	state.filter = defaultFilter(tbl, state.filter)
	rebuildFilterControls(state)

	w, h := computeSurfaceSize(windowWidth(state))
	engine, err := chartengine.New(tbl.Years, float64(w), float64(h))
	if err != nil {
		if state.window != nil {
			dialog.ShowError(err, state.window)
		}
		return
	}
	state.engine = engine
	if state.surface != nil {
		state.surface.SetEngine(engine)
	}
	redraw(state)
}

// defaultFilter keeps the previous selection where the new table still has
// those categories, and falls back to the first type and first two regions.
func defaultFilter(tbl *dataset.Table, prev dataset.FilterState) dataset.FilterState {
	f := dataset.FilterState{}
	for _, t := range tbl.NutrientTypes {
		if t == prev.NutrientType {
			f.NutrientType = t
			break
		}
	}
	if f.NutrientType == "" && len(tbl.NutrientTypes) > 0 {
		f.NutrientType = tbl.NutrientTypes[0]
	}
	valid := map[string]bool{}
	for _, r := range tbl.Regions {
		valid[r] = true
	}
	for _, r := range prev.Regions {
		if valid[r] && len(f.Regions) < dataset.MaxRegions {
			f.Regions = append(f.Regions, r)
		}
	}
	if len(f.Regions) == 0 {
		for _, r := range tbl.Regions {
			if len(f.Regions) >= dataset.MaxRegions {
				break
			}
			f.Regions = append(f.Regions, r)
		}
	}
	return f
}

func rebuildFilterControls(state *uiState) {
	if state.nutrientSelect != nil {
		state.nutrientSelect.Options = state.table.NutrientTypes
		state.nutrientSelect.Selected = state.filter.NutrientType
		state.nutrientSelect.Refresh()
	}
	if state.regionBox == nil {
		return
	}
	state.regionBox.RemoveAll()
	state.regionChecks = map[string]*widget.Check{}
	selected := map[string]bool{}
	for _, r := range state.filter.Regions {
		selected[r] = true
	}
	for _, region := range state.table.Regions {
		region := region
		chk := widget.NewCheck(region, func(on bool) {
			next, ok := toggleRegion(state.filter.Regions, region, on)
			if !ok {
				// cap reached: snap the box back, the engine never sees a third region
				state.regionChecks[region].SetChecked(false)
				state.statusLabel.SetText(fmt.Sprintf("At most %d regions at a time", dataset.MaxRegions))
				return
			}
			if state.applyFilterChange(filterChange{Key: filterKeyRegions, Regions: next}) {
				savePrefs(state)
				redraw(state)
			}
		})
		chk.SetChecked(selected[region])
		state.regionChecks[region] = chk
		state.regionBox.Add(chk)
	}
	state.regionBox.Refresh()
}

// redraw runs the filter-to-scene pipeline: evaluate the visible subset, hand
// it to the engine (which rebuilds its index before returning) and refresh
// the surface. Pointer queries arriving afterwards see consistent geometry.
func redraw(state *uiState) {
	if state.engine == nil || state.table == nil {
		return
	}
	visible := dataset.Apply(state.table.Records, state.filter)
	state.engine.UpdateData(visible, state.filter.Regions)
	if state.surface != nil {
		state.surface.SceneChanged()
	}
	if state.statusLabel != nil {
		state.statusLabel.SetText(describeFilter(state.filter.NutrientType, state.filter.Regions))
	}
	fmt.Printf("[viewer] filter %q/%v -> %d visible series\n", state.filter.NutrientType, state.filter.Regions, len(visible))
}

func openFileDialog(state *uiState) {
	fo := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		savePrefs(state)
		loadAll(state)
	}, state.window)
	fo.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	fo.Show()
}

// windowWidth reads the available width once per load, with a headless
// fallback for tests and screenshots mode.
func windowWidth(state *uiState) int {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return 1060
	}
	if w := int(state.window.Canvas().Size().Width); w > 0 {
		return w - 40
	}
	return 1060
}

// computeSurfaceSize clamps the chart surface to sane bounds with a ~2:1
// aspect ratio.
func computeSurfaceSize(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	if w > 1600 {
		w = 1600
	}
	h := w / 2
	if h < 320 {
		h = 320
	}
	if h > 560 {
		h = 560
	}
	return w, h
}

func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetString("lastNutrientType", state.filter.NutrientType)
	prefs.SetString("lastRegions", strings.Join(state.filter.Regions, "\n"))
}

func loadPrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if state.filePath == "" {
		state.filePath = prefs.StringWithFallback("lastFile", "")
		if state.fileLabel != nil {
			state.fileLabel.SetText(truncatePath(state.filePath, 60))
		}
	}
	state.filter.NutrientType = prefs.StringWithFallback("lastNutrientType", "")
	if raw := prefs.StringWithFallback("lastRegions", ""); raw != "" {
		for _, r := range strings.Split(raw, "\n") {
			if r != "" && len(state.filter.Regions) < dataset.MaxRegions {
				state.filter.Regions = append(state.filter.Regions, r)
			}
		}
	}
}

func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
