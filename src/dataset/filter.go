package dataset

// MaxRegions is the cap on concurrently selected regions. The region control
// enforces it; the engine assumes it.
const MaxRegions = 2

// FilterState is the current selection: one nutrient type and up to
// MaxRegions regions.
type FilterState struct {
	NutrientType string
	Regions      []string
}

// Apply returns the records matching f, preserving input order. Pure: the
// input slice is never mutated and records are shared, not copied deeply
// (records are immutable after load).
func Apply(records []Record, f FilterState) []Record {
	allowed := make(map[string]bool, len(f.Regions))
	for _, r := range f.Regions {
		allowed[r] = true
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.NutrientType == f.NutrientType && allowed[rec.Region] {
			out = append(out, rec)
		}
	}
	return out
}
