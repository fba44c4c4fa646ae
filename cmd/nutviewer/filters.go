package main

import (
	"fmt"

	"github.com/zivadanika/UK-Household-Nutrition-Visualisation/src/dataset"
)

// Filter-change notification keys, matching the two controls.
const (
	filterKeyNutrientType = "nutrientType"
	filterKeyRegions      = "regions"
)

// filterChange is the notification the controls emit. Exactly one of
// NutrientType / Regions is meaningful, selected by Key.
type filterChange struct {
	Key          string
	NutrientType string
	Regions      []string
}

// applyFilterChange validates a notification and updates the filter state.
// Unknown keys and region lists over the cap are caller contract violations
// and are ignored with a log line; the engine itself never sees them.
// Returns whether the state changed and a redraw is due.
func (st *uiState) applyFilterChange(ch filterChange) bool {
	switch ch.Key {
	case filterKeyNutrientType:
		if ch.NutrientType == st.filter.NutrientType {
			return false
		}
		st.filter.NutrientType = ch.NutrientType
	case filterKeyRegions:
		if len(ch.Regions) > dataset.MaxRegions {
			fmt.Printf("[viewer] rejecting filter change: %d regions exceeds cap of %d\n", len(ch.Regions), dataset.MaxRegions)
			return false
		}
		st.filter.Regions = append(st.filter.Regions[:0], ch.Regions...)
	default:
		fmt.Printf("[viewer] ignoring filter change with unknown key %q\n", ch.Key)
		return false
	}
	return true
}

// toggleRegion computes the next region selection when one checkbox flips.
// Checking a region beyond the cap is refused: ok=false and the selection is
// returned unchanged so the control can snap the checkbox back.
func toggleRegion(selected []string, region string, on bool) (next []string, ok bool) {
	idx := -1
	for i, r := range selected {
		if r == region {
			idx = i
			break
		}
	}
	if on {
		if idx >= 0 {
			return selected, true
		}
		if len(selected) >= dataset.MaxRegions {
			return selected, false
		}
		return append(append([]string{}, selected...), region), true
	}
	if idx < 0 {
		return selected, true
	}
	next = append([]string{}, selected[:idx]...)
	return append(next, selected[idx+1:]...), true
}
