package dataset

import (
	"reflect"
	"testing"
)

func testRecords() []Record {
	mk := func(typ, nut, reg string, vals ...float64) Record {
		return Record{NutrientType: typ, Nutrient: nut, Region: reg, Values: vals}
	}
	// years 2008..2019 implied; values irrelevant to filtering
	return []Record{
		mk("Vitamin", "Vitamin C", "North", 100, 101),
		mk("Vitamin", "Vitamin C", "South", 99, 98),
		mk("Vitamin", "Vitamin C", "East", 97, 96),
		mk("Vitamin", "Folate", "North", 102, 103),
		mk("Mineral", "Iron", "North", 88, 89),
	}
}

// Scenario: one nutrient type, two of three regions selected.
func TestApply_TypeAndRegionSelection(t *testing.T) {
	recs := testRecords()
	got := Apply(recs, FilterState{NutrientType: "Vitamin", Regions: []string{"North", "South"}})
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(got), got)
	}
	for _, r := range got {
		if r.Region == "East" {
			t.Fatalf("East must be excluded, got %+v", r)
		}
		if r.NutrientType != "Vitamin" {
			t.Fatalf("wrong nutrient type in result: %+v", r)
		}
	}
	// relative input order preserved
	if got[0].Region != "North" || got[1].Region != "South" || got[2].Nutrient != "Folate" {
		t.Fatalf("order not preserved: %+v", got)
	}
}

func TestApply_IdempotentAndPure(t *testing.T) {
	recs := testRecords()
	before := make([]Record, len(recs))
	copy(before, recs)

	f := FilterState{NutrientType: "Vitamin", Regions: []string{"North"}}
	first := Apply(recs, f)
	second := Apply(recs, f)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("filter not idempotent: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(recs, before) {
		t.Fatalf("input mutated by Apply")
	}
}

func TestApply_EmptySelection(t *testing.T) {
	recs := testRecords()
	if got := Apply(recs, FilterState{NutrientType: "Vitamin"}); len(got) != 0 {
		t.Fatalf("no regions selected should match nothing, got %+v", got)
	}
	if got := Apply(recs, FilterState{NutrientType: "Fibre", Regions: []string{"North"}}); len(got) != 0 {
		t.Fatalf("unknown type should match nothing, got %+v", got)
	}
}

func TestApply_RegionCapHolds(t *testing.T) {
	// The cap is enforced at the control boundary; assert the constant the
	// controls rely on stays in place.
	if MaxRegions != 2 {
		t.Fatalf("MaxRegions = %d, want 2", MaxRegions)
	}
}
