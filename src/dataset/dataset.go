// Package dataset loads the household nutrient-intake table and derives the
// axis domains used by the viewer: the ordered year columns plus the nutrient
// type and region categories in first-appearance order.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Leading descriptive columns before the year columns begin.
const headerCols = 3

// Record is one (region, nutrient) series: intake as a percentage of the
// reference value, one entry per year in Table.Years order. Cells that failed
// numeric parsing hold NaN and render as gaps, never as zeros.
type Record struct {
	NutrientType string
	Nutrient     string
	Region       string
	Values       []float64
}

// Key returns the identity used for redraw reconciliation. Unique within any
// loaded table.
func (r Record) Key() string {
	return r.Region + "\x00" + r.Nutrient
}

// Table is the immutable result of a load: the full record set plus the
// distinct axis domains. Filtering never mutates it.
type Table struct {
	Records       []Record
	Years         []string
	NutrientTypes []string
	Regions       []string
}

// Load parses a CSV table with header [Type, Nutrient, Region, <year>...].
// Column order after the first three is the authoritative year ordering.
// Non-numeric value cells degrade to NaN; structural problems (short rows,
// duplicate (region, nutrient) pairs) are errors.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < headerCols+1 {
		return nil, fmt.Errorf("header has %d columns, need at least %d", len(header), headerCols+1)
	}
	years := make([]string, 0, len(header)-headerCols)
	for _, y := range header[headerCols:] {
		years = append(years, strings.TrimSpace(y))
	}

	t := &Table{Years: years}
	seenKey := map[string]int{}
	seenType := map[string]bool{}
	seenRegion := map[string]bool{}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++
		if len(row) != len(header) {
			return nil, fmt.Errorf("line %d: got %d columns, want %d", line, len(row), len(header))
		}
		rec := Record{
			NutrientType: strings.TrimSpace(row[0]),
			Nutrient:     strings.TrimSpace(row[1]),
			Region:       strings.TrimSpace(row[2]),
			Values:       make([]float64, len(years)),
		}
		for i, cell := range row[headerCols:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				// recoverable data-quality gap, not a load failure
				v = math.NaN()
			}
			rec.Values[i] = v
		}
		if prev, dup := seenKey[rec.Key()]; dup {
			return nil, fmt.Errorf("line %d: duplicate series %s/%s (first at line %d)", line, rec.Region, rec.Nutrient, prev)
		}
		seenKey[rec.Key()] = line
		if !seenType[rec.NutrientType] {
			seenType[rec.NutrientType] = true
			t.NutrientTypes = append(t.NutrientTypes, rec.NutrientType)
		}
		if !seenRegion[rec.Region] {
			seenRegion[rec.Region] = true
			t.Regions = append(t.Regions, rec.Region)
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// LoadFile opens and parses path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}
