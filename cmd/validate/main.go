// Command validate checks a disaster table against the cleaning and
// dimension rules the dashboard relies on: required columns, numeric
// normalization, the country dimension, the filter partition, and color
// classification. With -compare it also checks that a second export of the
// same table (for example the .xlsx next to a .csv) holds identical rows.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -data data/df_subset.csv \
//	  -compare data/df_subset.xlsx \
//	  -countries
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/couchcryptid/disaster-scatter/internal/adapter/dataset"
	"github.com/couchcryptid/disaster-scatter/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxErrorsShown caps the detail printed per failing phase.
const maxErrorsShown = 20

func main() {
	dataPath := flag.String("data", "data/df_subset.csv", "path to the disaster table (.csv, .xlsx or .xls)")
	comparePath := flag.String("compare", "", "optional second export of the same table")
	listCountries := flag.Bool("countries", false, "print the record count per country")
	flag.Parse()

	if *dataPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataPath, *comparePath, *listCountries); code != 0 {
		os.Exit(code)
	}
}

func run(dataPath, comparePath string, listCountries bool) int {
	fmt.Println("=== Disaster Table Validation ===")
	fmt.Println()

	raw, err := load(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", dataPath, err)
		return 1
	}

	var other []domain.RawRecord
	if comparePath != "" {
		other, err = load(comparePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", comparePath, err)
			return 1
		}
	}

	ds := domain.NewDataset(dataPath, "", raw, time.Now())

	phases := []*phase{
		validateRows(raw),
		validateNormalization(ds),
		validateCountries(ds),
		validateFilterPartition(ds),
		validateColors(ds),
	}
	if comparePath != "" {
		phases = append(phases, validateParity(raw, other))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d total, %d valid, %d dropped, %d countries\n",
		ds.TotalRows, len(ds.Records), ds.DroppedRows(), len(ds.Countries))
	counts := colorCounts(ds.Records)
	for _, c := range []domain.Color{domain.ColorNatural, domain.ColorTechnological, domain.ColorDefault} {
		fmt.Printf("  %-6s %d\n", c, counts[c])
	}
	if listCountries {
		printCountries(ds)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxErrorsShown {
				fmt.Printf("  ... %d more\n", len(p.errors)-maxErrorsShown)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func load(path string) ([]domain.RawRecord, error) {
	src, err := dataset.NewFileSource(path)
	if err != nil {
		return nil, err
	}
	return src.Read(context.Background())
}

// ── Phase 1: Rows ──

func validateRows(raw []domain.RawRecord) *phase {
	p := &phase{name: "Phase 1: Source rows"}
	if len(raw) == 0 {
		p.errorf("table has a header but no data rows")
	}
	for i, r := range raw {
		if r.Country == "" {
			p.errorf("row %d: empty %s", i+2, domain.ColumnCountry)
		}
	}
	return p
}

// ── Phase 2: Normalization ──
// Every kept record must have a finite year and a positive finite death toll.

func validateNormalization(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 2: Numeric normalization"}
	if len(ds.Records) == 0 {
		p.errorf("no row survived normalization")
	}
	for i, r := range ds.Records {
		if !finite(r.StartYear) {
			p.errorf("record %d (%s): non-finite %s %v", i, r.Country, domain.ColumnStartYear, r.StartYear)
		}
		if !finite(r.TotalDeaths) || r.TotalDeaths <= 0 {
			p.errorf("record %d (%s): invalid %s %v", i, r.Country, domain.ColumnTotalDeaths, r.TotalDeaths)
		}
	}
	return p
}

// ── Phase 3: Country dimension ──

func validateCountries(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 3: Country dimension"}
	for i := 1; i < len(ds.Countries); i++ {
		if ds.Countries[i-1] >= ds.Countries[i] {
			p.errorf("countries not strictly ascending at %d: %q, %q", i, ds.Countries[i-1], ds.Countries[i])
		}
	}
	for _, r := range ds.Records {
		if _, found := slices.BinarySearch(ds.Countries, r.Country); !found {
			p.errorf("country %q missing from dimension", r.Country)
		}
	}
	return p
}

// ── Phase 4: Filter partition ──
// Filtering by each country must split the records without loss or overlap.

func validateFilterPartition(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 4: Filter partition"}
	if n := len(domain.FilterByCountry(ds.Records, "")); n != len(ds.Records) {
		p.errorf("all-countries filter returned %d records, want %d", n, len(ds.Records))
	}
	total := 0
	for _, c := range ds.Countries {
		subset := domain.FilterByCountry(ds.Records, c)
		if len(subset) == 0 {
			p.errorf("country %q has no records", c)
		}
		for _, r := range subset {
			if r.Country != c {
				p.errorf("filter %q returned a record for %q", c, r.Country)
			}
		}
		total += len(subset)
	}
	if total != len(ds.Records) {
		p.errorf("per-country filters cover %d records, want %d", total, len(ds.Records))
	}
	return p
}

// ── Phase 5: Color classes ──
// A group that only differs from a colored group by case or spacing would
// silently fall back to gray.

func validateColors(ds domain.Dataset) *phase {
	p := &phase{name: "Phase 5: Color classification"}
	for i, r := range ds.Records {
		if domain.ColorForGroup(r.Group) != domain.ColorDefault {
			continue
		}
		g := strings.TrimSpace(r.Group)
		for _, named := range []string{domain.GroupNatural, domain.GroupTechnological} {
			if strings.EqualFold(g, named) {
				p.errorf("record %d (%s): group %q looks like %q but is colored %s", i, r.Country, r.Group, named, domain.ColorDefault)
			}
		}
	}
	return p
}

func colorCounts(records []domain.DisasterRecord) map[domain.Color]int {
	counts := make(map[domain.Color]int, 3)
	for _, r := range records {
		counts[domain.ColorForGroup(r.Group)]++
	}
	return counts
}

// ── Phase 6: Export parity ──

func validateParity(a, b []domain.RawRecord) *phase {
	p := &phase{name: "Phase 6: Export parity"}
	if len(a) != len(b) {
		p.errorf("row count: %d vs %d", len(a), len(b))
	}
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			p.errorf("row %d differs: %+v vs %+v", i+2, a[i], b[i])
		}
	}
	return p
}

// printCountries prints an aligned country table. Widths are measured in
// terminal cells so names with wide or combining runes line up.
func printCountries(ds domain.Dataset) {
	width := runewidth.StringWidth("Country")
	for _, c := range ds.Countries {
		width = max(width, runewidth.StringWidth(c))
	}

	fmt.Println()
	fmt.Printf("  %s  %s\n", runewidth.FillRight("Country", width), "Records")
	fmt.Printf("  %s  %s\n", strings.Repeat("-", width), strings.Repeat("-", 7))
	for _, c := range ds.Countries {
		fmt.Printf("  %s  %7d\n", runewidth.FillRight(c, width), len(domain.FilterByCountry(ds.Records, c)))
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
