package domain

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Normalize parses the numeric columns of each raw row and keeps the rows
// whose start year and death toll are finite numbers with deaths > 0.
// Kept rows preserve their input order.
func Normalize(raw []RawRecord) []DisasterRecord {
	out := make([]DisasterRecord, 0, len(raw))
	for _, r := range raw {
		year, okYear := parseNumber(r.StartYear)
		deaths, okDeaths := parseNumber(r.TotalDeaths)
		if !okYear || !okDeaths || deaths <= 0 {
			continue
		}
		out = append(out, DisasterRecord{
			RawRecord:   r,
			StartYear:   year,
			TotalDeaths: deaths,
		})
	}
	return out
}

// parseNumber converts numeric text to a finite float64.
// Empty, malformed, NaN and infinite values report false.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// DistinctSortedCountries returns each Country value once, in ascending
// byte order.
func DistinctSortedCountries(records []DisasterRecord) []string {
	seen := make(map[string]struct{}, len(records))
	countries := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		countries = append(countries, r.Country)
	}
	slices.Sort(countries)
	return countries
}

// FilterByCountry returns the records whose Country equals selection exactly.
// An empty selection means "all countries" and returns records unchanged.
func FilterByCountry(records []DisasterRecord, selection string) []DisasterRecord {
	if selection == "" {
		return records
	}
	out := make([]DisasterRecord, 0)
	for _, r := range records {
		if r.Country == selection {
			out = append(out, r)
		}
	}
	return out
}
