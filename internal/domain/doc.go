// Package domain models disaster event records and the cleaning rules that
// turn a raw tabular dataset into plottable points.
//
// # Data Source
//
// Rows come from an EM-DAT style disaster table exported as CSV or XLSX.
// Only seven columns are read; everything else in the file is ignored:
//
//	Country            free-text country name, used as the filter key
//	Start.Year         year the event began, numeric text
//	Total.Deaths       reported fatalities, numeric text
//	Disaster.Group     "Natural", "Technological", or something else
//	Disaster.Subgroup  e.g. "Geophysical", "Industrial accident"
//	Disaster.Type      e.g. "Earthquake", "Flood"
//	Disaster.Subtype   e.g. "Ground movement", "Riverine flood"
//
// # Cleaning Rules
//
// Start.Year and Total.Deaths are parsed as floating point numbers after
// trimming surrounding whitespace. Empty cells, non-numeric text and the
// textual forms of NaN and infinity all fail to parse. A row is kept only when
// both fields parse and Total.Deaths is strictly positive:
//
//	"2001", "5"    kept
//	"abc",  "3"    dropped (year does not parse)
//	"2002", "0"    dropped (no fatalities recorded)
//	"2003", "-4"   dropped (not > 0)
//
// Dropping is a data-quality filter, not an error. [Normalize] never fails.
//
// # Colors
//
// Points are colored by Disaster.Group with a fixed three-way lookup, see
// [ColorForGroup]. Unknown and empty groups fall back to gray.
package domain
