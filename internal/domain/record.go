package domain

import "time"

// Column names of the source table.
const (
	ColumnCountry     = "Country"
	ColumnStartYear   = "Start.Year"
	ColumnTotalDeaths = "Total.Deaths"
	ColumnGroup       = "Disaster.Group"
	ColumnSubgroup    = "Disaster.Subgroup"
	ColumnType        = "Disaster.Type"
	ColumnSubtype     = "Disaster.Subtype"
)

// RequiredColumns must be present in a source header for the table to be usable.
var RequiredColumns = []string{ColumnCountry, ColumnStartYear, ColumnTotalDeaths}

// RawRecord is one source row with the columns this service reads.
// Numeric columns are kept as the original text.
type RawRecord struct {
	Country     string `json:"Country"`
	StartYear   string `json:"Start.Year"`
	TotalDeaths string `json:"Total.Deaths"`
	Group       string `json:"Disaster.Group"`
	Subgroup    string `json:"Disaster.Subgroup"`
	Type        string `json:"Disaster.Type"`
	Subtype     string `json:"Disaster.Subtype"`
}

// DisasterRecord is a RawRecord that passed normalization, with its numeric
// fields attached. StartYear and TotalDeaths are always finite and
// TotalDeaths is always > 0.
type DisasterRecord struct {
	RawRecord

	StartYear   float64 `json:"Start_Year"`
	TotalDeaths float64 `json:"Total_Deaths"`
}

// Dataset is the result of loading one version of the source table.
type Dataset struct {
	Source    string
	Version   string
	TotalRows int
	Records   []DisasterRecord
	Countries []string
	LoadedAt  time.Time
}

// NewDataset normalizes raw rows and derives the country list.
func NewDataset(source, version string, raw []RawRecord, loadedAt time.Time) Dataset {
	records := Normalize(raw)
	return Dataset{
		Source:    source,
		Version:   version,
		TotalRows: len(raw),
		Records:   records,
		Countries: DistinctSortedCountries(records),
		LoadedAt:  loadedAt,
	}
}

// DroppedRows is the number of source rows excluded by normalization.
func (d Dataset) DroppedRows() int {
	return d.TotalRows - len(d.Records)
}
