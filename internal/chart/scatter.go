// Package chart computes the geometry of the year vs. death toll scatterplot:
// axis scales, ticks, and one positioned, colored point per record.
// It does no drawing; renderers turn a Scatter into SVG or images.
package chart

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/couchcryptid/disaster-scatter/internal/domain"
)

// AllCountriesTitle is the chart title when no country is selected.
const AllCountriesTitle = "All Countries"

// tickCount is the approximate number of ticks per axis.
const tickCount = 10

// Layout fixes the chart size and point styling in pixels.
type Layout struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	Radius       float64
	HoverRadius  float64
}

// DefaultLayout is a 1000x600 chart with room below for rotated year labels.
func DefaultLayout() Layout {
	return Layout{
		Width:        1000,
		Height:       600,
		MarginTop:    50,
		MarginRight:  30,
		MarginBottom: 120,
		MarginLeft:   100,
		Radius:       3,
		HoverRadius:  6,
	}
}

// InnerWidth is the plotting area width.
func (l Layout) InnerWidth() float64 { return l.Width - l.MarginLeft - l.MarginRight }

// InnerHeight is the plotting area height.
func (l Layout) InnerHeight() float64 { return l.Height - l.MarginTop - l.MarginBottom }

// Tick is an axis tick at Pos pixels from the axis origin.
type Tick struct {
	Pos   float64
	Label string
}

// Tooltip holds the hover details of a point, already formatted for display.
type Tooltip struct {
	Country  string
	Year     string
	Deaths   string
	Group    string
	Subgroup string
	Type     string
	Subtype  string
}

// Point is one plotted record. CX and CY are relative to the plotting area.
type Point struct {
	CX      float64
	CY      float64
	Fill    domain.Color
	Tooltip Tooltip
}

// Scatter is everything a renderer needs to draw the chart.
type Scatter struct {
	Layout Layout
	Title  string
	XLabel string
	YLabel string
	XTicks []Tick
	YTicks []Tick
	Points []Point
}

// Title returns the chart title for a country selection.
func Title(selection string) string {
	if selection == "" {
		return AllCountriesTitle
	}
	return selection
}

// YearDomain returns the min and max StartYear. ok is false for no records.
func YearDomain(records []domain.DisasterRecord) (lo, hi float64, ok bool) {
	if len(records) == 0 {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range records {
		lo = math.Min(lo, r.StartYear)
		hi = math.Max(hi, r.StartYear)
	}
	return lo, hi, true
}

// MaxDeaths returns the largest TotalDeaths, or 0 for no records.
func MaxDeaths(records []domain.DisasterRecord) float64 {
	hi := 0.0
	for _, r := range records {
		hi = math.Max(hi, r.TotalDeaths)
	}
	return hi
}

// Build lays out records as a scatterplot: StartYear on x over
// [min year, max year], TotalDeaths on y over [0, max deaths].
// An empty record set yields a chart with a title and no axes ticks or points.
func Build(records []domain.DisasterRecord, title string, layout Layout) Scatter {
	s := Scatter{
		Layout: layout,
		Title:  title,
		XLabel: "Year",
		YLabel: "Total Deaths",
		Points: make([]Point, 0, len(records)),
	}

	minYear, maxYear, ok := YearDomain(records)
	if !ok {
		return s
	}

	p := message.NewPrinter(language.English)
	x := NewLinear(minYear, maxYear, 0, layout.InnerWidth())
	y := NewLinear(0, MaxDeaths(records), layout.InnerHeight(), 0)

	for _, v := range x.Ticks(tickCount) {
		s.XTicks = append(s.XTicks, Tick{Pos: x.Map(v), Label: strconv.FormatFloat(math.Round(v), 'f', 0, 64)})
	}
	for _, v := range y.Ticks(tickCount) {
		s.YTicks = append(s.YTicks, Tick{Pos: y.Map(v), Label: formatCount(p, v)})
	}

	for _, r := range records {
		s.Points = append(s.Points, Point{
			CX:   x.Map(r.StartYear),
			CY:   y.Map(r.TotalDeaths),
			Fill: domain.ColorForGroup(r.Group),
			Tooltip: Tooltip{
				Country:  r.Country,
				Year:     strconv.FormatFloat(r.StartYear, 'f', -1, 64),
				Deaths:   formatCount(p, r.TotalDeaths),
				Group:    r.Group,
				Subgroup: r.Subgroup,
				Type:     r.Type,
				Subtype:  r.Subtype,
			},
		})
	}
	return s
}

// formatCount renders v with English digit grouping and at most three decimals.
func formatCount(p *message.Printer, v float64) string {
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}
