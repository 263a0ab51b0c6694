package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/disaster-scatter/internal/domain"
)

func TestLinear_Map(t *testing.T) {
	s := NewLinear(2000, 2020, 0, 870)

	assert.InDelta(t, 0, s.Map(2000), 1e-9)
	assert.InDelta(t, 435, s.Map(2010), 1e-9)
	assert.InDelta(t, 870, s.Map(2020), 1e-9)
}

func TestLinear_MapInverted(t *testing.T) {
	s := NewLinear(0, 100, 430, 0)

	assert.InDelta(t, 430, s.Map(0), 1e-9)
	assert.InDelta(t, 0, s.Map(100), 1e-9)
	assert.InDelta(t, 215, s.Map(50), 1e-9)
}

func TestLinear_DegenerateDomain(t *testing.T) {
	s := NewLinear(2001, 2001, 0, 870)
	assert.InDelta(t, 435, s.Map(2001), 1e-9)
}

func TestLinear_Ticks(t *testing.T) {
	tests := []struct {
		name   string
		d0, d1 float64
		want   []float64
	}{
		{"zero to hundred", 0, 100, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
		{"years", 2000, 2020, []float64{2000, 2002, 2004, 2006, 2008, 2010, 2012, 2014, 2016, 2018, 2020}},
		{"unaligned", 1903, 1987, []float64{1910, 1920, 1930, 1940, 1950, 1960, 1970, 1980}},
		{"fractional", 0, 1, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}},
		{"large", 0, 500000, []float64{0, 50000, 100000, 150000, 200000, 250000, 300000, 350000, 400000, 450000, 500000}},
		{"reversed domain", 100, 0, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
		{"single value", 5, 5, []float64{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewLinear(tt.d0, tt.d1, 0, 1).Ticks(10))
		})
	}
}

func TestLinear_TicksNoCount(t *testing.T) {
	assert.Nil(t, NewLinear(0, 10, 0, 1).Ticks(0))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "All Countries", Title(""))
	assert.Equal(t, "Peru", Title("Peru"))
}

func TestDomains(t *testing.T) {
	records := []domain.DisasterRecord{
		{StartYear: 1990, TotalDeaths: 12},
		{StartYear: 1970, TotalDeaths: 66794},
		{StartYear: 2004, TotalDeaths: 3},
	}

	lo, hi, ok := YearDomain(records)
	require.True(t, ok)
	assert.Equal(t, 1970.0, lo)
	assert.Equal(t, 2004.0, hi)
	assert.Equal(t, 66794.0, MaxDeaths(records))

	_, _, ok = YearDomain(nil)
	assert.False(t, ok)
	assert.Zero(t, MaxDeaths(nil))
}

func TestBuild(t *testing.T) {
	layout := DefaultLayout()
	records := []domain.DisasterRecord{
		{
			RawRecord: domain.RawRecord{
				Country:  "Peru",
				Group:    domain.GroupNatural,
				Subgroup: "Geophysical",
				Type:     "Earthquake",
				Subtype:  "Ground movement",
			},
			StartYear:   1970,
			TotalDeaths: 66794,
		},
		{
			RawRecord:   domain.RawRecord{Country: "India", Group: domain.GroupTechnological},
			StartYear:   1984,
			TotalDeaths: 2500.5,
		},
		{
			RawRecord:   domain.RawRecord{Country: "Chile", Group: "Complex Disasters"},
			StartYear:   1977,
			TotalDeaths: 10,
		},
	}

	s := Build(records, "All Countries", layout)

	assert.Equal(t, "All Countries", s.Title)
	assert.Equal(t, "Year", s.XLabel)
	assert.Equal(t, "Total Deaths", s.YLabel)
	require.Len(t, s.Points, 3)

	peru := s.Points[0]
	assert.InDelta(t, 0, peru.CX, 1e-9)
	assert.InDelta(t, 0, peru.CY, 1e-9, "max deaths sits at the top")
	assert.Equal(t, domain.ColorNatural, peru.Fill)
	assert.Equal(t, Tooltip{
		Country:  "Peru",
		Year:     "1970",
		Deaths:   "66,794",
		Group:    "Natural",
		Subgroup: "Geophysical",
		Type:     "Earthquake",
		Subtype:  "Ground movement",
	}, peru.Tooltip)

	india := s.Points[1]
	assert.InDelta(t, layout.InnerWidth(), india.CX, 1e-9)
	assert.Equal(t, domain.ColorTechnological, india.Fill)
	assert.Equal(t, "2,500.5", india.Tooltip.Deaths)

	assert.Equal(t, domain.ColorDefault, s.Points[2].Fill)

	require.NotEmpty(t, s.XTicks)
	assert.Equal(t, "1970", s.XTicks[0].Label)
	require.NotEmpty(t, s.YTicks)
	assert.Equal(t, "0", s.YTicks[0].Label)
	assert.InDelta(t, layout.InnerHeight(), s.YTicks[0].Pos, 1e-9)
	assert.Equal(t, "5,000", s.YTicks[1].Label)
}

func TestBuild_Empty(t *testing.T) {
	s := Build(nil, "Nowhere", DefaultLayout())

	assert.Equal(t, "Nowhere", s.Title)
	assert.Empty(t, s.Points)
	assert.Empty(t, s.XTicks)
	assert.Empty(t, s.YTicks)
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, 870.0, l.InnerWidth())
	assert.Equal(t, 430.0, l.InnerHeight())
	assert.Equal(t, 3.0, l.Radius)
	assert.Equal(t, 6.0, l.HoverRadius)
}
