// Package plot renders a disaster scatterplot to SVG or PNG with gonum/plot.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/disaster-scatter/internal/domain"
)

// ErrUnsupportedFormat is returned for an output format other than svg or png.
var ErrUnsupportedFormat = errors.New("unsupported chart format")

// Format is an image encoding understood by Render.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSVG, FormatPNG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Options sizes the rendered image.
type Options struct {
	Width  vg.Length
	Height vg.Length
	Radius vg.Length
}

// DefaultOptions matches the proportions of the interactive chart.
func DefaultOptions() Options {
	return Options{
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
		Radius: vg.Points(3),
	}
}

// series is one legend entry. Order here is legend order.
var series = []struct {
	label string
	color domain.Color
}{
	{"Natural", domain.ColorNatural},
	{"Technological", domain.ColorTechnological},
	{"Other", domain.ColorDefault},
}

var palette = map[domain.Color]color.RGBA{
	domain.ColorNatural:       {R: 0, G: 128, B: 0, A: 255},
	domain.ColorTechnological: {R: 255, G: 0, B: 0, A: 255},
	domain.ColorDefault:       {R: 128, G: 128, B: 128, A: 255},
}

// Render draws records as a year vs. total deaths scatterplot and writes the
// encoded image to w.
func Render(w io.Writer, title string, records []domain.DisasterRecord, format Format, opts Options) error {
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}

	p, err := build(title, records, opts)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, string(format))
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

func build(title string, records []domain.DisasterRecord, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Total Deaths"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	groups := make(map[domain.Color]plotter.XYs, len(series))
	for _, r := range records {
		c := domain.ColorForGroup(r.Group)
		groups[c] = append(groups[c], plotter.XY{X: r.StartYear, Y: r.TotalDeaths})
	}

	for _, s := range series {
		pts := groups[s.color]
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("build %s series: %w", s.label, err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Color = palette[s.color]
		sc.GlyphStyle.Radius = opts.Radius
		p.Add(sc)
		p.Legend.Add(s.label, sc)
	}

	// Deaths are counted from zero, as on the interactive chart.
	p.Y.Min = 0
	if len(records) == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Max = 1
	}
	return p, nil
}
