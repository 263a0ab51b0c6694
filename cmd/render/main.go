// Command render loads a disaster table once and writes the scatterplot for
// one country, or for all countries, as an SVG or PNG file.
//
// Usage:
//
//	go run ./cmd/render \
//	  -data data/df_subset.csv \
//	  -country Peru \
//	  -out peru.svg
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/disaster-scatter/internal/adapter/dataset"
	"github.com/couchcryptid/disaster-scatter/internal/adapter/plot"
	"github.com/couchcryptid/disaster-scatter/internal/chart"
	"github.com/couchcryptid/disaster-scatter/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dataPath := flag.String("data", "data/df_subset.csv", "path to the disaster table (.csv, .xlsx or .xls)")
	country := flag.String("country", "", "country to plot; empty plots all countries")
	out := flag.String("out", "", "output image path")
	format := flag.String("format", "", "svg or png; defaults to the -out extension")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	if *format == "" {
		*format = strings.TrimPrefix(filepath.Ext(*out), ".")
	}
	f, err := plot.ParseFormat(strings.ToLower(*format))
	if err != nil {
		return err
	}

	src, err := dataset.NewFileSource(*dataPath)
	if err != nil {
		return err
	}
	raw, err := src.Read(context.Background())
	if err != nil {
		return fmt.Errorf("loading %s: %w", *dataPath, err)
	}

	ds := domain.NewDataset(src.Name(), "", raw, time.Now())
	records := domain.FilterByCountry(ds.Records, *country)
	title := chart.Title(*country)

	log.Printf("%s: %d rows, %d valid, %d countries", ds.Source, ds.TotalRows, len(ds.Records), len(ds.Countries))
	log.Printf("showing %d data points for: %s", len(records), title)

	file, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *out, err)
	}
	if err := plot.Render(file, title, records, f, plot.DefaultOptions()); err != nil {
		file.Close() //nolint:errcheck // already failing
		return fmt.Errorf("rendering %s: %w", *out, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", *out, err)
	}

	log.Printf("wrote %s", *out)
	return nil
}
