// Package view holds the live dashboard state: the published dataset and the
// current country selection.
package view

import (
	"log/slog"
	"sync"

	"github.com/couchcryptid/disaster-scatter/internal/chart"
	"github.com/couchcryptid/disaster-scatter/internal/domain"
)

// View is a consistent snapshot of what the dashboard shows.
type View struct {
	Selection string
	Title     string
	Countries []string
	Records   []domain.DisasterRecord
	Scatter   chart.Scatter
	Dataset   domain.Dataset
}

// Dashboard owns the selection state and renders views from the current
// dataset. It implements pipeline.Publisher.
type Dashboard struct {
	mu        sync.RWMutex
	dataset   domain.Dataset
	selection string
	layout    chart.Layout
	logger    *slog.Logger
}

// NewDashboard creates a dashboard with no dataset and no selection.
func NewDashboard(layout chart.Layout, logger *slog.Logger) *Dashboard {
	return &Dashboard{layout: layout, logger: logger}
}

// Publish replaces the dataset. The selection is kept even when the new
// dataset no longer contains that country.
func (d *Dashboard) Publish(ds domain.Dataset) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dataset = ds
}

// Selection returns the current country selection, "" for all countries.
func (d *Dashboard) Selection() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selection
}

// Select sets the country selection and returns the resulting view. Setting
// and rendering happen under one lock, so the returned view always reflects
// this selection and a single dataset.
func (d *Dashboard) Select(country string) View {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection = country
	v := d.render()
	d.logger.Info("selection changed", "country", country, "points", len(v.Records), "title", v.Title)
	return v
}

// Current returns the view for the current selection.
func (d *Dashboard) Current() View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.render()
}

// render must be called with mu held.
func (d *Dashboard) render() View {
	records := domain.FilterByCountry(d.dataset.Records, d.selection)
	title := chart.Title(d.selection)
	countries := d.dataset.Countries
	if countries == nil {
		countries = []string{}
	}
	return View{
		Selection: d.selection,
		Title:     title,
		Countries: countries,
		Records:   records,
		Scatter:   chart.Build(records, title, d.layout),
		Dataset:   d.dataset,
	}
}
