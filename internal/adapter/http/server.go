package http

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/disaster-scatter/internal/adapter/plot"
	"github.com/couchcryptid/disaster-scatter/internal/chart"
	"github.com/couchcryptid/disaster-scatter/internal/observability"
	"github.com/couchcryptid/disaster-scatter/internal/view"
)

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"px": px,
}).Parse(pageHTML))

// Dashboard is the view state the server renders and updates.
type Dashboard interface {
	Current() view.View
	Select(country string) view.View
}

// Server serves the scatterplot page, chart exports, and the health,
// readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	exporter   *plot.CachedExporter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the page, selection, export, and
// operational routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, dash Dashboard, exporter *plot.CachedExporter, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dash,
		exporter:  exporter,
		metrics:   metrics,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /selection", s.handleSelection)
	mux.HandleFunc("GET /chart.svg", s.handleChart(plot.FormatSVG, "image/svg+xml"))
	mux.HandleFunc("GET /chart.png", s.handleChart(plot.FormatPNG, "image/png"))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping")
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type pageData struct {
	view.View
	Layout      chart.Layout
	InnerWidth  float64
	InnerHeight float64
	HalfWidth   float64
	HalfHeight  float64
	XLabelY     float64
	// SelectionMissing reports a selection the country list does not hold,
	// such as a country dropped by a reload.
	SelectionMissing bool
}

func newPageData(v view.View) pageData {
	l := v.Scatter.Layout
	return pageData{
		View:        v,
		Layout:      l,
		InnerWidth:  l.InnerWidth(),
		InnerHeight: l.InnerHeight(),
		HalfWidth:   l.InnerWidth() / 2,
		HalfHeight:  l.InnerHeight() / 2,
		XLabelY:     l.InnerHeight() + l.MarginBottom - 20,

		SelectionMissing: v.Selection != "" && !slices.Contains(v.Countries, v.Selection),
	}
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageData(s.dashboard.Current())); err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	s.metrics.Renders.WithLabelValues("html").Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.dashboard.Select(r.PostForm.Get("country"))
	s.metrics.SelectionChanges.Inc()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleChart(format plot.Format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		v := s.dashboard.Current()
		key := v.Dataset.Version + "|" + v.Selection + "|" + string(format)

		img, hit, err := s.exporter.Export(key, v.Title, v.Records, format)
		if err != nil {
			s.logger.Error("render chart", "format", format, "error", err)
			http.Error(w, "failed to render chart", http.StatusInternalServerError)
			return
		}
		if hit {
			s.metrics.ChartCacheHits.Inc()
		} else {
			s.metrics.Renders.WithLabelValues(string(format)).Inc()
		}

		w.Header().Set("Content-Type", contentType)
		w.Write(img) //nolint:errcheck // client may have gone away
	}
}

// px formats a pixel value with at most two decimals.
func px(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
