// Package http exposes hosted charts over a REST API. Each request drives
// the chart through the same lifecycle hooks a chart library would fire,
// and responds with the sonification engine mutations it caused.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/aretw0/sonisync/internal/logging"
	"github.com/aretw0/sonisync/pkg/adapters/memory"
	"github.com/aretw0/sonisync/pkg/config"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
	"github.com/aretw0/sonisync/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Plugin is the lifecycle surface the server drives.
type Plugin interface {
	ports.ChartHooks
	State(chartID string) domain.Lifecycle
}

// ChartResponse is returned by every chart endpoint.
type ChartResponse struct {
	ID     string           `json:"id"`
	State  domain.Lifecycle `json:"state"`
	Ops    []memory.Op      `json:"ops"`
	Errors []string         `json:"errors,omitempty"`

	Chart  *memory.ChartDocument `json:"chart,omitempty"`
	Cursor *domain.Cursor        `json:"cursor,omitempty"`
}

// Server hosts in-memory charts backed by recording engines.
type Server struct {
	plugin  Plugin
	engines *memory.Factory
	serial  *session.Serializer
	store   ports.SnapshotStore
	opts    config.Options
	logger  *slog.Logger

	mu     sync.RWMutex
	charts map[string]*memory.Chart
}

// Option configures the Server.
type Option func(*Server)

// WithSerializer shares a chart serializer, e.g. one backed by a distributed locker.
func WithSerializer(s *session.Serializer) Option {
	return func(srv *Server) {
		srv.serial = s
	}
}

// WithSnapshotStore exposes the plugin's persisted fingerprints.
func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(srv *Server) {
		srv.store = store
	}
}

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(srv *Server) {
		srv.logger = logger
	}
}

// WithPluginOptions sets the options passed with every hook.
func WithPluginOptions(opts config.Options) Option {
	return func(srv *Server) {
		srv.opts = opts
	}
}

// NewServer creates a Server. engines must be the factory the plugin
// constructs its engines with.
func NewServer(plugin Plugin, engines *memory.Factory, opts ...Option) *Server {
	s := &Server{
		plugin:  plugin,
		engines: engines,
		serial:  session.NewSerializer(),
		logger:  logging.NewNop(),
		charts:  make(map[string]*memory.Chart),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Route("/charts", func(r chi.Router) {
		r.Get("/", s.listCharts)
		r.Post("/", s.createChart)
		r.Route("/{chartID}", func(r chi.Router) {
			r.Get("/", s.getChart)
			r.Put("/", s.updateChart)
			r.Delete("/", s.destroyChart)
			r.Get("/snapshot", s.getSnapshot)
			r.Post("/datasets/{index}/hide", s.setVisibility(false))
			r.Post("/datasets/{index}/show", s.setVisibility(true))
		})
	})
	return r
}

func (s *Server) listCharts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.charts))
	for id := range s.charts {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"charts": sortStrings(ids)})
}

func (s *Server) createChart(w http.ResponseWriter, r *http.Request) {
	var doc memory.ChartDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.badRequest(w, r, "invalid chart document", err)
		return
	}

	chart := memory.NewChart(doc)
	s.mu.Lock()
	if _, exists := s.charts[chart.ID()]; exists {
		s.mu.Unlock()
		http.Error(w, "chart already exists", http.StatusConflict)
		return
	}
	s.charts[chart.ID()] = chart
	s.mu.Unlock()

	resp, err := s.drive(r.Context(), chart, func(ctx context.Context, host *memory.Host) {
		host.Create(ctx, chart)
	})
	s.respond(w, r, http.StatusCreated, resp, err)
}

func (s *Server) getChart(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var resp ChartResponse
	err := s.serial.Do(r.Context(), chart.ID(), func(context.Context) error {
		doc := chart.Document()
		resp = ChartResponse{ID: chart.ID(), State: s.plugin.State(chart.ID()), Ops: []memory.Op{}, Chart: &doc}
		if e, ok := s.engines.Engine(chart.ID()); ok && resp.State == domain.LifecycleActive {
			cur := e.Current()
			resp.Cursor = &cur
		}
		return nil
	})
	s.respond(w, r, http.StatusOK, resp, err)
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if s.store == nil {
		http.Error(w, domain.ErrSnapshotNotFound.Error(), http.StatusNotFound)
		return
	}

	snap, err := s.store.Load(r.Context(), chart.ID())
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("Snapshot load failed", "chart_id", chart.ID(), "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(snap.Bytes())
}

func (s *Server) updateChart(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var doc memory.ChartDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.badRequest(w, r, "invalid chart document", err)
		return
	}

	resp, err := s.drive(r.Context(), chart, func(ctx context.Context, host *memory.Host) {
		applyDocument(chart, doc)
		host.Update(ctx, chart)
	})
	s.respond(w, r, http.StatusOK, resp, err)
}

func (s *Server) setVisibility(visible bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chart, ok := s.lookup(w, r)
		if !ok {
			return
		}
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil || index < 0 || index >= len(chart.Datasets()) {
			s.badRequest(w, r, "invalid dataset index", err)
			return
		}

		resp, err := s.drive(r.Context(), chart, func(ctx context.Context, host *memory.Host) {
			if visible {
				host.Show(ctx, chart, index)
			} else {
				host.Hide(ctx, chart, index)
			}
		})
		s.respond(w, r, http.StatusOK, resp, err)
	}
}

func (s *Server) destroyChart(w http.ResponseWriter, r *http.Request) {
	chart, ok := s.lookup(w, r)
	if !ok {
		return
	}

	resp, err := s.drive(r.Context(), chart, func(ctx context.Context, host *memory.Host) {
		host.Destroy(ctx, chart)
	})
	if err == nil {
		s.mu.Lock()
		delete(s.charts, chart.ID())
		s.mu.Unlock()
	}
	s.respond(w, r, http.StatusOK, resp, err)
}

// drive runs one lifecycle step under the chart's lock and collects the
// engine mutations and user-facing errors it produced.
func (s *Server) drive(ctx context.Context, chart *memory.Chart, step func(context.Context, *memory.Host)) (ChartResponse, error) {
	resp := ChartResponse{ID: chart.ID()}
	err := s.serial.Do(ctx, chart.ID(), func(ctx context.Context) error {
		opts := s.opts
		opts.ErrorCallback = func(msg string) {
			resp.Errors = append(resp.Errors, msg)
			s.opts.ReportError(msg)
		}
		step(ctx, memory.NewHost(s.plugin, opts))

		resp.State = s.plugin.State(chart.ID())
		if e, ok := s.engines.Engine(chart.ID()); ok {
			resp.Ops = e.Drain()
		}
		return nil
	})
	if resp.Ops == nil {
		resp.Ops = []memory.Op{}
	}
	return resp, err
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*memory.Chart, bool) {
	id := chi.URLParam(r, "chartID")
	s.mu.RLock()
	chart, ok := s.charts[id]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, domain.ErrChartNotFound.Error(), http.StatusNotFound)
		return nil, false
	}
	return chart, true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, resp ChartResponse, err error) {
	if err != nil {
		s.logger.Error("Chart request failed", "chart_id", resp.ID, "path", r.URL.Path, "err", err)
		code := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			code = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), code)
		return
	}
	writeJSON(w, status, resp)
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Warn("Rejected chart request", "path", r.URL.Path, "reason", msg, "err", err)
	http.Error(w, msg, http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
