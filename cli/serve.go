package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/reoring/skema"
	"github.com/reoring/skema/internal/logging"
	"github.com/reoring/skema/metrics"
	"github.com/reoring/skema/middleware"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a Registry over HTTP.
type Server struct {
	Registry  *skema.Registry
	Validator *skema.Validator
	// ParseOpt is applied to request bodies; Name and Validator are set per
	// request.
	ParseOpt skema.ParseOpt
	// Gatherer backs GET /metrics when set.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler builds the router:
//
//	GET  /schemas                  registered names
//	GET  /schemas/{name}           structural description
//	POST /schemas/{name}/validate  {"value": ...} or 422 {"issues": [...]}
//	GET  /metrics                  Prometheus exposition (when Gatherer is set)
func NewHandler(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Get("/schemas", s.listSchemas)
	r.Get("/schemas/{name}", s.getSchema)
	r.Post("/schemas/{name}/validate", s.validate)
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) listSchemas(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"schemas": s.Registry.Names()})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*skema.Schema, string, bool) {
	name := chi.URLParam(r, "name")
	sch, err := s.Registry.Lookup(name)
	if err != nil {
		middleware.WriteJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
		return nil, name, false
	}
	return sch, name, true
}

func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	sch, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, sch.JSONSchema())
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	sch, name, ok := s.lookup(w, r)
	if !ok {
		return
	}
	opt := s.ParseOpt
	opt.Name = name
	opt.Validator = s.Validator
	v, err := middleware.Parse(r, sch, opt)
	if err != nil {
		iss, _ := skema.AsIssues(err)
		middleware.WriteIssues(w, r, iss)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, skema.Result{Value: v})
}

func (a *app) serveCommand() *cobra.Command {
	var (
		addr             string
		maxDepth         int
		maxBytes         int64
		strictDuplicates bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve registered schemas over HTTP",
		Long:  `Starts an HTTP server exposing the registered schemas, a validation endpoint per schema and Prometheus metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			promReg := prometheus.NewRegistry()
			collector, err := metrics.NewCollector(promReg)
			if err != nil {
				return fmt.Errorf("registering metrics: %w", err)
			}
			f := &validateFlags{maxDepth: maxDepth, maxBytes: maxBytes, strictDuplicates: strictDuplicates}
			srv := &Server{
				Registry:  a.reg,
				Validator: a.validator(skema.WithObserver(collector)),
				ParseOpt:  f.parseOpt("", nil),
				Gatherer:  promReg,
				Logger:    a.logger,
			}
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 64, "Maximum nesting depth of request bodies (0 = unlimited)")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 1<<20, "Maximum request body size in bytes (0 = unlimited)")
	cmd.Flags().BoolVar(&strictDuplicates, "strict-duplicates", true, "Reject duplicate JSON object keys")
	return cmd
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger := s.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "schemas", len(s.Registry.Names()))
		serverErrors <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return httpSrv.Close()
		}
		return nil
	}
}
