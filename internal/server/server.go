// Package server is the HTTP preview server behind "archdiagram serve".
//
// Routes:
//
//	GET  /healthz                 liveness and build version
//	GET  /diagrams                registered blueprints (JSON)
//	GET  /diagrams/{name}         one blueprint rendered on demand
//	                              (?format=svg|png|jpg|dot|json, ?direction=, ?detailed=true)
//	POST /render                  render a definition sent in the body
//	                              (?syntax=toml|yaml|json or by Content-Type)
//	GET  /categories              icon categories (JSON)
//	GET  /metrics                 Prometheus metrics
//
// Rendering goes through the same pipeline.Runner as the CLI, so results are
// shared through the artifact cache. Errors are JSON objects carrying the
// error code.
package server

import (
	"context"
	"encoding/json"
	stdio "io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/archdiagram/pkg/blueprint"
	"github.com/matzehuels/archdiagram/pkg/buildinfo"
	"github.com/matzehuels/archdiagram/pkg/cache"
	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/io"
	"github.com/matzehuels/archdiagram/pkg/pipeline"
	"github.com/matzehuels/archdiagram/pkg/render"
)

const (
	// DefaultAddr is the listen address of "archdiagram serve".
	DefaultAddr = ":8080"

	// defaultPreviewFormat is what browsers get without ?format.
	defaultPreviewFormat = render.FormatSVG

	// maxDefinitionBytes caps POST /render bodies.
	maxDefinitionBytes = 1 << 20

	shutdownTimeout = 5 * time.Second
)

// Server serves diagram previews.
type Server struct {
	runner   *pipeline.Runner
	registry *blueprint.Registry
	metrics  *Metrics
	logger   *log.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRegistry serves blueprints from r instead of the default registry.
func WithRegistry(r *blueprint.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// WithMetrics exposes m on /metrics and records requests in it.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New returns a server rendering through runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		registry: blueprint.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(stdio.Discard, log.Options{})
	}
	s.router = s.routes()
	return s
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/categories", s.handleCategories)
	r.Post("/render", s.handleRender)
	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{name}", s.handleDiagram)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. It returns ctx.Err() after a cancellation-triggered shutdown.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// instrument logs each request and records it in the metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.observeRequest(r.Method, route, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "bytes", ww.BytesWritten(), "duration", elapsed)
	})
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version, Commit: buildinfo.Commit})
}

type diagramInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Direction   string `json:"direction"`
	URL         string `json:"url"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	bps := s.registry.All()
	out := make([]diagramInfo, len(bps))
	for i, bp := range bps {
		dir := string(bp.Direction)
		if dir == "" {
			dir = string(diagram.DefaultDirection)
		}
		out[i] = diagramInfo{
			Name:        bp.Name,
			Title:       bp.Title,
			Description: bp.Description,
			Direction:   dir,
			URL:         "/diagrams/" + bp.Name,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryInfo struct {
	Category string `json:"category"`
	Provider string `json:"provider"`
	Caption  string `json:"caption"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	icons := catalog.All()
	out := make([]categoryInfo, len(icons))
	for i, icon := range icons {
		out[i] = categoryInfo{
			Category: string(icon.Category),
			Provider: string(icon.Provider),
			Caption:  icon.Caption,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	bp, err := s.registry.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.preview(w, r, bp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	syntax, err := requestSyntax(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	def, err := io.ReadDefinition(http.MaxBytesReader(w, r.Body, maxDefinitionBytes), syntax)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if def.Name == "" {
		def.Name = "posted"
	}
	bp, err := def.Blueprint()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.preview(w, r, bp)
}

// preview renders bp in the requested format and writes it with an ETag
// derived from the content.
func (s *Server) preview(w http.ResponseWriter, r *http.Request, bp blueprint.Blueprint) {
	q := r.URL.Query()

	format := defaultPreviewFormat
	if v := q.Get("format"); v != "" {
		f, err := render.ParseFormat(v)
		if err != nil {
			s.writeError(w, err)
			return
		}
		format = f
	}
	detailed, _ := strconv.ParseBool(q.Get("detailed"))

	res, err := s.runner.Preview(r.Context(), bp, format, pipeline.Options{
		Direction: q.Get("direction"),
		Detailed:  detailed,
		Logger:    s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(res.Artifacts) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInternal, "no %s artifact produced for %q", format, bp.Name))
		return
	}
	data := res.Artifacts[0].Data

	etag := `"` + cache.Hash(data) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Diagram-Nodes", strconv.Itoa(res.Stats.Nodes))
	w.Header().Set("X-Diagram-Edges", strconv.Itoa(res.Stats.Edges))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("write response", "error", err)
	}
}

// requestSyntax picks the definition syntax from ?syntax or the Content-Type.
func requestSyntax(r *http.Request) (io.Syntax, error) {
	if v := r.URL.Query().Get("syntax"); v != "" {
		switch s := io.Syntax(v); s {
		case io.SyntaxTOML, io.SyntaxYAML, io.SyntaxJSON:
			return s, nil
		}
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported syntax %q (must be one of: toml, yaml, json)", v)
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/toml":
		return io.SyntaxTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return io.SyntaxYAML, nil
	case "application/json":
		return io.SyntaxJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot tell definition syntax from Content-Type %q (use ?syntax=)", mt)
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDirection, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidCategory, errors.ErrCodeUnknownNodeRef, errors.ErrCodeInvalidScope, errors.ErrCodeScopeClosed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "error", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
