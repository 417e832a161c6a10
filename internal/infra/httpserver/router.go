package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	appanalysis "github.com/bryanwahyu/wireframe-extract/internal/application/analysis"
	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
	"github.com/bryanwahyu/wireframe-extract/internal/domain/screenshots"
	"github.com/bryanwahyu/wireframe-extract/internal/middleware"
)

// Options for NewRouter
type Options struct {
	InputDir       string // request folders are resolved under this root
	OutputDir      string // results go to <OutputDir>/<tenant>/...
	APIKeys        map[string]string
	AllowedOrigins []string
	Checkers       map[string]middleware.HealthChecker
}

type Router struct {
	svc  *appanalysis.Service
	opts Options
}

var errNotFound = errors.New("not found")

func NewRouter(svc *appanalysis.Service, opts Options) http.Handler {
	r := &Router{svc: svc, opts: opts}
	mux := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(opts.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Use(middleware.RequireValidTenant)
		rt.Post("/analyses", r.wrap(r.handleAnalyze))
		rt.Get("/analyses", r.wrap(r.handleList))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Post("/projects", r.wrap(r.handleProject))
		rt.Get("/runs/{id}/errors", r.wrap(r.handleRunErrors))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest is a client input error
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

// runFailure ties an error to the run that produced it
type runFailure struct {
	runID string
	err   error
}

func (e *runFailure) Error() string { return e.err.Error() }
func (e *runFailure) Unwrap() error { return e.err }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			body := map[string]string{"error": err.Error()}
			var rf *runFailure
			if errors.As(err, &rf) {
				body["run_id"] = rf.runID
			}
			if stage := domain.FailedStage(err); stage != "" {
				body["stage"] = stage
			}
			writeJSON(w, statusFor(err), body)
		}
	}
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var br *badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, errNotFound), errors.Is(err, screenshots.ErrInputNotFound):
		return http.StatusNotFound
	case errors.Is(err, screenshots.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrExternalService):
		return http.StatusBadGateway
	case errors.Is(err, appanalysis.ErrNoRepository):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/{tenant}/analyses
// Body: {"mode": "feature", "subject": "Checkout", "folder": "feature-checkout"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	var body struct {
		Mode    string `json:"mode"`
		Subject string `json:"subject"`
		Folder  string `json:"folder"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &badRequest{fmt.Sprintf("invalid body: %v", err)}
	}
	if err := middleware.ValidateMode(body.Mode); err != nil {
		return &badRequest{err.Error()}
	}
	if err := middleware.ValidateFolder(body.Folder); err != nil {
		return &badRequest{err.Error()}
	}

	subject := middleware.SanitizeString(body.Subject)
	if subject == "" {
		subject = domain.DisplayName(body.Folder)
	}
	runID := uuid.New().String()

	middleware.AnalysisStarted()
	res, outputs, err := r.svc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		RunID:     runID,
		TenantID:  tenant,
		Mode:      domain.Mode(strings.ToLower(body.Mode)),
		Subject:   subject,
		Folder:    filepath.Join(r.opts.InputDir, filepath.Clean(body.Folder)),
		OutputDir: filepath.Join(r.opts.OutputDir, tenant, domain.Slug(subject)),
	})
	if err != nil {
		middleware.AnalysisFinished(0, 0, true)
		return &runFailure{runID: runID, err: err}
	}
	middleware.AnalysisFinished(len(res.ImagesAnalyzed), res.Metadata.TokensUsed, false)

	return writeJSON(w, http.StatusCreated, map[string]any{
		"run_id":  runID,
		"result":  res,
		"outputs": outputs,
	})
}

// POST /v1/{tenant}/projects
// Body: {"feature": "reviews", "folder": "project-analyze/reviews"}
func (r *Router) handleProject(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	var body struct {
		Feature string `json:"feature"`
		Folder  string `json:"folder"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &badRequest{fmt.Sprintf("invalid body: %v", err)}
	}
	if err := middleware.ValidateFolder(body.Folder); err != nil {
		return &badRequest{err.Error()}
	}

	feature := middleware.SanitizeString(body.Feature)
	if feature == "" {
		feature = filepath.Base(filepath.Clean(body.Folder))
	}
	runID := uuid.New().String()

	middleware.AnalysisStarted()
	p, err := r.svc.AnalyzeProject(req.Context(), appanalysis.ProjectCommand{
		RunID:     runID,
		TenantID:  tenant,
		Feature:   feature,
		Folder:    filepath.Join(r.opts.InputDir, filepath.Clean(body.Folder)),
		OutputDir: filepath.Join(r.opts.OutputDir, tenant, "project-analyze", domain.Slug(feature)),
	})
	if err != nil {
		middleware.AnalysisFinished(0, 0, true)
		return &runFailure{runID: runID, err: err}
	}
	middleware.AnalysisFinished(len(p.Result.ImagesAnalyzed), p.Result.Metadata.TokensUsed, false)

	return writeJSON(w, http.StatusCreated, map[string]any{
		"run_id":  runID,
		"project": p,
	})
}

// GET /v1/{tenant}/analyses?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.svc.List(req.Context(), tenant, page, middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Result{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/{tenant}/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRunID(id); err != nil {
		return &badRequest{err.Error()}
	}

	res, err := r.svc.Get(req.Context(), tenant, id)
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("analysis %s: %w", id, errNotFound)
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /v1/{tenant}/runs/{id}/errors?limit=20
func (r *Router) handleRunErrors(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRunID(id); err != nil {
		return &badRequest{err.Error()}
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.RunErrors(req.Context(), tenant, id, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	if list == nil {
		return writeJSON(w, http.StatusOK, []any{})
	}
	return writeJSON(w, http.StatusOK, list)
}
