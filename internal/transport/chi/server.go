// Package chi exposes the HTTP API: task CRUD, search, stats, and health.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/search/mode"
	"github.com/taskhive/taskhive/internal/domain/search/query"
	domtask "github.com/taskhive/taskhive/internal/domain/task"
	healthuc "github.com/taskhive/taskhive/internal/usecase/health"
	searchuc "github.com/taskhive/taskhive/internal/usecase/search"
	taskuc "github.com/taskhive/taskhive/internal/usecase/task"
)

// userIDHeader carries the caller identity used for task ownership.
const userIDHeader = "X-User-ID"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the use case services behind the HTTP handlers.
type Server struct {
	tasks         *taskuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	tasks *taskuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		tasks:  tasks,
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTaskNotFound, http.StatusNotFound, CodeTaskNotFound),
		sentinelHandler(domain.ErrInvalidTask, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreUnavailable),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.CreateTask)
			r.Get("/", s.ListTasks)
			r.Get("/stats", s.TaskStats)
			r.Get("/{id}", s.GetTask)
			r.Put("/{id}", s.UpdateTask)
			r.Delete("/{id}", s.DeleteTask)
		})
		r.Post("/search", s.Search)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// CreateTask handles POST /api/v1/tasks.
func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	in := taskuc.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domtask.Status(req.Status),
		Severity:    domtask.Severity(req.Severity),
		AssignedTo:  req.AssignedTo,
	}

	t, err := s.tasks.Create(r.Context(), in, r.Header.Get(userIDHeader))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/tasks/"+t.ID())
	writeJSON(w, http.StatusCreated, taskToDTO(&t))
}

// GetTask handles GET /api/v1/tasks/{id}.
func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToDTO(&t))
}

// ListTasks handles GET /api/v1/tasks. Filters come from query parameters:
// status, severity, tags (comma-separated), created_by.
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	tasks, err := s.tasks.List(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]taskResponse, len(tasks))
	for i := range tasks {
		items[i] = taskToDTO(&tasks[i])
	}
	writeJSON(w, http.StatusOK, taskListResponse{Items: items, Total: len(items)})
}

// UpdateTask handles PUT /api/v1/tasks/{id}. Absent body fields are left
// unchanged.
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p := patchFromRequest(req)
	if p.IsEmpty() {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "update must change at least one field")
		return
	}

	t, err := s.tasks.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskToDTO(&t))
}

// DeleteTask handles DELETE /api/v1/tasks/{id}.
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TaskStats handles GET /api/v1/tasks/stats.
func (s *Server) TaskStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.tasks.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := query.New(req.Query, mode.Mode(req.Mode), req.Limit, req.ScopeUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, safeDomainMessage(err))
		return
	}

	resp, err := s.search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItem, len(resp.Results))
	for i := range resp.Results {
		items[i] = resultToDTO(&resp.Results[i])
	}

	out := searchResponse{
		Results:     items,
		Total:       len(items),
		Suggestions: resp.Suggestions,
	}
	if resp.EnhancedQuery != q.Text() {
		out.EnhancedQuery = resp.EnhancedQuery
	}
	writeJSON(w, http.StatusOK, out)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func filterFromParams(r *http.Request) (domtask.Filter, error) {
	var f domtask.Filter

	if v := r.URL.Query().Get("status"); v != "" {
		st := domtask.Status(v)
		if !st.IsValid() {
			return domtask.Filter{}, errors.New("unknown status " + strconv.Quote(v))
		}
		f.Status = st
	}
	if v := r.URL.Query().Get("severity"); v != "" {
		sev := domtask.Severity(v)
		if !sev.IsValid() {
			return domtask.Filter{}, errors.New("unknown severity " + strconv.Quote(v))
		}
		f.Severity = sev
	}
	if v := r.URL.Query().Get("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}
	f.CreatedBy = r.URL.Query().Get("created_by")

	return f, nil
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
