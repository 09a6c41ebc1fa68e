package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kinsearch/internal/domain"
	"github.com/kailas-cloud/kinsearch/internal/domain/search/query"
	"github.com/kailas-cloud/kinsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/kinsearch/internal/logger"
	healthuc "github.com/kailas-cloud/kinsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kinsearch/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	metrics       http.Handler
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:  search,
		health:  health,
		logger:  logger,
		metrics: promhttp.Handler(),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrStoreUnavailable,
			http.StatusServiceUnavailable, ErrorResponseCodeSearchUnavailable),
		sentinelHandler(domain.ErrInvalidField,
			http.StatusBadRequest, ErrorResponseCodeBadRequest),
	}
	return s
}

// WithMetricsGatherer serves /metrics from g instead of the default registry.
func (s *Server) WithMetricsGatherer(g prometheus.Gatherer) *Server {
	s.metrics = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	return s
}

// Search handles GET /search?q=&field=. field is one of text (default),
// name, location or date.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid query parameter q")
		return
	}
	var rawField string
	if err := runtime.BindQueryParameter("form", true, false, "field", r.URL.Query(), &rawField); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid query parameter field")
		return
	}
	field, err := query.ParseField(rawField)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "field must be one of text, name, location, date")
		return
	}

	page, err := s.search.SearchField(r.Context(), field, q, ActorFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SearchResultItem, len(page.Results))
	for i := range page.Results {
		items[i] = searchResultToAPI(&page.Results[i])
	}

	if page.Truncated {
		w.Header().Set(TruncatedHeader, "true")
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Items:     items,
		Total:     len(items),
		Truncated: page.Truncated,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return "search temporarily unavailable, try again"
	}
	if errors.Is(err, domain.ErrInvalidField) {
		return "invalid search value, dates must be YYYY-MM-DD"
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func searchResultToAPI(r *result.Result) SearchResultItem {
	return SearchResultItem{
		RecordType:     string(r.Kind()),
		RecordID:       r.ID(),
		DisplayName:    r.DisplayName(),
		DisplayDetails: r.Summary(),
		RelevanceScore: r.Score(),
		IsPublic:       r.IsPublic(),
		CreatedAt:      r.CreatedAt(),
	}
}
