package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ErrorResponseCode is the machine-readable error code in API responses.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest        ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized      ErrorResponseCode = "unauthorized"
	ErrorResponseCodeSearchUnavailable ErrorResponseCode = "search_unavailable"
	ErrorResponseCodeInternalError     ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchResultItem is one ranked, visible record.
type SearchResultItem struct {
	RecordType     string    `json:"record_type"`
	RecordID       string    `json:"record_id"`
	DisplayName    string    `json:"display_name"`
	DisplayDetails string    `json:"display_details"`
	RelevanceScore float64   `json:"relevance_score"`
	IsPublic       bool      `json:"is_public"`
	CreatedAt      time.Time `json:"created_at"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Items     []SearchResultItem `json:"items"`
	Total     int                `json:"total"`
	Truncated bool               `json:"truncated"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// TruncatedHeader is set on search responses that hit the result cap.
const TruncatedHeader = "X-Results-Truncated"

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", s.metrics)
}
