package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Problem type URIs. Relative references are resolved against the API
// base URL by clients; the values double as stable error identifiers.
const (
	TypeValidation = "/errors/validation"
	TypeParsing    = "/errors/parsing"
	TypeSchema     = "/errors/schema"
	TypeNotFound   = "/errors/not-found"
	TypeStorage    = "/errors/storage"
	TypeRateLimit  = "/errors/rate-limit"
	TypeInternal   = "/errors/internal"
	TypeTimeout    = "/errors/timeout"
)

// ProblemDetails implements RFC 7807 problem+json responses.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Extension members
	TraceID    string                 `json:"trace_id,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Extensions map[string]interface{} `json:"-"`
}

// NewProblemDetails creates a problem with sensible defaults.
func NewProblemDetails(status int, problemType, title, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:      problemType,
		Title:     title,
		Status:    status,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}

// WithInstance sets the instance URI, normally the request path.
func (p *ProblemDetails) WithInstance(instance string) *ProblemDetails {
	p.Instance = instance
	return p
}

// WithTraceID attaches the request trace ID.
func (p *ProblemDetails) WithTraceID(traceID string) *ProblemDetails {
	p.TraceID = traceID
	return p
}

// WithExtension adds a custom extension member.
func (p *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if p.Extensions == nil {
		p.Extensions = make(map[string]interface{})
	}
	p.Extensions[key] = value
	return p
}

// MarshalJSON flattens extension members into the top-level object as
// RFC 7807 requires.
func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	type alias ProblemDetails
	base, err := json.Marshal((*alias)(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extensions) == 0 {
		return base, nil
	}

	var m map[string]interface{}
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range p.Extensions {
		m[k] = v
	}
	return json.Marshal(m)
}

// Error implements the error interface.
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", p.Title, p.Detail, p.Status)
}

// Render writes the problem response. chi render would re-stamp the
// Content-Type with application/json, so the body is encoded directly.
func (p *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	return json.NewEncoder(w).Encode(p)
}

// Convenience constructors for common problems.

// ProblemBadRequest builds a 400 validation problem.
func ProblemBadRequest(detail string) *ProblemDetails {
	return NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", detail)
}

// ProblemNotFound builds a 404 problem for a missing resource.
func ProblemNotFound(resource string) *ProblemDetails {
	return NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found",
		fmt.Sprintf("%s not found", resource))
}

// ProblemUnprocessable builds a 422 schema problem.
func ProblemUnprocessable(detail string) *ProblemDetails {
	return NewProblemDetails(http.StatusUnprocessableEntity, TypeSchema, "Unprocessable Entity", detail)
}

// ProblemInternal builds a 500 problem with a generic detail so
// internals never leak to clients.
func ProblemInternal() *ProblemDetails {
	return NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred")
}

// ProblemTooManyRequests builds a 429 rate-limit problem.
func ProblemTooManyRequests() *ProblemDetails {
	return NewProblemDetails(http.StatusTooManyRequests, TypeRateLimit, "Too Many Requests",
		"Request rate limit exceeded, retry later")
}
