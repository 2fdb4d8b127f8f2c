package errors

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"tradelens/internal/dataprocessing"
	"tradelens/internal/infrastructure"
)

// ErrorHandler centralizes error-to-response mapping and logging.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates an error handler with the given logger.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger}
}

// HandleError logs the error and writes an RFC 7807 response.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.ErrorToProblem(r.Context(), err)
	problem.WithInstance(r.URL.Path)
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithTraceID(traceID)
	}

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.LogAttrs(r.Context(), level, "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", problem.Status),
		slog.String("type", problem.Type),
		slog.String("error", err.Error()),
	)

	if renderErr := problem.Render(w, r); renderErr != nil {
		h.logger.ErrorContext(r.Context(), "failed to render problem response",
			slog.String("error", renderErr.Error()))
	}
}

// ErrorToProblem maps an error to its problem representation.
func (h *ErrorHandler) ErrorToProblem(ctx context.Context, err error) *ProblemDetails {
	var malformed *dataprocessing.MalformedInputError
	if stderrors.As(err, &malformed) {
		return ProblemBadRequest(malformed.Error())
	}

	var schemaErr *dataprocessing.SchemaValidationError
	if stderrors.As(err, &schemaErr) {
		return ProblemUnprocessable(schemaErr.Error()).
			WithExtension("file_type", schemaErr.FileType).
			WithExtension("missing_columns", schemaErr.Missing)
	}

	var problem *ProblemDetails
	if stderrors.As(err, &problem) {
		return problem
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return NewProblemDetails(apiErr.StatusCode, TypeValidation, apiErr.ErrorCode, apiErr.Message)
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return h.appErrorToProblem(appErr)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout, "Gateway Timeout",
			"The operation did not complete in time")
	}
	if stderrors.Is(err, context.Canceled) {
		// 499 is the nginx convention for client-closed requests.
		return NewProblemDetails(499, TypeTimeout, "Client Closed Request",
			"The client cancelled the request")
	}

	return ProblemInternal()
}

func (h *ErrorHandler) appErrorToProblem(appErr *AppError) *ProblemDetails {
	switch appErr.Type {
	case ErrTypeParsing:
		return NewProblemDetails(http.StatusBadRequest, TypeParsing, "Bad Request", appErr.Message)
	case ErrTypeSchema:
		return ProblemUnprocessable(appErr.Message)
	case ErrTypeValidation:
		return ProblemBadRequest(appErr.Message)
	case ErrTypeNotFound:
		return NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", appErr.Message)
	case ErrTypeStorage:
		return NewProblemDetails(http.StatusInternalServerError, TypeStorage, "Internal Server Error",
			"A storage operation failed")
	default:
		return ProblemInternal()
	}
}

// HandlePanic recovers a panic value into a 500 problem response.
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("panic", recovered),
		slog.String("stack", string(debug.Stack())),
	)

	problem := ProblemInternal().WithInstance(r.URL.Path)
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithTraceID(traceID)
	}
	if err := problem.Render(w, r); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render panic response",
			slog.String("error", err.Error()))
	}
}
