package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelens/internal/dataprocessing"
)

func TestAppError(t *testing.T) {
	t.Run("formats type and message", func(t *testing.T) {
		err := NewParsingError("unable to parse input", nil)
		assert.Equal(t, "[PARSING] unable to parse input", err.Error())
	})

	t.Run("includes cause", func(t *testing.T) {
		cause := fmt.Errorf("unexpected EOF")
		err := NewStorageError("read failed", cause)
		assert.Contains(t, err.Error(), "unexpected EOF")
		assert.Equal(t, cause, stderrors.Unwrap(err))
	})

	t.Run("context is attached", func(t *testing.T) {
		err := NewNotFoundError("file").WithContext("filename", "trades.csv")
		assert.Equal(t, "trades.csv", err.Context["filename"])
		assert.Equal(t, "[NOT_FOUND] file not found", err.Error())
	})
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	t.Run("base fields", func(t *testing.T) {
		p := ProblemBadRequest("the request body is empty")
		data, err := json.Marshal(p)
		require.NoError(t, err)

		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &m))
		assert.Equal(t, TypeValidation, m["type"])
		assert.Equal(t, "Bad Request", m["title"])
		assert.Equal(t, float64(http.StatusBadRequest), m["status"])
		assert.Equal(t, "the request body is empty", m["detail"])
	})

	t.Run("extensions are flattened", func(t *testing.T) {
		p := ProblemUnprocessable("missing required columns").
			WithExtension("missing_columns", []string{"Profit", "Reason"})
		data, err := json.Marshal(p)
		require.NoError(t, err)

		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &m))
		assert.Equal(t, []interface{}{"Profit", "Reason"}, m["missing_columns"])
		assert.NotContains(t, m, "Extensions")
	})
}

func TestErrorToProblem(t *testing.T) {
	handler := NewErrorHandler(nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "malformed input maps to 400",
			err:        &dataprocessing.MalformedInputError{Reason: "empty input"},
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "schema validation maps to 422",
			err:        &dataprocessing.SchemaValidationError{FileType: "trading", Missing: []string{"Profit"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeSchema,
		},
		{
			name:       "wrapped malformed input unwraps",
			err:        fmt.Errorf("analyze: %w", &dataprocessing.MalformedInputError{Reason: "not valid UTF-8"}),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "app not found maps to 404",
			err:        NewNotFoundError("file"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "storage hides detail behind 500",
			err:        NewStorageError("disk failure", fmt.Errorf("i/o error")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeStorage,
		},
		{
			name:       "deadline maps to 504",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown maps to 500",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := handler.ErrorToProblem(ctx, tt.err)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
		})
	}
}

func TestErrorToProblemSchemaExtensions(t *testing.T) {
	handler := NewErrorHandler(nil)
	problem := handler.ErrorToProblem(context.Background(), &dataprocessing.SchemaValidationError{
		FileType: "finance",
		Missing:  []string{"Amount", "Status"},
	})

	assert.Equal(t, "finance", problem.Extensions["file_type"])
	assert.Equal(t, []string{"Amount", "Status"}, problem.Extensions["missing_columns"])
}

func TestHandleError(t *testing.T) {
	handler := NewErrorHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	rec := httptest.NewRecorder()

	handler.HandleError(rec, req, &dataprocessing.MalformedInputError{Reason: "empty input"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/api/upload", body["instance"])
	assert.Contains(t, body["detail"], "empty input")
}

func TestHandlePanic(t *testing.T) {
	handler := NewErrorHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	rec := httptest.NewRecorder()

	handler.HandlePanic(rec, req, "unexpected state")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeInternal, body["type"])
}
