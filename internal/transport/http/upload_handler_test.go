package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelens/internal/config"
	apierrors "tradelens/internal/errors"
	"tradelens/internal/services"
)

const tradingCSV = "ID,Instrument,Open Time,Close Time,Open Price,Close Price,Profit,Reason\n" +
	"1,EURUSD,2024-01-10 09:00:00,2024-01-10 10:00:00,1.09,1.10,100,tp\n" +
	"2,GBPUSD,2024-01-12 09:00:00,2024-01-12 10:00:00,1.26,1.25,-40,sl\n"

const financeCSV = "Type,Time,Amount,Status,Payment Gateway,Details\n" +
	"Deposit,2024-01-10 09:00:00,100,Done,Manual,wire\n"

type testEnv struct {
	router  chi.Router
	storage *services.StorageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(discardWriter{}, nil))
	uploadCfg := config.UploadConfig{Dir: t.TempDir(), MaxSizeBytes: 1 << 20}

	storage := services.NewStorageService(uploadCfg, logger)
	analysis := services.NewAnalysisService(logger, nil, nil)
	errorHandler := apierrors.NewErrorHandler(logger)

	uploadHandler := NewUploadHandler(storage, analysis, logger, errorHandler)
	filesHandler := NewFilesHandler(storage, analysis, logger, errorHandler)
	healthHandler := NewHealthHandler(services.NewHealthService("test", uploadCfg, logger), "test", logger)

	r := chi.NewRouter()
	r.Mount("/api/upload", uploadHandler.Routes())
	r.Mount("/api/files", filesHandler.Routes())
	r.Get("/api/health", healthHandler.LivenessCheck)
	r.Get("/api/health/ready", healthHandler.ReadinessCheck)
	r.Get("/api/version", healthHandler.Version)

	return &testEnv{router: r, storage: storage}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func multipartBody(t *testing.T, fieldName, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, env *testEnv, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, "file", filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestUpload(t *testing.T) {
	t.Run("trading file is stored and analyzed", func(t *testing.T) {
		env := newTestEnv(t)
		rec := doUpload(t, env, "trades.csv", tradingCSV)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Filename string `json:"filename"`
			Report   struct {
				FileType string `json:"file_type"`
				Summary  struct {
					TotalOperations int     `json:"total_operations"`
					TotalProfit     float64 `json:"total_profit"`
				} `json:"summary"`
			} `json:"report"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Regexp(t, `^\d{8}_\d{6}_trades\.csv$`, resp.Filename)
		assert.Equal(t, "trading", resp.Report.FileType)
		assert.Equal(t, 2, resp.Report.Summary.TotalOperations)
		assert.Equal(t, 60.0, resp.Report.Summary.TotalProfit)
	})

	t.Run("finance file is detected", func(t *testing.T) {
		env := newTestEnv(t)
		rec := doUpload(t, env, "finance.csv", financeCSV)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var resp struct {
			Report struct {
				FileType string `json:"file_type"`
			} `json:"report"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "finance", resp.Report.FileType)
	})

	t.Run("missing file field", func(t *testing.T) {
		env := newTestEnv(t)
		body, contentType := multipartBody(t, "wrong", "trades.csv", tradingCSV)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})

	t.Run("rejects non-csv extension", func(t *testing.T) {
		env := newTestEnv(t)
		rec := doUpload(t, env, "trades.exe", tradingCSV)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty file maps to 400 problem", func(t *testing.T) {
		env := newTestEnv(t)
		rec := doUpload(t, env, "empty.csv", "   ")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, apierrors.TypeValidation, body["type"])
	})

	t.Run("missing required columns maps to 422", func(t *testing.T) {
		env := newTestEnv(t)
		rec := doUpload(t, env, "partial.csv", "ID,Instrument\n1,EURUSD\n")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["missing_columns"])
	})

	t.Run("non-multipart body is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString("plain"))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
