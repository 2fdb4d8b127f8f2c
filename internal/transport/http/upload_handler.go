package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tradelens/internal/errors"
	"tradelens/internal/services"
)

// UploadHandler handles CSV uploads and their immediate analysis.
type UploadHandler struct {
	storage      *services.StorageService
	analysis     *services.AnalysisService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(storage *services.StorageService, analysis *services.AnalysisService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		storage:      storage,
		analysis:     analysis,
		logger:       logger.With(slog.String("component", "upload_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the upload routes.
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Upload)
	return r
}

// UploadResponse is the success body for POST /api/upload.
type UploadResponse struct {
	Filename string `json:"filename"`
	Report   any    `json:"report"`
}

// Upload handles POST /api/upload. The multipart field name is "file".
// The file is stored first, then analyzed; the response carries the
// stored name and the full analysis payload.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.storage.MaxSizeBytes()); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Request is not valid multipart form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Missing file field in upload"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.storage.MaxSizeBytes()+1))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to read upload", err))
		return
	}
	if int64(len(data)) > h.storage.MaxSizeBytes() {
		h.errorHandler.HandleError(w, r, apierrors.NewProblemDetails(
			http.StatusRequestEntityTooLarge, apierrors.TypeValidation,
			"Payload Too Large", "Uploaded file exceeds the size limit"))
		return
	}

	h.logger.InfoContext(r.Context(), "processing upload",
		slog.String("filename", header.Filename),
		slog.Int("size_bytes", len(data)),
	)

	stored, err := h.storage.Store(r.Context(), header.Filename, data)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	payload, err := h.analysis.Analyze(r.Context(), stored, data)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, UploadResponse{Filename: stored, Report: payload})
}

func (h *UploadHandler) handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isServiceError(err, services.ErrInvalidFileType):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Only .csv files are accepted"))
	case isServiceError(err, services.ErrInvalidInput):
		h.errorHandler.HandleError(w, r, apierrors.NewProblemDetails(
			http.StatusRequestEntityTooLarge, apierrors.TypeValidation,
			"Payload Too Large", "Uploaded file exceeds the size limit"))
	default:
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to store upload", err))
	}
}
