package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "tradelens/internal/errors"
	"tradelens/internal/exporter"
	"tradelens/internal/services"
)

// FilesHandler handles the stored-upload resource routes.
type FilesHandler struct {
	storage      *services.StorageService
	analysis     *services.AnalysisService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFilesHandler creates a files handler.
func NewFilesHandler(storage *services.StorageService, analysis *services.AnalysisService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FilesHandler {
	return &FilesHandler{
		storage:      storage,
		analysis:     analysis,
		logger:       logger.With(slog.String("component", "files_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the file management routes.
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Route("/{filename}", func(r chi.Router) {
		r.Use(h.FilenameCtx)
		r.Get("/", h.Download)
		r.Delete("/", h.Delete)
		r.Get("/analysis", h.Analysis)
		r.Get("/report", h.Report)
	})

	return r
}

// FilenameCtx validates the filename parameter before any file route runs.
func (h *FilesHandler) FilenameCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		if filename == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filename", "Filename is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// List handles GET /api/files.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.storage.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to list files", err))
		return
	}

	render.JSON(w, r, map[string]any{
		"files": infos,
		"count": len(infos),
	})
}

// Download handles GET /api/files/{filename}.
func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	data, err := h.storage.Read(r.Context(), filename)
	if err != nil {
		h.handleFileError(w, r, filename, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream file",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}
}

// Delete handles DELETE /api/files/{filename}.
func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	if err := h.storage.Delete(r.Context(), filename); err != nil {
		h.handleFileError(w, r, filename, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]any{
		"deleted": filename,
	})
}

// Analysis handles GET /api/files/{filename}/analysis and re-runs the
// pipeline over the stored file.
func (h *FilesHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	data, err := h.storage.Read(r.Context(), filename)
	if err != nil {
		h.handleFileError(w, r, filename, err)
		return
	}

	payload, err := h.analysis.Analyze(r.Context(), filename, data)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, payload)
}

// Report handles GET /api/files/{filename}/report and renders the
// analysis as an Excel workbook.
func (h *FilesHandler) Report(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	data, err := h.storage.Read(r.Context(), filename)
	if err != nil {
		h.handleFileError(w, r, filename, err)
		return
	}

	payload, err := h.analysis.Analyze(r.Context(), filename, data)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteWorkbook(&buf, payload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to render report", err))
		return
	}

	reportName := filename[:len(filename)-len(".csv")] + "_report.xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream report",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}
}

func (h *FilesHandler) handleFileError(w http.ResponseWriter, r *http.Request, filename string, err error) {
	switch {
	case errors.Is(err, services.ErrFileNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ProblemNotFound(fmt.Sprintf("file %s", filename)))
	case errors.Is(err, services.ErrInvalidFileType):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("filename", "Invalid filename"))
	default:
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("file operation failed", err))
	}
}

// isServiceError reports whether err wraps the given sentinel.
func isServiceError(err, sentinel error) bool {
	return errors.Is(err, sentinel)
}
