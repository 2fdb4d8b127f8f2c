package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"tradelens/internal/config"
)

// HealthService reports liveness and readiness for the health endpoints.
type HealthService struct {
	version   string
	upload    config.UploadConfig
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health endpoint response body.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth describes one dependency's health.
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service.
func NewHealthService(version string, upload config.UploadConfig, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		upload:    upload,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Liveness reports that the process is running. It never fails while
// the server can still answer requests.
func (s *HealthService) Liveness(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
	}
}

// Readiness checks the dependencies the service needs to do real work.
// Currently that is write access to the upload directory.
func (s *HealthService) Readiness(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Services: map[string]interface{}{},
	}

	storage := s.checkStorage()
	status.Services["storage"] = storage
	if storage.Status != "healthy" {
		status.Status = "degraded"
		s.logger.WarnContext(ctx, "readiness degraded",
			slog.String("service", "storage"),
			slog.String("message", storage.Message),
		)
	}

	return status
}

func (s *HealthService) checkStorage() ServiceHealth {
	info, err := os.Stat(s.upload.Dir)
	if err != nil {
		return ServiceHealth{
			Status:  "unhealthy",
			Message: fmt.Sprintf("upload directory unavailable: %v", err),
		}
	}
	if !info.IsDir() {
		return ServiceHealth{
			Status:  "unhealthy",
			Message: fmt.Sprintf("%s is not a directory", s.upload.Dir),
		}
	}
	return ServiceHealth{Status: "healthy"}
}
