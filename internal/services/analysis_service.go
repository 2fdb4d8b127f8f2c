package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"tradelens/internal/dataprocessing"
	"tradelens/internal/infrastructure"
)

// AnalysisService runs the CSV analysis pipeline and records metrics
// and trace spans per run.
type AnalysisService struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	tracer  trace.Tracer
}

// NewAnalysisService creates an analysis service. metrics and tracer
// may be nil, in which case instrumentation is skipped.
func NewAnalysisService(logger *slog.Logger, metrics *infrastructure.Metrics, tracer trace.Tracer) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &AnalysisService{logger: logger, metrics: metrics, tracer: tracer}
}

// Analyze parses and aggregates the CSV content, returning the full
// report payload. name is only used for logging and span attributes.
func (s *AnalysisService) Analyze(ctx context.Context, name string, data []byte) (*dataprocessing.ReportPayload, error) {
	ctx, span := s.tracer.Start(ctx, "analyze",
		trace.WithAttributes(
			attribute.String("file.name", name),
			attribute.Int("file.size_bytes", len(data)),
		),
	)
	defer span.End()

	start := time.Now()
	payload, err := dataprocessing.Analyze(data)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.AnalyzeDuration.Observe(elapsed.Seconds())
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")
		if s.metrics != nil {
			s.metrics.UploadsTotal.WithLabelValues("unknown", "error").Inc()
		}
		s.logger.WarnContext(ctx, "analysis failed",
			slog.String("filename", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("analyze %s: %w", name, err)
	}

	span.SetAttributes(
		attribute.String("file.type", string(payload.FileType)),
		attribute.Int("rows.total", payload.Diagnostics.TotalRows),
		attribute.Int("rows.dropped", payload.Diagnostics.DroppedRows),
	)
	if s.metrics != nil {
		s.metrics.UploadsTotal.WithLabelValues(string(payload.FileType), "success").Inc()
		s.metrics.RowsDropped.Add(float64(payload.Diagnostics.DroppedRows))
	}

	s.logger.InfoContext(ctx, "analysis completed",
		slog.String("filename", name),
		slog.String("file_type", string(payload.FileType)),
		slog.Int("total_rows", payload.Diagnostics.TotalRows),
		slog.Int("dropped_rows", payload.Diagnostics.DroppedRows),
		slog.Duration("duration", elapsed),
	)

	return payload, nil
}
