package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tradelens/internal/config"
	apierrors "tradelens/internal/errors"
	"tradelens/internal/infrastructure"
	custommiddleware "tradelens/internal/middleware"
	"tradelens/internal/services"
	handlers "tradelens/internal/transport/http"
)

const (
	// AppName identifies the application in logs.
	AppName = "tradelens"
	// Version is the release version. Overridden at build time with
	// -ldflags "-X tradelens/internal/app.Version=...".
	Version = "dev"
)

// Application holds the wired components and the HTTP server.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router chi.Router
	Server *http.Server

	Metrics        *infrastructure.Metrics
	TracerProvider *infrastructure.TracerProviders

	StorageService  *services.StorageService
	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService
}

// NewApplication builds the application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig builds the application from an explicit
// configuration, which tests use to inject temp directories.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	providers, err := infrastructure.InitializeTracing(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	a := &Application{
		Config:         cfg,
		Logger:         logger,
		Metrics:        infrastructure.NewMetrics(),
		TracerProvider: providers,
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()

	return a, nil
}

func (a *Application) initializeServices() {
	a.StorageService = services.NewStorageService(a.Config.Upload, a.Logger)
	a.AnalysisService = services.NewAnalysisService(a.Logger, a.Metrics, a.TracerProvider.Tracer)
	a.HealthService = services.NewHealthService(Version, a.Config.Upload, a.Logger)
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Group(func(r chi.Router) {
		r.Use(custommiddleware.Tracing(a.TracerProvider))
		r.Use(custommiddleware.StructuredLogger(a.Logger))
		r.Use(custommiddleware.Recoverer(a.Logger))
		r.Use(custommiddleware.SecurityHeaders)

		if a.Config.Security.RateLimit.Enabled {
			r.Use(custommiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	// Metrics endpoint stays outside the middleware group so scrapes
	// skip logging and rate limiting.
	r.Handle("/metrics", a.Metrics.Handler())

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := apierrors.NewErrorHandler(a.Logger)

	uploadHandler := handlers.NewUploadHandler(a.StorageService, a.AnalysisService, a.Logger, errorHandler)
	filesHandler := handlers.NewFilesHandler(a.StorageService, a.AnalysisService, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, Version, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", healthHandler.LivenessCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/version", healthHandler.Version)

		r.Mount("/upload", uploadHandler.Routes())
		r.Mount("/files", filesHandler.Routes())
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start launches the HTTP server. cancel is invoked if the server stops
// unexpectedly so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("upload_dir", a.Config.Upload.Dir),
	)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
}

// Stop gracefully shuts the server and telemetry down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.TracerProvider != nil {
		if err := a.TracerProvider.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down tracing",
				slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "error closing log file",
			slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run starts the application and blocks until an interrupt arrives or
// the server fails, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.Start(ctx, cancel)

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
