package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrisdamba/holidaze/internal/api"
	"github.com/chrisdamba/holidaze/internal/ports"
	"github.com/chrisdamba/holidaze/internal/repository"
	"github.com/chrisdamba/holidaze/internal/service"
	"github.com/chrisdamba/holidaze/internal/utils"
	"github.com/chrisdamba/holidaze/pkg/config"
	"github.com/chrisdamba/holidaze/pkg/health"
	"github.com/chrisdamba/holidaze/pkg/holidaze"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type App struct {
	config *config.Config
	server *http.Server
	db     *pgxpool.Pool
	log    *zap.Logger
}

func NewApp(cfg *config.Config, logger *zap.Logger) *App {
	return &App{
		config: cfg,
		log:    logger,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.setupDatabase(ctx); err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}

	if err := a.setupServer(); err != nil {
		return fmt.Errorf("server setup failed: %w", err)
	}

	return nil
}

func (a *App) setupDatabase(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	return nil
}

func (a *App) setupServer() error {
	services := a.setupServices()
	router := a.setupRouter(services)

	a.server = &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      router,
		WriteTimeout: a.config.Server.WriteTimeout,
		ReadTimeout:  a.config.Server.ReadTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	return nil
}

type Services struct {
	BookingService ports.BookingService
	Upstream       *holidaze.Client
}

func (a *App) setupServices() Services {
	repo := repository.NewBookingRepository(a.db)
	upstream := holidaze.NewClient(
		holidaze.WithBaseURL(a.config.Upstream.BaseURL),
		holidaze.WithAPIKey(a.config.Upstream.APIKey),
		holidaze.WithHTTPClient(&http.Client{Timeout: a.config.Upstream.Timeout}),
	)

	return Services{
		BookingService: service.NewBookingService(repo, upstream, upstream, a.log),
		Upstream:       upstream,
	}
}

func (a *App) setupRouter(services Services) http.Handler {
	router := http.NewServeMux()
	const versionPrefix = "/v1"

	router.HandleFunc(versionPrefix+"/health", health.HealthGet())

	router.HandleFunc(versionPrefix+"/auth/login", utils.AllowedMethods(
		utils.AllowedContentTypes(
			api.LoginHandler(services.Upstream),
			"application/json",
		),
		"POST",
	))
	router.HandleFunc(versionPrefix+"/auth/register", utils.AllowedMethods(
		utils.AllowedContentTypes(
			api.RegisterHandler(services.Upstream),
			"application/json",
		),
		"POST",
	))

	router.HandleFunc(versionPrefix+"/venues/availability", utils.AllowedMethods(
		api.AvailabilityHandler(services.BookingService),
		"GET",
	))

	bookingHandler := utils.AllowedMethods(
		utils.AllowedContentTypes(
			api.BookingHandler(services.BookingService, services.Upstream),
			"application/json",
		),
		"POST", "GET", "DELETE",
	)
	router.HandleFunc(versionPrefix+"/bookings", bookingHandler)

	return router
}

func (a *App) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		a.log.Info("starting server", zap.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-shutdown:
		a.log.Info("starting graceful shutdown")
		return a.Shutdown(ctx)
	case <-ctx.Done():
		return a.Shutdown(ctx)
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if a.db != nil {
		a.db.Close()
	}

	return nil
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	ctx := context.Background()

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	app := NewApp(cfg, logger)
	if err := app.Initialize(ctx); err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Run(ctx); err != nil {
		logger.Fatal("application error", zap.Error(err))
	}
}
