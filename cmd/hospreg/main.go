package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hospreg/hospreg/internal/config"
	"github.com/hospreg/hospreg/internal/domain/registry"
	"github.com/hospreg/hospreg/internal/platform/middleware"
	"github.com/hospreg/hospreg/internal/ui/registryform"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:          "hospreg",
		Short:        "Hospital and doctor registry",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("hospital", "", "Hospital to set at start-up (overrides DEFAULT_HOSPITAL)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(formCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the registry HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func formCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Open the registry form in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runForm(cfg)
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if hospital, _ := cmd.Flags().GetString("hospital"); hospital != "" {
		cfg.DefaultHospital = hospital
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

// newRegistry builds the registry and seeds the configured hospital, if any.
func newRegistry(ctx context.Context, cfg *config.Config, logger zerolog.Logger, metrics *registry.Metrics) (*registry.Service, error) {
	svc := registry.NewService(registry.NewMemoryStore(), logger, metrics)
	if cfg.DefaultHospital != "" {
		if _, err := svc.SetFacility(ctx, cfg.DefaultHospital); err != nil {
			return nil, fmt.Errorf("seed hospital: %w", err)
		}
	}
	return svc, nil
}

// newServer wires middleware and routes. promReg may be nil to disable /metrics.
func newServer(cfg *config.Config, logger zerolog.Logger, svc *registry.Service, promReg *prometheus.Registry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":        "ok",
			"version":       version,
			"practitioners": svc.Count(c.Request().Context()),
		})
	})
	if promReg != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))
	}

	apiV1 := e.Group("/api/v1")
	fhirGroup := e.Group("/fhir")
	registry.NewHandler(svc).RegisterRoutes(apiV1, fhirGroup)

	return e
}

func runServer(cfg *config.Config) error {
	logger := newLogger(cfg, os.Stdout)

	var (
		promReg *prometheus.Registry
		metrics *registry.Metrics
	)
	if cfg.MetricsEnabled {
		promReg = prometheus.NewRegistry()
		promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = registry.NewMetrics(promReg)
	}

	svc, err := newRegistry(context.Background(), cfg, logger, metrics)
	if err != nil {
		return err
	}

	e := newServer(cfg, logger, svc, promReg)

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	case <-quit:
	}

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func runForm(cfg *config.Config) error {
	// Anything written to stdout would corrupt the alt screen, so the form
	// logs to stderr and only at debug level.
	logger := zerolog.Nop()
	if cfg.Level() <= zerolog.DebugLevel {
		logger = newLogger(cfg, os.Stderr)
	}

	ctx := context.Background()
	svc, err := newRegistry(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}

	p := tea.NewProgram(registryform.New(ctx, svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run form: %w", err)
	}
	return nil
}
