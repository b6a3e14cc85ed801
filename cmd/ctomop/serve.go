package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ctomop/ctomop/internal/aggregator"
	"github.com/ctomop/ctomop/internal/config"
	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/internal/platform/auth"
	"github.com/ctomop/ctomop/internal/platform/db"
	"github.com/ctomop/ctomop/internal/platform/metrics"
	"github.com/ctomop/ctomop/internal/platform/middleware"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the patient summary API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	collector := metrics.NewCollector(prometheus.NewRegistry())
	store := patientinfo.NewRepoPG(e.pool)
	agg := aggregator.New(omop.NewReadersPG(e.pool), store, db.NewTxRunner(e.pool), e.logger,
		aggregator.WithMetrics(collector))
	svc := patientinfo.NewService(store, agg)

	srv := newServer(e.cfg, e.logger, svc, collector, db.HealthHandler(e.pool))

	go func() {
		addr := fmt.Sprintf(":%s", e.cfg.Port)
		e.logger.Info().Str("addr", addr).Str("auth_mode", e.cfg.ResolvedAuthMode()).Msg("starting server")
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	e.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newServer(cfg *config.Config, logger zerolog.Logger, svc *patientinfo.Service, collector *metrics.Collector, health echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(collector.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", health)
	e.GET("/metrics", echo.WrapHandler(collector.Handler()))

	api := e.Group("/api/v1")
	if cfg.ResolvedAuthMode() == "development" {
		logger.Warn().Msg("development auth enabled; every request is authenticated as admin")
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}

	patientinfo.NewHandler(svc).RegisterRoutes(api)
	return e
}
