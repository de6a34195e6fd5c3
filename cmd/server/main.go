package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/camwall/internal/adapters/fleet"
	router "github.com/dkeye/camwall/internal/adapters/http"
	"github.com/dkeye/camwall/internal/adapters/rtc"
	"github.com/dkeye/camwall/internal/app"
	"github.com/dkeye/camwall/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	negotiator := rtc.NewNegotiator(cfg.STUNServers)
	registry := app.NewSessionRegistry(negotiator, app.Options{
		NegotiationTimeout: cfg.NegotiationTimeout,
		RetryBase:          cfg.RetryBase,
		RetryCap:           cfg.RetryCap,
	})
	api := &router.API{
		Registry: registry,
		Cameras:  fleet.NewClient(cfg.FleetAPIBase),
	}

	r := router.SetupRouter(ctx, cfg, api)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("camwall server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	registry.Shutdown(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
