package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/hlsrelay/internal/adapters/http"
	"github.com/dkeye/hlsrelay/internal/adapters/rtc"
	"github.com/dkeye/hlsrelay/internal/app"
	"github.com/dkeye/hlsrelay/internal/app/hls"
	"github.com/dkeye/hlsrelay/internal/app/orch"
	"github.com/dkeye/hlsrelay/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Logger first so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	switch cfg.Mode {
	case "release":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// The router must be ready before anything is served.
	mediaRouter, err := rtc.NewRouter(cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init media router")
	}

	relays := hls.NewManager(cfg.Relay)
	o := &orch.Orchestrator{
		Registry:       app.NewRegistry(),
		Router:         mediaRouter,
		Relays:         relays,
		RequestTimeout: cfg.RequestTimeout,
	}
	relays.OnExit(o.OnRelayExit)

	r := router.SetupRouter(ctx, cfg, o, relays)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HLS relay server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	// hijacked websockets are not covered by Shutdown
	for _, sess := range o.Registry.Sessions() {
		o.Registry.Cancel(sess.ID)
	}
	relays.StopAll()
	log.Info().Msg("Server exited gracefully")
}
