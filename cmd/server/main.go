package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/matchday/matchday-server-go/internal/config"
	"github.com/matchday/matchday-server-go/internal/handler"
	"github.com/matchday/matchday-server-go/internal/jobs"
	"github.com/matchday/matchday-server-go/internal/middleware"
	"github.com/matchday/matchday-server-go/internal/roster"
	"github.com/matchday/matchday-server-go/internal/service"
	"github.com/matchday/matchday-server-go/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	snap, err := store.NewSnapshot(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open data directory")
	}
	log.Info().Str("dir", cfg.DataDir).Msg("snapshot store ready")

	pairStore := store.NewPairStore(snap)
	cooldownStore := store.NewCooldownStore(snap)
	blockStore := store.NewBlockStore(snap)
	breakupStore := store.NewBreakupStore(snap)
	flagStore := store.NewFlagStore(snap)

	rosterClient := roster.New(cfg.RosterBaseURL, roster.WithTimeout(cfg.RosterTimeout()))

	svc := service.New(
		pairStore, cooldownStore, blockStore, breakupStore, flagStore,
		rosterClient,
		service.Options{
			CooldownHours:     cfg.CooldownHours,
			BlockHours:        cfg.BreakupBlockHours,
			MaxDailyBreakups:  cfg.MaxDailyBreakups,
			MaxDailyWishes:    cfg.MaxDailyWishes,
			MaxDailyRobs:      cfg.MaxDailyRobs,
			MaxDailyLocks:     cfg.MaxDailyLocks,
			DisplayNameMaxLen: cfg.DisplayNameMaxLen,
		},
	)

	webhookHandler := handler.NewWebhookHandler(svc, cfg.AdminToken)
	signatureMiddleware := middleware.NewSignatureMiddleware(cfg.WebhookSignatureSecret)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(config.MaxWebhookBodySize)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/webhook", func(r chi.Router) {
		r.Use(signatureMiddleware.Handler)
		r.Post("/", webhookHandler.Webhook)
	})

	r.Get("/groups/{groupID}/partners/{userID}", webhookHandler.PartnerLookup)

	resetJob := jobs.NewResetJob(svc)
	resetJob.Start()
	defer resetJob.Stop()

	// Timeout notices cannot be pushed through a request/response webhook;
	// they are surfaced in the log for the relay to pick up.
	sweepJob := jobs.NewConfirmSweepJob(svc, func(expired service.ExpiredConfirmation) {
		log.Info().
			Str("session", expired.SessionRef).
			Str("user", expired.UserID).
			Msg("advanced enable confirmation window expired")
	}, service.ConfirmSweepInterval)
	sweepJob.Start()
	defer sweepJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
