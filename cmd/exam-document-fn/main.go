package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/claromed/clinic-api/internal/api"
	"github.com/claromed/clinic-api/internal/clinic"
	"github.com/claromed/clinic-api/internal/config"
	"github.com/claromed/clinic-api/internal/db"
	"github.com/claromed/clinic-api/internal/exams"
)

// exam-document-fn serves only the exam document endpoint. It is meant to be
// deployed on its own, function-style, next to the main API.
func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "exam-document-fn").Logger()
	log.Info().Msg("exam-document-fn starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	adapter := clinic.NewExamsAdapter(clinic.NewPgRepository(pgPool))
	svc := exams.NewService(adapter, adapter)

	r := chi.NewRouter()
	r.Use(api.RequestIDMiddleware)
	r.Use(api.LoggingMiddleware(log))
	r.Post("/generate-exam-pdf", api.ExamDocumentHandler(svc))

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	log.Info().Msg("exam-document-fn stopped")
}
