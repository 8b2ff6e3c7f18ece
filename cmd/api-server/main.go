package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/claromed/clinic-api/internal/api"
	"github.com/claromed/clinic-api/internal/appointment"
	"github.com/claromed/clinic-api/internal/auth"
	"github.com/claromed/clinic-api/internal/availability"
	"github.com/claromed/clinic-api/internal/cache"
	"github.com/claromed/clinic-api/internal/clinic"
	"github.com/claromed/clinic-api/internal/config"
	"github.com/claromed/clinic-api/internal/db"
	"github.com/claromed/clinic-api/internal/exams"
	"github.com/claromed/clinic-api/internal/leads"
	"github.com/claromed/clinic-api/internal/redisclient"
	"github.com/claromed/clinic-api/internal/templates"
	"github.com/claromed/clinic-api/internal/users"
)

const version = "1.0.0"

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "api-server").Logger()
	log.Info().Msg("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("configuration loaded")

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

	rdb, err := redisclient.NewRedisClient(redisclient.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	directory := clinic.NewPgRepository(pgPool)

	apptRepo := appointment.NewPgRepository(pgPool)
	locker := redisclient.NewRedisBookingLocker(rdb, cfg.LockTTL)
	agendaCache := cache.NewAgendaCache(rdb, cfg.CacheTTL, log)
	appointments := appointment.NewService(apptRepo, locker, agendaCache, log)

	availRepo := availability.NewPgRepository(pgPool)
	availSvc := availability.NewService(availRepo, availability.Window{Start: cfg.DayStart, End: cfg.DayEnd}, log)

	adapter := clinic.NewExamsAdapter(directory)
	examSvc := exams.NewService(adapter, adapter)

	leadSvc := leads.NewService(leads.NewPgRepository(pgPool))
	userSvc := users.NewService(users.NewPgRepository(pgPool))
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	router := api.NewRouter(api.RouterConfig{
		Appointments:  appointments,
		Availability:  availSvc,
		Exams:         examSvc,
		Leads:         leadSvc,
		Users:         userSvc,
		Directory:     directory,
		Templates:     templates.NewPgRepository(pgPool),
		TokenIssuer:   issuer,
		HorizonMonths: cfg.HorizonMonths,
		Log:           log,
		PgPool:        pgPool,
		Redis:         rdb,
		Env:           cfg.Env,
		Version:       version,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
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

	log.Info().Msg("api-server stopped")
}
