package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/admisionuni/simulacro-intranet/internal/admissions"
	"github.com/admisionuni/simulacro-intranet/internal/auth"
	"github.com/admisionuni/simulacro-intranet/internal/config"
	internalhttp "github.com/admisionuni/simulacro-intranet/internal/http"
	"github.com/admisionuni/simulacro-intranet/internal/metrics"
	"github.com/admisionuni/simulacro-intranet/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api finalizada con error")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	client, err := admissions.New(admissions.Config{
		BaseURL: cfg.AdmissionsAPIURL,
		Timeout: cfg.AdmissionsTimeout,
	})
	if err != nil {
		return fmt.Errorf("admissions: %w", err)
	}

	sessions := session.NewManager(session.NewRedisStore(redisClient), cfg.SessionTTLMinutes)

	// El token debe sobrevivir al TTL lógico con holgura; la validez real
	// la decide el gate sobre el sobre.
	tokenMaxAge := time.Duration(cfg.SessionTTLMinutes) * time.Minute * 24
	tokens := auth.NewTokenManager(cfg.SessionSecret, tokenMaxAge)

	m := metrics.New()
	handler := internalhttp.NewRouter(cfg, sessions, tokens, client, m)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API escuchando en :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("cerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
