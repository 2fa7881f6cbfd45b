package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza la configuración cargada del entorno.
type Config struct {
	Port              int
	RedisURL          string
	AdmissionsAPIURL  string
	AdmissionsTimeout time.Duration
	SessionSecret     string
	SessionTTLMinutes int
	AllowOrigins      []string
	RateLimitPublic   RateLimitConfig
	RateLimitSession  RateLimitConfig
}

// RateLimitConfig representa límites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load carga variables de entorno y aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválido")
	}
	cfg.Port = port

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obligatorio")
	}

	cfg.AdmissionsAPIURL = strings.TrimRight(getEnv("ADMISSIONS_API_URL", ""), "/")
	if cfg.AdmissionsAPIURL == "" {
		return nil, errors.New("ADMISSIONS_API_URL obligatorio")
	}

	timeout, err := parseDurationEnv("ADMISSIONS_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.AdmissionsTimeout = timeout

	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", ""))
	if len(cfg.SessionSecret) < 32 {
		return nil, errors.New("SESSION_SECRET debe tener al menos 32 caracteres")
	}

	cfg.SessionTTLMinutes = parseIntEnv("SESSION_TTL_MINUTES", 60)
	if cfg.SessionTTLMinutes < 1 {
		cfg.SessionTTLMinutes = 1
	}

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitSession = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseIntEnv(key string, def int) int {
	val := getEnv(key, "")
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
