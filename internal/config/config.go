package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	Port           int
	DBURL          string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	OTLPEndpoint   string
}

func Load() Config {
	// .env is optional, real env vars win either way
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 5000)
	dbURL := buildDBURL()
	secret := getEnv("SECRET_KEY", "")
	ttl := getEnvDuration("TOKEN_TTL", 365*24*time.Hour)
	origins := splitList(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	otlp := getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	return Config{
		Env:            env,
		Port:           port,
		DBURL:          dbURL,
		JWTSecret:      secret,
		TokenTTL:       ttl,
		AllowedOrigins: origins,
		OTLPEndpoint:   otlp,
	}
}

func (c Config) IsProd() bool {
	return c.Env == "production"
}

func buildDBURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "milescape")
	pass := getEnv("DB_PASS", "milescape")
	name := getEnv("DB_NAME", "milescape")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}
