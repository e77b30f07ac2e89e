package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	DatabaseURL    string
	DatabaseDriver string

	JWTAccessSecret []byte
	CookieSecure    bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	UploadDir      string
	MaxUploadBytes int64

	SeedCategories bool
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "shop"),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseDriver: EnvDefault("DATABASE_DRIVER", "pgx"),

		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),
		CookieSecure:    EnvBoolDefault("COOKIE_SECURE", false),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		UploadDir:      EnvDefault("UPLOAD_DIR", "static"),
		MaxUploadBytes: int64(EnvIntDefault("MAX_UPLOAD_BYTES", 5*1024*1024)),

		SeedCategories: EnvBoolDefault("SEED_CATEGORIES", true),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
