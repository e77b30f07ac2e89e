package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Rojan6190/shop/pkg/config"
	"github.com/Rojan6190/shop/pkg/db"
)

type Config struct {
	pkgconfig.Config
}

// LoadEnvFile merges a .env file into the environment. A missing file is only noted.
func LoadEnvFile(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		log.Printf("notice: .env not loaded: %v, using process environment", err)
	}
}

func Load() (*Config, error) {
	cfg := &Config{Config: pkgconfig.Load()}

	var errs []error
	if err := pkgconfig.RequireNonEmpty(cfg.DatabaseURL, "DATABASE_URL"); err != nil {
		errs = append(errs, err)
	}
	if err := pkgconfig.RequireNonEmpty(string(cfg.JWTAccessSecret), "JWT_SECRET"); err != nil {
		errs = append(errs, err)
	}
	if cfg.DatabaseDriver != db.DriverPGX && cfg.DatabaseDriver != db.DriverPQ {
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", db.DriverPGX, db.DriverPQ, cfg.DatabaseDriver))
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT out of range: %d", cfg.ServerPort))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) KafkaEnabled() bool  { return len(c.KafkaBrokers) > 0 }
func (c *Config) SearchEnabled() bool { return c.ESURL != "" }
func (c *Config) Addr() string        { return fmt.Sprintf(":%d", c.ServerPort) }
