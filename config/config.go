package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port           int
	DatabaseURL    string
	MigrationsRoot string
	DeliveryFee    decimal.Decimal
	AllowedOrigins []string
}

const (
	defaultPort        = 3000
	defaultDeliveryFee = "5.00"
)

// Load reads .env from the working directory when present, then the
// process environment. Variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:           defaultPort,
		DatabaseURL:    os.Getenv("DATABASE_CONNECTION_STR"),
		MigrationsRoot: os.Getenv("MIGRATIONS_ROOT"),
		DeliveryFee:    decimal.RequireFromString(defaultDeliveryFee),
		AllowedOrigins: []string{"*"},
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_CONNECTION_STR is not set")
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}

	if v := os.Getenv("DELIVERY_FEE"); v != "" {
		fee, err := decimal.NewFromString(v)
		if err != nil || fee.IsNegative() {
			return Config{}, fmt.Errorf("invalid DELIVERY_FEE %q", v)
		}
		cfg.DeliveryFee = fee
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
