package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "dev-secret-change-in-production"

var ErrDefaultSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port     string
	Env      string
	LogLevel slog.Level

	StoreDriver   string
	DatabaseDSN   string
	RunMigrations bool

	JWTSecret     string
	JWTExpiry     time.Duration
	ResetTokenTTL time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	AllowedOrigins  []string
	TrustedProxies  []netip.Prefix
	DefaultPageSize int
}

// IsProduction reports whether ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func Load() (Config, error) {
	var err error
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		StoreDriver:  getEnv("STORE_DRIVER", "mysql"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/roleplay?parseTime=true"),
		JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@roleplay.com"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.RunMigrations, err = strconv.ParseBool(getEnv("RUN_MIGRATIONS", "false")); err != nil {
		return Config{}, fmt.Errorf("RUN_MIGRATIONS: %w", err)
	}
	if cfg.JWTExpiry, err = parseDuration("JWT_EXPIRY", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ResetTokenTTL, err = parseDuration("RESET_TOKEN_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.DefaultPageSize, err = strconv.Atoi(getEnv("DEFAULT_PAGE_SIZE", "20")); err != nil || cfg.DefaultPageSize < 1 {
		return Config{}, fmt.Errorf("DEFAULT_PAGE_SIZE: must be a positive integer")
	}

	if cfg.TrustedProxies, err = parsePrefixes(splitList(os.Getenv("TRUSTED_PROXIES"))); err != nil {
		return Config{}, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	switch cfg.StoreDriver {
	case "mysql", "memory":
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}

	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return Config{}, ErrDefaultSecret
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parsePrefixes accepts plain addresses and CIDR prefixes.
func parsePrefixes(items []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range items {
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, err
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
