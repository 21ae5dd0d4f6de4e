package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	// DevJWTSecret is only accepted outside production.
	DevJWTSecret = "your_super_secret_key_change_in_production"
)

// Config holds runtime configuration sourced from env vars. It is read once
// at startup and treated as read-only afterwards.
type Config struct {
	Env            string
	Port           string
	DatabaseURL    string
	StorageDriver  string
	JWTSecret      string
	JWTIssuer      string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	BcryptCost     int
	CORSOrigins    []string
	AuthRatePerSec float64
	AuthRateBurst  int
	// TrustedProxies lists peers whose X-Forwarded-For header is believed.
	TrustedProxies []netip.Prefix
	LogLevel       string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Env:           strings.ToLower(fallback(os.Getenv("APP_ENV"), "development")),
		Port:          fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		StorageDriver: strings.ToLower(fallback(os.Getenv("STORAGE_DRIVER"), DriverPostgres)),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), "taskflow-backend"),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		LogLevel:      fallback(os.Getenv("LOG_LEVEL"), "info"),
	}

	var err error
	if cfg.AccessTTL, err = parseDuration("JWT_EXPIRES_IN", "24h"); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTTL, err = parseDuration("REFRESH_TOKEN_EXPIRES_IN", "7d"); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = parseInt("BCRYPT_COST", 10); err != nil {
		return Config{}, err
	}
	if cfg.AuthRateBurst, err = parseInt("AUTH_RATE_LIMIT_BURST", 10); err != nil {
		return Config{}, err
	}
	rps, err := parseInt("AUTH_RATE_LIMIT_RPS", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.AuthRatePerSec = float64(rps)
	if cfg.TrustedProxies, err = ParsePrefixes(os.Getenv("TRUSTED_PROXIES")); err != nil {
		return Config{}, err
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, errors.New("JWT_SECRET is required")
		}
		cfg.JWTSecret = DevJWTSecret
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production hardening.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := fallback(os.Getenv(key), def)
	d, err := ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return n, nil
}

// ParseDuration accepts Go durations plus a whole-day suffix ("7d").
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("parse duration %q: %w", raw, err)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(raw)
}

// ParsePrefixes reads a CSV of IPs or CIDR ranges. A bare IP becomes a
// single-host prefix. Empty input yields no prefixes.
func ParsePrefixes(raw string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			prefix, err := netip.ParsePrefix(part)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", part)
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", part)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
