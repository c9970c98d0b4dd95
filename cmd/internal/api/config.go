package api

import (
	"os"
	"strconv"
	"strings"
)

// Config controls HTTP API limits.
type Config struct {
	MaxBodyBytes int64
	// TrustProxy takes the client IP for audit logs from X-Forwarded-For.
	TrustProxy bool
}

// DefaultConfig returns the limits used when no env overrides are present.
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes: 1 << 20, // 1 MiB
	}
}

// LoadConfigFromEnv loads API config from environment variables with safe defaults.
func LoadConfigFromEnv() Config {
	def := DefaultConfig()
	return Config{
		MaxBodyBytes: envInt64("NOTEBOOK_API_MAX_BODY_BYTES", def.MaxBodyBytes),
		TrustProxy:   envBool("NOTEBOOK_API_TRUST_PROXY", false),
	}
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
