package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string

	LogLevel  string
	LogFormat string // json | pretty
	LogColor  bool

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	DBSchema    string
	// DBBootstrap applies the idempotent schema DDL at startup.
	DBBootstrap bool

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Security policy:
	// If true, token key material MUST be configured; no ephemeral dev key is generated.
	RequireTokenSecret bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("NOTEBOOK_HTTP_ADDR", "0.0.0.0:8080"),

		LogLevel:  EnvString("NOTEBOOK_LOG_LEVEL", "info"),
		LogFormat: EnvString("NOTEBOOK_LOG_FORMAT", "json"),
		LogColor:  EnvBool("NOTEBOOK_LOG_COLOR", true),

		ReadHeaderTimeout: EnvDuration("NOTEBOOK_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("NOTEBOOK_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("NOTEBOOK_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("NOTEBOOK_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("NOTEBOOK_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("NOTEBOOK_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("NOTEBOOK_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("NOTEBOOK_DB_MIN_CONNS", 0),
		DBSchema:    EnvString("NOTEBOOK_DB_SCHEMA", "notebook"),
		DBBootstrap: EnvBool("NOTEBOOK_DB_BOOTSTRAP", false),

		CORSAllowedOrigins:   EnvCSV("NOTEBOOK_CORS_ALLOWED_ORIGINS", nil),
		CORSAllowCredentials: EnvBool("NOTEBOOK_CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAgeSeconds:    EnvInt("NOTEBOOK_CORS_MAX_AGE_SECONDS", 600),

		ReadinessRequireDB: EnvBool("NOTEBOOK_READINESS_REQUIRE_DB", false),

		RequireTokenSecret: EnvBool("NOTEBOOK_REQUIRE_TOKEN_SECRET", false),
	}
}
