package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"NOTEBOOK_HTTP_ADDR", "NOTEBOOK_DB_SCHEMA", "NOTEBOOK_CORS_ALLOWED_ORIGINS", "NOTEBOOK_LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	if cfg.HTTPAddr != "0.0.0.0:8080" || cfg.DBSchema != "notebook" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("CORS should be disabled by default: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("NOTEBOOK_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("NOTEBOOK_HTTP_READ_TIMEOUT", "3s")
	t.Setenv("NOTEBOOK_HTTP_IDLE_TIMEOUT", "-1s")
	t.Setenv("NOTEBOOK_DB_MAX_CONNS", "25")
	t.Setenv("NOTEBOOK_DB_SCHEMA", "notes_dev")
	t.Setenv("NOTEBOOK_DB_BOOTSTRAP", "true")
	t.Setenv("NOTEBOOK_CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("NOTEBOOK_REQUIRE_TOKEN_SECRET", "yes-please")

	cfg := LoadConfig()
	if cfg.HTTPAddr != "127.0.0.1:9000" {
		t.Fatalf("addr=%q", cfg.HTTPAddr)
	}
	if cfg.ReadTimeout != 3*time.Second || cfg.IdleTimeout != 60*time.Second {
		t.Fatalf("timeouts: read=%v idle=%v", cfg.ReadTimeout, cfg.IdleTimeout)
	}
	if cfg.DBMaxConns != 25 || cfg.DBSchema != "notes_dev" || !cfg.DBBootstrap {
		t.Fatalf("db config: %+v", cfg)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("cors=%v want %v", cfg.CORSAllowedOrigins, want)
	}
	if cfg.RequireTokenSecret {
		t.Fatalf("unparseable bool should fall back to default false")
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("NOTEBOOK_DOTENV_FROM_FILE=from-file\nNOTEBOOK_DOTENV_KEEP=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("NOTEBOOK_DOTENV", path)
	t.Setenv("NOTEBOOK_DOTENV_KEEP", "from-process")
	t.Cleanup(func() { _ = os.Unsetenv("NOTEBOOK_DOTENV_FROM_FILE") })

	if err := loadDotenv(); err != nil {
		t.Fatalf("loadDotenv: %v", err)
	}
	if got := os.Getenv("NOTEBOOK_DOTENV_FROM_FILE"); got != "from-file" {
		t.Fatalf("value from file=%q", got)
	}
	if got := os.Getenv("NOTEBOOK_DOTENV_KEEP"); got != "from-process" {
		t.Fatalf("process env must win, got %q", got)
	}

	t.Setenv("NOTEBOOK_DOTENV", filepath.Join(dir, "missing.env"))
	if err := loadDotenv(); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}
