package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

// Run is the CLI entrypoint used by cmd/notebook.
// It returns an error instead of calling os.Exit to keep defers effective and lint clean.
func Run() error {
	if err := loadDotenv(); err != nil {
		return err
	}

	cfg := LoadConfig()
	log := NewLogger(cfg)

	a, err := New(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.Run(ctx)
}

// loadDotenv loads NOTEBOOK_DOTENV (default ".env") without overriding variables
// already set in the process environment. A missing file is not an error.
func loadDotenv() error {
	path := EnvString("NOTEBOOK_DOTENV", ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
