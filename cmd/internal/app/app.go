// Package app wires the notebook server runtime: config, logging, stores, HTTP routes and the note feed.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"notebook/cmd/identity"
	"notebook/cmd/internal/api"
	"notebook/cmd/internal/notes"
	"notebook/cmd/internal/realtime"
	"notebook/cmd/security/password"
	"notebook/cmd/security/token"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the notebook server runtime: it owns the stores, services and HTTP wiring.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool

	metrics *Metrics
	hub     *realtime.Hub
	ws      *realtime.WSGateway
	api     *api.Handler
	tokens  token.Format
}

// stores is the persistence pair chosen at startup.
type stores struct {
	accounts identity.Store
	notes    notes.Store
	pool     *pgxpool.Pool
}

// New constructs a fully wired App from config and logger.
// Token and password settings are read from their own NOTEBOOK_TOKEN_* and NOTEBOOK_PASSWORD_* keys.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg)
	}

	tokCfg, err := token.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	tokens, err := newTokenManager(cfg, tokCfg, log)
	if err != nil {
		return nil, err
	}

	pwCfg, err := password.FromEnv()
	if err != nil {
		return nil, err
	}

	st, err := newStores(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	a, err := assemble(cfg, log, st, tokens, pwCfg, api.LoadConfigFromEnv(), realtime.LoadGatewayConfigFromEnv())
	if err != nil {
		if st.pool != nil {
			st.pool.Close()
		}
		return nil, err
	}
	return a, nil
}

// assemble builds services and transports over already opened stores.
func assemble(
	cfg Config,
	log Logger,
	st stores,
	tokens token.Manager,
	pwCfg password.Config,
	apiCfg api.Config,
	wsCfg realtime.GatewayConfig,
) (*App, error) {
	metrics := NewMetrics()
	hub := realtime.NewHub(log, realtime.WithClientGauge(metrics.RealtimeClients))

	ids, err := identity.NewService(st.accounts, tokens,
		identity.WithPasswordConfig(pwCfg),
		identity.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	ns, err := notes.NewService(st.notes,
		notes.WithPublisher(hub),
		notes.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	h, err := api.NewHandler(log, apiCfg, ids, ns)
	if err != nil {
		return nil, err
	}

	ws, err := realtime.NewWSGateway(log, hub, ids, wsCfg)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       log,
		dbPool:    st.pool,
		dbEnabled: st.pool != nil,
		metrics:   metrics,
		hub:       hub,
		ws:        ws,
		api:       h,
		tokens:    tokens.Format(),
	}, nil
}

// newStores decides between Postgres-backed persistence and the in-memory dev stores.
func newStores(ctx context.Context, cfg Config, log Logger) (stores, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		return memoryStores(), nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return stores{}, err
	}

	log.Info("db.enabled.postgres_store", "schema", cfg.DBSchema, "bootstrap", cfg.DBBootstrap)

	// Ownership model:
	// - app owns pool lifecycle
	// - stores never close the pool
	accounts, err := identity.NewPostgresStore(pool, identity.WithSchema(cfg.DBSchema))
	if err != nil {
		pool.Close()
		return stores{}, err
	}
	ns, err := notes.NewPostgresStore(pool, notes.WithSchema(cfg.DBSchema))
	if err != nil {
		pool.Close()
		return stores{}, err
	}

	return stores{accounts: accounts, notes: ns, pool: pool}, nil
}

// memoryStores pairs the in-memory stores; the notes store checks owners against
// the account store the way the Postgres foreign key does.
func memoryStores() stores {
	accounts := identity.NewMemoryStore()
	return stores{
		accounts: accounts,
		notes:    notes.NewMemoryStore(notes.WithOwnerChecker(accounts)),
	}
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler { return a.routes() }

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.routes(),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	base := runtimeBaseURL(a.cfg.HTTPAddr)
	a.log.Info("server.start",
		"addr", a.cfg.HTTPAddr,
		"base_url", base,
		"feed_url", wsBaseURL(base)+"/ws/notes",
		"db_enabled", a.dbEnabled,
		"token_format", string(a.tokens),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		a.Close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		a.Close()
		return err
	}

	a.Close()
	a.log.Info("server.stopped")
	return nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.dbPool != nil {
		a.dbPool.Close()
	}
}

// runtimeBaseURL turns a listen address into a dialable http URL.
// Wildcard binds are reported as loopback.
func runtimeBaseURL(addr string) string {
	host, port, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return "http://" + strings.TrimSpace(addr)
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func wsBaseURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return "ws://" + base
	}
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
