package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"notebook/cmd/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements account persistence over PostgreSQL.
//
// The pgx pool is owned by the caller; this store never closes it.
// Schema/table identifiers are quoted via pgx.Identifier.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the store (default "notebook").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !PGIdentIsValid(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "notebook",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

// CreateAccount inserts the account row and its credentials in one transaction.
func (s *PostgresStore) CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error) {
	const op = "identity.CreateAccount"

	if s == nil || s.pool == nil {
		return Account{}, apperr.OpError{Op: op, Kind: apperr.ErrInternal, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	if strings.TrimSpace(in.ID) == "" || strings.TrimSpace(in.PasswordHash) == "" {
		return Account{}, apperr.OpError{Op: op, Kind: apperr.ErrInvalidInput, Msg: "missing id or password hash"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	acct := Account{
		ID:        in.ID,
		Name:      in.Name,
		Email:     strings.TrimSpace(in.Email),
		EmailNorm: NormalizeEmail(in.Email),
		CreatedAt: now,
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return Account{}, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	accounts := pgIdent(s.schema, "accounts")
	creds := pgIdent(s.schema, "account_credentials")

	_, err = tx.Exec(ctx,
		`INSERT INTO `+accounts+` (id, name, email, email_norm, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		acct.ID, acct.Name, acct.Email, acct.EmailNorm, now,
	)
	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return Account{}, apperr.ConflictError{Op: op, Field: field}
		}
		return Account{}, fmt.Errorf("%s: insert account: %w", op, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO `+creds+` (account_id, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)`,
		acct.ID, in.PasswordHash, now,
	)
	if err != nil {
		return Account{}, fmt.Errorf("%s: insert credentials: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Account{}, fmt.Errorf("%s: commit: %w", op, err)
	}
	return acct, nil
}

// GetAccountByEmail returns the account and password hash for a normalized email.
func (s *PostgresStore) GetAccountByEmail(ctx context.Context, emailNorm string) (AccountAuth, error) {
	const op = "identity.GetAccountByEmail"

	if s == nil || s.pool == nil {
		return AccountAuth{}, apperr.OpError{Op: op, Kind: apperr.ErrInternal, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return AccountAuth{}, err
	}

	accounts := pgIdent(s.schema, "accounts")
	creds := pgIdent(s.schema, "account_credentials")

	var out AccountAuth
	err := s.pool.QueryRow(ctx,
		`SELECT a.id, a.name, a.email, a.email_norm, a.created_at, c.password_hash
		   FROM `+accounts+` a
		   JOIN `+creds+` c ON c.account_id = a.id
		  WHERE a.email_norm = $1`,
		NormalizeEmail(emailNorm),
	).Scan(&out.ID, &out.Name, &out.Email, &out.EmailNorm, &out.CreatedAt, &out.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AccountAuth{}, apperr.NotFoundError{Op: op, Resource: "account"}
		}
		return AccountAuth{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// GetAccountByID returns the account with id.
func (s *PostgresStore) GetAccountByID(ctx context.Context, id string) (Account, error) {
	const op = "identity.GetAccountByID"

	if s == nil || s.pool == nil {
		return Account{}, apperr.OpError{Op: op, Kind: apperr.ErrInternal, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	accounts := pgIdent(s.schema, "accounts")

	var out Account
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, email_norm, created_at FROM `+accounts+` WHERE id = $1`,
		id,
	).Scan(&out.ID, &out.Name, &out.Email, &out.EmailNorm, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperr.NotFoundError{Op: op, Resource: "account"}
		}
		return Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// PGIdentIsValid checks if a string is a safe Postgres identifier.
func PGIdentIsValid(s string) bool {
	return pgIdentRe.MatchString(s)
}

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgClassifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" { // unique_violation
		return "", false
	}

	// Prefer stable constraint names; fall back to substring matching.
	c := strings.ToLower(strings.TrimSpace(pgErr.ConstraintName))
	switch {
	case c == "uq_accounts_email_norm", strings.Contains(c, "email"):
		return "email", true
	case c == "accounts_pkey":
		return "id", true
	default:
		return "unique", true
	}
}
