package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notebook/cmd/apperr"
	"notebook/cmd/identity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements note persistence over PostgreSQL.
//
// Update and Delete are single statements conditioned on owner_id, so a
// concurrent ownership check can never be separated from the write.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the Postgres schema used by the store (default "notebook").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if !identity.PGIdentIsValid(schema) {
			return fmt.Errorf("notes: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore. The pool is owned by the caller.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{pool: pool, schema: "notebook"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("notes: nil pool")
	}
	return st, nil
}

const noteColumns = `id, owner_id, title, description, tag, created_at, updated_at`

func (s *PostgresStore) table() string {
	return pgx.Identifier{s.schema, "notes"}.Sanitize()
}

func (s *PostgresStore) Insert(ctx context.Context, n Note) (Note, error) {
	const op = "notes.Insert"

	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+s.table()+` (`+noteColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.OwnerID, n.Title, n.Description, n.Tag, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503": // foreign_key_violation
				return Note{}, apperr.NotFoundError{Op: op, Resource: "account"}
			case "23505": // unique_violation
				return Note{}, apperr.ConflictError{Op: op, Field: "id"}
			}
		}
		return Note{}, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Note, error) {
	const op = "notes.Get"

	if err := ctx.Err(); err != nil {
		return Note{}, err
	}

	n, err := scanNote(s.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM `+s.table()+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, apperr.NotFoundError{Op: op, Resource: "note"}
		}
		return Note{}, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]Note, error) {
	const op = "notes.ListByOwner"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+noteColumns+` FROM `+s.table()+`
		  WHERE owner_id = $1
		  ORDER BY created_at ASC, id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Note, error) {
		return scanNote(row)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, in UpdateInput) (Note, error) {
	const op = "notes.Update"

	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	n, err := scanNote(s.pool.QueryRow(ctx,
		`UPDATE `+s.table()+`
		    SET title = COALESCE($3::text, title),
		        description = COALESCE($4::text, description),
		        tag = COALESCE($5::text, tag),
		        updated_at = $6
		  WHERE id = $1 AND owner_id = $2
		  RETURNING `+noteColumns,
		in.ID, in.OwnerID,
		nonEmpty(in.Patch.Title), nonEmpty(in.Patch.Description), nonEmpty(in.Patch.Tag),
		now,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, s.classifyMiss(ctx, op, in.ID)
		}
		return Note{}, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id, ownerID string) (Note, error) {
	const op = "notes.Delete"

	if err := ctx.Err(); err != nil {
		return Note{}, err
	}

	n, err := scanNote(s.pool.QueryRow(ctx,
		`DELETE FROM `+s.table()+`
		  WHERE id = $1 AND owner_id = $2
		  RETURNING `+noteColumns,
		id, ownerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Note{}, s.classifyMiss(ctx, op, id)
		}
		return Note{}, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// classifyMiss explains why an owner-conditioned write touched no row.
func (s *PostgresStore) classifyMiss(ctx context.Context, op, id string) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+s.table()+` WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: classify: %w", op, err)
	}
	if !exists {
		return apperr.NotFoundError{Op: op, Resource: "note"}
	}
	return apperr.AuthError{Op: op, Reason: apperr.ReasonAccessDenied}
}

func scanNote(row pgx.Row) (Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Description, &n.Tag, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}
