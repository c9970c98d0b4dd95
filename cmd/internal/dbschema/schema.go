// Package dbschema holds the Postgres DDL for the notebook tables and applies it
// to a target schema.
//
// Apply is idempotent (CREATE ... IF NOT EXISTS). It is a bootstrap for dev and
// tests, not a migration tool: it never alters existing tables.
package dbschema

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var ddl string

var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// SQL returns the DDL rendered for schema.
func SQL(schema string) (string, error) {
	schema = strings.TrimSpace(schema)
	if !identRe.MatchString(schema) {
		return "", fmt.Errorf("dbschema: invalid schema identifier %q", schema)
	}
	return strings.ReplaceAll(ddl, "{{schema}}", pgx.Identifier{schema}.Sanitize()), nil
}

// Apply creates the schema and its tables if they do not exist.
func Apply(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if pool == nil {
		return fmt.Errorf("dbschema: nil pool")
	}
	q, err := SQL(schema)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("dbschema: apply %s: %w", schema, err)
	}
	return nil
}
