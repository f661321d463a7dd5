package ddl

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/schematic-io/schematic/database"
	"github.com/schematic-io/schematic/introspect"
	"github.com/schematic-io/schematic/schema"
)

// Materialize creates every meta-model table that does not yet exist. It is
// create-only and idempotent at the table level: existing tables and their
// columns are left untouched.
func Materialize(ctx context.Context, conn database.Conn, m *schema.Model, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	existing, err := introspect.Catalog(ctx, conn)
	if err != nil {
		return fmt.Errorf("introspecting catalog: %w", err)
	}
	live := map[string]bool{}
	for _, t := range existing {
		live[t.TableName] = true
	}

	for _, t := range CreationOrder(m) {
		if live[t.TableName] {
			log.Debug("table exists, leaving untouched", zap.String("table", t.TableName))
			continue
		}
		stmt := CreateTableSQL(t, conn.Dialect())
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating table %s: %w", t.TableName, err)
		}
		log.Info("created table",
			zap.String("table", t.TableName),
			zap.Int("columns", len(t.Columns)),
		)
	}
	return nil
}

// DropAll drops every meta-model table, referrers first. Destructive, dev
// only; callers gate it behind an explicit force flag.
func DropAll(ctx context.Context, conn database.Conn, m *schema.Model, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	order := CreationOrder(m)
	for i := len(order) - 1; i >= 0; i-- {
		t := order[i]
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %q;", t.TableName)
		if conn.Dialect() == database.Postgres {
			stmt = fmt.Sprintf("DROP TABLE IF EXISTS %q CASCADE;", t.TableName)
		}
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("dropping table %s: %w", t.TableName, err)
		}
		log.Warn("dropped table", zap.String("table", t.TableName))
	}
	return nil
}
