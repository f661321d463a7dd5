package migrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/schematic-io/schematic/database"
)

// Apply executes the planned ALTER statements one at a time. A failing
// statement is logged and the batch continues: each operation is independent
// and idempotent on retry, and an already-exists error is a tolerable outcome.
// Whether the run converged is decided by re-diffing afterwards, not here.
func Apply(ctx context.Context, conn database.Conn, plan *Plan, log *zap.Logger) (applied, failed int) {
	if log == nil {
		log = zap.NewNop()
	}

	for _, ac := range plan.AddColumns {
		// Added nullable regardless of the model: existing rows must not fail.
		stmt := fmt.Sprintf("ALTER TABLE %q ADD COLUMN %q %s;", ac.Table, ac.Column, ac.TypeSQL)
		if err := conn.Exec(ctx, stmt); err != nil {
			failed++
			log.Error("ADD COLUMN failed (continuing)",
				zap.String("statement", stmt),
				zap.Error(err),
			)
			continue
		}
		applied++
		log.Info("added column",
			zap.String("table", ac.Table),
			zap.String("column", ac.Column),
			zap.String("type", ac.TypeSQL),
		)
	}

	for _, fk := range plan.AddForeignKeys {
		stmt := fmt.Sprintf("ALTER TABLE %q ADD CONSTRAINT %q FOREIGN KEY (%q) REFERENCES %q (%q);",
			fk.Table, fk.ConstraintName(), fk.Column, fk.ReferencedTable, fk.ReferencedColumn)
		if err := conn.Exec(ctx, stmt); err != nil {
			failed++
			log.Error("ADD FOREIGN KEY failed (continuing)",
				zap.String("statement", stmt),
				zap.Error(err),
			)
			continue
		}
		applied++
		log.Info("added foreign key",
			zap.String("table", fk.Table),
			zap.String("constraint", fk.ConstraintName()),
		)
	}

	return applied, failed
}
