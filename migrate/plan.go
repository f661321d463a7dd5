// Package migrate plans and applies additive-only schema changes: add column
// and add foreign key, nothing that removes or narrows.
package migrate

import (
	"fmt"
	"strings"

	"github.com/schematic-io/schematic/database"
	"github.com/schematic-io/schematic/ddl"
	"github.com/schematic-io/schematic/introspect"
	"github.com/schematic-io/schematic/schema"
)

type AddColumn struct {
	Table   string
	Column  string
	TypeSQL string
}

type AddForeignKey struct {
	Table            string
	Column           string
	ReferencedTable  string
	ReferencedColumn string
}

// ConstraintName derives a deterministic constraint name from the endpoints.
func (fk AddForeignKey) ConstraintName() string {
	return fmt.Sprintf("fk_%s_%s_%s_%s", fk.Table, fk.Column, fk.ReferencedTable, fk.ReferencedColumn)
}

// Plan is recomputed from live introspection every run and never persisted,
// so it always reflects present reality.
type Plan struct {
	CreateTables   []string
	AddColumns     []AddColumn
	AddForeignKeys []AddForeignKey
	Warnings       []string
}

// Empty reports whether the plan contains no ALTER operations.
func (p *Plan) Empty() bool {
	return len(p.AddColumns) == 0 && len(p.AddForeignKeys) == 0
}

// Format renders the plan for operator review.
func (p *Plan) Format() string {
	var b strings.Builder
	b.WriteString("=== ADDITIVE PLAN ===\n")
	if len(p.CreateTables) > 0 {
		b.WriteString("New tables (create handles these): " + strings.Join(p.CreateTables, ", ") + "\n")
	}
	if len(p.AddColumns) > 0 {
		b.WriteString("Columns to add:\n")
		for _, ac := range p.AddColumns {
			fmt.Fprintf(&b, "  - %s.%s : %s\n", ac.Table, ac.Column, ac.TypeSQL)
		}
	} else {
		b.WriteString("Columns to add: (none)\n")
	}
	if len(p.AddForeignKeys) > 0 {
		b.WriteString("FKs to add:\n")
		for _, fk := range p.AddForeignKeys {
			fmt.Fprintf(&b, "  - %s.%s -> %s.%s\n", fk.Table, fk.Column, fk.ReferencedTable, fk.ReferencedColumn)
		}
	} else {
		b.WriteString("FKs to add: (none)\n")
	}
	if len(p.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		for _, w := range p.Warnings {
			b.WriteString("  ! " + w + "\n")
		}
	}
	return b.String()
}

// Build plans additive changes for tables that already exist live. Missing
// tables are only noted; full creation handles them. New columns are always
// added nullable so existing rows cannot fail, with a warning whenever the
// model wanted NOT NULL. Foreign keys are planned for columns that exist live
// or are part of this add batch, and skipped entirely on engines that cannot
// alter constraints after creation.
func Build(m *schema.Model, existing []introspect.ExistingTable, dialect database.Dialect) *Plan {
	live := map[string]*introspect.ExistingTable{}
	for i := range existing {
		live[existing[i].TableName] = &existing[i]
	}

	plan := &Plan{}

	for ti := range m.Tables {
		t := &m.Tables[ti]
		liveTable, ok := live[t.TableName]
		if !ok {
			plan.CreateTables = append(plan.CreateTables, t.TableName)
			continue
		}

		added := map[string]bool{}
		liveCols := map[string]bool{}
		for ci := range t.Columns {
			col := &t.Columns[ci]
			if existingCol := liveTable.Column(col.ColumnName); existingCol != nil {
				liveCols[col.ColumnName] = true
				if col.NotNull() && existingCol.IsNullable {
					plan.Warnings = append(plan.Warnings, fmt.Sprintf(
						"%s.%s: live column is NULLABLE but model declares NOT NULL (manual migration required)",
						t.TableName, col.ColumnName))
				}
				continue
			}
			plan.AddColumns = append(plan.AddColumns, AddColumn{
				Table:   t.TableName,
				Column:  col.ColumnName,
				TypeSQL: ddl.ColumnType(col, dialect),
			})
			added[col.ColumnName] = true
			if col.NotNull() {
				plan.Warnings = append(plan.Warnings, fmt.Sprintf(
					"%s.%s: model declares NOT NULL; adding as NULLABLE to protect existing rows",
					t.TableName, col.ColumnName))
			}
		}

		liveFKs := map[string]bool{}
		for _, fk := range liveTable.ForeignKeys {
			liveFKs[fk.ColumnName+">"+fk.ReferencesTable+"."+fk.ReferencesColumn] = true
		}

		for _, fk := range t.ForeignKeys {
			if liveFKs[fk.ColumnName+">"+fk.ReferencedTable+"."+fk.ReferencedColumn] {
				continue
			}
			if !liveCols[fk.ColumnName] && !added[fk.ColumnName] {
				continue
			}
			if dialect == database.SQLite {
				plan.Warnings = append(plan.Warnings, fmt.Sprintf(
					"sqlite cannot add foreign keys post-create; skipping FK %s.%s -> %s.%s",
					t.TableName, fk.ColumnName, fk.ReferencedTable, fk.ReferencedColumn))
				continue
			}
			plan.AddForeignKeys = append(plan.AddForeignKeys, AddForeignKey{
				Table:            t.TableName,
				Column:           fk.ColumnName,
				ReferencedTable:  fk.ReferencedTable,
				ReferencedColumn: fk.ReferencedColumn,
			})
		}
	}

	return plan
}
