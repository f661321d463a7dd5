// Package diff compares the canonical meta-model against a live catalog and
// reports the additive-only difference: missing tables and missing columns.
// Types, nullability, and constraints are deliberately not compared; fixing
// those would not be additive-safe.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/schematic-io/schematic/introspect"
	"github.com/schematic-io/schematic/schema"
)

type SchemaDiff struct {
	MissingTables  []string
	MissingColumns map[string][]string
}

// HasChanges reports whether the live schema is behind the meta-model.
func (d *SchemaDiff) HasChanges() bool {
	return len(d.MissingTables) > 0 || len(d.MissingColumns) > 0
}

// Format renders the diff for operator review: tables alphabetically, columns
// alphabetically within each table.
func (d *SchemaDiff) Format() string {
	var lines []string
	if len(d.MissingTables) > 0 {
		lines = append(lines, "Missing tables:")
		tables := append([]string(nil), d.MissingTables...)
		sort.Strings(tables)
		for _, t := range tables {
			lines = append(lines, fmt.Sprintf("  - %s", t))
		}
	}
	if len(d.MissingColumns) > 0 {
		lines = append(lines, "Missing columns:")
		tables := make([]string, 0, len(d.MissingColumns))
		for t := range d.MissingColumns {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		for _, t := range tables {
			cols := append([]string(nil), d.MissingColumns[t]...)
			sort.Strings(cols)
			for _, c := range cols {
				lines = append(lines, fmt.Sprintf("  - %s.%s", t, c))
			}
		}
	}
	if len(lines) == 0 {
		return "No schema differences detected."
	}
	return strings.Join(lines, "\n")
}

// Compute diffs the meta-model against the live catalog. A missing table is
// recorded without per-column detail, since creation handles the whole table.
func Compute(m *schema.Model, existing []introspect.ExistingTable) *SchemaDiff {
	live := map[string]map[string]bool{}
	for _, t := range existing {
		cols := map[string]bool{}
		for _, c := range t.Columns {
			cols[c.ColumnName] = true
		}
		live[t.TableName] = cols
	}

	d := &SchemaDiff{MissingColumns: map[string][]string{}}
	for _, t := range m.Tables {
		liveCols, ok := live[t.TableName]
		if !ok {
			d.MissingTables = append(d.MissingTables, t.TableName)
			continue
		}
		var missing []string
		for _, c := range t.Columns {
			if !liveCols[c.ColumnName] {
				missing = append(missing, c.ColumnName)
			}
		}
		if len(missing) > 0 {
			d.MissingColumns[t.TableName] = missing
		}
	}
	return d
}
