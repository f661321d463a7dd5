// Package ddl turns the canonical meta-model into concrete SQL: dialect-aware
// type expressions, CREATE TABLE statements, and a create-only materializer.
package ddl

import (
	"fmt"
	"strings"

	"github.com/schematic-io/schematic/database"
	"github.com/schematic-io/schematic/schema"
)

// SQLType maps an abstract data type to a conservative SQL type expression
// for the target dialect.
func SQLType(dt schema.DataType, length, precision, scale *int, dialect database.Dialect) string {
	switch dt {
	case schema.TypeUUID:
		if dialect == database.SQLite {
			return "VARCHAR(36)"
		}
		return "UUID"
	case schema.TypeVarchar:
		n := 255
		if length != nil {
			n = *length
		}
		return fmt.Sprintf("VARCHAR(%d)", n)
	case schema.TypeText:
		return "TEXT"
	case schema.TypeInteger:
		return "INTEGER"
	case schema.TypeBigInt:
		return "BIGINT"
	case schema.TypeDecimal:
		p, s := 18, 6
		if precision != nil {
			p = *precision
		}
		if scale != nil {
			s = *scale
		}
		return fmt.Sprintf("DECIMAL(%d,%d)", p, s)
	case schema.TypeFloat:
		return "FLOAT"
	case schema.TypeBoolean:
		return "BOOLEAN"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeTimestamp:
		return "TIMESTAMP"
	case schema.TypeJSON:
		if dialect == database.Postgres {
			return "JSONB"
		}
		return "TEXT"
	case schema.TypeBlob:
		return "BLOB"
	}
	return "TEXT"
}

// ColumnType returns the SQL type expression for a meta column.
func ColumnType(col *schema.Column, dialect database.Dialect) string {
	return SQLType(col.DataType, col.Length, col.Precision, col.Scale, dialect)
}

// DefaultExpr renders a column default. The "now" sentinel on timestamp/date
// columns becomes a server-side current-timestamp expression; anything else is
// a client-supplied literal.
func DefaultExpr(col *schema.Column) (string, bool) {
	if col.DefaultValue == nil {
		return "", false
	}
	if s, ok := col.DefaultValue.(string); ok && s == schema.DefaultNow {
		switch col.DataType {
		case schema.TypeTimestamp:
			return "CURRENT_TIMESTAMP", true
		case schema.TypeDate:
			return "CURRENT_DATE", true
		}
	}
	return literal(col.DefaultValue), true
}

func literal(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", x)
	}
}

// CreateTableSQL builds the CREATE TABLE statement for one meta table,
// including defaults, nullability, uniqueness, primary key, and inline
// foreign-key references.
func CreateTableSQL(t *schema.Table, dialect database.Dialect) string {
	fkByColumn := map[string]*schema.ForeignKey{}
	for i := range t.ForeignKeys {
		fkByColumn[t.ForeignKeys[i].ColumnName] = &t.ForeignKeys[i]
	}
	pkSet := map[string]bool{}
	for _, pk := range t.PrimaryKey {
		pkSet[pk] = true
	}
	singlePK := len(t.PrimaryKey) == 1

	var defs []string
	for i := range t.Columns {
		col := &t.Columns[i]
		def := fmt.Sprintf("%q %s", col.ColumnName, ColumnType(col, dialect))
		if expr, ok := DefaultExpr(col); ok {
			def += " DEFAULT " + expr
		}
		if singlePK && pkSet[col.ColumnName] {
			// NOT NULL is spelled out even though PRIMARY KEY implies it on
			// most engines: sqlite permits NULLs in non-INTEGER primary key
			// columns unless the column is declared NOT NULL itself.
			def += " PRIMARY KEY NOT NULL"
		} else {
			if col.NotNull() || pkSet[col.ColumnName] {
				def += " NOT NULL"
			}
			if col.Unique() {
				def += " UNIQUE"
			}
		}
		if fk := fkByColumn[col.ColumnName]; fk != nil {
			def += fmt.Sprintf(" REFERENCES %q (%q)", fk.ReferencedTable, fk.ReferencedColumn)
		}
		defs = append(defs, def)
	}

	if !singlePK && len(t.PrimaryKey) > 1 {
		quoted := make([]string, len(t.PrimaryKey))
		for i, pk := range t.PrimaryKey {
			quoted[i] = fmt.Sprintf("%q", pk)
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(quoted, ", ")+")")
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s);", t.TableName, strings.Join(defs, ", "))
}

// CreationOrder returns the model's tables sorted so foreign-key targets come
// before their referrers. Self-references are ignored; on a reference cycle
// the remaining tables fall back to declaration order.
func CreationOrder(m *schema.Model) []*schema.Table {
	placed := map[string]bool{}
	var order []*schema.Table

	for len(order) < len(m.Tables) {
		progress := false
		for i := range m.Tables {
			t := &m.Tables[i]
			if placed[t.TableName] {
				continue
			}
			ready := true
			for _, fk := range t.ForeignKeys {
				if fk.ReferencedTable == t.TableName {
					continue
				}
				if m.Table(fk.ReferencedTable) != nil && !placed[fk.ReferencedTable] {
					ready = false
					break
				}
			}
			if ready {
				placed[t.TableName] = true
				order = append(order, t)
				progress = true
			}
		}
		if !progress {
			for i := range m.Tables {
				if !placed[m.Tables[i].TableName] {
					placed[m.Tables[i].TableName] = true
					order = append(order, &m.Tables[i])
				}
			}
		}
	}
	return order
}
