package schema

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of the meta-model: table names are
// unique and non-empty, column names are unique within a table, and every
// column referenced by a primary key or foreign key exists.
func (m *Model) Validate() error {
	var errs []error

	seenTables := map[string]bool{}
	for ti := range m.Tables {
		t := &m.Tables[ti]
		if t.TableName == "" {
			errs = append(errs, fmt.Errorf("table %d: empty tableName", ti))
			continue
		}
		if seenTables[t.TableName] {
			errs = append(errs, fmt.Errorf("duplicate table %q", t.TableName))
		}
		seenTables[t.TableName] = true

		cols := map[string]bool{}
		for _, c := range t.Columns {
			if c.ColumnName == "" {
				errs = append(errs, fmt.Errorf("%s: column with empty columnName", t.TableName))
				continue
			}
			if cols[c.ColumnName] {
				errs = append(errs, fmt.Errorf("%s: duplicate column %q", t.TableName, c.ColumnName))
			}
			cols[c.ColumnName] = true
			if c.DataType == "" {
				errs = append(errs, fmt.Errorf("%s.%s: missing dataType", t.TableName, c.ColumnName))
			}
		}

		for _, pk := range t.PrimaryKey {
			if !cols[pk] {
				errs = append(errs, fmt.Errorf("%s: primaryKey column %q does not exist", t.TableName, pk))
			}
		}

		for _, fk := range t.ForeignKeys {
			if !cols[fk.ColumnName] {
				errs = append(errs, fmt.Errorf("%s: foreignKey column %q does not exist", t.TableName, fk.ColumnName))
			}
			if fk.ReferencedTable == "" {
				errs = append(errs, fmt.Errorf("%s.%s: foreignKey without referencedTable", t.TableName, fk.ColumnName))
			}
		}

		for _, idx := range t.Indexes {
			for _, ic := range idx.Columns {
				if !cols[ic] {
					errs = append(errs, fmt.Errorf("%s: index %q column %q does not exist", t.TableName, idx.Name, ic))
				}
			}
		}
	}

	return errors.Join(errs...)
}
