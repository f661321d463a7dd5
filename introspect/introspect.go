// Package introspect queries live database catalogs to discover existing
// tables, columns, and foreign keys for diffing against the meta-model.
package introspect

import (
	"context"
	"fmt"

	"github.com/schematic-io/schematic/database"
)

type ExistingTable struct {
	TableName   string
	Columns     []ExistingColumn
	ForeignKeys []ExistingForeignKey
}

type ExistingColumn struct {
	ColumnName    string
	DataType      string
	IsNullable    bool
	ColumnDefault *string
}

type ExistingForeignKey struct {
	ConstraintName   string
	ColumnName       string
	ReferencesTable  string
	ReferencesColumn string
}

// Column returns the named column, or nil.
func (t *ExistingTable) Column(name string) *ExistingColumn {
	for i := range t.Columns {
		if t.Columns[i].ColumnName == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Catalog introspects the live database's table/column catalog.
func Catalog(ctx context.Context, conn database.Conn) ([]ExistingTable, error) {
	switch c := conn.(type) {
	case *database.PostgresConn:
		return postgresCatalog(ctx, c.Pool())
	case *database.SQLiteConn:
		return sqliteCatalog(ctx, c.DB())
	default:
		return nil, fmt.Errorf("unsupported connection type %T", conn)
	}
}
