package introspect

import (
	"context"
	"database/sql"
	"fmt"
)

func sqliteCatalog(ctx context.Context, db *sql.DB) ([]ExistingTable, error) {
	tablesQuery := `
	SELECT name FROM sqlite_master
	WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	ORDER BY name;
	`

	rows, err := db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var tableNames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tableNames = append(tableNames, name)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterating table rows: %w", rows.Err())
	}

	var tables []ExistingTable
	for _, name := range tableNames {
		columns, err := sqliteColumns(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("getting columns for table %s: %w", name, err)
		}
		fks, err := sqliteForeignKeys(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("getting foreign keys for table %s: %w", name, err)
		}
		tables = append(tables, ExistingTable{
			TableName:   name,
			Columns:     columns,
			ForeignKeys: fks,
		})
	}
	return tables, nil
}

func sqliteColumns(ctx context.Context, db *sql.DB, tableName string) ([]ExistingColumn, error) {
	// PRAGMA table_info returns: cid, name, type, notnull, dflt_value, pk
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, fmt.Errorf("querying table_info: %w", err)
	}
	defer rows.Close()

	var columns []ExistingColumn
	for rows.Next() {
		var cid, notNull, pk int
		var name, dataType string
		var defaultVal sql.NullString
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		col := ExistingColumn{
			ColumnName: name,
			DataType:   dataType,
			IsNullable: notNull == 0,
		}
		if defaultVal.Valid {
			col.ColumnDefault = &defaultVal.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func sqliteForeignKeys(ctx context.Context, db *sql.DB, tableName string) ([]ExistingForeignKey, error) {
	// PRAGMA foreign_key_list returns: id, seq, table, from, to, on_update, on_delete, match
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", tableName))
	if err != nil {
		return nil, fmt.Errorf("querying foreign_key_list: %w", err)
	}
	defer rows.Close()

	var fks []ExistingForeignKey
	for rows.Next() {
		var id, seq int
		var refTable, from string
		var to, onUpdate, onDelete, match sql.NullString
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("scanning foreign key: %w", err)
		}
		fk := ExistingForeignKey{
			ConstraintName:   fmt.Sprintf("fk_%s_%d", tableName, id),
			ColumnName:       from,
			ReferencesTable:  refTable,
			ReferencesColumn: "id",
		}
		if to.Valid && to.String != "" {
			fk.ReferencesColumn = to.String
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}
