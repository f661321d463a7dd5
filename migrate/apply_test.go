package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schematic-io/schematic/database"
	"github.com/schematic-io/schematic/ddl"
	"github.com/schematic-io/schematic/diff"
	"github.com/schematic-io/schematic/introspect"
	"github.com/schematic-io/schematic/schema"
)

func openMemory(t *testing.T) database.Conn {
	t.Helper()
	conn, err := database.Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

// Full lifecycle against an embedded database: materialize, verify no diff,
// grow the model, plan, apply, and confirm convergence by re-diffing.
func TestApplyLifecycleSQLite(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)
	assert.Equal(t, database.SQLite, conn.Dialect())
	assert.True(t, conn.Local())

	m := &schema.Model{Tables: []schema.Table{
		{
			TableName: "roles",
			Columns: []schema.Column{
				{ColumnName: "id", DataType: schema.TypeUUID},
				{ColumnName: "name", DataType: schema.TypeVarchar, Length: intPtr(50)},
			},
			PrimaryKey: []string{"id"},
		},
		{
			TableName: "users",
			Columns: []schema.Column{
				{ColumnName: "id", DataType: schema.TypeUUID},
				{ColumnName: "email", DataType: schema.TypeVarchar, Length: intPtr(120)},
				{ColumnName: "role_id", DataType: schema.TypeUUID, IsNullable: boolPtr(true)},
			},
			PrimaryKey: []string{"id"},
			ForeignKeys: []schema.ForeignKey{
				{ColumnName: "role_id", ReferencedTable: "roles", ReferencedColumn: "id"},
			},
		},
	}}

	require.NoError(t, ddl.Materialize(ctx, conn, m, nil))

	existing, err := introspect.Catalog(ctx, conn)
	require.NoError(t, err)
	require.Len(t, existing, 2)
	assert.False(t, diff.Compute(m, existing).HasChanges())

	// Materialize again: idempotent, existing tables untouched.
	require.NoError(t, ddl.Materialize(ctx, conn, m, nil))

	// Grow the model by one column.
	users := m.Table("users")
	users.Columns = append(users.Columns, schema.Column{
		ColumnName: "last_login",
		DataType:   schema.TypeTimestamp,
		IsNullable: boolPtr(true),
	})

	d := diff.Compute(m, existing)
	require.True(t, d.HasChanges())
	assert.Equal(t, []string{"last_login"}, d.MissingColumns["users"])

	plan := Build(m, existing, conn.Dialect())
	require.Len(t, plan.AddColumns, 1)
	assert.False(t, plan.Empty())

	applied, failed := Apply(ctx, conn, plan, nil)
	assert.Equal(t, 1, applied)
	assert.Zero(t, failed)

	after, err := introspect.Catalog(ctx, conn)
	require.NoError(t, err)
	assert.False(t, diff.Compute(m, after).HasChanges())
}

// A second apply of the same plan fails on the duplicate column but the batch
// survives, and the re-diff still reports convergence.
func TestApplyTolerantOfDuplicates(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)

	m := &schema.Model{Tables: []schema.Table{
		{
			TableName:  "items",
			Columns:    []schema.Column{{ColumnName: "id", DataType: schema.TypeInteger}},
			PrimaryKey: []string{"id"},
		},
	}}
	require.NoError(t, ddl.Materialize(ctx, conn, m, nil))

	plan := &Plan{AddColumns: []AddColumn{
		{Table: "items", Column: "qty", TypeSQL: "INTEGER"},
	}}

	applied, failed := Apply(ctx, conn, plan, nil)
	assert.Equal(t, 1, applied)
	assert.Zero(t, failed)

	applied, failed = Apply(ctx, conn, plan, nil)
	assert.Zero(t, applied)
	assert.Equal(t, 1, failed)

	m.Table("items").Columns = append(m.Table("items").Columns, schema.Column{
		ColumnName: "qty", DataType: schema.TypeInteger, IsNullable: boolPtr(true),
	})
	after, err := introspect.Catalog(ctx, conn)
	require.NoError(t, err)
	assert.False(t, diff.Compute(m, after).HasChanges())
}

// A materialized UUID primary key must reject NULLs even on sqlite, where a
// non-INTEGER PRIMARY KEY column is otherwise nullable.
func TestMaterializedPrimaryKeyRejectsNull(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)

	m := &schema.Model{Tables: []schema.Table{
		{
			TableName:  "users",
			Columns:    []schema.Column{{ColumnName: "id", DataType: schema.TypeUUID}},
			PrimaryKey: []string{"id"},
		},
	}}
	require.NoError(t, ddl.Materialize(ctx, conn, m, nil))

	assert.Error(t, conn.Exec(ctx, `INSERT INTO "users" ("id") VALUES (NULL);`))
	require.NoError(t, conn.Exec(ctx, `INSERT INTO "users" ("id") VALUES ('0b5fa774-3114-4e1c-9e0c-1f0b4c1f3a10');`))
}

func TestIntrospectSQLiteForeignKeys(t *testing.T) {
	ctx := context.Background()
	conn := openMemory(t)

	require.NoError(t, conn.Exec(ctx, `CREATE TABLE "roles" ("id" VARCHAR(36) PRIMARY KEY);`))
	require.NoError(t, conn.Exec(ctx, `CREATE TABLE "users" ("id" VARCHAR(36) PRIMARY KEY, "role_id" VARCHAR(36) REFERENCES "roles" ("id"));`))

	existing, err := introspect.Catalog(ctx, conn)
	require.NoError(t, err)

	var users *introspect.ExistingTable
	for i := range existing {
		if existing[i].TableName == "users" {
			users = &existing[i]
		}
	}
	require.NotNil(t, users)
	require.Len(t, users.ForeignKeys, 1)
	assert.Equal(t, "role_id", users.ForeignKeys[0].ColumnName)
	assert.Equal(t, "roles", users.ForeignKeys[0].ReferencesTable)
	assert.Equal(t, "id", users.ForeignKeys[0].ReferencesColumn)
}
