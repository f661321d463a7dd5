package schema

// DataType is the canonical, engine-agnostic column type vocabulary.
type DataType string

const (
	TypeUUID      DataType = "UUID"
	TypeVarchar   DataType = "VARCHAR"
	TypeText      DataType = "TEXT"
	TypeInteger   DataType = "INTEGER"
	TypeBigInt    DataType = "BIGINT"
	TypeDecimal   DataType = "DECIMAL"
	TypeFloat     DataType = "FLOAT"
	TypeBoolean   DataType = "BOOLEAN"
	TypeDate      DataType = "DATE"
	TypeTimestamp DataType = "TIMESTAMP"
	TypeJSON      DataType = "JSON"
	TypeBlob      DataType = "BLOB"
)

// DefaultNow is the reserved default-value sentinel meaning "database current
// timestamp". It is distinct from any other string literal a document may carry.
const DefaultNow = "now"

type Column struct {
	ColumnName   string   `json:"columnName"`
	DataType     DataType `json:"dataType"`
	Length       *int     `json:"length,omitempty"`
	Precision    *int     `json:"precision,omitempty"`
	Scale        *int     `json:"scale,omitempty"`
	IsNullable   *bool    `json:"isNullable,omitempty"`
	IsUnique     *bool    `json:"isUnique,omitempty"`
	DefaultValue any      `json:"defaultValue,omitempty"`
}

// Nullable reports whether the column was explicitly declared nullable.
func (c *Column) Nullable() bool {
	return c.IsNullable != nil && *c.IsNullable
}

// NotNull reports whether the column should be created NOT NULL. Unspecified
// nullability means required, unless a default exists.
func (c *Column) NotNull() bool {
	if c.IsNullable != nil {
		return !*c.IsNullable
	}
	return c.DefaultValue == nil
}

func (c *Column) Unique() bool {
	return c.IsUnique != nil && *c.IsUnique
}

type ForeignKey struct {
	ColumnName       string `json:"columnName"`
	ReferencedTable  string `json:"referencedTable"`
	ReferencedColumn string `json:"referencedColumn"`
	RelationshipName string `json:"relationshipName,omitempty"`
}

type Index struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique,omitempty"`
}

type Table struct {
	TableName   string       `json:"tableName"`
	Columns     []Column     `json:"columns"`
	PrimaryKey  []string     `json:"primaryKey,omitempty"`
	ForeignKeys []ForeignKey `json:"foreignKeys,omitempty"`
	Indexes     []Index      `json:"indexes,omitempty"`
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].ColumnName == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Model is the canonical relational meta-model, the interchange artifact
// between compilation and migration.
type Model struct {
	Schema string  `json:"$schema"`
	Tables []Table `json:"tables"`
}

// Table returns the named table, or nil.
func (m *Model) Table(name string) *Table {
	for i := range m.Tables {
		if m.Tables[i].TableName == name {
			return &m.Tables[i]
		}
	}
	return nil
}
