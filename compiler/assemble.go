package compiler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/schematic-io/schematic/loader"
	"github.com/schematic-io/schematic/schema"
)

// TypeMode selects the type vocabulary emitted by the assembler.
type TypeMode string

const (
	// TypeModeFull keeps the full canonical type set.
	TypeModeFull TypeMode = "full"
	// TypeModeCore coerces to {UUID, VARCHAR, INTEGER, TIMESTAMP} for
	// capability-constrained engines.
	TypeModeCore TypeMode = "core"
)

// DefaultSchemaURI is written to the interchange artifact's $schema field
// unless overridden.
const DefaultSchemaURI = "schema_definitions/modelSchema.json"

// Options configures one assembly run.
type Options struct {
	SchemaURI   string
	TypeMode    TypeMode
	FKNormalize bool
	Logger      *zap.Logger
}

// pendingFK records a foreign-key column whose data type is inferred from its
// target in a second pass, so cyclic FK graphs cannot recurse unboundedly.
type pendingFK struct {
	table, column       string
	refTable, refColumn string
}

// Assemble compiles an entity document into the canonical meta-model. It is
// deliberately permissive: malformed entities and unmappable properties are
// skipped with a diagnostic, never an error. The only hard failure is a
// foreign-key type-inference cycle.
func Assemble(doc *loader.Document, opts Options) (*schema.Model, []string, error) {
	if opts.SchemaURI == "" {
		opts.SchemaURI = DefaultSchemaURI
	}
	if opts.TypeMode == "" {
		opts.TypeMode = TypeModeCore
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var diags []string
	diag := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		diags = append(diags, msg)
		log.Debug(msg)
	}

	defs := doc.Definitions()
	model := &schema.Model{Schema: opts.SchemaURI}
	var pending []pendingFK

	for _, tableName := range doc.EntityOrder() {
		entity, ok := defs[tableName].(map[string]any)
		if !ok {
			diag("skipping %q (not an object schema)", tableName)
			continue
		}

		props, _ := entity["properties"].(map[string]any)
		required := stringSet(entity["required"])
		pk := stringSlice(entity["x-primaryKey"])
		if len(pk) == 0 {
			if _, hasID := props["id"]; hasID {
				pk = []string{"id"}
			}
		}
		pkSet := map[string]bool{}
		for _, p := range pk {
			pkSet[p] = true
		}

		table := schema.Table{TableName: tableName, PrimaryKey: pk}

		for _, colName := range doc.PropertyOrder(tableName) {
			prop, ok := props[colName].(map[string]any)
			if !ok {
				diag("%s.%s: skipped (property is not an object)", tableName, colName)
				continue
			}

			propType, _ := prop["type"].(string)
			if (propType == "array" || propType == "object") && !hasFKHints(prop) {
				diag("%s.%s: skipped (type %s without FK hints)", tableName, colName, propType)
				continue
			}

			constraints := ResolveConstraints(prop, doc.Root)
			rawRef, _ := prop["$ref"].(string)

			var fkTable, fkColumn string
			if opts.FKNormalize {
				var note string
				fkTable, fkColumn, note = NormalizeHints(
					constraints.Str("x-refTable"),
					constraints.Str("x-refColumn"),
					rawRef,
				)
				if note != "" {
					diag("%s.%s: %s", tableName, colName, note)
				}
			} else {
				fkTable, fkColumn = SimpleHints(
					constraints.Str("x-refTable"),
					constraints.Str("x-refColumn"),
					rawRef,
				)
			}

			col := schema.Column{ColumnName: colName}
			if fkTable != "" {
				// Type comes from the referenced column, resolved in
				// phase two once every table is assembled.
				pending = append(pending, pendingFK{
					table:     tableName,
					column:    colName,
					refTable:  fkTable,
					refColumn: fkColumn,
				})
			} else {
				dt, length := MapType(constraints)
				if opts.TypeMode == TypeModeCore {
					var note string
					dt, length, note = CoerceCore(dt, length)
					if note != "" {
						diag("%s.%s: %s", tableName, colName, note)
					}
				}
				col.DataType = dt
				if dt == schema.TypeVarchar {
					col.Length = length
				}
			}

			notNull := required[colName] || pkSet[colName]
			if !notNull {
				col.IsNullable = boolPtr(true)
			}
			if constraints.Bool("x-unique") {
				col.IsUnique = boolPtr(true)
			}
			if dv, ok := constraints["default"]; ok && dv != nil {
				col.DefaultValue = NormalizeDefault(dv)
			}

			table.Columns = append(table.Columns, col)

			if fkTable != "" {
				rel := constraints.Str("x-relationshipName")
				if rel == "" {
					rel = RelationshipName(colName, fkTable)
				}
				table.ForeignKeys = append(table.ForeignKeys, schema.ForeignKey{
					ColumnName:       colName,
					ReferencedTable:  fkTable,
					ReferencedColumn: fkColumn,
					RelationshipName: rel,
				})
				diag("%s.%s: FK -> %s.%s (rel: %s)", tableName, colName, fkTable, fkColumn, rel)
			}
		}

		log.Info("assembled entity",
			zap.String("table", tableName),
			zap.Int("columns", len(table.Columns)),
			zap.Int("foreignKeys", len(table.ForeignKeys)),
			zap.Strings("primaryKey", pk),
		)
		model.Tables = append(model.Tables, table)
	}

	if err := resolvePendingTypes(model, doc, pending, opts, diag); err != nil {
		return nil, diags, err
	}

	return model, diags, nil
}

// resolvePendingTypes is phase two: each foreign-key column takes the exact
// data type of the primary-key column it references. Chains of FK-typed
// columns are followed with a visited set; a cycle is an authoring error we
// fail loudly on instead of guessing a type.
func resolvePendingTypes(model *schema.Model, doc *loader.Document, pending []pendingFK, opts Options, diag func(string, ...any)) error {
	pendingByKey := map[string]pendingFK{}
	for _, p := range pending {
		pendingByKey[p.table+"."+p.column] = p
	}

	for _, p := range pending {
		visited := map[string]bool{p.table + "." + p.column: true}
		target := p
		var dt schema.DataType
		var length *int

		for {
			key := target.refTable + "." + target.refColumn
			if visited[key] {
				return fmt.Errorf("foreign key type inference cycle at %s.%s (via %s.%s)",
					p.table, p.column, target.refTable, target.refColumn)
			}
			visited[key] = true

			if next, ok := pendingByKey[key]; ok {
				target = next
				continue
			}

			if t := model.Table(target.refTable); t != nil {
				if c := t.Column(target.refColumn); c != nil && c.DataType != "" {
					dt, length = c.DataType, c.Length
					break
				}
			}
			dt, length = inferFromDocument(doc, target.refTable, target.refColumn)
			break
		}

		if opts.TypeMode == TypeModeCore {
			var note string
			dt, length, note = CoerceCore(dt, length)
			if note != "" {
				diag("%s.%s: %s", p.table, p.column, note)
			}
		}

		col := model.Table(p.table).Column(p.column)
		col.DataType = dt
		if dt == schema.TypeVarchar {
			col.Length = length
		}
	}
	return nil
}

// inferFromDocument resolves the referenced column's fragment straight from
// the source document, defaulting to UUID when the target cannot be located.
func inferFromDocument(doc *loader.Document, refTable, refColumn string) (schema.DataType, *int) {
	if refColumn == "" {
		refColumn = "id"
	}
	entity, _ := doc.Definitions()[refTable].(map[string]any)
	props, _ := entity["properties"].(map[string]any)
	if frag, ok := props[refColumn].(map[string]any); ok {
		return MapType(ResolveConstraints(frag, doc.Root))
	}
	return schema.TypeUUID, nil
}

func hasFKHints(prop map[string]any) bool {
	for _, k := range []string{"x-refTable", "x-refColumn", "$ref"} {
		if _, ok := prop[k]; ok {
			return true
		}
	}
	return false
}

func stringSet(v any) map[string]bool {
	out := map[string]bool{}
	items, _ := v.([]any)
	for _, item := range items {
		if s, ok := item.(string); ok {
			out[s] = true
		}
	}
	return out
}

func stringSlice(v any) []string {
	items, _ := v.([]any)
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
