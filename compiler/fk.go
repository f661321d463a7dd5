package compiler

import (
	"fmt"
	"strings"
)

// ParseRefPointer extracts a (table, column) pair from any of the pointer
// shapes that show up in hand-authored foreign-key hints:
//
//	#/definitions/users
//	#/definitions/users/properties/id
//	definitions/users/properties/id
//	users/properties/id
//	definitions.users.properties.id
//
// The table is the token after a "definitions" anchor (or the first token when
// no anchor exists); the column is the token after a "properties" anchor.
// Either may be empty.
func ParseRefPointer(ptr string) (table, column string) {
	s := strings.TrimSpace(ptr)
	if s == "" {
		return "", ""
	}
	s = strings.TrimLeft(s, "#/")
	s = strings.ReplaceAll(s, ".", "/")

	var parts []string
	for _, p := range strings.Split(s, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for i, p := range parts {
		if p == "definitions" {
			parts = parts[i+1:]
			break
		}
	}
	if len(parts) > 0 {
		table = parts[0]
	}
	for i, p := range parts {
		if p == "properties" && i+1 < len(parts) {
			column = parts[i+1]
			break
		}
	}
	return table, column
}

// NormalizeHints is the strict foreign-key resolution strategy: explicit
// table/column hints are parsed as pointers when they look like one, falling
// back to literal names, then a raw $ref pointer, with the referenced column
// defaulting to "id". The note describes any normalization that happened;
// resolving an already-normalized pair yields the identical pair and no note.
func NormalizeHints(refTableHint, refColumnHint, rawRef string) (table, column, note string) {
	addNote := func(n string) {
		if note != "" {
			note += "; "
		}
		note += n
	}

	if refTableHint != "" {
		t, embeddedCol := ParseRefPointer(refTableHint)
		if t != "" {
			if t != refTableHint {
				addNote(fmt.Sprintf("normalized x-refTable %q -> %q", refTableHint, t))
			}
			table = t
		} else {
			table = refTableHint
		}

		if refColumnHint != "" {
			_, c := ParseRefPointer(refColumnHint)
			switch {
			case c != "":
				column = c
				if refColumnHint != c {
					addNote(fmt.Sprintf("normalized x-refColumn %q -> %q", refColumnHint, c))
				}
			case strings.ContainsAny(refColumnHint, "/.#"):
				column = refColumnHint
				if i := strings.LastIndex(column, "/"); i >= 0 {
					column = column[i+1:]
				}
				if i := strings.LastIndex(column, "."); i >= 0 {
					column = column[i+1:]
				}
				if refColumnHint != column {
					addNote(fmt.Sprintf("normalized x-refColumn %q -> %q", refColumnHint, column))
				}
			default:
				column = refColumnHint
			}
		} else if embeddedCol != "" {
			column = embeddedCol
		}
	}

	if table == "" && rawRef != "" {
		t, c := ParseRefPointer(rawRef)
		if t != "" {
			table = t
			if c != "" {
				column = c
			}
		}
	}

	if table != "" && column == "" {
		column = "id"
	}
	return table, column, note
}

// SimpleHints is the conservative default strategy: explicit hints are taken
// literally, with only a plain "#/definitions/<name>" $ref recognized as a
// fallback. The referenced column defaults to "id".
func SimpleHints(refTableHint, refColumnHint, rawRef string) (table, column string) {
	table = refTableHint
	column = refColumnHint
	if table == "" {
		if name, ok := strings.CutPrefix(rawRef, "#/definitions/"); ok && name != "" {
			table = name
		}
	}
	if table != "" && column == "" {
		column = "id"
	}
	return table, column
}

// RelationshipName derives the human-facing relationship label: the column
// name with a trailing "_id" stripped, else the referenced table name naively
// singularized.
func RelationshipName(columnName, refTable string) string {
	if strings.HasSuffix(columnName, "_id") && len(columnName) > 3 {
		return strings.TrimSuffix(columnName, "_id")
	}
	if strings.HasSuffix(refTable, "s") && len(refTable) > 1 {
		return strings.TrimSuffix(refTable, "s")
	}
	return refTable
}
