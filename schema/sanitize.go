package schema

import (
	"fmt"
	"strings"
)

// SanitizeReport counts the repairs applied by Sanitize.
type SanitizeReport struct {
	FKFixes     int
	FKDefaulted int
}

// Sanitize repairs known authoring artifacts in the meta-model in place:
// foreign-key targets that still carry path-like fragments are reduced to
// plain table/column names, and missing referenced columns default to "id".
// Sanitize is idempotent and re-validates the model before returning.
func Sanitize(m *Model) (SanitizeReport, error) {
	var rep SanitizeReport

	for ti := range m.Tables {
		t := &m.Tables[ti]
		for fi := range t.ForeignKeys {
			fk := &t.ForeignKeys[fi]

			if rt := fk.ReferencedTable; rt != "" {
				clean := strings.TrimLeft(rt, "#/")
				clean = strings.TrimPrefix(clean, "definitions/")
				if i := strings.Index(clean, "/"); i >= 0 {
					clean = clean[:i]
				}
				if clean != rt {
					fk.ReferencedTable = clean
					rep.FKFixes++
				}
			}

			if rc := fk.ReferencedColumn; rc != "" {
				clean := rc
				if i := strings.LastIndex(clean, "/"); i >= 0 {
					clean = clean[i+1:]
				}
				if i := strings.LastIndex(clean, "."); i >= 0 {
					clean = clean[i+1:]
				}
				if clean != rc {
					fk.ReferencedColumn = clean
					rep.FKFixes++
				}
			}

			if fk.ReferencedColumn == "" {
				fk.ReferencedColumn = "id"
				rep.FKDefaulted++
			}
		}
	}

	if err := m.Validate(); err != nil {
		return rep, fmt.Errorf("meta-model invalid after sanitization: %w", err)
	}
	return rep, nil
}
