package compiler

import (
	"fmt"
	"strings"

	"github.com/schematic-io/schematic/schema"
)

// MapType converts a resolved constraint fragment into a canonical column
// data type plus optional length. Format takes precedence over type; anything
// unrecognized falls through to TEXT rather than failing.
func MapType(c Fragment) (schema.DataType, *int) {
	maxLen, hasLen := c.Int("maxLength")

	switch c.Str("format") {
	case "uuid":
		return schema.TypeUUID, nil
	case "date-time":
		return schema.TypeTimestamp, nil
	case "date":
		return schema.TypeDate, nil
	case "email":
		return schema.TypeVarchar, intPtr(orDefault(maxLen, hasLen, 255))
	}

	switch c.Str("type") {
	case "string":
		return schema.TypeVarchar, intPtr(orDefault(maxLen, hasLen, 255))
	case "integer":
		return schema.TypeInteger, nil
	case "number":
		return schema.TypeFloat, nil
	case "boolean":
		return schema.TypeBoolean, nil
	}

	return schema.TypeText, nil
}

// coreTypes is the restricted vocabulary of capability-constrained engines.
var coreTypes = map[schema.DataType]bool{
	schema.TypeUUID:      true,
	schema.TypeVarchar:   true,
	schema.TypeInteger:   true,
	schema.TypeTimestamp: true,
}

// CoerceCore forces a data type into the core set, returning the substituted
// type, length, and a human-readable note when a substitution happened. It is
// a pure function of its inputs.
func CoerceCore(dt schema.DataType, length *int) (schema.DataType, *int, string) {
	if coreTypes[dt] {
		return dt, length, ""
	}

	switch dt {
	case schema.TypeBoolean:
		return schema.TypeInteger, length, "coerced BOOLEAN -> INTEGER (store 0/1)"
	case schema.TypeDate:
		return schema.TypeTimestamp, length, "coerced DATE -> TIMESTAMP"
	case schema.TypeFloat:
		return schema.TypeVarchar, intPtr(64), "coerced FLOAT -> VARCHAR(64)"
	case schema.TypeText:
		n := 2048
		if length != nil && *length > n {
			n = *length
		}
		return schema.TypeVarchar, intPtr(n), fmt.Sprintf("coerced TEXT -> VARCHAR(%d)", n)
	}

	n := 255
	if length != nil {
		n = *length
	}
	return schema.TypeVarchar, intPtr(n), fmt.Sprintf("coerced %s -> VARCHAR(%d)", dt, n)
}

// NormalizeDefault maps the "now"/"now()" spellings (case-insensitive,
// whitespace-tolerant) to the DefaultNow sentinel; everything else passes
// through unchanged.
func NormalizeDefault(v any) any {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "now", "now()":
			return schema.DefaultNow
		}
	}
	return v
}

func intPtr(n int) *int { return &n }

func orDefault(n int, ok bool, def int) int {
	if ok {
		return n
	}
	return def
}
