package compiler

import "strings"

// Fragment is a resolved, flattened constraint mapping for one property,
// restricted to the keys the type and foreign-key mappers consume.
type Fragment map[string]any

// scalarKeys is the allow-list of constraint keys kept after resolution.
var scalarKeys = map[string]bool{
	"type":               true,
	"format":             true,
	"maxLength":          true,
	"minLength":          true,
	"default":            true,
	"enum":               true,
	"x-unique":           true,
	"x-refTable":         true,
	"x-refColumn":        true,
	"x-relationshipName": true,
}

// ResolvePointer walks a same-document JSON pointer ("#/definitions/x") and
// returns the referenced object, or nil when the pointer is unresolvable or
// the target is not an object. Hand-authored documents are imperfect, so an
// unresolvable pointer is "no contribution", never an error.
func ResolvePointer(doc map[string]any, pointer string) map[string]any {
	if !strings.HasPrefix(pointer, "#/") {
		return nil
	}
	cur := any(doc)
	for _, part := range strings.Split(pointer[2:], "/") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	if m, ok := cur.(map[string]any); ok {
		return m
	}
	return nil
}

// ResolveConstraints resolves $ref and flattens allOf for one property's raw
// schema fragment, then projects onto the scalar allow-list. Merging is
// last-writer-wins: allOf branches merge left to right, and the fragment's own
// keys take precedence over anything referenced.
func ResolveConstraints(prop map[string]any, doc map[string]any) Fragment {
	effective := copyMap(prop)

	if ref, ok := effective["$ref"].(string); ok {
		if target := ResolvePointer(doc, ref); target != nil {
			merged := copyMap(target)
			for k, v := range effective {
				if k != "$ref" {
					merged[k] = v
				}
			}
			effective = merged
		}
	}

	if rawAllOf, ok := effective["allOf"]; ok {
		branches, _ := rawAllOf.([]any)
		merged := map[string]any{}
		for _, item := range branches {
			branch, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if ref, ok := branch["$ref"].(string); ok {
				if target := ResolvePointer(doc, ref); target != nil {
					branch = target
				}
			}
			for k, v := range branch {
				merged[k] = v
			}
		}
		for k, v := range effective {
			if k != "allOf" {
				merged[k] = v
			}
		}
		effective = merged
	}

	out := Fragment{}
	for k, v := range effective {
		if scalarKeys[k] {
			out[k] = v
		}
	}
	return out
}

// Str returns the string value for key, or "".
func (f Fragment) Str(key string) string {
	s, _ := f[key].(string)
	return s
}

// Int returns the integer value for key; YAML decodes numbers as int, JSON
// (through encoding/json) as float64, so both are accepted.
func (f Fragment) Int(key string) (int, bool) {
	switch v := f[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Bool returns the boolean value for key, or false.
func (f Fragment) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
