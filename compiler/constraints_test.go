package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePointer(t *testing.T) {
	doc := map[string]any{
		"definitions": map[string]any{
			"uuidField": map[string]any{"type": "string", "format": "uuid"},
			"users": map[string]any{
				"properties": map[string]any{
					"id": map[string]any{"type": "string", "format": "uuid"},
				},
			},
		},
	}

	tests := []struct {
		name    string
		pointer string
		wantNil bool
	}{
		{"definition", "#/definitions/uuidField", false},
		{"nested property", "#/definitions/users/properties/id", false},
		{"missing segment", "#/definitions/nope", true},
		{"not a pointer", "definitions/uuidField", true},
		{"scalar target", "#/definitions/uuidField/type", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePointer(doc, tt.pointer)
			if tt.wantNil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
			}
		})
	}
}

func TestResolveConstraintsRef(t *testing.T) {
	doc := map[string]any{
		"definitions": map[string]any{
			"shortString": map[string]any{"type": "string", "maxLength": 50},
		},
	}

	t.Run("ref merged with own keys winning", func(t *testing.T) {
		frag := ResolveConstraints(map[string]any{
			"$ref":      "#/definitions/shortString",
			"maxLength": 80,
		}, doc)
		assert.Equal(t, "string", frag.Str("type"))
		n, ok := frag.Int("maxLength")
		assert.True(t, ok)
		assert.Equal(t, 80, n)
	})

	t.Run("unresolvable ref contributes nothing", func(t *testing.T) {
		frag := ResolveConstraints(map[string]any{
			"$ref": "#/definitions/missing",
			"type": "integer",
		}, doc)
		assert.Equal(t, "integer", frag.Str("type"))
	})
}

func TestResolveConstraintsAllOf(t *testing.T) {
	doc := map[string]any{
		"definitions": map[string]any{
			"base": map[string]any{"type": "string", "maxLength": 10},
		},
	}

	t.Run("branches merge left to right", func(t *testing.T) {
		frag := ResolveConstraints(map[string]any{
			"allOf": []any{
				map[string]any{"type": "string", "maxLength": 10},
				map[string]any{"maxLength": 20},
			},
		}, doc)
		n, _ := frag.Int("maxLength")
		assert.Equal(t, 20, n)
		assert.Equal(t, "string", frag.Str("type"))
	})

	t.Run("ref branch resolved before merging", func(t *testing.T) {
		frag := ResolveConstraints(map[string]any{
			"allOf": []any{
				map[string]any{"$ref": "#/definitions/base"},
				map[string]any{"format": "email"},
			},
		}, doc)
		assert.Equal(t, "string", frag.Str("type"))
		assert.Equal(t, "email", frag.Str("format"))
	})

	t.Run("own keys beat allOf branches", func(t *testing.T) {
		frag := ResolveConstraints(map[string]any{
			"allOf":     []any{map[string]any{"maxLength": 10}},
			"maxLength": 99,
		}, doc)
		n, _ := frag.Int("maxLength")
		assert.Equal(t, 99, n)
	})
}

func TestResolveConstraintsProjection(t *testing.T) {
	frag := ResolveConstraints(map[string]any{
		"type":        "string",
		"description": "free text ignored",
		"x-unique":    true,
		"x-refTable":  "roles",
		"title":       "ignored too",
	}, map[string]any{})

	assert.Equal(t, "string", frag.Str("type"))
	assert.True(t, frag.Bool("x-unique"))
	assert.Equal(t, "roles", frag.Str("x-refTable"))
	_, hasDesc := frag["description"]
	assert.False(t, hasDesc)
	_, hasTitle := frag["title"]
	assert.False(t, hasTitle)
}

func TestFragmentAccessors(t *testing.T) {
	f := Fragment{
		"type":      "string",
		"maxLength": int64(12),
		"x-unique":  true,
	}
	assert.Equal(t, "string", f.Str("type"))
	assert.Equal(t, "", f.Str("missing"))
	n, ok := f.Int("maxLength")
	assert.True(t, ok)
	assert.Equal(t, 12, n)
	_, ok = f.Int("type")
	assert.False(t, ok)
	assert.True(t, f.Bool("x-unique"))
	assert.False(t, f.Bool("missing"))
}
