package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schematic-io/schematic/schema"
)

func TestMapType(t *testing.T) {
	tests := []struct {
		name     string
		frag     Fragment
		wantType schema.DataType
		wantLen  *int
	}{
		{
			name:     "uuid format wins over string type",
			frag:     Fragment{"type": "string", "format": "uuid"},
			wantType: schema.TypeUUID,
		},
		{
			name:     "date-time format wins over string type",
			frag:     Fragment{"type": "string", "format": "date-time"},
			wantType: schema.TypeTimestamp,
		},
		{
			name:     "date format",
			frag:     Fragment{"type": "string", "format": "date"},
			wantType: schema.TypeDate,
		},
		{
			name:     "email format takes maxLength",
			frag:     Fragment{"type": "string", "format": "email", "maxLength": 120},
			wantType: schema.TypeVarchar,
			wantLen:  intPtr(120),
		},
		{
			name:     "email format defaults length to 255",
			frag:     Fragment{"type": "string", "format": "email"},
			wantType: schema.TypeVarchar,
			wantLen:  intPtr(255),
		},
		{
			name:     "plain string with maxLength",
			frag:     Fragment{"type": "string", "maxLength": 50},
			wantType: schema.TypeVarchar,
			wantLen:  intPtr(50),
		},
		{
			name:     "plain string defaults to 255",
			frag:     Fragment{"type": "string"},
			wantType: schema.TypeVarchar,
			wantLen:  intPtr(255),
		},
		{
			name:     "json float64 maxLength is accepted",
			frag:     Fragment{"type": "string", "maxLength": float64(80)},
			wantType: schema.TypeVarchar,
			wantLen:  intPtr(80),
		},
		{
			name:     "integer",
			frag:     Fragment{"type": "integer"},
			wantType: schema.TypeInteger,
		},
		{
			name:     "number maps to float",
			frag:     Fragment{"type": "number"},
			wantType: schema.TypeFloat,
		},
		{
			name:     "boolean",
			frag:     Fragment{"type": "boolean"},
			wantType: schema.TypeBoolean,
		},
		{
			name:     "unknown format falls back to type",
			frag:     Fragment{"type": "integer", "format": "int64"},
			wantType: schema.TypeInteger,
		},
		{
			name:     "unknown type falls through to text",
			frag:     Fragment{"type": "null"},
			wantType: schema.TypeText,
		},
		{
			name:     "empty fragment falls through to text",
			frag:     Fragment{},
			wantType: schema.TypeText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, length := MapType(tt.frag)
			assert.Equal(t, tt.wantType, dt)
			if tt.wantLen == nil {
				assert.Nil(t, length)
			} else {
				require.NotNil(t, length)
				assert.Equal(t, *tt.wantLen, *length)
			}
		})
	}
}

func TestCoerceCore(t *testing.T) {
	tests := []struct {
		name     string
		in       schema.DataType
		inLen    *int
		wantType schema.DataType
		wantLen  *int
		wantNote string
	}{
		{
			name:     "uuid passes through",
			in:       schema.TypeUUID,
			wantType: schema.TypeUUID,
		},
		{
			name:     "varchar keeps its length",
			in:       schema.TypeVarchar,
			inLen:    intPtr(50),
			wantType: schema.TypeVarchar,
			wantLen:  intPtr(50),
		},
		{
			name:     "integer passes through",
			in:       schema.TypeInteger,
			wantType: schema.TypeInteger,
		},
		{
			name:     "timestamp passes through",
			in:       schema.TypeTimestamp,
			wantType: schema.TypeTimestamp,
		},
		{
			name:     "boolean stored as integer",
			in:       schema.TypeBoolean,
			wantType: schema.TypeInteger,
			wantNote: "coerced BOOLEAN -> INTEGER (store 0/1)",
		},
		{
			name:     "date widens to timestamp",
			in:       schema.TypeDate,
			wantType: schema.TypeTimestamp,
			wantNote: "coerced DATE -> TIMESTAMP",
		},
		{
			name:     "float renders as varchar(64)",
			in:       schema.TypeFloat,
			wantType: schema.TypeVarchar,
			wantLen:  intPtr(64),
			wantNote: "coerced FLOAT -> VARCHAR(64)",
		},
		{
			name:     "text gets at least 2048",
			in:       schema.TypeText,
			wantType: schema.TypeVarchar,
			wantLen:  intPtr(2048),
			wantNote: "coerced TEXT -> VARCHAR(2048)",
		},
		{
			name:     "text keeps a larger length",
			in:       schema.TypeText,
			inLen:    intPtr(4000),
			wantType: schema.TypeVarchar,
			wantLen:  intPtr(4000),
			wantNote: "coerced TEXT -> VARCHAR(4000)",
		},
		{
			name:     "other types become varchar(255)",
			in:       schema.TypeJSON,
			wantType: schema.TypeVarchar,
			wantLen:  intPtr(255),
			wantNote: "coerced JSON -> VARCHAR(255)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, length, note := CoerceCore(tt.in, tt.inLen)
			assert.Equal(t, tt.wantType, dt)
			assert.Equal(t, tt.wantNote, note)
			if tt.wantLen == nil {
				assert.Nil(t, length)
			} else {
				require.NotNil(t, length)
				assert.Equal(t, *tt.wantLen, *length)
			}
		})
	}
}

// CoerceCore must not mutate its inputs; callers rely on it being pure.
func TestCoerceCorePure(t *testing.T) {
	length := intPtr(100)
	_, _, _ = CoerceCore(schema.TypeText, length)
	assert.Equal(t, 100, *length)

	dt1, l1, n1 := CoerceCore(schema.TypeBoolean, nil)
	dt2, l2, n2 := CoerceCore(schema.TypeBoolean, nil)
	assert.Equal(t, dt1, dt2)
	assert.Equal(t, l1, l2)
	assert.Equal(t, n1, n2)
}

func TestNormalizeDefault(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"now", "now", schema.DefaultNow},
		{"now()", "now()", schema.DefaultNow},
		{"uppercase NOW", "NOW", schema.DefaultNow},
		{"mixed case Now()", "Now()", schema.DefaultNow},
		{"padded", "  now  ", schema.DefaultNow},
		{"literal string untouched", "pending", "pending"},
		{"number untouched", 42, 42},
		{"bool untouched", true, true},
		{"nil untouched", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDefault(tt.in))
		})
	}
}
