package typemeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		raw       string
		wantType  SemanticType
		wantName  string
		wantLabel string
	}{
		{"INTEGER", Integer, "Integer", "Integer"},
		{"bigint", Integer, "Integer", "Integer"},
		{"SMALLINT", Integer, "Integer", "Integer"},
		{"INT", Integer, "Integer", "Integer"},
		{"INTERVAL", Integer, "Integer", "Integer"},
		{"VARCHAR", Text, "Text", "Text"},
		{"text", Text, "Text", "Text"},
		{"NUMERIC", Numeric, "Numeric", "Numeric"},
		{"DOUBLE PRECISION", Numeric, "Numeric", "Numeric"},
		{"double_precision", Numeric, "Numeric", "Numeric"},
		{"FLOAT", Numeric, "Numeric", "Numeric"},
		{"TIMESTAMP", Timestamp, "Timestamp", "Date"},
		{"TIMESTAMP WITHOUT TIME ZONE", Timestamp, "Timestamp", "Date"},
		{"timestamptz", Timestamp, "Timestamp", "Date"},
		{"BOOLEAN", Unclassified, "BOOLEAN", "BOOLEAN"},
		{"REAL", Unclassified, "REAL", "REAL"},
		{"DATE", Unclassified, "DATE", "DATE"},
		{"Geometry", Unclassified, "Geometry", "Geometry"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			dt := Classify(tt.raw)
			assert.Equal(t, tt.wantType, dt.Type)
			assert.Equal(t, tt.wantName, dt.String())
			assert.Equal(t, tt.wantLabel, dt.Label())
			assert.Equal(t, tt.wantName, Translate(tt.raw, false))
			assert.Equal(t, tt.wantLabel, Translate(tt.raw, true))
		})
	}
}

func TestClassify_TextIsExactMatch(t *testing.T) {
	for _, raw := range []string{"TEXTAREA", "RICHTEXT", "VARCHAR2", "TSVECTOR_TEXT"} {
		dt := Classify(raw)
		assert.False(t, dt.Classified(), raw)
		assert.Equal(t, raw, dt.String())
	}
}

func TestClassify_NumericIsExactMatch(t *testing.T) {
	for _, raw := range []string{"NUMERIC_RANGE", "FLOAT8", "DOUBLE"} {
		assert.False(t, Classify(raw).Classified(), raw)
	}
}

func TestClassify_IntegerRuleWinsOverTimestamp(t *testing.T) {
	assert.Equal(t, Integer, Classify("INT_TIMESTAMP").Type)
}

func TestClassify_Empty(t *testing.T) {
	dt := Classify("")
	assert.Equal(t, DType{}, dt)
	assert.Empty(t, dt.String())
	assert.Empty(t, dt.Label())
}

func TestClassify_ModesAgree(t *testing.T) {
	for _, raw := range []string{"INT4", "TEXT", "FLOAT", "TIMESTAMP", "UUID", "JSONB", "numeric"} {
		dt := Classify(raw)
		if dt.Classified() {
			assert.Equal(t, dt.Type.Label(), Translate(raw, true))
			assert.Equal(t, dt.Type.String(), Translate(raw, false))
		} else {
			assert.Equal(t, Translate(raw, true), Translate(raw, false))
		}
	}
}

func TestDType_MarshalText(t *testing.T) {
	b, err := Classify("TIMESTAMP").MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "Timestamp", string(b))

	b, err = Classify("UUID").MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "UUID", string(b))
}
