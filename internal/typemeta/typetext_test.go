package typemeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTypeExpr(t *testing.T) {
	tests := []struct {
		raw     string
		base    string
		args    string
		hasArgs bool
	}{
		{"NUMERIC(10, 2)", "NUMERIC", "10, 2", true},
		{"VARCHAR(255)", "VARCHAR", "255", true},
		{"CHARACTER VARYING(5)", "VARYING", "5", true},
		{"DOUBLE PRECISION", "DOUBLE PRECISION", "", false},
		{"TIMESTAMP(6) WITH TIME ZONE", "TIMESTAMP", "6", true},
		{"TIMESTAMP(timezone=True)", "TIMESTAMP", "timezone=True", true},
		{"(5)", "", "5", true},
		{"VARCHAR(", "VARCHAR", "", false},
		{"INTEGER", "INTEGER", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			expr := ParseTypeExpr(tt.raw)
			assert.Equal(t, tt.raw, expr.Raw)
			assert.Equal(t, tt.base, expr.Base)
			assert.Equal(t, tt.args, expr.Args)
			assert.Equal(t, tt.hasArgs, expr.HasArgs)
			assert.Equal(t, tt.base, BaseToken(tt.raw))
		})
	}
}

func TestTypeExpr_SplitArgs(t *testing.T) {
	first, second, ok := ParseTypeExpr("NUMERIC( 10 ,  2 )").SplitArgs()
	assert.True(t, ok)
	assert.Equal(t, "10", first)
	assert.Equal(t, "2", second)

	first, second, ok = ParseTypeExpr("NUMERIC(7)").SplitArgs()
	assert.False(t, ok)
	assert.Equal(t, "7", first)
	assert.Empty(t, second)
}
