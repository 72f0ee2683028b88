package typemeta

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/koustreak/colmeta/internal/errs"
)

// Family is the precision family detected in a type string.
type Family int

const (
	FamilyOther Family = iota
	FamilyNumeric
	FamilyVarchar
	FamilyInteger
)

func (f Family) String() string {
	switch f {
	case FamilyNumeric:
		return "numeric"
	case FamilyVarchar:
		return "varchar"
	case FamilyInteger:
		return "integer"
	default:
		return "other"
	}
}

// Precision describes the size bounds of a column type. Which of the
// optional fields are set depends on Family:
//
//	FamilyNumeric  Precision, Scale
//	FamilyVarchar  Length
//	FamilyInteger  Min, Max
//	FamilyOther    none
type Precision struct {
	Family    Family `json:"-" yaml:"-"`
	ColType   string `json:"coltype" yaml:"coltype"`
	Precision *int   `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     *int   `json:"scale,omitempty" yaml:"scale,omitempty"`
	Length    *int   `json:"length,omitempty" yaml:"length,omitempty"`
	Min       *int64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *int64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// IntegerBounds is the fixed value range reported for an integer family.
type IntegerBounds struct {
	ColType  string
	Min, Max int64
}

// integerFamilies is checked in order with a substring match, so SERIAL
// shadows BIGSERIAL. The INTEGER max of 2147483648 is one above the real
// int4 limit; consumers validate against it as published.
var integerFamilies = []IntegerBounds{
	{"SMALLINT", -32767, 32767},
	{"INTEGER", -2147483648, 2147483648},
	{"BIGINT", -9223372036854775807, 9223372036854775807},
	{"SERIAL", 1, 2147483647},
	{"BIGSERIAL", 1, 9223372036854775807},
}

// ErrMissingArguments is the cause of a parse failure for a NUMERIC, DECIMAL
// or VARCHAR type rendered without its parenthesized arguments.
var ErrMissingArguments = errors.New("missing parenthesized argument group")

// ExtractPrecision parses the size information out of a raw type string such
// as "NUMERIC(5, 2)" or "VARCHAR(255)".
//
// Families are detected on the upper-cased text in the order numeric,
// varchar, integer families; the first match wins. Numeric and varchar types
// must carry integer arguments: anything else is an errs.ErrKindParseFailed
// error. Unknown types come back as FamilyOther with only ColType set.
func ExtractPrecision(raw string) (Precision, error) {
	upper := strings.ToUpper(raw)

	if kw := firstKeyword(upper, "NUMERIC", "DECIMAL"); kw != "" {
		return numericPrecision(raw, kw)
	}
	if strings.Contains(upper, "VARCHAR") {
		return varcharPrecision(raw)
	}
	for _, b := range integerFamilies {
		if strings.Contains(upper, b.ColType) {
			return integerPrecision(b), nil
		}
	}
	return Precision{Family: FamilyOther, ColType: raw}, nil
}

func numericPrecision(raw, coltype string) (Precision, error) {
	expr := ParseTypeExpr(raw)
	if !expr.HasArgs {
		return Precision{}, parseFailure(raw, ErrMissingArguments)
	}

	first, second, ok := expr.SplitArgs()
	if !ok {
		// A lone argument is read as both precision and scale.
		second = first
	}

	precision, err := strconv.Atoi(first)
	if err != nil {
		return Precision{}, parseFailure(raw, err)
	}
	scale, err := strconv.Atoi(second)
	if err != nil {
		return Precision{}, parseFailure(raw, err)
	}

	return Precision{
		Family:    FamilyNumeric,
		ColType:   coltype,
		Precision: &precision,
		Scale:     &scale,
	}, nil
}

func varcharPrecision(raw string) (Precision, error) {
	expr := ParseTypeExpr(raw)
	if !expr.HasArgs {
		return Precision{}, parseFailure(raw, ErrMissingArguments)
	}

	length, err := strconv.Atoi(strings.TrimSpace(expr.Args))
	if err != nil {
		return Precision{}, parseFailure(raw, err)
	}

	return Precision{Family: FamilyVarchar, ColType: "VARCHAR", Length: &length}, nil
}

func integerPrecision(b IntegerBounds) Precision {
	lo, hi := b.Min, b.Max
	return Precision{Family: FamilyInteger, ColType: b.ColType, Min: &lo, Max: &hi}
}

// firstKeyword returns whichever keyword occurs leftmost in s, or "".
func firstKeyword(s string, keywords ...string) string {
	best, at := "", -1
	for _, kw := range keywords {
		if i := strings.Index(s, kw); i >= 0 && (at < 0 || i < at) {
			best, at = kw, i
		}
	}
	return best
}

func parseFailure(raw string, cause error) error {
	return errs.Wrap(errs.ErrKindParseFailed, fmt.Sprintf("cannot read precision of %q", raw), cause)
}
