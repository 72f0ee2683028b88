// Package typemeta normalizes the type and constraint text a database catalog
// returns into semantic column metadata.
//
// Everything in this package is pure string work over text already fetched
// from the catalog: no I/O, no logging, no shared state. Catalog access lives
// in the schema package, which feeds rows into the functions here.
//
// Usage:
//
//	dt := typemeta.Classify("NUMERIC")     // Numeric / "Numeric"
//	p, err := typemeta.ExtractPrecision("VARCHAR(255)")
//	cols, err := typemeta.BuildColumns(rows, typemeta.NewFieldSet("globalid"))
package typemeta

import "strings"

// TypeExpr is a catalog type rendering split by the grammar
//
//	type := [prefix] base [ "(" args ")" ] [suffix]
//
// where base is the identifier immediately before the first "(" and args is
// everything between that "(" and the last ")".
type TypeExpr struct {
	Raw string

	// Base is the identifier run directly before the first "(", or the whole
	// raw text when there is no "(" at all.
	Base string

	// Args holds the unsplit text inside the parentheses. Only meaningful
	// when HasArgs is true.
	Args string

	// HasArgs is true when a "(" is followed later by a closing ")".
	HasArgs bool
}

// ParseTypeExpr splits raw into its base token and argument group.
func ParseTypeExpr(raw string) TypeExpr {
	expr := TypeExpr{Raw: raw, Base: raw}

	open := strings.IndexByte(raw, '(')
	if open < 0 {
		return expr
	}

	start := open
	for start > 0 && isWordByte(raw[start-1]) {
		start--
	}
	expr.Base = raw[start:open]

	if closing := strings.LastIndexByte(raw, ')'); closing > open {
		expr.Args = raw[open+1 : closing]
		expr.HasArgs = true
	}
	return expr
}

// BaseToken returns the identifier a type is classified by: "NUMERIC" for
// "NUMERIC(10, 2)", "VARYING" for "CHARACTER VARYING(5)", and the text
// unchanged for "DOUBLE PRECISION".
func BaseToken(raw string) string {
	return ParseTypeExpr(raw).Base
}

// SplitArgs splits the argument group on its first comma. second is empty and
// ok is false when the group holds a single argument.
func (e TypeExpr) SplitArgs() (first, second string, ok bool) {
	first, second, ok = strings.Cut(e.Args, ",")
	return strings.TrimSpace(first), strings.TrimSpace(second), ok
}

func isWordByte(b byte) bool {
	return b == '_' ||
		'a' <= b && b <= 'z' ||
		'A' <= b && b <= 'Z' ||
		'0' <= b && b <= '9'
}
