package typemeta

import (
	"sort"
	"strings"
)

// KeyColumns lists the columns of one key constraint in definition order.
// An empty list means no constraint matched.
type KeyColumns []string

// Contains reports whether name takes part in the key.
func (k KeyColumns) Contains(name string) bool {
	for _, c := range k {
		if c == name {
			return true
		}
	}
	return false
}

// ConstraintType mirrors pg_constraint.contype for the key kinds we read.
type ConstraintType string

const (
	PrimaryKey ConstraintType = "p"
	ForeignKey ConstraintType = "f"
)

func (t ConstraintType) String() string {
	switch t {
	case PrimaryKey:
		return "PRIMARY KEY"
	case ForeignKey:
		return "FOREIGN KEY"
	default:
		return string(t)
	}
}

// Constraint is one key constraint row read from the catalog.
type Constraint struct {
	Relation   string         `json:"relation" yaml:"relation"`
	Name       string         `json:"name" yaml:"name"`
	Type       ConstraintType `json:"type" yaml:"type"`
	Definition string         `json:"definition" yaml:"definition"`
}

// Columns parses the constraint's definition text.
func (c Constraint) Columns() KeyColumns {
	return ParseConstraintDef(c.Definition)
}

// ParseConstraintDef extracts the key columns from definition text such as
// "PRIMARY KEY (id, region)" or "FOREIGN KEY (customer_id) REFERENCES
// customers(id)". The grammar is
//
//	def := [keyword] "(" column { "," column } ")" [trailer]
//
// Only the first parenthesized group is read. Text with no group is split as
// a whole. Names are trimmed and otherwise left as the catalog rendered them,
// quotes included.
func ParseConstraintDef(def string) KeyColumns {
	inner := def
	if open := strings.IndexByte(inner, '('); open >= 0 {
		inner = inner[open+1:]
		if closing := strings.IndexByte(inner, ')'); closing >= 0 {
			inner = inner[:closing]
		}
	}

	cols := KeyColumns{}
	for _, part := range strings.Split(inner, ",") {
		if name := strings.TrimSpace(part); name != "" {
			cols = append(cols, name)
		}
	}
	return cols
}

// OrderConstraints sorts rows the way the resolver consumes them: relation
// name ascending, then constraint type descending so a primary key comes
// before foreign keys of the same relation. The sort is stable.
func OrderConstraints(cs []Constraint) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Relation != cs[j].Relation {
			return cs[i].Relation < cs[j].Relation
		}
		return cs[i].Type > cs[j].Type
	})
}

// SelectKey applies the resolver's disambiguation: the first ordered row
// wins and the rest are ignored.
func SelectKey(ordered []Constraint) KeyColumns {
	if len(ordered) == 0 {
		return KeyColumns{}
	}
	return ordered[0].Columns()
}
