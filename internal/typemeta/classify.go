package typemeta

import "strings"

// SemanticType is the normalized family a catalog type belongs to.
type SemanticType int

const (
	// Unclassified means no rule matched; the raw type text is passed through.
	Unclassified SemanticType = iota
	Integer
	Text
	Numeric
	Timestamp
)

func (t SemanticType) String() string {
	switch t {
	case Integer:
		return "Integer"
	case Text:
		return "Text"
	case Numeric:
		return "Numeric"
	case Timestamp:
		return "Timestamp"
	default:
		return "Unclassified"
	}
}

// Label is the display form shown to people editing data. Timestamps read
// as "Date".
func (t SemanticType) Label() string {
	if t == Timestamp {
		return "Date"
	}
	return t.String()
}

// classificationRule is one entry of the ordered rule table. Rules are tried
// top to bottom against the upper-cased type name and the first match wins.
type classificationRule struct {
	name  string
	match func(upper string) bool
	typ   SemanticType
}

var classificationRules = []classificationRule{
	{"contains INT", contains("INT"), Integer},
	{"is VARCHAR or TEXT", oneOf("VARCHAR", "TEXT"), Text},
	{"is NUMERIC, FLOAT or DOUBLE", oneOf("NUMERIC", "DOUBLE_PRECISION", "FLOAT", "DOUBLE PRECISION"), Numeric},
	{"contains TIMESTAMP", contains("TIMESTAMP"), Timestamp},
}

func contains(sub string) func(string) bool {
	return func(upper string) bool { return strings.Contains(upper, sub) }
}

func oneOf(names ...string) func(string) bool {
	return func(upper string) bool {
		for _, n := range names {
			if upper == n {
				return true
			}
		}
		return false
	}
}

// DType is the result of classifying a type name. When Type is Unclassified
// both forms fall back to Raw.
type DType struct {
	Type SemanticType
	Raw  string
}

// Classify maps a catalog type name to its semantic type. An empty name
// yields the zero DType, whose forms are both empty.
func Classify(raw string) DType {
	if raw == "" {
		return DType{}
	}
	upper := strings.ToUpper(raw)
	for _, r := range classificationRules {
		if r.match(upper) {
			return DType{Type: r.typ, Raw: raw}
		}
	}
	return DType{Type: Unclassified, Raw: raw}
}

// Translate returns the programmatic (humanReadable=false) or display form of
// raw's classification. Both forms always come from the same rule.
func Translate(raw string, humanReadable bool) string {
	dt := Classify(raw)
	if humanReadable {
		return dt.Label()
	}
	return dt.String()
}

// Classified reports whether a rule matched.
func (d DType) Classified() bool {
	return d.Type != Unclassified
}

// String is the programmatic form.
func (d DType) String() string {
	if !d.Classified() {
		return d.Raw
	}
	return d.Type.String()
}

// Label is the human-readable form.
func (d DType) Label() string {
	if !d.Classified() {
		return d.Raw
	}
	return d.Type.Label()
}

// MarshalText encodes the programmatic form.
func (d DType) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
