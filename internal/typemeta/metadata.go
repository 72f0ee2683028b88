package typemeta

import (
	"fmt"
	"sort"
)

// numericOverrideColumns are computed result columns that are always treated
// as numeric whatever their catalog type says.
var numericOverrideColumns = map[string]bool{
	"result": true,
	"mdl":    true,
}

// IsNumericOverride reports whether column is forced to Numeric.
func IsNumericOverride(column string) bool {
	return numericOverrideColumns[column]
}

// CatalogColumn is one row of a table's column listing.
type CatalogColumn struct {
	Name     string
	TypeText string
}

// ColumnMetadata is the normalized description of one column.
type ColumnMetadata struct {
	ColumnName         string    `json:"column_name" yaml:"column_name"`
	OriginalDType      string    `json:"original_dtype" yaml:"original_dtype"`
	ColumnDType        DType     `json:"column_dtype" yaml:"column_dtype"`
	HumanReadableDType string    `json:"human_readable_column_dtype" yaml:"human_readable_column_dtype"`
	Precision          Precision `json:"column_precision" yaml:"column_precision"`
}

// FieldSet is a set of column names, used for system fields that callers
// exclude from metadata.
type FieldSet map[string]struct{}

// NewFieldSet builds a set from names.
func NewFieldSet(names ...string) FieldSet {
	s := make(FieldSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set. A nil set is empty.
func (s FieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns a new set holding the members of s and other.
func (s FieldSet) Union(other FieldSet) FieldSet {
	out := make(FieldSet, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Names returns the members sorted.
func (s FieldSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BuildColumn normalizes one catalog column. The classification uses the
// base token of the type text; precision is read from the full text.
func BuildColumn(col CatalogColumn) (ColumnMetadata, error) {
	precision, err := ExtractPrecision(col.TypeText)
	if err != nil {
		return ColumnMetadata{}, fmt.Errorf("column %q: %w", col.Name, err)
	}

	base := BaseToken(col.TypeText)
	dtype := Classify(base)
	if IsNumericOverride(col.Name) {
		dtype = DType{Type: Numeric, Raw: base}
	}

	return ColumnMetadata{
		ColumnName:         col.Name,
		OriginalDType:      col.TypeText,
		ColumnDType:        dtype,
		HumanReadableDType: dtype.Label(),
		Precision:          precision,
	}, nil
}

// BuildColumns normalizes cols in order, skipping any listed in
// systemFields. The first column that fails to parse aborts the whole batch.
func BuildColumns(cols []CatalogColumn, systemFields FieldSet) ([]ColumnMetadata, error) {
	out := make([]ColumnMetadata, 0, len(cols))
	for _, col := range cols {
		if systemFields.Has(col.Name) {
			continue
		}
		md, err := BuildColumn(col)
		if err != nil {
			return nil, err
		}
		out = append(out, md)
	}
	return out, nil
}
