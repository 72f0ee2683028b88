package schema

import (
	"context"
	"fmt"

	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/typemeta"
)

// TableMetadata is a table's normalized columns together with its primary
// key.
type TableMetadata struct {
	Table      string                    `json:"table" yaml:"table"`
	PrimaryKey typemeta.KeyColumns       `json:"primary_key" yaml:"primary_key"`
	Columns    []typemeta.ColumnMetadata `json:"columns" yaml:"columns"`
}

// IsKey reports whether column is part of the primary key.
func (t *TableMetadata) IsKey(column string) bool {
	return t.PrimaryKey.Contains(column)
}

// Column looks up a column by name.
func (t *TableMetadata) Column(name string) (typemeta.ColumnMetadata, bool) {
	for _, c := range t.Columns {
		if c.ColumnName == name {
			return c, true
		}
	}
	return typemeta.ColumnMetadata{}, false
}

// Inspector builds metadata from a Catalog. It holds no state besides the
// catalog, so one Inspector may serve concurrent callers.
type Inspector struct {
	catalog Catalog
}

// NewInspector wraps catalog.
func NewInspector(catalog Catalog) *Inspector {
	return &Inspector{catalog: catalog}
}

// ListTables returns the tables of the catalog's schema.
func (i *Inspector) ListTables(ctx context.Context) ([]string, error) {
	return i.catalog.ListTables(ctx)
}

// Constraints returns every key constraint matching prefix, in resolver
// order.
func (i *Inspector) Constraints(ctx context.Context, prefix string) ([]typemeta.Constraint, error) {
	if prefix == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "constraint name prefix is required")
	}
	return i.catalog.Constraints(ctx, prefix)
}

// ResolvePrimaryKey returns the key columns of the first constraint whose
// name starts with prefix. The match is a prefix match, so "orders" also
// sees constraints of "orders_archive"; ordering puts the shorter relation
// name first. No match yields an empty KeyColumns.
func (i *Inspector) ResolvePrimaryKey(ctx context.Context, prefix string) (typemeta.KeyColumns, error) {
	cs, err := i.Constraints(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return typemeta.SelectKey(cs), nil
}

// FetchMetadata returns normalized metadata for every column of table not
// in systemFields, in catalog order. It issues a single catalog query.
func (i *Inspector) FetchMetadata(ctx context.Context, table string, systemFields typemeta.FieldSet) ([]typemeta.ColumnMetadata, error) {
	if table == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "table name is required")
	}

	cols, err := i.catalog.Columns(ctx, table)
	if err != nil {
		return nil, err
	}

	md, err := typemeta.BuildColumns(cols, systemFields)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", table, err)
	}
	return md, nil
}

// InspectTable composes FetchMetadata with ResolvePrimaryKey(table). An
// unknown table is errs.ErrKindNotFound.
func (i *Inspector) InspectTable(ctx context.Context, table string, systemFields typemeta.FieldSet) (*TableMetadata, error) {
	if table == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "table name is required")
	}

	exists, err := i.catalog.TableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %q not found", table)
	}

	cols, err := i.FetchMetadata(ctx, table, systemFields)
	if err != nil {
		return nil, err
	}

	key, err := i.ResolvePrimaryKey(ctx, table)
	if err != nil {
		return nil, err
	}

	return &TableMetadata{Table: table, PrimaryKey: key, Columns: cols}, nil
}
