// Package schema reads a database's own catalog and turns it into column and
// key metadata.
//
// Each dialect implements Catalog with the handful of read-only queries the
// metadata engine needs. Inspector composes a Catalog with the pure parsing in
// the typemeta package.
package schema

import (
	"context"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/typemeta"
)

// Catalog is the per-dialect catalog reader.
type Catalog interface {
	// ListTables returns all user tables in the catalog's schema.
	ListTables(ctx context.Context) ([]string, error)

	// TableExists checks whether a table exists in the catalog's schema.
	TableExists(ctx context.Context, table string) (bool, error)

	// Columns returns the table's columns in ordinal order with their type
	// text rendered in upper-case canonical form.
	Columns(ctx context.Context, table string) ([]typemeta.CatalogColumn, error)

	// Constraints returns primary and foreign key constraints whose name
	// starts with prefix, ordered by relation name ascending and then
	// constraint type descending.
	Constraints(ctx context.Context, prefix string) ([]typemeta.Constraint, error)
}

// NewCatalog returns the Catalog for driver. schema names the designated
// schema; each dialect has its own default when it is empty.
func NewCatalog(driver database.Driver, db database.DB, schema string) (Catalog, error) {
	switch driver {
	case database.DriverPostgres:
		return NewPgCatalog(db, schema), nil
	case database.DriverMySQL:
		return NewMySQLCatalog(db, schema), nil
	case database.DriverSQLite:
		return NewSQLiteCatalog(db), nil
	default:
		return nil, errs.Newf(errs.ErrKindInvalidInput, "no catalog for driver %q", driver)
	}
}

// scanStrings drains a single-text-column result set.
func scanStrings(rows database.Rows) ([]string, error) {
	defer rows.Close()

	list := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// scanConstraints drains rows of (relation, name, type, definition).
func scanConstraints(rows database.Rows) ([]typemeta.Constraint, error) {
	defer rows.Close()

	var cs []typemeta.Constraint
	for rows.Next() {
		var c typemeta.Constraint
		var contype string
		if err := rows.Scan(&c.Relation, &c.Name, &contype, &c.Definition); err != nil {
			return nil, err
		}
		c.Type = typemeta.ConstraintType(contype)
		cs = append(cs, c)
	}
	return cs, rows.Err()
}
