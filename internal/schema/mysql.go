package schema

import (
	"context"
	"fmt"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/typemeta"
)

// MySQLCatalog implements Catalog for MySQL using information_schema.
// The schema is the database name; empty means the connection's current
// database.
type MySQLCatalog struct {
	db     database.DB
	schema string
}

// NewMySQLCatalog creates a new MySQL catalog reader.
func NewMySQLCatalog(db database.DB, schema string) *MySQLCatalog {
	return &MySQLCatalog{db: db, schema: schema}
}

// ListTables returns all user-defined table names in the database.
func (m *MySQLCatalog) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := m.db.Query(ctx, q, m.schema)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	tables, err := scanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan table name: %w", err)
	}
	return tables, nil
}

// TableExists checks whether a specific table exists.
func (m *MySQLCatalog) TableExists(ctx context.Context, table string) (bool, error) {
	const q = `
		SELECT COUNT(*) > 0
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?`

	var exists bool
	if err := m.db.QueryRow(ctx, q, m.schema, table).Scan(&exists); err != nil {
		return false, fmt.Errorf("table exists check: %w", err)
	}
	return exists, nil
}

// Constraints synthesizes Postgres-style definition text from
// key_column_usage. MySQL names every primary key PRIMARY, so the prefix is
// matched against the owning table name instead of the constraint name.
func (m *MySQLCatalog) Constraints(ctx context.Context, prefix string) ([]typemeta.Constraint, error) {
	const q = `
		SELECT
			tc.table_name,
			tc.constraint_name,
			CASE tc.constraint_type WHEN 'PRIMARY KEY' THEN 'p' ELSE 'f' END AS contype,
			CONCAT(tc.constraint_type, ' (',
				GROUP_CONCAT(kcu.column_name ORDER BY kcu.ordinal_position SEPARATOR ', '),
				')') AS definition
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON kcu.constraint_schema = tc.constraint_schema
			AND kcu.table_name = tc.table_name
			AND kcu.constraint_name = tc.constraint_name
		WHERE tc.table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND tc.constraint_type IN ('PRIMARY KEY', 'FOREIGN KEY')
		  AND tc.table_name LIKE ? ESCAPE '\\'
		GROUP BY tc.table_name, tc.constraint_name, tc.constraint_type
		ORDER BY tc.table_name, contype DESC`

	rows, err := m.db.Query(ctx, q, m.schema, database.LikePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("list constraints %q: %w", prefix, err)
	}
	cs, err := scanConstraints(rows)
	if err != nil {
		return nil, fmt.Errorf("scan constraint: %w", err)
	}
	return cs, nil
}

// Columns returns the table's columns with COLUMN_TYPE upper-cased, e.g.
// DECIMAL(10,2) or VARCHAR(50).
func (m *MySQLCatalog) Columns(ctx context.Context, table string) ([]typemeta.CatalogColumn, error) {
	const q = `
		SELECT column_name, UPPER(column_type)
		FROM information_schema.columns
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND table_name = ?
		ORDER BY ordinal_position`

	rows, err := m.db.Query(ctx, q, m.schema, table)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := []typemeta.CatalogColumn{}
	for rows.Next() {
		var c typemeta.CatalogColumn
		if err := rows.Scan(&c.Name, &c.TypeText); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	return cols, nil
}
