package schema

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/typemeta"
)

// SQLiteCatalog implements Catalog for SQLite using sqlite_master and the
// table-valued PRAGMA functions. SQLite keeps declared types verbatim, so
// column type text is only upper-cased.
type SQLiteCatalog struct {
	db database.DB
}

// NewSQLiteCatalog creates a new SQLite catalog reader.
func NewSQLiteCatalog(db database.DB) *SQLiteCatalog {
	return &SQLiteCatalog{db: db}
}

// ListTables returns all user tables, skipping SQLite's internal ones.
func (s *SQLiteCatalog) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name`

	rows, err := s.db.Query(ctx, q)
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
func (s *SQLiteCatalog) TableExists(ctx context.Context, table string) (bool, error) {
	const q = `SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'table' AND name = ?`

	var exists bool
	if err := s.db.QueryRow(ctx, q, table).Scan(&exists); err != nil {
		return false, fmt.Errorf("table exists check: %w", err)
	}
	return exists, nil
}

// Columns returns the declared columns of table in cid order.
func (s *SQLiteCatalog) Columns(ctx context.Context, table string) ([]typemeta.CatalogColumn, error) {
	const q = `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`

	rows, err := s.db.Query(ctx, q, table)
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
		c.TypeText = strings.ToUpper(c.TypeText)
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	return cols, nil
}

// Constraints builds key constraints for every table whose name starts with
// prefix (case-sensitive). SQLite constraints are anonymous, so names are
// synthesized as <table>_pkey and <table>_fkey<n>.
func (s *SQLiteCatalog) Constraints(ctx context.Context, prefix string) ([]typemeta.Constraint, error) {
	const q = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND substr(name, 1, ?) = ?
		ORDER BY name`

	rows, err := s.db.Query(ctx, q, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("list constraints %q: %w", prefix, err)
	}
	tables, err := scanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan table name: %w", err)
	}

	// Per-table reads run after the table listing is closed; the pool holds
	// a single connection.
	var cs []typemeta.Constraint
	for _, table := range tables {
		pk, err := s.primaryKey(ctx, table)
		if err != nil {
			return nil, err
		}
		if pk != nil {
			cs = append(cs, *pk)
		}

		fks, err := s.foreignKeys(ctx, table)
		if err != nil {
			return nil, err
		}
		cs = append(cs, fks...)
	}

	typemeta.OrderConstraints(cs)
	return cs, nil
}

func (s *SQLiteCatalog) primaryKey(ctx context.Context, table string) (*typemeta.Constraint, error) {
	const q = `SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`

	rows, err := s.db.Query(ctx, q, table)
	if err != nil {
		return nil, fmt.Errorf("primary key of %s: %w", table, err)
	}
	cols, err := scanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan primary key of %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, nil
	}

	return &typemeta.Constraint{
		Relation:   table,
		Name:       table + "_pkey",
		Type:       typemeta.PrimaryKey,
		Definition: fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(cols, ", ")),
	}, nil
}

func (s *SQLiteCatalog) foreignKeys(ctx context.Context, table string) ([]typemeta.Constraint, error) {
	const q = `SELECT id, "from", "table", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`

	rows, err := s.db.Query(ctx, q, table)
	if err != nil {
		return nil, fmt.Errorf("foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	type fk struct {
		ref      string
		from, to []string
	}
	var order []int
	byID := map[int]*fk{}

	for rows.Next() {
		var id int
		var from, ref string
		var to *string
		if err := rows.Scan(&id, &from, &ref, &to); err != nil {
			return nil, fmt.Errorf("scan foreign key of %s: %w", table, err)
		}
		k, ok := byID[id]
		if !ok {
			k = &fk{ref: ref}
			byID[id] = k
			order = append(order, id)
		}
		k.from = append(k.from, from)
		if to != nil {
			k.to = append(k.to, *to)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("foreign keys of %s: %w", table, err)
	}

	cs := make([]typemeta.Constraint, 0, len(order))
	for _, id := range order {
		k := byID[id]
		def := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s", strings.Join(k.from, ", "), k.ref)
		if len(k.to) > 0 {
			def += fmt.Sprintf("(%s)", strings.Join(k.to, ", "))
		}
		cs = append(cs, typemeta.Constraint{
			Relation:   table,
			Name:       fmt.Sprintf("%s_fkey%d", table, id),
			Type:       typemeta.ForeignKey,
			Definition: def,
		})
	}
	return cs, nil
}
