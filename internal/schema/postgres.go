package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/typemeta"
)

// DefaultPgSchema is used when no schema is configured.
const DefaultPgSchema = "public"

// PgCatalog implements Catalog for PostgreSQL using pg_constraint and
// information_schema.
type PgCatalog struct {
	db     database.DB
	schema string
}

// NewPgCatalog creates a Postgres catalog reader bound to schema.
func NewPgCatalog(db database.DB, schema string) *PgCatalog {
	if schema == "" {
		schema = DefaultPgSchema
	}
	return &PgCatalog{db: db, schema: schema}
}

// ListTables returns all base tables in the schema.
func (p *PgCatalog) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := p.db.Query(ctx, q, p.schema)
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
func (p *PgCatalog) TableExists(ctx context.Context, table string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)`

	var exists bool
	if err := p.db.QueryRow(ctx, q, p.schema, table).Scan(&exists); err != nil {
		return false, fmt.Errorf("table exists check: %w", err)
	}
	return exists, nil
}

// Constraints reads key constraint definitions with pg_get_constraintdef.
func (p *PgCatalog) Constraints(ctx context.Context, prefix string) ([]typemeta.Constraint, error) {
	const q = `
		SELECT
			conrelid::regclass::text AS table_from,
			conname,
			contype::text,
			pg_get_constraintdef(oid)
		FROM pg_constraint
		WHERE contype IN ('f', 'p')
		  AND connamespace = (SELECT oid FROM pg_namespace WHERE nspname = $1)
		  AND conname LIKE $2 ESCAPE '\'
		ORDER BY conrelid::regclass::text, contype DESC`

	rows, err := p.db.Query(ctx, q, p.schema, database.LikePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("list constraints %q: %w", prefix, err)
	}
	cs, err := scanConstraints(rows)
	if err != nil {
		return nil, fmt.Errorf("scan constraint: %w", err)
	}
	return cs, nil
}

// pgColumn is one information_schema.columns row.
type pgColumn struct {
	Name      string
	DataType  string
	UDTName   string
	MaxLength *int
	Precision *int
	Scale     *int
	Default   *string
}

// Columns returns the table's columns with canonical type text.
func (p *PgCatalog) Columns(ctx context.Context, table string) ([]typemeta.CatalogColumn, error) {
	const q = `
		SELECT
			column_name,
			data_type,
			udt_name,
			character_maximum_length,
			numeric_precision,
			numeric_scale,
			column_default
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`

	rows, err := p.db.Query(ctx, q, p.schema, table)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s.%s: %w", p.schema, table, err)
	}
	defer rows.Close()

	cols := []typemeta.CatalogColumn{}
	for rows.Next() {
		var c pgColumn
		if err := rows.Scan(&c.Name, &c.DataType, &c.UDTName, &c.MaxLength, &c.Precision, &c.Scale, &c.Default); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, typemeta.CatalogColumn{Name: c.Name, TypeText: renderPgType(c)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list columns of %s.%s: %w", p.schema, table, err)
	}
	return cols, nil
}

// renderPgType renders an information_schema column in the upper-case form
// the type parsers read, e.g. VARCHAR(50), NUMERIC(10, 2), DOUBLE_PRECISION.
// An integer column fed by a sequence renders as SERIAL / BIGSERIAL.
func renderPgType(c pgColumn) string {
	switch c.DataType {
	case "character varying":
		if c.MaxLength != nil {
			return fmt.Sprintf("VARCHAR(%d)", *c.MaxLength)
		}
		return "VARCHAR"
	case "character":
		if c.MaxLength != nil {
			return fmt.Sprintf("CHAR(%d)", *c.MaxLength)
		}
		return "CHAR"
	case "numeric":
		if c.Precision != nil {
			scale := 0
			if c.Scale != nil {
				scale = *c.Scale
			}
			return fmt.Sprintf("NUMERIC(%d, %d)", *c.Precision, scale)
		}
		return "NUMERIC"
	case "double precision":
		return "DOUBLE_PRECISION"
	case "integer":
		if isSequenceDefault(c.Default) {
			return "SERIAL"
		}
		return "INTEGER"
	case "bigint":
		if isSequenceDefault(c.Default) {
			return "BIGSERIAL"
		}
		return "BIGINT"
	case "timestamp without time zone":
		return "TIMESTAMP"
	case "timestamp with time zone":
		return "TIMESTAMP WITH TIME ZONE"
	case "USER-DEFINED":
		return strings.ToUpper(c.UDTName)
	case "ARRAY":
		return "ARRAY"
	default:
		return strings.ToUpper(c.DataType)
	}
}

func isSequenceDefault(def *string) bool {
	return def != nil && strings.HasPrefix(*def, "nextval(")
}
