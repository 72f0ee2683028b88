package main

import (
	"context"
	"io"

	"github.com/koustreak/colmeta/internal/config"
	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/database/mysql"
	"github.com/koustreak/colmeta/internal/database/postgres"
	"github.com/koustreak/colmeta/internal/database/sqlite"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/export"
	"github.com/koustreak/colmeta/internal/logger"
	"github.com/koustreak/colmeta/internal/schema"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root has parsed its
// persistent flags.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *logger.Logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "colmeta",
		Short: "Column metadata and primary keys from a database catalog",
		Long: `colmeta reads a relational database's own catalog and reports, for each
table, its primary key and a normalized description of every column:
semantic type, human-readable label and precision.

PostgreSQL, MySQL and SQLite catalogs are supported.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./colmeta.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newColumnsCommand(a))
	rootCmd.AddCommand(newKeysCommand(a))
	rootCmd.AddCommand(newTablesCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newServeCommand(a))

	return rootCmd
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		if _, err := logger.ParseLevel(a.logLevel); err != nil {
			return err
		}
		cfg.Log.Level = a.logLevel
	}

	logCfg := cfg.Log
	logCfg.Output = cmd.ErrOrStderr()
	a.log = logger.New(&logCfg)
	logger.SetGlobal(a.log)
	a.cfg = cfg

	a.log.Debugf("config loaded: %s", cfg)
	return nil
}

// open connects to the configured database.
func (a *app) open(ctx context.Context) (database.DB, error) {
	dbCfg := &a.cfg.Database
	if err := dbCfg.Validate(); err != nil {
		return nil, err
	}

	switch dbCfg.Driver {
	case database.DriverPostgres:
		return postgres.New(ctx, dbCfg)
	case database.DriverMySQL:
		return mysql.New(ctx, dbCfg)
	case database.DriverSQLite:
		return sqlite.New(ctx, dbCfg)
	default:
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unsupported database driver %q", dbCfg.Driver)
	}
}

// inspector opens the database and wraps it in an Inspector. The caller
// closes the returned DB.
func (a *app) inspector(ctx context.Context) (*schema.Inspector, database.DB, error) {
	db, err := a.open(ctx)
	if err != nil {
		return nil, nil, err
	}

	cat, err := schema.NewCatalog(a.cfg.Database.Driver, db, a.cfg.Catalog.Schema)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return schema.NewInspector(cat), db, nil
}

// queryContext bounds one CLI command's catalog reads.
func (a *app) queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Database.QueryTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, a.cfg.Database.QueryTimeout)
}

// addFormatFlag registers --format on cmd.
func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", string(export.FormatJSON), "output format: json, yaml")
}

func render(w io.Writer, format string, v interface{}) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	return export.Encode(w, f, v)
}
