// Package config loads colmeta's settings from colmeta.yaml and COLMETA_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/filestore"
	"github.com/koustreak/colmeta/internal/logger"
	"github.com/koustreak/colmeta/internal/typemeta"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. COLMETA_DATABASE_DSN.
const EnvPrefix = "COLMETA"

// DefaultSystemFields are the platform-managed columns excluded from
// metadata unless the configuration says otherwise.
var DefaultSystemFields = []string{
	"globalid",
	"submissionid",
	"created_user",
	"created_date",
	"last_edited_user",
	"last_edited_date",
	"warnings",
}

// Config represents the colmeta configuration.
type Config struct {
	Database database.Config `mapstructure:"database"`
	Catalog  CatalogConfig   `mapstructure:"catalog"`
	Log      logger.Config   `mapstructure:"log"`
	Server   ServerConfig    `mapstructure:"server"`
	Export   ExportConfig    `mapstructure:"export"`
}

// CatalogConfig selects what the catalog is read from and which columns
// are left out.
type CatalogConfig struct {
	Schema           string   `mapstructure:"schema"`
	SystemFields     []string `mapstructure:"system_fields"`
	UnchangingFields []string `mapstructure:"unchanging_fields"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ExportConfig is the object store plus the document format.
type ExportConfig struct {
	filestore.Config `mapstructure:",squash"`

	Format string `mapstructure:"format"` // json, yaml
}

// SystemFieldSet returns the configured system fields as a FieldSet.
func (c *Config) SystemFieldSet() typemeta.FieldSet {
	return typemeta.NewFieldSet(c.Catalog.SystemFields...)
}

// ImmutableFields is every column clients may not edit: the system fields
// plus the configured unchanging fields.
func (c *Config) ImmutableFields() typemeta.FieldSet {
	return c.SystemFieldSet().Union(typemeta.NewFieldSet(c.Catalog.UnchangingFields...))
}

// Load reads the configuration. path names an explicit config file; when
// empty, colmeta.yaml is looked up in the working directory and a missing
// file leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("colmeta")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read config file", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	db := database.DefaultConfig("")
	v.SetDefault("database.driver", string(db.Driver))
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", db.MaxConns)
	v.SetDefault("database.min_conns", db.MinConns)
	v.SetDefault("database.max_conn_lifetime", db.MaxConnLifetime)
	v.SetDefault("database.max_conn_idle_time", db.MaxConnIdleTime)
	v.SetDefault("database.connect_timeout", db.ConnectTimeout)
	v.SetDefault("database.query_timeout", db.QueryTimeout)

	v.SetDefault("catalog.schema", "")
	v.SetDefault("catalog.system_fields", DefaultSystemFields)
	v.SetDefault("catalog.unchanging_fields", []string{})

	lg := logger.DefaultConfig()
	v.SetDefault("log.level", lg.Level)
	v.SetDefault("log.format", lg.Format)
	v.SetDefault("log.time_format", lg.TimeFormat)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	fs := filestore.DefaultConfig("", "", "")
	v.SetDefault("export.provider", string(fs.Provider))
	v.SetDefault("export.endpoint", "")
	v.SetDefault("export.access_key", "")
	v.SetDefault("export.secret_key", "")
	v.SetDefault("export.use_ssl", false)
	v.SetDefault("export.region", "")
	v.SetDefault("export.bucket", fs.Bucket)
	v.SetDefault("export.format", "json")
}

// Validate checks the settings that do not depend on which command runs.
// The DSN and storage endpoint are checked by the commands that need them.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case database.DriverPostgres, database.DriverMySQL, database.DriverSQLite:
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unsupported database driver %q", c.Database.Driver)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return errs.Newf(errs.ErrKindInvalidInput, "unsupported log format %q", c.Log.Format)
	}

	if c.Export.Format != "json" && c.Export.Format != "yaml" {
		return errs.Newf(errs.ErrKindInvalidInput, "unsupported export format %q", c.Export.Format)
	}

	for _, f := range c.Catalog.SystemFields {
		if strings.TrimSpace(f) == "" {
			return errs.New(errs.ErrKindInvalidInput, "catalog.system_fields contains an empty name")
		}
	}
	return nil
}

// String renders the config for debug logs. Credentials and the DSN are
// left out.
func (c *Config) String() string {
	return fmt.Sprintf("driver=%s schema=%q system_fields=%v server=%s export=%s/%s",
		c.Database.Driver, c.Catalog.Schema, c.Catalog.SystemFields,
		c.Server.Addr, c.Export.Endpoint, c.Export.Bucket)
}
