package database

import (
	"testing"

	"github.com/koustreak/colmeta/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestLikePrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"orders", "orders%"},
		{"tbl_phab", `tbl\_phab%`},
		{"100%", `100\%%`},
		{`a\b`, `a\\b%`},
		{"", "%"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, LikePrefix(tt.prefix))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"mysql", func(c *Config) { c.Driver = DriverMySQL }, false},
		{"sqlite", func(c *Config) { c.Driver = DriverSQLite }, false},
		{"unknown driver", func(c *Config) { c.Driver = "oracle" }, true},
		{"missing dsn", func(c *Config) { c.DSN = "" }, true},
		{"min above max", func(c *Config) { c.MinConns = 10 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("postgres://localhost/db")
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.True(t, errs.IsInvalidInput(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
