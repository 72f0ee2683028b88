package filestore

import "github.com/koustreak/colmeta/internal/errs"

// Provider identifies the file storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
)

// Config holds the settings needed to reach a storage backend.
type Config struct {
	// Provider is the storage backend (e.g. ProviderMinIO).
	Provider Provider `mapstructure:"provider"`

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string `mapstructure:"endpoint"`

	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`

	// Region is used by region-aware backends. Leave empty for MinIO.
	Region string `mapstructure:"region"`

	// Bucket receives exported documents.
	Bucket string `mapstructure:"bucket"`
}

// DefaultConfig returns a local-dev config for MinIO.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    "colmeta",
	}
}

// Validate checks the fields a provider needs before connecting.
func (c *Config) Validate() error {
	if c.Provider != ProviderMinIO {
		return errs.Newf(errs.ErrKindInvalidInput, "unsupported storage provider %q", c.Provider)
	}
	if c.Endpoint == "" {
		return errs.New(errs.ErrKindInvalidInput, "storage endpoint is required")
	}
	if c.Bucket == "" {
		return errs.New(errs.ErrKindInvalidInput, "storage bucket is required")
	}
	return nil
}
