// Package config loads process configuration from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// TaxRate is applied on top of the quote subtotal. 0 disables tax.
	TaxRate       float64 `env:"QUOTE_TAX_RATE,  default=0.22"`
	RepairOnStart bool    `env:"REPAIR_ON_START, default=true"`
	Workers       int     `env:"DISPATCH_WORKERS, default=4"`

	Store    StoreConfig
	Artifact ArtifactConfig
}

type StoreConfig struct {
	// Driver is one of sqlite, redis, mongo, memory.
	Driver     string `env:"STORE_DRIVER, default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH,  default=crm.db"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=crm"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type ArtifactConfig struct {
	// Driver is one of fs, s3, memory.
	Driver string `env:"ARTIFACT_DRIVER, default=fs"`
	Dir    string `env:"ARTIFACT_DIR,    default=exports"`

	S3 S3Config
}

type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION,     default=us-east-1"`
	Endpoint        string `env:"S3_ENDPOINT"`
	PathStyle       bool   `env:"S3_PATH_STYLE, default=false"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

var (
	storeDrivers    = []string{"sqlite", "redis", "mongo", "memory"}
	artifactDrivers = []string{"fs", "s3", "memory"}
)

// Load reads configuration from process environment variables.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether human-friendly defaults should be used.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

func (c *Config) validate() error {
	var errs []error
	if c.TaxRate < 0 || c.TaxRate >= 1 {
		errs = append(errs, fmt.Errorf("QUOTE_TAX_RATE must be in [0, 1), got %v", c.TaxRate))
	}
	if !slices.Contains(storeDrivers, c.Store.Driver) {
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	if !slices.Contains(artifactDrivers, c.Artifact.Driver) {
		errs = append(errs, fmt.Errorf("unknown ARTIFACT_DRIVER %q", c.Artifact.Driver))
	}
	if c.Artifact.Driver == "s3" && c.Artifact.S3.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required when ARTIFACT_DRIVER=s3"))
	}
	return errors.Join(errs...)
}
