// Package config loads and normalizes runtime configuration.
package config

import (
	"os"
	"strings"

	"matchbench/internal/runinfo"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures all runtime options for dataset loading and benchmarking.
type Config struct {
	DSN       string             `yaml:"dsn"`
	Database  string             `yaml:"database"`
	Seed      int64              `yaml:"seed"`
	Variants  []string           `yaml:"variants"`
	Dataset   Dataset            `yaml:"dataset"`
	Benchmark Benchmark          `yaml:"benchmark"`
	Report    Report             `yaml:"report"`
	Storage   StorageConfig      `yaml:"storage"`
	Logging   Logging            `yaml:"logging"`
	RunInfo   *runinfo.BasicInfo `yaml:"-"`
}

// Dataset sets table cardinalities and load batching.
type Dataset struct {
	Accounts             int `yaml:"accounts"`
	AccountGroups        int `yaml:"account_groups"`
	Skills               int `yaml:"skills"`
	DistributionGroups   int `yaml:"distribution_groups"`
	BatchSize            int `yaml:"batch_size"`
	ProgressEveryBatches int `yaml:"progress_every_batches"`
}

// Benchmark controls strategy measurement.
type Benchmark struct {
	Iterations         int `yaml:"iterations"`
	PageSize           int `yaml:"page_size"`
	Offset             int `yaml:"offset"`
	StatementTimeoutMs int `yaml:"statement_timeout_ms"`
}

// Report controls run artifact output.
type Report struct {
	OutputDir string `yaml:"output_dir"`
}

// Logging controls stdout logging behavior.
type Logging struct {
	Verbose bool `yaml:"verbose"`
}

// StorageConfig holds external storage settings.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (including S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Variant names recognized in Config.Variants.
const (
	VariantBase    = "base"
	VariantIndexed = "indexed"
)

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	normalizeConfig(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.RunInfo = runinfo.FromEnv()
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		DSN:      "root:@tcp(127.0.0.1:4000)/",
		Database: "matchbench",
		Variants: []string{VariantBase, VariantIndexed},
		Dataset: Dataset{
			Accounts:             100,
			AccountGroups:        20,
			Skills:               50,
			DistributionGroups:   1000000,
			BatchSize:            10000,
			ProgressEveryBatches: 10,
		},
		Benchmark: Benchmark{
			Iterations:         20,
			PageSize:           100,
			Offset:             0,
			StatementTimeoutMs: 30000,
		},
		Report: Report{OutputDir: "reports"},
	}
}

func normalizeConfig(cfg *Config) {
	if cfg.Dataset.BatchSize <= 0 {
		cfg.Dataset.BatchSize = 10000
	}
	if cfg.Dataset.ProgressEveryBatches <= 0 {
		cfg.Dataset.ProgressEveryBatches = 10
	}
	if cfg.Benchmark.StatementTimeoutMs <= 0 {
		cfg.Benchmark.StatementTimeoutMs = 30000
	}
	if len(cfg.Variants) == 0 {
		cfg.Variants = []string{VariantBase, VariantIndexed}
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "reports"
	}
	if cfg.Database != "" {
		cfg.DSN = ensureDatabaseInDSN(cfg.DSN, cfg.Database)
	}
}

// Validate fails fast on settings that would corrupt a load or a run.
func (c Config) Validate() error {
	switch {
	case c.Dataset.Accounts <= 0:
		return errors.Errorf("dataset.accounts must be positive, got %d", c.Dataset.Accounts)
	case c.Dataset.AccountGroups <= 0:
		return errors.Errorf("dataset.account_groups must be positive, got %d", c.Dataset.AccountGroups)
	case c.Dataset.Skills <= 0:
		return errors.Errorf("dataset.skills must be positive, got %d", c.Dataset.Skills)
	case c.Dataset.DistributionGroups <= 0:
		return errors.Errorf("dataset.distribution_groups must be positive, got %d", c.Dataset.DistributionGroups)
	case c.Benchmark.Iterations <= 0:
		return errors.Errorf("benchmark.iterations must be positive, got %d", c.Benchmark.Iterations)
	case c.Benchmark.PageSize < 0:
		return errors.Errorf("benchmark.page_size must be non-negative, got %d", c.Benchmark.PageSize)
	case c.Benchmark.Offset < 0:
		return errors.Errorf("benchmark.offset must be non-negative, got %d", c.Benchmark.Offset)
	}
	for _, v := range c.Variants {
		if v != VariantBase && v != VariantIndexed {
			return errors.Errorf("unknown schema variant %q", v)
		}
	}
	return nil
}

func ensureDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
	}
	afterSlash := dsn[slash+1:]
	if query >= 0 {
		afterSlash = dsn[slash+1 : query]
	}
	if strings.TrimSpace(afterSlash) != "" {
		return dsn
	}
	if query >= 0 {
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn + dbName
}

// UpdateDatabaseInDSN replaces the database name in the DSN path with dbName.
// It preserves query parameters, if any.
func UpdateDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn[:slash+1] + dbName
}

// AdminDSN strips the database name from a DSN while preserving query parameters.
func AdminDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dsn[query:]
	}
	return dsn[:slash+1]
}
