// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	policy := cfg.Reconcile.NettingPolicy
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rasgroup/appfolio-recon-backend/internal/domain/dedup"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/validator"
)

// Config represents the entire application configuration
type Config struct {
	Inputs        InputsConfig        `yaml:"inputs"`
	Reconcile     ReconcileConfig     `yaml:"reconcile"`
	Resolver      ResolverConfig      `yaml:"resolver"`
	Validator     validator.Config    `yaml:"validator"`
	Dedup         dedup.Config        `yaml:"dedup"`
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// InputsConfig holds the reference-data file paths
type InputsConfig struct {
	RulesPath       string `yaml:"rules_path"`
	VendorsPath     string `yaml:"vendors_path"`
	PropertiesPath  string `yaml:"properties_path"`
	GLAccountsPath  string `yaml:"gl_accounts_path"`
	VendorGLMapPath string `yaml:"vendor_gl_map_path"`
	LedgerPath      string `yaml:"ledger_path"`
}

// ReconcileConfig holds pipeline policy settings
type ReconcileConfig struct {
	// NettingPolicy selects "drop-zero" or "positive-only"
	NettingPolicy string `yaml:"netting_policy"`

	// DedupVendorKeys lists vendor keys run through balance-mode
	// ledger dedup (e.g. ["ACE"])
	DedupVendorKeys []string `yaml:"dedup_vendor_keys"`

	// BalanceTolerance is the reconciliation report tolerance in dollars
	BalanceTolerance float64 `yaml:"balance_tolerance"`
}

// ResolverConfig holds fuzzy-match thresholds and resolution defaults
type ResolverConfig struct {
	VendorCutoff     float64 `yaml:"vendor_cutoff"`
	PropertyCutoff   float64 `yaml:"property_cutoff"`
	GLCutoff         float64 `yaml:"gl_cutoff"`
	DefaultGLAccount string  `yaml:"default_gl_account"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${RECON_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := defaults()
	cfg.Storage.DatabasePath = getEnv("RECON_DB_PATH", cfg.Storage.DatabasePath)
	cfg.Inputs.RulesPath = getEnv("RECON_RULES_PATH", cfg.Inputs.RulesPath)
	cfg.Reconcile.NettingPolicy = getEnv("RECON_NETTING_POLICY", cfg.Reconcile.NettingPolicy)
	cfg.API.Port = getEnvInt("RECON_API_PORT", cfg.API.Port)
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath tries to load from specified path, falls back to environment variables
func LoadOrEnv_WithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// defaults returns the baseline configuration both loaders start from,
// so a sparse YAML file only needs to name what it changes
func defaults() *Config {
	return &Config{
		Inputs: InputsConfig{
			RulesPath: "data/master/mapping_rules.yaml",
		},
		Reconcile: ReconcileConfig{
			NettingPolicy:    "drop-zero",
			DedupVendorKeys:  []string{"ACE"},
			BalanceTolerance: 0.01,
		},
		Resolver: ResolverConfig{
			VendorCutoff:     67,
			PropertyCutoff:   75,
			GLCutoff:         70,
			DefaultGLAccount: "6435: General Repairs",
		},
		Validator: validator.DefaultConfig(),
		Dedup:     dedup.DefaultConfig(),
		Storage: StorageConfig{
			DatabasePath: "recon.db",
		},
		API: APIConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
