// Package config loads toolchain configuration, grounded on the teacher's
// internal/config/config.go (env-var struct with defaults applied in a
// Load function). Three layers compose, lowest to highest precedence:
// built-in defaults, an optional inkwell.yaml project file, then
// INKWELL_* environment variables (a .env file, if present, is loaded
// into the environment first via godotenv).
package config

import (
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config holds every tunable the toolchain's components read at startup.
type Config struct {
	// CacheDir is the root directory for the content-addressable disk
	// cache (§4.3 item 2, §6.5).
	CacheDir string
	// DBPath is the SQLite DSN for the disk cache's metadata store.
	DBPath string
	// MaxCacheBytes bounds the disk cache's total blob size; <= 0 means
	// unbounded.
	MaxCacheBytes int64

	// TreeCacheMaxEntries and TreeCacheMaxBytes bound the in-memory
	// parsed-tree LRU (§4.3 item 1).
	TreeCacheMaxEntries int
	TreeCacheMaxBytes   int64

	// FetchTimeoutSeconds bounds the HTTP client used by the fetch layer.
	FetchTimeoutSeconds int

	// ValidatorMaxDepth bounds recursive type validation (§5: "validator
	// caps at max_depth (default 1024)").
	ValidatorMaxDepth int

	// ArenaBudgetBytes is loaded from the environment and the project file,
	// but nothing passes it to the parsers: every Input's arena uses core's
	// built-in default budget.
	ArenaBudgetBytes int64

	// LogLevel is read by internal/logging.FromEnv directly from
	// INKWELL_LOG_LEVEL; it is mirrored here for callers that want to log
	// the resolved configuration.
	LogLevel string
}

// fileConfig mirrors the subset of Config an inkwell.yaml project file may
// override; zero values mean "not set" so env vars and defaults still win
// over an absent key.
type fileConfig struct {
	CacheDir            string `yaml:"cache_dir"`
	DBPath              string `yaml:"db_path"`
	MaxCacheBytes       int64  `yaml:"max_cache_bytes"`
	TreeCacheMaxEntries int    `yaml:"tree_cache_max_entries"`
	TreeCacheMaxBytes   int64  `yaml:"tree_cache_max_bytes"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	ValidatorMaxDepth   int    `yaml:"validator_max_depth"`
	ArenaBudgetBytes    int64  `yaml:"arena_budget_bytes"`
}

func defaults() *Config {
	return &Config{
		CacheDir:            ".inkwell/cache",
		DBPath:              ".inkwell/cache.db",
		MaxCacheBytes:       512 << 20,
		TreeCacheMaxEntries: 256,
		TreeCacheMaxBytes:   128 << 20,
		FetchTimeoutSeconds: 30,
		ValidatorMaxDepth:   1024,
		ArenaBudgetBytes:    256 << 20,
		LogLevel:            "info",
	}
}

// Load builds a Config from defaults, an optional ./inkwell.yaml, a .env
// file (if present), and INKWELL_* environment variables, in that order of
// increasing precedence.
func Load() *Config {
	_ = godotenv.Load()

	cfg := defaults()
	applyFile(cfg, "inkwell.yaml")
	applyEnv(cfg)
	return cfg
}

func applyFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return
	}

	if fc.CacheDir != "" {
		cfg.CacheDir = fc.CacheDir
	}
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.MaxCacheBytes > 0 {
		cfg.MaxCacheBytes = fc.MaxCacheBytes
	}
	if fc.TreeCacheMaxEntries > 0 {
		cfg.TreeCacheMaxEntries = fc.TreeCacheMaxEntries
	}
	if fc.TreeCacheMaxBytes > 0 {
		cfg.TreeCacheMaxBytes = fc.TreeCacheMaxBytes
	}
	if fc.FetchTimeoutSeconds > 0 {
		cfg.FetchTimeoutSeconds = fc.FetchTimeoutSeconds
	}
	if fc.ValidatorMaxDepth > 0 {
		cfg.ValidatorMaxDepth = fc.ValidatorMaxDepth
	}
	if fc.ArenaBudgetBytes > 0 {
		cfg.ArenaBudgetBytes = fc.ArenaBudgetBytes
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("INKWELL_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("INKWELL_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("INKWELL_MAX_CACHE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxCacheBytes = n
		}
	}
	if v := os.Getenv("INKWELL_TREE_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TreeCacheMaxEntries = n
		}
	}
	if v := os.Getenv("INKWELL_TREE_CACHE_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.TreeCacheMaxBytes = n
		}
	}
	if v := os.Getenv("INKWELL_FETCH_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FetchTimeoutSeconds = n
		}
	}
	if v := os.Getenv("INKWELL_VALIDATOR_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ValidatorMaxDepth = n
		}
	}
	if v := os.Getenv("INKWELL_ARENA_BUDGET_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.ArenaBudgetBytes = n
		}
	}
	if v := os.Getenv("INKWELL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
