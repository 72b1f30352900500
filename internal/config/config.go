// Package config loads codesearch settings from defaults, an optional
// config file and CODESEARCH_ environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vegasq/codesearch/query"
)

// EnvPrefix is prepended to every environment key, e.g.
// CODESEARCH_SEARCH_PAGE_SIZE for search.page_size.
const EnvPrefix = "CODESEARCH"

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Search SearchConfig `mapstructure:"search"`
	Schema SchemaConfig `mapstructure:"schema"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr               string        `mapstructure:"addr"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
	RateBurst          int           `mapstructure:"rate_burst"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
}

type DataConfig struct {
	Path  string `mapstructure:"path"`
	Table string `mapstructure:"table"`
}

type SearchConfig struct {
	DefaultColumns    []string      `mapstructure:"default_columns"`
	DefaultType       string        `mapstructure:"default_type"`
	PageSize          int           `mapstructure:"page_size"`
	CacheSize         int           `mapstructure:"cache_size"`
	Workers           int           `mapstructure:"workers"`
	ParallelThreshold int           `mapstructure:"parallel_threshold"`
	ChunkSize         int           `mapstructure:"chunk_size"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Pushdown          bool          `mapstructure:"pushdown"`
}

type SchemaConfig struct {
	IDColumn     string `mapstructure:"id_column"`
	GroupColumn  string `mapstructure:"group_column"`
	DedupColumn  string `mapstructure:"dedup_column"`
	SourceColumn string `mapstructure:"source_column"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// QuerySchema converts the schema section for the query package
func (s SchemaConfig) QuerySchema() query.Schema {
	return query.Schema{
		IDColumn:     s.IDColumn,
		GroupColumn:  s.GroupColumn,
		DedupColumn:  s.DedupColumn,
		SourceColumn: s.SourceColumn,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit_per_minute", 600)
	v.SetDefault("server.rate_burst", 50)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("data.path", "codelists.db")
	v.SetDefault("data.table", "codelists")

	v.SetDefault("search.default_columns", query.DefaultColumns)
	v.SetDefault("search.default_type", string(query.SearchPartial))
	v.SetDefault("search.page_size", query.DefaultPageSize)
	v.SetDefault("search.cache_size", 256)
	v.SetDefault("search.workers", 4)
	v.SetDefault("search.parallel_threshold", 50000)
	v.SetDefault("search.chunk_size", 10000)
	v.SetDefault("search.timeout", 5*time.Second)
	v.SetDefault("search.pushdown", false)

	v.SetDefault("schema.id_column", query.DefaultSchema.IDColumn)
	v.SetDefault("schema.group_column", query.DefaultSchema.GroupColumn)
	v.SetDefault("schema.dedup_column", query.DefaultSchema.DedupColumn)
	v.SetDefault("schema.source_column", query.DefaultSchema.SourceColumn)

	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Search.DefaultColumns = splitColumns(cfg.Search.DefaultColumns)
	return &cfg, nil
}

// splitColumns accepts both a list and a single comma separated value,
// which is how the environment delivers it.
func splitColumns(in []string) []string {
	var out []string
	for _, item := range in {
		for _, col := range strings.Split(item, ",") {
			if col = strings.TrimSpace(col); col != "" {
				out = append(out, col)
			}
		}
	}
	return out
}

// Validate returns an error if the configuration cannot serve searches.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Search.DefaultColumns) == 0 {
		errs = append(errs, errors.New("search.default_columns must not be empty"))
	}
	if c.Search.PageSize < 1 {
		errs = append(errs, fmt.Errorf("search.page_size must be at least 1, got %d", c.Search.PageSize))
	}
	if _, err := query.ParseSearchType(c.Search.DefaultType); err != nil {
		errs = append(errs, fmt.Errorf("search.default_type: %w", err))
	}
	if c.Search.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("search.cache_size must be at least 1, got %d", c.Search.CacheSize))
	}
	if c.Search.Workers < 1 {
		errs = append(errs, fmt.Errorf("search.workers must be at least 1, got %d", c.Search.Workers))
	}
	if c.Search.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("search.chunk_size must be at least 1, got %d", c.Search.ChunkSize))
	}
	if c.Schema.IDColumn == "" || c.Schema.GroupColumn == "" {
		errs = append(errs, errors.New("schema.id_column and schema.group_column are required"))
	}
	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("server.rate_limit_per_minute must not be negative"))
	}
	return errors.Join(errs...)
}
