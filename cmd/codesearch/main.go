// Command codesearch searches medical code lists with boolean queries.
//
// Usage:
//
//	codesearch search "bronchitis NOT chronic" --data codelists.parquet
//	codesearch search "asthma OR copd" -c Description -f table --page 1
//	codesearch stats --by Source_Codelist --top 5
//	codesearch import Entire_Repository.csv codelists.db
//	codesearch serve --config codesearch.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vegasq/codesearch/internal/config"
	"github.com/vegasq/codesearch/internal/logger"
	"github.com/vegasq/codesearch/internal/service"
	"github.com/vegasq/codesearch/reader"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	dataPath   string
	logLevel   string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "codesearch",
		Short:         "Boolean search over medical code lists",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&opts.dataPath, "data", "", "dataset path (.csv, .parquet or .db); overrides data.path")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR; overrides log.level")

	root.AddCommand(
		newServeCmd(opts),
		newSearchCmd(opts),
		newStatsCmd(opts),
		newImportCmd(opts),
	)
	return root
}

// load reads and validates the configuration, applies flag overrides and
// builds the logger.
func (o *globalOptions) load(stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.dataPath != "" {
		cfg.Data.Path = o.dataPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: stderr})
	return cfg, log, nil
}

// openService opens the configured dataset and loads it.
func openService(ctx context.Context, cfg *config.Config, log *slog.Logger) (*service.Service, error) {
	src, err := reader.OpenSource(cfg.Data.Path, cfg.Data.Table)
	if err != nil {
		return nil, err
	}
	svc, err := service.New(ctx, src, service.Config{
		Schema:            cfg.Schema.QuerySchema(),
		CacheSize:         cfg.Search.CacheSize,
		Workers:           cfg.Search.Workers,
		ParallelThreshold: cfg.Search.ParallelThreshold,
		ChunkSize:         cfg.Search.ChunkSize,
		Timeout:           cfg.Search.Timeout,
		Pushdown:          cfg.Search.Pushdown,
	}, log)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return svc, nil
}
