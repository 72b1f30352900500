package main

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vegasq/codesearch/internal/logger"
	"github.com/vegasq/codesearch/internal/server"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP search API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			log := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cmd.ErrOrStderr()})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := openService(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			gin.SetMode(gin.ReleaseMode)
			return server.New(svc, cfg, log).Run(ctx)
		},
	}
}
