package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pdfchat/internal/config"
	"pdfchat/internal/logger"
)

// newRootCmd builds the pdfchat command tree. Running it without a subcommand serves HTTP.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pdfchat",
		Short:         "PDF upload and chat backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newPruneCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// bootstrap loads configuration and the process logger shared by every command.
func bootstrap() (*config.AppConfig, *zap.Logger) {
	cfg := config.Load()
	return cfg, logger.New(cfg.LogLevel).With(zap.String("service", "pdfchat"))
}
