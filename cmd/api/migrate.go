package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema or the Mongo indexes for the configured datastore",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := bootstrap()
			defer log.Sync() //nolint:errcheck

			ds, err := openDatastore(cmd.Context(), cfg, log)
			if err != nil {
				log.Error("migrate_failed", zap.String("driver", cfg.Datastore.Driver), zap.Error(err))
				return err
			}
			defer ds.Close(cmd.Context()) //nolint:errcheck

			log.Info("migrate_done", zap.String("driver", cfg.Datastore.Driver))
			return nil
		},
	}
}
