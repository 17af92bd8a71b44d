package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pdfchat/internal/config"
	"pdfchat/internal/service"
	"pdfchat/internal/storage"
)

func newPruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove local uploads older than --older-than (defaults to UPLOAD_RETENTION)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := bootstrap()
			defer log.Sync() //nolint:errcheck

			if cfg.Storage.Driver != config.StorageLocal {
				return fmt.Errorf("prune only applies to STORAGE_DRIVER=%s; %s uses a bucket lifecycle rule", config.StorageLocal, cfg.Storage.Driver)
			}
			if olderThan <= 0 {
				olderThan = cfg.Storage.Retention
			}

			local, err := storage.NewLocal(cfg.Storage.LocalDir, service.UploadPrefix)
			if err != nil {
				return err
			}
			n, err := local.Prune(cmd.Context(), olderThan)
			if err != nil {
				log.Error("prune_failed", zap.Error(err), zap.Int("removed", n))
				return err
			}
			log.Info("prune_done", zap.Int("removed", n), zap.Duration("older_than", olderThan))
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d file(s)\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "minimum age of files to remove")
	return cmd
}
