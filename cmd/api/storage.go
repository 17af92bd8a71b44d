package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pdfchat/internal/config"
	"pdfchat/internal/service"
	"pdfchat/internal/storage"
)

// openStorage returns the blob store and, for local disk, the janitor that enforces retention.
// MinIO enforces retention through a bucket lifecycle rule, so it has no janitor.
func openStorage(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (storage.Storage, *storage.Janitor, error) {
	sc := cfg.Storage
	switch sc.Driver {
	case config.StorageLocal:
		local, err := storage.NewLocal(sc.LocalDir, service.UploadPrefix)
		if err != nil {
			return nil, nil, err
		}
		log.Info("storage_ready", zap.String("driver", sc.Driver), zap.String("root", local.Root()))
		return local, storage.NewJanitor(local, sc.SweepInterval, sc.Retention, log), nil

	case config.StorageMinIO:
		store, err := storage.NewMinIO(ctx, cfg.MinIO, service.UploadPrefix, sc.Retention)
		if err != nil {
			return nil, nil, err
		}
		log.Info("storage_ready",
			zap.String("driver", sc.Driver),
			zap.String("bucket", cfg.MinIO.Bucket),
			zap.Duration("retention", sc.Retention),
		)
		return store, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", sc.Driver)
	}
}
