package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pdfchat/internal/config"
	"pdfchat/internal/database"
	"pdfchat/internal/database/migration"
	"pdfchat/internal/repository"
	mongorepo "pdfchat/internal/repository/mongo"
	"pdfchat/internal/repository/postgres"
)

// datastore bundles the document repository with its inspector and its close hook.
// A zero datastore means the backend is unavailable; repo and inspector are then untyped nil.
type datastore struct {
	repo      repository.DocumentRepository
	inspector repository.Inspector
	close     func(context.Context) error
}

func (d datastore) Close(ctx context.Context) error {
	if d.close == nil {
		return nil
	}
	return d.close(ctx)
}

// openDatastore connects to the configured driver and applies its schema (Postgres)
// or indexes (Mongo).
func openDatastore(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (datastore, error) {
	switch cfg.Datastore.Driver {
	case config.DriverMongo:
		db, err := database.NewMongo(ctx, cfg.Datastore)
		if err != nil {
			return datastore{}, err
		}
		repo := mongorepo.NewDocumentMongo(db, cfg.Datastore.Collection)
		closeFn := func(ctx context.Context) error { return db.Client().Disconnect(ctx) }
		if err := migration.EnsureIndexes(ctx, repo.Collection(), log); err != nil {
			_ = closeFn(ctx)
			return datastore{}, err
		}
		return datastore{repo: repo, inspector: repo, close: closeFn}, nil

	case config.DriverPostgres:
		dsn, err := database.PostgresDSN(cfg.Datastore, cfg.Database)
		if err != nil {
			return datastore{}, err
		}
		db, err := database.NewPostgres(ctx, dsn, cfg.Database)
		if err != nil {
			return datastore{}, err
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			db.Close()
			return datastore{}, err
		}
		name := cfg.Datastore.Name
		if name == "" {
			name = cfg.Database.Name
		}
		repo := postgres.NewDocumentPostgres(db, name)
		return datastore{repo: repo, inspector: repo, close: func(context.Context) error { return db.Close() }}, nil

	default:
		return datastore{}, fmt.Errorf("unknown DATASTORE_DRIVER %q", cfg.Datastore.Driver)
	}
}
