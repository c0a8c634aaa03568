package cmd

import (
	"context"

	"list-sync/core/config"
	"list-sync/core/database"
	"list-sync/core/storage"
	"list-sync/feature/listsync"

	"go.uber.org/zap"
)

// openSinks connects the optional report sinks. A sink that cannot be
// reached is skipped with a warning so the sync itself still runs.
func openSinks(ctx context.Context, cfg *config.Config, l *zap.Logger) ([]listsync.Sink, func()) {
	var (
		sinks   []listsync.Sink
		closers []func()
	)

	if cfg.Database.Enabled {
		if db, err := database.Connect(cfg.Database); err != nil {
			l.Warn("Optional database connection failed", zap.Error(err))
		} else {
			journal := listsync.NewJournal(db)
			if err := journal.Prepare(ctx); err != nil {
				l.Warn("Failed to prepare journal", zap.Error(err))
				_ = database.Close(db)
			} else {
				l.Info("Journal enabled", zap.String("driver", cfg.Database.Driver))
				sinks = append(sinks, journal)
				closers = append(closers, func() { _ = database.Close(db) })
			}
		}
	}

	if cfg.Storage.Enabled {
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			l.Warn("Optional storage connection failed", zap.Error(err))
		} else {
			l.Info("Report archive enabled", zap.String("bucket", cfg.Storage.Bucket))
			sinks = append(sinks, listsync.NewArchive(client, cfg.Storage))
		}
	}

	return sinks, func() {
		for _, c := range closers {
			c()
		}
	}
}
