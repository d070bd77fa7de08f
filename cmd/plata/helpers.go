package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/osoriof/plata/internal/common"
	"github.com/osoriof/plata/internal/config"
	"github.com/osoriof/plata/internal/storage"
)

// openStore opens the configured database and applies pending
// migrations. The caller owns the returned store and must close it.
func openStore(ctx context.Context) (*storage.SQLiteStore, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		return nil, common.NewUserError("database path is not configured", common.ErrMissingConfig)
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open database %q", dbPath), err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError(fmt.Sprintf("could not migrate database %q", dbPath), err)
	}

	return store, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
