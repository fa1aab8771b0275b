package storage

import (
	"fmt"
	"log/slog"

	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/journal"
)

// Open creates the backend selected by cfg.Driver.
func Open(cfg config.JournalConfig, logger *slog.Logger) (journal.Storage, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStorage(), nil
	case DriverCgo, DriverPure:
		return NewSQLiteStorage(&SQLiteConfig{
			Driver:      cfg.Driver,
			Path:        cfg.Path,
			BusyTimeout: cfg.BusyTimeout,
			WALMode:     true,
		}, logger)
	default:
		return nil, journal.NewStorageError(cfg.Driver, "open", fmt.Errorf("unknown driver %q", cfg.Driver))
	}
}
