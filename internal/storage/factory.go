package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nextgen-hub/studenthub/internal"
	"github.com/nextgen-hub/studenthub/internal/config"
)

// NewStore opens the backend selected by cfg.DBType.
func NewStore(ctx context.Context, cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.DBType {
	case "file":
		return NewFileStorage(cfg.DataDir, logger)
	case "postgres":
		return NewPostgresStorage(ctx, cfg.DBDSN, logger)
	case "sqlite":
		return NewSQLiteStorage(ctx, cfg.SQLiteDSN, logger)
	default:
		return nil, errors.Errorf("storage: unknown backend %q", cfg.DBType)
	}
}
