package backend

import (
	"context"
	"fmt"
	"log/slog"

	"rentalflow/internal/store/memory"
	mongostore "rentalflow/internal/store/mongo"
	"rentalflow/internal/store/sqlite"
)

// Factory builds repositories from backend configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateBackend opens the configured backend and returns it with its
// cleanup function.
func (f *Factory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	switch cfg.Type {
	case SQLiteBackend:
		repo, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Repository: repo, Cleanup: repo.Close}, nil

	case MongoBackend:
		repo, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("initialize MongoDB repository: %w", err)
		}
		f.logger.Info("Initialized MongoDB backend", "database", cfg.MongoDatabase)
		return &Result{Repository: repo, Cleanup: repo.Close}, nil

	case MemoryBackend:
		dataDir := cfg.DataDirectory
		if dataDir == "" {
			dataDir = "data"
		}
		repo := memory.NewFromFiles(dataDir)
		f.logger.Info("Initialized in-memory backend", "data_dir", dataDir)
		return &Result{Repository: repo}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
