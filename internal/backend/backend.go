// Package backend turns configuration into a concrete store.Repository.
// Three backends exist: an in-memory store seeded from JSON files, SQLite,
// and MongoDB.
package backend

import (
	"fmt"

	"rentalflow/internal/config"
	"rentalflow/internal/store"
)

// BackendType names a storage backend.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
	MongoBackend  BackendType = "mongo"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	return bt == MemoryBackend || bt == SQLiteBackend || bt == MongoBackend
}

// Config is the backend-relevant slice of the application config.
type Config struct {
	Type BackendType

	SQLiteDBPath string

	MongoURI      string
	MongoDatabase string

	// Seed directory for the memory backend; defaults to "data".
	DataDirectory string
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result pairs a repository with its cleanup. Cleanup is nil for backends
// with nothing to release.
type Result struct {
	Repository store.Repository
	Cleanup    CleanupFunc
}

// FromAppConfig extracts the backend Config from the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	bt := BackendType(appConfig.DataBackend)
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:          bt,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		MongoURI:      appConfig.MongoURI,
		MongoDatabase: appConfig.MongoDatabase,
		DataDirectory: appConfig.DataDirectory,
	}, nil
}

// Validate checks that the fields the selected backend needs are set.
func (c Config) Validate() error {
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MongoBackend:
		if c.MongoURI == "" {
			return fmt.Errorf("MongoDB URI is required for mongo backend")
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MongoDB database name is required for mongo backend")
		}
	case MemoryBackend:
		// Seed files are optional; an empty DataDirectory means "data".
	default:
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	return nil
}
