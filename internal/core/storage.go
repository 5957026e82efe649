package core

import (
	"context"
	"fmt"

	"holma/internal/blob"
	"holma/internal/infra/persistence/blobsnap"
	"holma/internal/infra/persistence/memory"
	"holma/internal/infra/persistence/postgres"
	"holma/internal/infra/persistence/sqlite"
	"holma/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageBlob     StorageDriver = "blob"     // JSON snapshot in a blob store
)

type (
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
)

// StorageConfig selects and parameterizes the persistent store.
type StorageConfig struct {
	// Driver defaults to sqlite when empty.
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
	Blob        blob.Config
	// BlobKey is the object key of the snapshot when Driver is blob.
	BlobKey string
}

// OpenPersistentStore constructs the store described by cfg using engine for
// commit-time rules.
func OpenPersistentStore(ctx context.Context, cfg StorageConfig, engine *RulesEngine) (PersistentStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		return sqlite.NewStore(cfg.SQLitePath, engine)
	case StoragePostgres:
		return postgres.NewStore(ctx, cfg.PostgresDSN, engine)
	case StorageBlob:
		blobs, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return blobsnap.NewStore(ctx, blobs, cfg.BlobKey, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
