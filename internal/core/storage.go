package core

import (
	"fmt"
	"os"

	"chemcore/internal/infra/persistence/memory"
	"chemcore/internal/infra/persistence/postgres"
	"chemcore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete snapshot store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // process-local, lost on exit
	StorageSQLite   StorageDriver = "sqlite"   // single-file embedded database
	StoragePostgres StorageDriver = "postgres" // shared server for multi-process setups
)

// OpenSnapshotStore selects a backend from CHEMCORE_STORAGE_DRIVER and opens
// it. Unset defaults to sqlite.
//
//	CHEMCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	CHEMCORE_SQLITE_PATH: sqlite file location (default ./chemcore.db)
//	CHEMCORE_POSTGRES_DSN: server DSN when driver=postgres
func OpenSnapshotStore() (SnapshotStore, error) {
	driver := StorageDriver(envOr("CHEMCORE_STORAGE_DRIVER", string(StorageSQLite)))
	switch driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("CHEMCORE_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("CHEMCORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
