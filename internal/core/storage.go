package core

import (
	"fmt"
	"os"

	"lineagecore/internal/infra/persistence/memory"
	"lineagecore/internal/infra/persistence/postgres"
	"lineagecore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenRunStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	LINEAGECORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	LINEAGECORE_SQLITE_PATH: path to sqlite file (default ./lineagecore.db)
//	LINEAGECORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenRunStore() (RunStore, error) {
	driver := os.Getenv("LINEAGECORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("LINEAGECORE_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("LINEAGECORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
