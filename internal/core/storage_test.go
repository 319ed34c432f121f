package core

import (
	"path/filepath"
	"testing"
)

func TestOpenRunStoreMemory(t *testing.T) {
	t.Setenv("LINEAGECORE_STORAGE_DRIVER", "memory")
	store, err := OpenRunStore()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store == nil {
		t.Fatal("nil store")
	}
}

func TestOpenRunStoreSQLitePath(t *testing.T) {
	t.Setenv("LINEAGECORE_STORAGE_DRIVER", "sqlite")
	t.Setenv("LINEAGECORE_SQLITE_PATH", filepath.Join(t.TempDir(), "runs.db"))
	store, err := OpenRunStore()
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if store == nil {
		t.Fatal("nil store")
	}
}

func TestOpenRunStoreUnknownDriver(t *testing.T) {
	t.Setenv("LINEAGECORE_STORAGE_DRIVER", "csv")
	if _, err := OpenRunStore(); err == nil {
		t.Fatal("unknown driver accepted")
	}
}
