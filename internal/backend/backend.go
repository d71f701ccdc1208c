// Package backend selects the ledger's persistence layer from
// configuration: the SQLite repository for real runs, the in-memory store
// for tests and ephemeral setups.
package backend

import (
	"fmt"

	"grana/internal/config"
	"grana/internal/memstore"
	"grana/internal/services"
	"grana/internal/storage"
)

// Type names a persistence backend.
type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLite, Memory:
		return true
	default:
		return false
	}
}

// Open builds the repository named by cfg.DataBackend. The caller owns the
// returned repository and must Close it.
func Open(cfg *config.Config) (services.Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	switch Type(cfg.DataBackend) {
	case SQLite:
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return repo, nil
	case Memory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
