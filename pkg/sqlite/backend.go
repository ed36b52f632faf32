// Package sqlite exposes the SQLite product store behind the storefront
// server while keeping its implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/storefront/internal/sqlite"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// NewBackend creates a detached SQLite Cupboard.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".storefront-db",
//	})
//	defer backend.Detach()
func NewBackend() types.Cupboard {
	return sqlite.NewBackend()
}

// Open creates a backend and attaches it to dataDir. The caller must Detach.
func Open(dataDir string) (types.Cupboard, error) {
	backend := sqlite.NewBackend()
	if err := backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		return nil, err
	}
	return backend, nil
}
