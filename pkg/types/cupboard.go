package types

import "errors"

// Cupboard defines the interface for backend-agnostic storage access.
// The reference server attaches to a backend, serves its tables over HTTP,
// and detaches on shutdown.
type Cupboard interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Cupboard to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations on tables return ErrCupboardDetached.
	Detach() error
}

// Standard table names for Cupboard.GetTable.
const (
	TableProducts = "products"
)

// Cupboard lifecycle errors.
var (
	ErrCupboardDetached = errors.New("cupboard is detached")
	ErrAlreadyAttached  = errors.New("cupboard is already attached")
	ErrTableNotFound    = errors.New("table not found")
)
