package types

import "context"

// Entity is any record type carrying a unique identifier. The CRUD layer
// treats the rest of the record as opaque.
type Entity[ID comparable] interface {
	EntityID() ID
}

// CrudConsumer is the contract every CRUD service fulfils. Each method
// performs a single round trip and always returns an envelope; failures are
// reported through Status, never through a Go error or a panic.
//
// Reads are split into ReadAll and ReadOne so that every ID value,
// including 0 and "", is a valid ReadOne target.
type CrudConsumer[E Entity[ID], ID comparable] interface {
	// Create sends data without its identifier and returns the created entity.
	Create(ctx context.Context, data E) Response[*E]

	// ReadAll returns every entity at the endpoint.
	ReadAll(ctx context.Context) Response[[]E]

	// ReadOne returns the entity with the given id.
	ReadOne(ctx context.Context, id ID) Response[*E]

	// Update sends changes (a struct or map, identifier excluded) for
	// target.EntityID() and returns the updated entity.
	Update(ctx context.Context, target E, changes any) Response[*E]

	// Delete removes target.EntityID() and returns the deleted entity.
	Delete(ctx context.Context, target E) Response[*E]
}
