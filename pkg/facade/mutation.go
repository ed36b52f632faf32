package facade

import "strings"

// Mutation is a tagged request to change facade state.
type Mutation struct {
	Type    string
	Payload any
}

// Change is the payload of an update mutation: the entity to target and
// the fields to send (a struct or a map).
type Change[E any] struct {
	Target  E
	Changes any
}

// MutationTypes names the mutation tags a Collection recognises.
type MutationTypes struct {
	Load   string // Payload: none. Replaces the collection.
	Fetch  string // Payload: the entity ID. Upserts one entity.
	Add    string // Payload: E. Appends the created entity.
	Update string // Payload: Change[E]. Replaces the entity by ID.
	Remove string // Payload: E. Drops the entity by ID.
}

// MutationTypesFor derives tags from an upper-case noun, e.g. "PRODUCT"
// yields LOAD_PRODUCTS, FETCH_PRODUCT, ADD_PRODUCT, UPDATE_PRODUCT and
// REMOVE_PRODUCT.
func MutationTypesFor(noun string) MutationTypes {
	noun = strings.ToUpper(noun)
	return MutationTypes{
		Load:   "LOAD_" + noun + "S",
		Fetch:  "FETCH_" + noun,
		Add:    "ADD_" + noun,
		Update: "UPDATE_" + noun,
		Remove: "REMOVE_" + noun,
	}
}
