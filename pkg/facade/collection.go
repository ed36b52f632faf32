package facade

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Collection is a facade over a list of entities backed by a CRUD consumer.
// Compute is the only writer of its Value. Concurrent Compute calls are not
// coordinated: each applies its result when its round trip completes, so the
// last write wins.
type Collection[E types.Entity[ID], ID comparable] struct {
	service   types.CrudConsumer[E, ID]
	data      *Value[[]E]
	mutations MutationTypes
	logger    *zap.Logger
}

// NewCollection creates a Collection starting from an empty list.
// A nil logger discards warnings.
func NewCollection[E types.Entity[ID], ID comparable](
	service types.CrudConsumer[E, ID],
	mutations MutationTypes,
	logger *zap.Logger,
) *Collection[E, ID] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[E, ID]{
		service:   service,
		data:      NewValue([]E{}),
		mutations: mutations,
		logger:    logger.Named("facade"),
	}
}

// Data returns the read-only view of the held list.
func (c *Collection[E, ID]) Data() Readable[[]E] {
	return c.data
}

// MutationTypes returns the tags this collection dispatches on.
func (c *Collection[E, ID]) MutationTypes() MutationTypes {
	return c.mutations
}

// Compute dispatches m to the matching CRUD operation and, when the envelope
// reports success, applies the result to the held list. It returns the
// envelope header. Unknown mutation types and payloads of the wrong type are
// logged as warnings, leave the list unchanged, and return the zero Notice.
func (c *Collection[E, ID]) Compute(ctx context.Context, m Mutation) types.Notice {
	switch m.Type {
	case c.mutations.Load:
		resp := c.service.ReadAll(ctx)
		if resp.OK() {
			items := make([]E, len(resp.Payload))
			copy(items, resp.Payload)
			c.data.Set(items)
		}
		return resp.Notice()

	case c.mutations.Fetch:
		id, ok := m.Payload.(ID)
		if !ok {
			return c.badPayload(m)
		}
		resp := c.service.ReadOne(ctx, id)
		if resp.OK() && resp.Payload != nil {
			c.data.Update(upsert[E, ID](*resp.Payload))
		}
		return resp.Notice()

	case c.mutations.Add:
		entity, ok := asEntity[E](m.Payload)
		if !ok {
			return c.badPayload(m)
		}
		resp := c.service.Create(ctx, entity)
		if resp.OK() && resp.Payload != nil {
			created := *resp.Payload
			c.data.Update(func(items []E) []E {
				next := make([]E, 0, len(items)+1)
				next = append(next, items...)
				return append(next, created)
			})
		}
		return resp.Notice()

	case c.mutations.Update:
		change, ok := asChange[E](m.Payload)
		if !ok {
			return c.badPayload(m)
		}
		resp := c.service.Update(ctx, change.Target, change.Changes)
		if resp.OK() && resp.Payload != nil {
			c.data.Update(replace[E, ID](change.Target.EntityID(), *resp.Payload))
		}
		return resp.Notice()

	case c.mutations.Remove:
		entity, ok := asEntity[E](m.Payload)
		if !ok {
			return c.badPayload(m)
		}
		resp := c.service.Delete(ctx, entity)
		if resp.OK() {
			c.data.Update(without[E, ID](entity.EntityID()))
		}
		return resp.Notice()

	default:
		c.logger.Warn("unknown mutation type", zap.String("type", m.Type))
		return types.Notice{}
	}
}

func (c *Collection[E, ID]) badPayload(m Mutation) types.Notice {
	c.logger.Warn("unexpected mutation payload",
		zap.String("type", m.Type),
		zap.String("payload", fmt.Sprintf("%T", m.Payload)))
	return types.Notice{}
}

func asEntity[E any](payload any) (E, bool) {
	switch v := payload.(type) {
	case E:
		return v, true
	case *E:
		if v != nil {
			return *v, true
		}
	}
	var zero E
	return zero, false
}

func asChange[E any](payload any) (Change[E], bool) {
	switch v := payload.(type) {
	case Change[E]:
		return v, true
	case *Change[E]:
		if v != nil {
			return *v, true
		}
	}
	return Change[E]{}, false
}

// upsert replaces the entity with the same ID or appends it.
func upsert[E types.Entity[ID], ID comparable](entity E) func([]E) []E {
	return func(items []E) []E {
		next := make([]E, 0, len(items)+1)
		found := false
		for _, it := range items {
			if it.EntityID() == entity.EntityID() {
				next = append(next, entity)
				found = true
				continue
			}
			next = append(next, it)
		}
		if !found {
			next = append(next, entity)
		}
		return next
	}
}

// replace swaps the entity whose ID is id for entity. Absent ids are ignored.
func replace[E types.Entity[ID], ID comparable](id ID, entity E) func([]E) []E {
	return func(items []E) []E {
		next := make([]E, len(items))
		for i, it := range items {
			if it.EntityID() == id {
				next[i] = entity
				continue
			}
			next[i] = it
		}
		return next
	}
}

// without filters out every entity whose ID is id.
func without[E types.Entity[ID], ID comparable](id ID) func([]E) []E {
	return func(items []E) []E {
		next := make([]E, 0, len(items))
		for _, it := range items {
			if it.EntityID() != id {
				next = append(next, it)
			}
		}
		return next
	}
}
