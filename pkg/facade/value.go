// Package facade binds CRUD results to observable state. A facade owns a
// single Value and mutates it only through Compute; consumers read it and
// subscribe to changes.
package facade

import "sync"

// Readable is the consumer view of a Value.
type Readable[S any] interface {
	// Get returns the current state.
	Get() S

	// Subscribe registers fn to be called with the new state after every
	// write. The returned func removes the subscription.
	Subscribe(fn func(S)) (unsubscribe func())
}

// Value is an observable state container. Writes are serialised; subscribers
// run synchronously on the writing goroutine, in subscription order, after
// the lock is released.
type Value[S any] struct {
	mu     sync.RWMutex
	state  S
	subs   []subscriber[S]
	nextID int
}

type subscriber[S any] struct {
	id int
	fn func(S)
}

// NewValue creates a Value holding initial.
func NewValue[S any](initial S) *Value[S] {
	return &Value[S]{state: initial}
}

// Get returns the current state.
func (v *Value[S]) Get() S {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Set replaces the state and notifies subscribers.
func (v *Value[S]) Set(state S) {
	v.Update(func(S) S { return state })
}

// Update applies fn to the current state under the write lock and notifies
// subscribers with the result.
func (v *Value[S]) Update(fn func(S) S) {
	v.mu.Lock()
	v.state = fn(v.state)
	state := v.state
	subs := make([]subscriber[S], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(state)
	}
}

// Subscribe registers fn for change notifications.
func (v *Value[S]) Subscribe(fn func(S)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.subs = append(v.subs, subscriber[S]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			for i, s := range v.subs {
				if s.id == id {
					v.subs = append(v.subs[:i], v.subs[i+1:]...)
					return
				}
			}
		})
	}
}
