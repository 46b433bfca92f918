package protocol

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/benjamin-larsen/barewire/schema"
)

// Handler processes a decoded message body for one registered schema.
type Handler func(msg any) error

// Descriptor is one schema registered against a Registry: its validated
// schema, derived identifier, and the handler invoked when a frame
// carrying that identifier arrives.
type Descriptor struct {
	ID      uuid.UUID
	Schema  *schema.Schema[schema.Validated]
	Handler Handler
}

// Registry dispatches inbound frames to the handler registered for the
// frame's schema identifier, supporting multiple concurrently registered
// schemas on one connection (one for requests, one for notifications, one
// per RPC method — whatever the caller's protocol needs).
type Registry struct {
	mu          sync.RWMutex
	descriptors map[uuid.UUID]Descriptor
}

// ErrAlreadyRegistered is returned when a schema with an identical
// canonical rendering (and therefore identical SchemaID) is registered
// twice.
var ErrAlreadyRegistered = fmt.Errorf("protocol: schema already registered")

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: map[uuid.UUID]Descriptor{}}
}

// Register derives s's schema identifier and associates handler with it.
func (r *Registry) Register(s *schema.Schema[schema.Validated], handler Handler) (uuid.UUID, error) {
	id := SchemaID(s)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[id]; exists {
		return uuid.Nil, ErrAlreadyRegistered
	}
	r.descriptors[id] = Descriptor{ID: id, Schema: s, Handler: handler}
	return id, nil
}

// Lookup returns the descriptor registered for id, if any.
func (r *Registry) Lookup(id uuid.UUID) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[id]
	return d, ok
}

// Dispatch decodes payload against the schema registered for schemaID and
// invokes its handler. It returns TypeMismatchError if no schema is
// registered under that identifier.
func (r *Registry) Dispatch(schemaID uuid.UUID, decode func(s *schema.Schema[schema.Validated]) (any, error)) error {
	d, ok := r.Lookup(schemaID)
	if !ok {
		return &TypeMismatchError{Msg: fmt.Sprintf("no schema registered for id %s", schemaID)}
	}
	msg, err := decode(d.Schema)
	if err != nil {
		return err
	}
	if d.Handler == nil {
		return nil
	}
	return d.Handler(msg)
}
