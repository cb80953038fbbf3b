package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arthur-debert/actionreg/pkg/errors"
)

// Registry is a generic, thread-safe registry for storing and retrieving items by name
type Registry[T any] interface {
	// Register adds an item to the registry
	Register(name string, item T) error

	// RegisterBatch adds all entries or none of them
	RegisterBatch(entries []Entry[T]) error

	// GetOrCreate returns the item registered under name, creating it with
	// create when absent. The bool reports whether the item was created.
	GetOrCreate(name string, create func() T) (T, bool)

	// Get retrieves an item from the registry
	Get(name string) (T, error)

	// Remove removes an item from the registry
	Remove(name string) error

	// RemoveFunc removes the item only if match accepts it
	RemoveFunc(name string, match func(T) bool) bool

	// List returns all registered names
	List() []string

	// Has checks if an item is registered
	Has(name string) bool

	// Clear removes all items from the registry
	Clear()

	// Count returns the number of registered items
	Count() int
}

// Entry is one name/item pair of a batch registration
type Entry[T any] struct {
	Name string
	Item T
}

// registry is the internal implementation of Registry
type registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// New creates a new Registry instance
func New[T any]() Registry[T] {
	return &registry[T]{
		items: make(map[string]T),
	}
}

// Register adds an item to the registry
func (r *registry[T]) Register(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return errors.Newf(errors.ErrDuplicateID, "item '%s' is already registered", name).
			WithDetail("id", name)
	}

	r.items[name] = item
	return nil
}

// RegisterBatch validates every entry before storing any of them
func (r *registry[T]) RegisterBatch(entries []Entry[T]) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
		}
		if _, dup := seen[e.Name]; dup {
			return errors.Newf(errors.ErrDuplicateID, "item '%s' appears twice in batch", e.Name).
				WithDetail("id", e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		if _, exists := r.items[e.Name]; exists {
			return errors.Newf(errors.ErrDuplicateID, "item '%s' is already registered", e.Name).
				WithDetail("id", e.Name)
		}
	}
	for _, e := range entries {
		r.items[e.Name] = e.Item
	}
	return nil
}

// GetOrCreate returns the existing item or stores the result of create
func (r *registry[T]) GetOrCreate(name string, create func() T) (T, bool) {
	r.mu.RLock()
	item, exists := r.items[name]
	r.mu.RUnlock()
	if exists {
		return item, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another writer may have won between the two locks
	if item, exists := r.items[name]; exists {
		return item, false
	}
	item = create()
	r.items[name] = item
	return item, true
}

// Get retrieves an item from the registry
func (r *registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero T
		return zero, errors.Newf(errors.ErrNotFound, "item '%s' not found in registry", name)
	}

	return item, nil
}

// Remove removes an item from the registry
func (r *registry[T]) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; !exists {
		return errors.Newf(errors.ErrNotFound, "item '%s' not found in registry", name)
	}

	delete(r.items, name)
	return nil
}

// RemoveFunc deletes name when its current item satisfies match
func (r *registry[T]) RemoveFunc(name string, match func(T) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[name]
	if !exists || !match(item) {
		return false
	}

	delete(r.items, name)
	return true
}

// List returns all registered names in sorted order
func (r *registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Has checks if an item is registered
func (r *registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[name]
	return exists
}

// Clear removes all items from the registry
func (r *registry[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]T)
}

// Count returns the number of registered items
func (r *registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// MustRegister registers an item and panics if registration fails
// This is useful for built-in tables where registration errors are programming errors
func MustRegister[T any](reg Registry[T], name string, item T) {
	if err := reg.Register(name, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}
