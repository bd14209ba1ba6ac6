package cipher

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps operation names to operations. It is safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry that built-in operations
// register themselves into.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds op to the registry. Names must be unique.
func (r *Registry) Register(op Operation) error {
	if op == nil {
		return fmt.Errorf("cannot register nil operation")
	}

	name := op.Name()
	if name == "" {
		return fmt.Errorf("operation name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("operation %s is already registered", name)
	}

	r.ops[name] = op
	return nil
}

// Get looks up an operation by name.
func (r *Registry) Get(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, exists := r.ops[name]
	return op, exists
}

// List returns all operations sorted by name.
func (r *Registry) List() []Operation {
	return r.filter(func(Operation) bool { return true })
}

// ListByType returns the operations of one category sorted by name.
func (r *Registry) ListByType(opType OperationType) []Operation {
	return r.filter(func(op Operation) bool { return op.Type() == opType })
}

// Unregister removes an operation; unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ops, name)
}

// Clone returns a new registry holding the same operations. Later changes to
// either registry do not affect the other.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := NewRegistry()
	for name, op := range r.ops {
		clone.ops[name] = op
	}
	return clone
}

func (r *Registry) filter(keep func(Operation) bool) []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]Operation, 0, len(r.ops))
	for _, op := range r.ops {
		if keep(op) {
			ops = append(ops, op)
		}
	}

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name() < ops[j].Name()
	})

	return ops
}

// RegisterOperation adds an operation to the default registry
func RegisterOperation(op Operation) error {
	return defaultRegistry.Register(op)
}

// MustRegister registers ops in the default registry and panics on a
// duplicate. Intended for init functions.
func MustRegister(ops ...Operation) {
	for _, op := range ops {
		if err := defaultRegistry.Register(op); err != nil {
			panic(err)
		}
	}
}

// GetOperation retrieves an operation from the default registry
func GetOperation(name string) (Operation, bool) {
	return defaultRegistry.Get(name)
}

// ListOperations returns all operations in the default registry
func ListOperations() []Operation {
	return defaultRegistry.List()
}

// ListOperationsByType returns default-registry operations of one type
func ListOperationsByType(opType OperationType) []Operation {
	return defaultRegistry.ListByType(opType)
}
