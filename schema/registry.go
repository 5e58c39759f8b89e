package schema

import (
	"reflect"
	"slices"
	"sync"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/schema/field"
)

// Registry holds one schema per record type. Schemas are registered once
// during setup and looked up by generators and clients afterwards.
// Re-registering a record replaces its schema.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Default is the package-level registry used by MustRegister.
var Default = NewRegistry()

// Register builds the schema of the record type name and stores it.
// On error nothing is stored and any previous schema of the record is kept.
func (r *Registry) Register(name, table string, fields ...*field.Descriptor) (*Schema, error) {
	s, err := New(name, table, fields...)
	if err != nil {
		return nil, err
	}
	r.Put(s)
	return s, nil
}

// Put stores an already-built schema under its record name.
func (r *Registry) Put(s *Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.name] = s
}

// Replace makes schemas the only contents of the registry.
func (r *Registry) Replace(schemas ...*Schema) {
	m := make(map[string]*Schema, len(schemas))
	for _, s := range schemas {
		m[s.name] = s
	}
	r.mu.Lock()
	r.schemas = m
	r.mu.Unlock()
}

// Lookup returns the schema of the record type name.
func (r *Registry) Lookup(name string) (*Schema, error) {
	r.mu.RLock()
	s, ok := r.schemas[name]
	r.mu.RUnlock()
	if !ok {
		return nil, sqlderive.NewSchemaError(name, "", "record type not registered", nil)
	}
	return s, nil
}

// Names returns the registered record names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}

// MustRegister registers a schema in the Default registry and panics on error.
func MustRegister(name, table string, fields ...*field.Descriptor) *Schema {
	s, err := Default.Register(name, table, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// TypeName returns the registry key of the Go type T: its package path
// and name, e.g. "example.com/app.User".
func TypeName[T any]() string {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.PkgPath() == "" {
		return rt.String()
	}
	return rt.PkgPath() + "." + rt.Name()
}

// RegisterType registers the schema of the Go record type T. An empty table
// defaults to the Go type name, as in "User".
func RegisterType[T any](r *Registry, table string, fields ...*field.Descriptor) (*Schema, error) {
	if table == "" {
		rt := reflect.TypeFor[T]()
		for rt.Kind() == reflect.Pointer {
			rt = rt.Elem()
		}
		table = rt.Name()
	}
	return r.Register(TypeName[T](), table, fields...)
}

// LookupType returns the schema registered for the Go record type T.
func LookupType[T any](r *Registry) (*Schema, error) {
	return r.Lookup(TypeName[T]())
}
