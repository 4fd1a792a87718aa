// Package registry implements the artifact type registry (spec §4.2): a
// replaceable mapping from two-letter prefixes to type definitions.
// Callers may register additional types, but the ten built-in prefixes
// cannot be overridden. Grounded on BeadsLog's types.IssueType pattern
// (a closed, validated enum with an IsValid method) generalized into a
// small registry object that stores can take a reference to, matching
// Design Note (vi): "pass it explicitly into the stores; default to a
// process-wide instance when not provided."
package registry

import (
	"sync"

	"github.com/oaps-dev/oaps/internal/oapserrors"
)

// Category is whether a type's content lives in the Markdown body
// (text) or a separate content file plus sidecar (binary).
type Category string

const (
	Text   Category = "text"
	Binary Category = "binary"
)

// FieldType is the semantic type of a registry-defined type field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldBool   FieldType = "bool"
	FieldEnum   FieldType = "enum"
	FieldList   FieldType = "list"
)

// TypeField describes one required or optional field a registered type
// contributes beyond the standard Artifact fields.
type TypeField struct {
	Name          string
	Type          FieldType
	Required      bool
	AllowedValues []string // only meaningful when Type == FieldEnum
}

// TypeDefinition is everything the registry knows about one artifact
// type: its category, allowed subtypes, type-specific fields, allowed
// formats (binary types), and a default scaffolding template name (text
// types).
type TypeDefinition struct {
	Prefix          string
	Name            string
	Category        Category
	Subtypes        []string
	Fields          []TypeField
	Formats         []string // binary only, e.g. {"png", "jpg", "webp"}
	DefaultTemplate string   // text only
}

// Registry is a prefix/name indexed lookup table of TypeDefinitions.
type Registry struct {
	mu       sync.RWMutex
	byPrefix map[string]TypeDefinition
	byName   map[string]TypeDefinition
	reserved map[string]bool
}

// New creates an empty registry with no reserved prefixes locked.
func New() *Registry {
	return &Registry{
		byPrefix: make(map[string]TypeDefinition),
		byName:   make(map[string]TypeDefinition),
		reserved: make(map[string]bool),
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry, seeded with the built-in
// types on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New()
		for _, def := range builtinTypes {
			defaultReg.mustRegister(def, true)
		}
	})
	return defaultReg
}

func (r *Registry) mustRegister(def TypeDefinition, reserve bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPrefix[def.Prefix] = def
	r.byName[def.Name] = def
	if reserve {
		r.reserved[def.Prefix] = true
	}
}

// Register adds or replaces a type definition. It refuses to overwrite a
// reserved (built-in) prefix.
func (r *Registry) Register(def TypeDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reserved[def.Prefix] {
		return &oapserrors.ValidationError{
			Field:  "prefix",
			Reason: "prefix " + def.Prefix + " is reserved and cannot be overridden",
		}
	}
	r.byPrefix[def.Prefix] = def
	r.byName[def.Name] = def
	return nil
}

// ByPrefix looks up a type definition by its two-letter prefix.
func (r *Registry) ByPrefix(prefix string) (TypeDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byPrefix[prefix]
	if !ok {
		return TypeDefinition{}, &oapserrors.TypeNotRegisteredError{Prefix: prefix}
	}
	return def, nil
}

// ByName looks up a type definition by its registry name.
func (r *Registry) ByName(name string) (TypeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byName[name]
	return def, ok
}

// All returns every registered type definition, built-in and custom.
func (r *Registry) All() []TypeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TypeDefinition, 0, len(r.byPrefix))
	for _, def := range r.byPrefix {
		out = append(out, def)
	}
	return out
}
