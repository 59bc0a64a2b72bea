package typesystem

import (
	"fmt"
)

// TableDepth selects whether lookups chase parent scopes.
type TableDepth int

const (
	Shallow TableDepth = iota
	Deep
)

// AliasResolution selects whether lookups see through aliases.
type AliasResolution int

const (
	// Resolve substitutes aliases with the type they name.
	Resolve AliasResolution = iota
	// Return yields the alias itself, keeping the declared name.
	Return
)

// TypeTable is a scoped name -> definition map. Parents are consulted on
// deep lookups only and are never modified through a child.
type TypeTable struct {
	parent *TypeTable
	types  map[string]TypeDefinition
	order  []string
}

func NewTypeTable(parent *TypeTable) *TypeTable {
	return &TypeTable{parent: parent, types: make(map[string]TypeDefinition)}
}

func (t *TypeTable) Parent() *TypeTable {
	return t.parent
}

// AddType inserts a new name or replaces a placeholder for the same name.
// Any other collision is a bug in the caller, which must check for previous
// declarations first.
func (t *TypeTable) AddType(name string, def TypeDefinition) {
	if existing, ok := t.types[name]; ok {
		if _, isPlaceholder := existing.(*PlaceholderType); !isPlaceholder {
			panic(fmt.Sprintf("typesystem: type %q added twice", name))
		}
		t.types[name] = def
		return
	}
	t.types[name] = def
	t.order = append(t.order, name)
}

// RemovePlaceholder drops a placeholder left behind by a failed declaration.
func (t *TypeTable) RemovePlaceholder(name string) {
	if _, ok := t.types[name].(*PlaceholderType); !ok {
		return
	}
	delete(t.types, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *TypeTable) ContainsLocal(name string) bool {
	_, ok := t.types[name]
	return ok
}

// Lookup finds name, returning nil when it is not declared.
func (t *TypeTable) Lookup(name string, depth TableDepth, policy AliasResolution) TypeDefinition {
	for cur := t; cur != nil; cur = cur.parent {
		if def, ok := cur.types[name]; ok {
			if policy == Resolve {
				return resolveAlias(def)
			}
			return def
		}
		if depth == Shallow {
			break
		}
	}
	return nil
}

// Names lists local names in declaration order.
func (t *TypeTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// GetTypeAs looks up name and asserts the definition kind.
func GetTypeAs[T TypeDefinition](t *TypeTable, name string, depth TableDepth, policy AliasResolution) (T, bool) {
	def, ok := t.Lookup(name, depth, policy).(T)
	return def, ok
}

func resolveAlias(def TypeDefinition) TypeDefinition {
	for {
		alias, ok := def.(*AliasType)
		if !ok || alias.Origin == nil {
			return def
		}
		def = alias.Origin
	}
}
