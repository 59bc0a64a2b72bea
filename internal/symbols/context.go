package symbols

import (
	"github.com/funvibe/sumlang/internal/ast"
	"github.com/funvibe/sumlang/internal/typesystem"
)

// Modifier gates whether SetSymbol may rebind names owned by a context.
type Modifier int

const (
	Mutable Modifier = iota
	ReadOnly
)

func (m Modifier) String() string {
	if m == ReadOnly {
		return "READONLY"
	}
	return "MUTABLE"
}

type Depth int

const (
	Shallow Depth = iota
	Deep
)

type InsertResult int

const (
	InsertSuccess InsertResult = iota
	SymbolExists
)

type SetResult int

const (
	SetSuccess SetResult = iota
	UndefinedSymbol
	IncompatibleType
	MutationDisallowed
)

func (r SetResult) String() string {
	switch r {
	case SetSuccess:
		return "SUCCESS"
	case UndefinedSymbol:
		return "UNDEFINED_SYMBOL"
	case IncompatibleType:
		return "INCOMPATIBLE_TYPE"
	case MutationDisallowed:
		return "MUTATION_DISALLOWED"
	}
	return "UNKNOWN"
}

// parentList is a persistent list of lookup parents. Contexts share tails
// freely; nothing here keeps a parent alive beyond the caller's own handle.
type parentList struct {
	ctx  *SymbolContext
	next *parentList
}

func makeParents(parents []*SymbolContext) *parentList {
	var list *parentList
	for i := len(parents) - 1; i >= 0; i-- {
		if parents[i] != nil {
			list = &parentList{ctx: parents[i], next: list}
		}
	}
	return list
}

// SymbolContext is a scope of name -> Symbol bindings. Lookups that miss
// locally consult the parents in order, each with its own parents.
type SymbolContext struct {
	modifier Modifier
	table    map[string]*typesystem.Symbol
	order    []string
	parents  *parentList
}

func New(modifier Modifier, parents ...*SymbolContext) *SymbolContext {
	return &SymbolContext{
		modifier: modifier,
		table:    make(map[string]*typesystem.Symbol),
		parents:  makeParents(parents),
	}
}

func (c *SymbolContext) Modifier() Modifier {
	return c.modifier
}

// SetModifier is used to freeze a context once it has been fully populated.
func (c *SymbolContext) SetModifier(m Modifier) {
	c.modifier = m
}

// Parents lists the lookup parents in search order.
func (c *SymbolContext) Parents() []*SymbolContext {
	var out []*SymbolContext
	for p := c.parents; p != nil; p = p.next {
		out = append(out, p.ctx)
	}
	return out
}

// Copy returns a context holding the same local bindings under new parents.
// Later changes to either context are not visible in the other.
func (c *SymbolContext) Copy(parents ...*SymbolContext) *SymbolContext {
	out := &SymbolContext{
		modifier: c.modifier,
		table:    make(map[string]*typesystem.Symbol, len(c.table)),
		order:    make([]string, len(c.order)),
		parents:  makeParents(parents),
	}
	for name, sym := range c.table {
		out.table[name] = sym
	}
	copy(out.order, c.order)
	return out
}

// GetSymbol never fails: a miss yields typesystem.DefaultSymbol.
func (c *SymbolContext) GetSymbol(name string, depth Depth) *typesystem.Symbol {
	if sym, _ := c.lookup(name, depth); sym != nil {
		return sym
	}
	return typesystem.DefaultSymbol
}

// Owner returns the context that binds name, or nil.
func (c *SymbolContext) Owner(name string) *SymbolContext {
	_, owner := c.lookup(name, Deep)
	return owner
}

func (c *SymbolContext) lookup(name string, depth Depth) (*typesystem.Symbol, *SymbolContext) {
	if sym, ok := c.table[name]; ok {
		return sym, c
	}
	if depth == Shallow {
		return nil, nil
	}
	for p := c.parents; p != nil; p = p.next {
		if sym, owner := p.ctx.lookup(name, Deep); sym != nil {
			return sym, owner
		}
	}
	return nil, nil
}

// InsertSymbol binds a new local name. Rebinding goes through SetSymbol.
func (c *SymbolContext) InsertSymbol(name string, sym *typesystem.Symbol) InsertResult {
	if _, ok := c.table[name]; ok {
		return SymbolExists
	}
	c.table[name] = sym
	c.order = append(c.order, name)
	return InsertSuccess
}

// Bind replaces a local binding without any checks. Declarations use it to
// store the value computed at run time over the one bound during analysis.
func (c *SymbolContext) Bind(name string, sym *typesystem.Symbol) {
	if _, ok := c.table[name]; !ok {
		c.order = append(c.order, name)
	}
	c.table[name] = sym
}

// SetSymbol rebinds an existing name, widening value from spec to the
// declared type of the symbol.
func (c *SymbolContext) SetSymbol(name string, spec ast.TypeSpecifier, value typesystem.Value, types *typesystem.TypeTable) SetResult {
	existing, owner := c.lookup(name, Deep)
	if existing == nil {
		return UndefinedSymbol
	}
	if owner.modifier == ReadOnly {
		return MutationDisallowed
	}
	converted, ok := typesystem.Convert(value, spec, existing.Spec, types)
	if !ok {
		return IncompatibleType
	}
	owner.table[name] = existing.WithValue(converted)
	return SetSuccess
}

// Names lists local names in binding order.
func (c *SymbolContext) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
