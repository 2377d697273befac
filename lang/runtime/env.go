package runtime

import (
	"log/slog"
	"slices"

	"github.com/ardnew/tzlang/pkg"
)

// Environment is one lexical scope: a set of bindings, some of which are
// constant, and the enclosing scope. A child never outlives the need for its
// parent's bindings, so parents are plain pointers.
type Environment struct {
	parent    *Environment
	values    map[string]Value
	constants map[string]struct{}
}

// NewEnvironment returns an empty scope enclosed by parent, which may be nil.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent:    parent,
		values:    make(map[string]Value),
		constants: make(map[string]struct{}),
	}
}

// Child returns a new empty scope enclosed by e.
func (e *Environment) Child() *Environment { return NewEnvironment(e) }

// Parent returns the enclosing scope, or nil for the outermost one.
func (e *Environment) Parent() *Environment { return e.parent }

// Define binds name in this scope. Names bound in enclosing scopes may be
// shadowed, but a name cannot be bound twice in the same scope.
func (e *Environment) Define(name string, v Value) error {
	if _, ok := e.values[name]; ok {
		return pkg.ErrAlreadyDefined.With(slog.String("name", name))
	}

	e.values[name] = v

	return nil
}

// DefineConstant binds name in this scope and prevents later assignment.
func (e *Environment) DefineConstant(name string, v Value) error {
	if err := e.Define(name, v); err != nil {
		return err
	}

	e.constants[name] = struct{}{}

	return nil
}

// Assign rebinds name in the nearest scope that defines it. It fails if any
// scope from e outward marks name constant, even one shadowed by the owner.
func (e *Environment) Assign(name string, v Value) error {
	for s := e; s != nil; s = s.parent {
		if s.IsConstant(name) {
			return pkg.ErrConstantViolation.With(slog.String("name", name))
		}
	}

	owner, err := e.Resolve(name)
	if err != nil {
		return err
	}

	owner.values[name] = v

	return nil
}

// Lookup returns the value bound to name in the nearest scope that defines
// it.
func (e *Environment) Lookup(name string) (Value, error) {
	owner, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}

	return owner.values[name], nil
}

// Resolve returns the nearest scope, starting with e, that defines name.
func (e *Environment) Resolve(name string) (*Environment, error) {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.values[name]; ok {
			return s, nil
		}
	}

	return nil, pkg.ErrUndefinedVariable.With(slog.String("name", name))
}

// IsConstant reports whether name is a constant binding of this scope.
func (e *Environment) IsConstant(name string) bool {
	_, ok := e.constants[name]

	return ok
}

// Names returns every name visible from e, sorted and without duplicates.
func (e *Environment) Names() []string {
	var names []string

	for s := e; s != nil; s = s.parent {
		for name := range s.values {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}
