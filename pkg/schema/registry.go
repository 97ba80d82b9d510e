package schema

import (
	"sort"
	"sync"

	"github.com/vango-dev/markup/internal/errors"
)

// Registry maps node type names to their definitions and caches the resolved
// declarations.
//
// Declarations are pure functions of their definitions, so resolution is
// compute-then-publish: concurrent first lookups may each build a
// declaration, and the first one stored wins.
type Registry struct {
	defs  sync.Map // string -> Definition
	decls sync.Map // string -> *Declaration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default is the process-wide registry used by the markup runtime.
var Default = NewRegistry()

// Define adds a definition. Defining the same name twice is an error.
func (r *Registry) Define(def Definition) error {
	if def.Name == "" {
		return errors.New("E091").WithDetail("definition has no name")
	}
	if _, loaded := r.defs.LoadOrStore(def.Name, def); loaded {
		return errors.New("E091").ForNode(def.Name).WithDetail("type is already defined")
	}
	return nil
}

// MustDefine is like Define but panics on error. It is meant for package
// initialization of tag catalogs.
func (r *Registry) MustDefine(def Definition) {
	if err := r.Define(def); err != nil {
		panic(err)
	}
}

// Has reports whether name has been defined.
func (r *Registry) Has(name string) bool {
	_, ok := r.defs.Load(name)
	return ok
}

// Lookup returns the declaration for name, resolving and caching it on first
// use. It fails with E090 for unknown names.
func (r *Registry) Lookup(name string) (*Declaration, error) {
	return r.lookup(name, nil)
}

func (r *Registry) lookup(name string, visiting []string) (*Declaration, error) {
	if d, ok := r.decls.Load(name); ok {
		return d.(*Declaration), nil
	}
	v, ok := r.defs.Load(name)
	if !ok {
		return nil, errors.New("E090").ForNode(name)
	}
	def := v.(Definition)

	for _, seen := range visiting {
		if seen == name {
			return nil, errors.New("E091").ForNode(name).
				WithDetailf("attribute inheritance cycle through %v", append(visiting, name))
		}
	}
	visiting = append(visiting, name)

	parents := make([]*Declaration, 0, len(def.Inherit))
	for _, p := range def.Inherit {
		pd, err := r.lookup(p, visiting)
		if err != nil {
			return nil, err
		}
		parents = append(parents, pd)
	}

	d, err := build(def, parents)
	if err != nil {
		return nil, err
	}
	actual, _ := r.decls.LoadOrStore(name, d)
	return actual.(*Declaration), nil
}

// Names returns every defined type name in sorted order.
func (r *Registry) Names() []string {
	var names []string
	r.defs.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// Define adds a definition to the Default registry.
func Define(def Definition) error { return Default.Define(def) }

// MustDefine adds a definition to the Default registry, panicking on error.
func MustDefine(def Definition) { Default.MustDefine(def) }

// Lookup resolves a declaration from the Default registry.
func Lookup(name string) (*Declaration, error) { return Default.Lookup(name) }
