package markup

import (
	"sync"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/schema"
)

// ExpandFunc turns a composite node into the node it stands for. The result
// must be a *Node; any other value fails the render.
type ExpandFunc func(n *Node) (any, error)

// SerializeFunc writes a primitive node as text. Children have already been
// flushed and validated when it runs.
type SerializeFunc func(n *Node, r *Renderer) (string, error)

// Type is a node type: its schema plus exactly one of Expand (composite) or
// Serialize (primitive).
type Type struct {
	schema.Definition

	Expand    ExpandFunc
	Serialize SerializeFunc

	// AfterExpand, when set on a composite, runs after each expansion with
	// the composite and the node it expanded to.
	AfterExpand func(n, root *Node) error
}

// IsComposite reports whether the type expands instead of serializing.
func (t *Type) IsComposite() bool {
	return t.Expand != nil
}

// FragmentType is the name of the built-in fragment type.
const FragmentType = "x:frag"

// types holds behavior by type name. The schema half lives in schema.Default.
var types sync.Map // string -> *Type

// Register adds a node type. The definition goes to schema.Default and the
// behavior to the markup type table.
func Register(t Type) error {
	if (t.Expand == nil) == (t.Serialize == nil) {
		return errors.New("E091").ForNode(t.Name).
			WithDetail("a node type needs exactly one of Expand or Serialize")
	}
	if t.AfterExpand != nil && t.Expand == nil {
		return errors.New("E091").ForNode(t.Name).
			WithDetail("AfterExpand is only valid on composite types")
	}
	if err := schema.Define(t.Definition); err != nil {
		return err
	}
	types.Store(t.Name, &t)
	return nil
}

// MustRegister is like Register but panics on error. Use it from package
// init functions of tag catalogs.
func MustRegister(t Type) {
	if err := Register(t); err != nil {
		panic(err)
	}
}

// Lookup returns the registered type and its resolved declaration.
func Lookup(name string) (*Type, *schema.Declaration, error) {
	v, ok := types.Load(name)
	if !ok {
		err := errors.New("E090").ForNode(name)
		if schema.Default.Has(name) {
			err = err.WithDetail("the name is defined in the schema but has no Expand or Serialize behavior")
		}
		return nil, nil, err
	}
	decl, err := schema.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	return v.(*Type), decl, nil
}

// IsRegistered reports whether name has markup behavior.
func IsRegistered(name string) bool {
	_, ok := types.Load(name)
	return ok
}

func init() {
	MustRegister(Type{
		Definition: schema.Definition{Name: FragmentType},
		Serialize: func(n *Node, r *Renderer) (string, error) {
			return r.RenderChildren(n)
		},
	})
}

// Frag creates a fragment. Appending a fragment to a node appends its
// children instead.
func Frag(children ...any) *Node {
	n, err := New(FragmentType, nil, children...)
	if err != nil {
		// x:frag is registered in init and declares no attributes.
		panic(err)
	}
	return n
}

// IsFragment reports whether n is a fragment.
func (n *Node) IsFragment() bool {
	return n.typ.Name == FragmentType
}
