package markup

import (
	"github.com/vango-dev/markup/pkg/schema"
)

// Attrs is an attribute map passed to New.
type Attrs map[string]any

// Node is one element of a markup tree. A Node is owned by a single writer;
// it is not safe for concurrent mutation.
type Node struct {
	typ      *Type
	decl     *schema.Declaration
	attrs    map[string]any
	children []any
	context  map[string]any
}

// New creates a node of the named type. Children are appended first, then
// attributes are written in sorted name order. Attribute writes are not
// transactional: if one fails, the error is returned and no node is.
func New(typeName string, attrs Attrs, children ...any) (*Node, error) {
	typ, decl, err := Lookup(typeName)
	if err != nil {
		return nil, err
	}
	n := &Node{typ: typ, decl: decl}
	if len(children) > 0 {
		n.children = flatten(nil, children)
	}
	if err := n.SetAttributes(attrs); err != nil {
		return nil, err
	}
	return n, nil
}

// MustNew is like New but panics on error.
func MustNew(typeName string, attrs Attrs, children ...any) *Node {
	n, err := New(typeName, attrs, children...)
	if err != nil {
		panic(err)
	}
	return n
}

// TypeName returns the node's type name.
func (n *Node) TypeName() string {
	return n.typ.Name
}

// Type returns the node's registered type.
func (n *Node) Type() *Type {
	return n.typ
}

// Declaration returns the node type's resolved schema.
func (n *Node) Declaration() *schema.Declaration {
	return n.decl
}

// IsComposite reports whether the node expands rather than serializes.
func (n *Node) IsComposite() bool {
	return n.typ.IsComposite()
}

// CategoryOf reports whether the node's type declares category c. Both the
// raw name and its normalized form are tried.
func (n *Node) CategoryOf(c string) bool {
	return n.decl.CategoryOf(c)
}
