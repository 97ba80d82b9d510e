package markup

import (
	"reflect"
	"slices"
	"strings"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/schema"
)

// UnsafeRenderable is a child that renders as trusted markup without
// escaping. The content model treats it as character data.
type UnsafeRenderable interface {
	HTML() string
}

// AlwaysValidChild marks a child that excuses a content model failure at
// its own position.
type AlwaysValidChild interface {
	AlwaysValidChild()
}

// RawHTML is markup inserted verbatim.
type RawHTML string

// HTML implements UnsafeRenderable.
func (h RawHTML) HTML() string { return string(h) }

// fragmentChildren returns the children of v if v is a fragment. It is the
// one place fragments are opened, both when children are inserted and when
// they are flushed during rendering.
func fragmentChildren(v any) ([]any, bool) {
	n, ok := v.(*Node)
	if !ok || n == nil || !n.IsFragment() {
		return nil, false
	}
	return n.children, true
}

// flatten appends v to dst, opening slices and fragments and dropping nil.
func flatten(dst []any, v any) []any {
	if frag, ok := fragmentChildren(v); ok {
		return append(dst, frag...)
	}
	switch c := v.(type) {
	case nil:
		return dst
	case *Node:
		if c == nil {
			return dst
		}
		return append(dst, c)
	case string, bool, UnsafeRenderable:
		return append(dst, c)
	case []byte:
		return append(dst, string(c))
	case []any:
		for _, x := range c {
			dst = flatten(dst, x)
		}
		return dst
	case []*Node:
		for _, x := range c {
			dst = flatten(dst, x)
		}
		return dst
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			dst = flatten(dst, rv.Index(i).Interface())
		}
		return dst
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return dst
		}
	}
	return append(dst, v)
}

// AppendChild adds v after the existing children. Slices and fragments are
// spliced in; nil is dropped.
func (n *Node) AppendChild(v any) *Node {
	n.children = flatten(n.children, v)
	return n
}

// PrependChild adds v before the existing children, keeping v's own order.
func (n *Node) PrependChild(v any) *Node {
	head := flatten(nil, v)
	n.children = append(head, n.children...)
	return n
}

// ReplaceChildren replaces every child with vs.
func (n *Node) ReplaceChildren(vs ...any) *Node {
	n.children = flatten(nil, vs)
	return n
}

// Children returns a copy of the child list.
func (n *Node) Children() []any {
	return slices.Clone(n.children)
}

// Select returns the node children matching selector. A selector starting
// with % matches by category, anything else by exact type name. The empty
// selector returns every child.
func (n *Node) Select(selector string) []any {
	if selector == "" {
		return n.Children()
	}
	var out []any
	for _, c := range n.children {
		if matchSelector(c, selector) {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child matching selector.
func (n *Node) FirstChild(selector string) (any, bool) {
	for _, c := range n.children {
		if selector == "" || matchSelector(c, selector) {
			return c, true
		}
	}
	return nil, false
}

// LastChild returns the last child matching selector.
func (n *Node) LastChild(selector string) (any, bool) {
	for i := len(n.children) - 1; i >= 0; i-- {
		if c := n.children[i]; selector == "" || matchSelector(c, selector) {
			return c, true
		}
	}
	return nil, false
}

func matchSelector(child any, selector string) bool {
	node, ok := child.(*Node)
	if !ok {
		return false
	}
	if cat, isCat := strings.CutPrefix(selector, "%"); isCat {
		return node.CategoryOf(cat)
	}
	return node.TypeName() == selector
}

// ChildrenDescription describes the child list for error messages, e.g.
// ":span[%flow,%phrase],pcdata".
func (n *Node) ChildrenDescription() string {
	parts := make([]string, len(n.children))
	for i, c := range n.children {
		node, ok := c.(*Node)
		if !ok {
			parts[i] = "pcdata"
			continue
		}
		desc := ":" + node.TypeName()
		if cats := node.decl.Categories(); len(cats) > 0 {
			desc += "[%" + strings.Join(cats, ",%") + "]"
		}
		parts[i] = desc
	}
	return strings.Join(parts, ",")
}

// ValidateChildren checks the child list against the type's content model.
func (n *Node) ValidateChildren() error {
	model := n.decl.Children()
	i, ok := model.Match(childList(n.children))
	if ok {
		return nil
	}
	return errors.New("E110").ForNode(n.TypeName()).AtIndex(i).
		WithDetailf("expected %s, got %s", model, n.ChildrenDescription())
}

// childList adapts a child slice to schema.Subject.
type childList []any

func (c childList) Len() int { return len(c) }

func (c childList) At(i int) schema.Element {
	if n, ok := c[i].(*Node); ok {
		return n
	}
	return nil
}

func (c childList) AlwaysValid(i int) bool {
	_, ok := c[i].(AlwaysValidChild)
	return ok
}
