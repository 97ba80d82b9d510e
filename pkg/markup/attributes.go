package markup

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/schema"
)

// specialPrefixes are the namespaces of free-form attributes.
var specialPrefixes = map[string]bool{
	"data": true,
	"aria": true,
}

// IsAttributeSpecial reports whether name is a free-form data- or aria-
// attribute. Special attributes need no declaration and are stored as
// strings.
func IsAttributeSpecial(name string) bool {
	return len(name) >= 6 && name[4] == '-' && specialPrefixes[name[:4]]
}

// Attribute returns the value of name. An unset attribute yields its
// declared default. It fails with ErrAttributeRequired for a required unset
// attribute and ErrAttributeNotSupported for an undeclared one. Unset
// special attributes yield nil.
func (n *Node) Attribute(name string) (any, error) {
	if v, ok := n.attrs[name]; ok {
		return v, nil
	}
	if IsAttributeSpecial(name) {
		return nil, nil
	}
	spec, ok := n.decl.Attribute(name)
	switch {
	case !ok:
		return nil, errors.New("E100").ForNode(n.TypeName()).ForAttribute(name)
	case spec.Required:
		return nil, errors.New("E101").ForNode(n.TypeName()).ForAttribute(name)
	}
	return spec.Default, nil
}

// AttributeAs returns attribute name as a T. A nil value yields the zero T.
func AttributeAs[T any](n *Node, name string) (T, error) {
	var zero T
	v, err := n.Attribute(name)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.New("E102").ForNode(n.TypeName()).ForAttribute(name).
			WithValue(v).
			WithDetailf("stored value is %T, not %T", v, zero)
	}
	return t, nil
}

// Attributes returns a copy of the explicitly set attributes. Defaults are
// not included.
func (n *Node) Attributes() map[string]any {
	return maps.Clone(n.attrs)
}

// SetAttribute validates value against the declaration and stores it.
// Special attributes are stored as strings without validation.
func (n *Node) SetAttribute(name string, value any) error {
	if IsAttributeSpecial(name) {
		n.store(name, specialString(value))
		return nil
	}
	if AttributeValidationEnabled() {
		v, err := schema.ValidateAttribute(n.decl, name, value)
		if err != nil {
			return err
		}
		value = v
	}
	n.store(name, value)
	return nil
}

// SetAttributes writes attrs in sorted name order. Writes are not
// transactional: attributes written before a failing one stay set.
func (n *Node) SetAttributes(attrs Attrs) error {
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		if err := n.SetAttribute(name, attrs[name]); err != nil {
			return err
		}
	}
	return nil
}

// IsAttributeSet reports whether name was explicitly written. Declared
// defaults do not count.
func (n *Node) IsAttributeSet(name string) bool {
	_, ok := n.attrs[name]
	return ok
}

// RemoveAttribute unsets name. Non-special names must be declared.
func (n *Node) RemoveAttribute(name string) error {
	if !IsAttributeSpecial(name) {
		if _, err := schema.ValidateAttribute(n.decl, name, nil); err != nil {
			return err
		}
	}
	delete(n.attrs, name)
	return nil
}

// ForceAttribute stores value without any validation. It is meant for
// bookkeeping by node types themselves.
func (n *Node) ForceAttribute(name string, value any) *Node {
	n.store(name, value)
	return n
}

func (n *Node) store(name string, value any) {
	if n.attrs == nil {
		n.attrs = make(map[string]any)
	}
	n.attrs[name] = value
}

func specialString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := schema.FormatScalar(v); ok {
		return s
	}
	return fmt.Sprint(v)
}
