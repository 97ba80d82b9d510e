package schema

import (
	"slices"

	"github.com/vango-dev/markup/internal/errors"
)

// Definition is the static data a node type contributes. It is turned into
// a Declaration on first lookup.
type Definition struct {
	// Name is the node type name, e.g. "div" or "x:frag".
	Name string

	// Attributes declares the attributes the type accepts.
	Attributes []AttributeSpec

	// Inherit names definitions whose attributes this type also accepts.
	// Attributes declared directly on the type win over inherited ones.
	Inherit []string

	// Categories lists the categories the type belongs to ("flow" or "%flow").
	Categories []string

	// Children is the content model. The zero value accepts any children.
	Children ContentModel
}

// Declaration is the resolved, immutable schema of a node type.
type Declaration struct {
	name       string
	attrs      map[string]AttributeSpec
	attrOrder  []string
	categories map[string]struct{}
	catOrder   []string
	children   ContentModel
}

// Name returns the node type name.
func (d *Declaration) Name() string { return d.name }

// Children returns the declared content model.
func (d *Declaration) Children() ContentModel { return d.children }

// Attribute returns the declaration of the named attribute.
func (d *Declaration) Attribute(name string) (AttributeSpec, bool) {
	a, ok := d.attrs[name]
	return a, ok
}

// Attributes returns every declared attribute, own attributes first in
// declaration order, then inherited ones.
func (d *Declaration) Attributes() []AttributeSpec {
	out := make([]AttributeSpec, 0, len(d.attrOrder))
	for _, name := range d.attrOrder {
		out = append(out, d.attrs[name])
	}
	return out
}

// Categories returns the declared categories in declaration order.
func (d *Declaration) Categories() []string {
	return slices.Clone(d.catOrder)
}

// CategoryOf reports whether the type belongs to category c, trying the raw
// name first and then its normalized form.
func (d *Declaration) CategoryOf(c string) bool {
	c = trimCategory(c)
	if _, ok := d.categories[c]; ok {
		return true
	}
	_, ok := d.categories[NormalizeCategory(c)]
	return ok
}

// build resolves a definition. parents supplies inherited declarations.
func build(def Definition, parents []*Declaration) (*Declaration, error) {
	d := &Declaration{
		name:       def.Name,
		attrs:      make(map[string]AttributeSpec, len(def.Attributes)),
		categories: make(map[string]struct{}, len(def.Categories)),
		children:   def.Children,
	}

	add := func(a AttributeSpec) {
		if _, dup := d.attrs[a.Name]; dup {
			return
		}
		d.attrs[a.Name] = a
		d.attrOrder = append(d.attrOrder, a.Name)
	}
	for _, a := range def.Attributes {
		if a.Name == "" {
			return nil, errors.New("E091").ForNode(def.Name).
				WithDetail("attribute declared without a name")
		}
		if a.Type == TypeEnum && len(a.Enum) == 0 {
			return nil, errors.New("E091").ForNode(def.Name).ForAttribute(a.Name).
				WithDetail("enum attribute declares no values")
		}
		add(a)
	}
	for _, p := range parents {
		for _, name := range p.attrOrder {
			add(p.attrs[name])
		}
	}

	for _, c := range def.Categories {
		c = trimCategory(c)
		if _, dup := d.categories[c]; dup {
			continue
		}
		d.categories[c] = struct{}{}
		d.categories[NormalizeCategory(c)] = struct{}{}
		d.catOrder = append(d.catOrder, c)
	}

	if d.children.Kind == Expression && d.children.Expr == nil {
		return nil, errors.New("E091").ForNode(def.Name).
			WithDetail("expression content model without an expression")
	}
	return d, nil
}
