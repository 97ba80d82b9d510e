package html

import (
	"strings"

	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/schema"
)

// tag is one catalog entry.
type tag struct {
	name       string
	attrs      []schema.AttributeSpec
	categories []string
	children   schema.ContentModel
}

// Common content models.
var (
	phrasing = schema.Children(schema.AnyNumber(schema.Group(schema.Or(
		schema.Single(schema.PCData()),
		schema.Single(schema.Cat("phrase")),
	))))
	flowing = schema.Children(schema.AnyNumber(schema.Group(schema.Or(
		schema.Single(schema.PCData()),
		schema.Single(schema.Cat("flow")),
	))))
	textOnly = schema.Children(schema.AnyNumber(schema.PCData()))
)

// only accepts any number of the named element types, in any order.
func only(types ...string) schema.ContentModel {
	rules := make([]schema.Expr, len(types))
	for i, t := range types {
		rules[i] = schema.Single(schema.Elem(t))
	}
	if len(rules) == 1 {
		return schema.Children(schema.AnyNumber(schema.Elem(types[0])))
	}
	return schema.Children(schema.AnyNumber(schema.Group(schema.Or(rules[0], rules[1], rules[2:]...))))
}

func cats(names ...string) []string { return names }

var catalog = []tag{
	// Document
	{
		name:     "html",
		attrs:    attrs("manifest", "xmlns"),
		children: schema.Children(schema.Seq(schema.Single(schema.Elem("head")), schema.Single(schema.Elem("body")))),
	},
	{name: "head", children: schema.Children(schema.AnyNumber(schema.Cat("metadata")))},
	{name: "body", children: flowing},
	{name: "title", categories: cats("metadata"), children: textOnly},
	{name: "meta", attrs: attrs("name", "content", "charset", "http-equiv"), categories: cats("metadata")},
	{name: "link", attrs: attrs("rel", "href", "type", "media", "sizes"), categories: cats("metadata")},
	{
		name:       "script",
		attrs:      attrs("src", "type", "async", "defer", "nomodule", "crossorigin", "integrity"),
		categories: cats("metadata", "flow", "phrase"),
		children:   textOnly,
	},
	{name: "style", attrs: attrs("media", "type"), categories: cats("metadata"), children: textOnly},

	// Sections and grouping
	{name: "div", categories: cats("flow"), children: flowing},
	{name: "p", categories: cats("flow"), children: phrasing},
	{name: "h1", categories: cats("flow", "heading"), children: phrasing},
	{name: "h2", categories: cats("flow", "heading"), children: phrasing},
	{name: "h3", categories: cats("flow", "heading"), children: phrasing},
	{name: "article", categories: cats("flow", "sectioning"), children: flowing},
	{name: "section", categories: cats("flow", "sectioning"), children: flowing},
	{name: "pre", categories: cats("flow"), children: phrasing},
	{name: "hr", categories: cats("flow")},
	{
		name:       "figure",
		categories: cats("flow", "sectioning"),
		children: schema.Children(schema.Or(
			schema.Single(schema.Group(schema.Seq(
				schema.Single(schema.Elem("figcaption")),
				schema.OneOrMore(schema.Cat("flow")),
			))),
			schema.Single(schema.Group(schema.Seq(
				schema.OneOrMore(schema.Cat("flow")),
				schema.ZeroOrOne(schema.Elem("figcaption")),
			))),
		)),
	},
	{name: "figcaption", children: flowing},

	// Lists
	{name: "ul", categories: cats("flow"), children: only("li")},
	{
		name:       "ol",
		attrs:      append(attrs("reversed", "type"), schema.IntAttr("start")),
		categories: cats("flow"),
		children:   only("li"),
	},
	{name: "li", attrs: []schema.AttributeSpec{schema.IntAttr("value")}, children: flowing},
	{
		name:       "menu",
		attrs:      append(attrs("label"), schema.EnumAttr("type", "popup", "toolbar")),
		categories: cats("flow"),
		// A disjunction of three starred branches would always stop at the
		// first one, so the alternatives share one star.
		children: schema.Children(schema.AnyNumber(schema.Group(schema.Or(
			schema.Single(schema.Elem("menuitem")),
			schema.Single(schema.Elem("li")),
			schema.Single(schema.Cat("flow")),
		)))),
	},
	{name: "menuitem", attrs: attrs("label", "icon", "disabled", "checked"), children: schema.Empty},

	// Tables
	{
		name:       "table",
		categories: cats("flow"),
		children: schema.Children(schema.Seq(
			schema.AnyNumber(schema.Elem("colgroup")),
			schema.AnyNumber(schema.Elem("tr")),
		)),
	},
	{name: "colgroup", attrs: []schema.AttributeSpec{schema.IntAttr("span")}, children: only("col")},
	{name: "col", attrs: []schema.AttributeSpec{schema.IntAttr("span")}},
	{name: "tr", children: only("td", "th")},
	{
		name:     "td",
		attrs:    append(attrs("headers"), schema.IntAttr("colspan"), schema.IntAttr("rowspan")),
		children: flowing,
	},
	{
		name: "th",
		attrs: append(attrs("headers", "abbr"),
			schema.IntAttr("colspan"), schema.IntAttr("rowspan"),
			schema.EnumAttr("scope", "row", "col", "rowgroup", "colgroup")),
		children: flowing,
	},

	// Text-level
	{name: "span", categories: cats("flow", "phrase"), children: phrasing},
	{
		name:       "a",
		attrs:      attrs("href", "target", "rel", "download", "hreflang", "type"),
		categories: cats("flow", "phrase", "interactive"),
		children:   flowing,
	},
	{name: "strong", categories: cats("flow", "phrase"), children: phrasing},
	{name: "em", categories: cats("flow", "phrase"), children: phrasing},
	{name: "code", categories: cats("flow", "phrase"), children: phrasing},
	{name: "br", categories: cats("flow", "phrase")},
	{
		name: "img",
		attrs: append(attrs("src", "alt", "srcset", "sizes", "ismap"),
			schema.IntAttr("width"), schema.IntAttr("height"),
			schema.EnumAttr("loading", "eager", "lazy")),
		categories: cats("flow", "phrase"),
	},

	// Forms
	{
		name:       "form",
		attrs:      append(attrs("action", "enctype", "name", "novalidate", "target"), schema.EnumAttr("method", "get", "post", "dialog")),
		categories: cats("flow"),
		children:   flowing,
	},
	{
		name:       "label",
		attrs:      attrs("for", "form"),
		categories: cats("flow", "phrase", "interactive"),
		children:   phrasing,
	},
	{
		name: "input",
		attrs: attrs("type", "name", "value", "placeholder", "form", "pattern", "min", "max", "step",
			"autocomplete", "checked", "disabled", "readonly", "required", "autofocus", "multiple"),
		categories: cats("flow", "phrase", "interactive"),
	},
	{
		name: "button",
		attrs: append(attrs("name", "value", "form", "disabled", "autofocus"),
			schema.EnumAttr("type", "submit", "reset", "button")),
		categories: cats("flow", "phrase", "interactive"),
		children:   phrasing,
	},
	{
		name:       "select",
		attrs:      append(attrs("name", "form", "multiple", "disabled", "required", "autofocus"), schema.IntAttr("size")),
		categories: cats("flow", "phrase", "interactive"),
		children:   only("option"),
	},
	{name: "option", attrs: attrs("disabled", "label", "selected", "value"), children: textOnly},
	{
		name: "textarea",
		attrs: append(attrs("name", "placeholder", "form", "disabled", "readonly", "required", "autofocus"),
			schema.IntAttr("rows"), schema.IntAttr("cols")),
		categories: cats("flow", "phrase", "interactive"),
		children:   textOnly,
	},
	{
		name:       "output",
		attrs:      attrs("for", "form", "name"),
		categories: cats("flow", "phrase"),
		children:   phrasing,
	},
}

func init() {
	for _, t := range catalog {
		children := t.children
		if IsVoidElement(t.name) {
			children = schema.Empty
		}
		markup.MustRegister(markup.Type{
			Definition: schema.Definition{
				Name:       t.name,
				Attributes: t.attrs,
				Inherit:    []string{GlobalAttributes},
				Categories: t.categories,
				Children:   children,
			},
			Serialize: element(t.name),
		})
	}
}

// Tags returns the names of every catalog element.
func Tags() []string {
	out := make([]string, len(catalog))
	for i, t := range catalog {
		out[i] = t.name
	}
	return out
}

// element returns the serializer writing <tag attrs>children</tag>.
func element(tag string) markup.SerializeFunc {
	void := IsVoidElement(tag)
	raw := rawTextElements[tag]
	return func(n *markup.Node, r *markup.Renderer) (string, error) {
		var b strings.Builder
		b.WriteByte('<')
		b.WriteString(tag)
		renderAttributes(&b, n)
		b.WriteByte('>')
		if void {
			return b.String(), nil
		}

		for _, c := range n.Children() {
			if s, ok := c.(string); ok && raw {
				b.WriteString(s)
				continue
			}
			s, err := r.RenderChild(c)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}

		b.WriteString("</")
		b.WriteString(tag)
		b.WriteByte('>')
		return b.String(), nil
	}
}
