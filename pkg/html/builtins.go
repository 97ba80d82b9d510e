package html

import (
	"strings"

	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/schema"
)

// Built-in node types that are not HTML elements.
const (
	Doctype            = "x:doctype"
	ConditionalComment = "x:conditional-comment"
)

func init() {
	markup.MustRegister(markup.Type{
		Definition: schema.Definition{
			Name:     Doctype,
			Children: schema.Children(schema.Single(schema.Elem("html"))),
		},
		Serialize: func(n *markup.Node, r *markup.Renderer) (string, error) {
			inner, err := r.RenderChildren(n)
			if err != nil {
				return "", err
			}
			return "<!DOCTYPE html>" + inner, nil
		},
	})

	// Scalar children of a conditional comment are written verbatim.
	markup.MustRegister(markup.Type{
		Definition: schema.Definition{
			Name:       ConditionalComment,
			Attributes: []schema.AttributeSpec{schema.StringAttr("if").MarkRequired()},
		},
		Serialize: func(n *markup.Node, r *markup.Renderer) (string, error) {
			cond, err := markup.AttributeAs[string](n, "if")
			if err != nil {
				return "", err
			}
			var b strings.Builder
			b.WriteString("<!--[if ")
			b.WriteString(cond)
			b.WriteString("]>")
			for _, c := range n.Children() {
				switch c.(type) {
				case *markup.Node, markup.UnsafeRenderable:
				default:
					b.WriteString(attrToString(c))
					continue
				}
				s, err := r.RenderChild(c)
				if err != nil {
					return "", err
				}
				b.WriteString(s)
			}
			b.WriteString("<![endif]-->")
			return b.String(), nil
		},
	})
}
