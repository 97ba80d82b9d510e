package markup

import (
	"fmt"
	"testing"

	"github.com/vango-dev/markup/pkg/schema"
)

// wrap serializes a node as <name>children</name>.
func wrap(tag string) SerializeFunc {
	return func(n *Node, r *Renderer) (string, error) {
		inner, err := r.RenderChildren(n)
		if err != nil {
			return "", err
		}
		return "<" + tag + ">" + inner + "</" + tag + ">", nil
	}
}

func init() {
	MustRegister(Type{
		Definition: schema.Definition{
			Name:       "test:div",
			Attributes: []schema.AttributeSpec{schema.StringAttr("id")},
			Categories: []string{"flow"},
		},
		Serialize: wrap("div"),
	})
	MustRegister(Type{
		Definition: schema.Definition{
			Name:       "test:span",
			Categories: []string{"flow", "phrase"},
			Children: schema.Children(schema.AnyNumber(schema.Group(schema.Or(
				schema.Single(schema.PCData()),
				schema.Single(schema.Cat("phrase")),
			)))),
		},
		Serialize: wrap("span"),
	})
	MustRegister(Type{
		Definition: schema.Definition{Name: "test:void", Children: schema.Empty},
		Serialize:  func(*Node, *Renderer) (string, error) { return "<void>", nil },
	})
	MustRegister(Type{
		Definition: schema.Definition{Name: "test:a", Categories: []string{"my-cat"}},
		Serialize:  wrap("a"),
	})
	MustRegister(Type{
		Definition: schema.Definition{Name: "test:b"},
		Serialize:  wrap("b"),
	})
	MustRegister(Type{
		Definition: schema.Definition{
			Name: "test:seq",
			Children: schema.Children(schema.Seq(
				schema.Single(schema.Elem("test:a")),
				schema.AnyNumber(schema.Elem("test:b")),
			)),
		},
		Serialize: wrap("seq"),
	})
	MustRegister(Type{
		Definition: schema.Definition{
			Name: "test:or",
			Children: schema.Children(schema.Or(
				schema.Single(schema.Elem("test:a")),
				schema.Single(schema.Elem("test:b")),
			)),
		},
		Serialize: wrap("or"),
	})
	MustRegister(Type{
		Definition: schema.Definition{
			Name: "test:attributes",
			Attributes: []schema.AttributeSpec{
				schema.StringAttr("mystring"),
				schema.StringAttr("mydefault").WithDefault("mydefault"),
				schema.StringAttr("myrequired").MarkRequired(),
				schema.IntAttr("count"),
				schema.BoolAttr("mybool"),
				schema.EnumAttr("myenum", "foo", "bar"),
				schema.CallableAttr("mycallable"),
			},
		},
		Serialize: wrap("attributes"),
	})
	MustRegister(Type{
		Definition: schema.Definition{Name: "test:greeting"},
		Expand: func(n *Node) (any, error) {
			return New("test:div", nil, "Hello, ", "world")
		},
	})
	MustRegister(Type{
		Definition: schema.Definition{Name: "test:self"},
		Expand:     func(n *Node) (any, error) { return n, nil },
	})
	MustRegister(Type{
		Definition: schema.Definition{Name: "test:endless"},
		Expand:     func(n *Node) (any, error) { return New("test:endless", nil) },
	})
	MustRegister(Type{
		Definition: schema.Definition{Name: "test:stringly"},
		Expand:     func(n *Node) (any, error) { return "not a node", nil },
	})
	MustRegister(Type{
		Definition: schema.Definition{Name: "test:wrapper"},
		Expand: func(n *Node) (any, error) {
			return New("test:div", nil, n.Children())
		},
	})
	MustRegister(Type{
		Definition: schema.Definition{Name: "test:pair"},
		Expand: func(n *Node) (any, error) {
			return Frag(MustNew("test:a", nil), MustNew("test:b", nil)), nil
		},
	})
	MustRegister(Type{
		Definition: schema.Definition{Name: "test:context-reader"},
		Serialize: func(n *Node, r *Renderer) (string, error) {
			return fmt.Sprint(n.ContextOr("k", "unset")), nil
		},
	})
	MustRegister(Type{
		Definition: schema.Definition{
			Name:     "test:only-spans",
			Children: schema.Children(schema.AnyNumber(schema.Elem("test:span"))),
		},
		Expand: func(n *Node) (any, error) {
			return New("test:div", nil, n.Children())
		},
	})
}

// withChildValidation sets child validation for the duration of the test.
func withChildValidation(t *testing.T, on bool) {
	t.Helper()
	prev := SetChildValidation(on)
	t.Cleanup(func() { SetChildValidation(prev) })
}

// withAttributeValidation sets attribute validation for the duration of the test.
func withAttributeValidation(t *testing.T, on bool) {
	t.Helper()
	prev := SetAttributeValidation(on)
	t.Cleanup(func() { SetAttributeValidation(prev) })
}

// typeNames lists the type names of node children and the text of others.
func typeNames(children []any) []string {
	out := make([]string, len(children))
	for i, c := range children {
		if n, ok := c.(*Node); ok {
			out[i] = n.TypeName()
		} else {
			out[i] = fmt.Sprint(c)
		}
	}
	return out
}
