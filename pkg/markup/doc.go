// Package markup is the node tree runtime: typed nodes with schema'd
// attributes, a content model for children, and a render pipeline that
// reduces composite nodes to primitives and serializes them to text.
//
// # Node Types
//
// Every node has a registered type. Primitive types serialize themselves;
// composite types expand to another node:
//
//	markup.MustRegister(markup.Type{
//	    Definition: schema.Definition{
//	        Name:       "app:greeting",
//	        Attributes: []schema.AttributeSpec{schema.StringAttr("name").MarkRequired()},
//	    },
//	    Expand: func(n *markup.Node) (any, error) {
//	        name, err := markup.AttributeAs[string](n, "name")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return markup.New("p", nil, "Hello, ", name)
//	    },
//	})
//
// # Building Trees
//
// New validates attributes as they are written and flattens children:
// slices are spliced, nil is dropped, and fragments created with Frag splice
// their children in place.
//
//	n, err := markup.New("app:greeting", markup.Attrs{"name": "world"})
//
// # Rendering
//
// Render drives composites to primitives, merging each node's context into
// its expansion without overwriting keys the expansion already has. Before a
// primitive serializes, its children are flushed the same way and checked
// against its content model.
//
//	out, err := n.Stringify()
//
// Child and attribute validation can be switched off process-wide with
// SetChildValidation and SetAttributeValidation. Both return the previous
// setting so scoped overrides can restore it.
package markup
