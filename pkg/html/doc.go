// Package html registers the HTML tag catalog with the markup runtime.
//
// Importing the package defines one primitive node type per supported tag.
// Every element accepts the global HTML attributes plus its own, belongs to
// the categories the HTML content model assigns it (%flow, %phrase, ...) and
// declares which children it accepts:
//
//	import _ "github.com/vango-dev/markup/pkg/html"
//
//	page, err := markup.New("ul", nil,
//	    markup.MustNew("li", markup.Attrs{"class": "first"}, "one"),
//	    markup.MustNew("li", nil, "two"),
//	)
//
// Composite types that want to behave like an HTML element declare
// Inherit: []string{html.GlobalAttributes} and use TransferAttributes as
// their AfterExpand hook so attributes set on them land on the element they
// render to.
package html
