package html

import (
	"io"
	"strings"

	g "maragu.dev/gomponents"

	"github.com/vango-dev/markup/pkg/markup"
)

// Gomponent adapts a node tree to gomponents. Rendering goes through the
// default renderer, so the tree is validated like any other render.
func Gomponent(n *markup.Node) g.Node {
	return g.NodeFunc(func(w io.Writer) error {
		out, err := n.Stringify()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// Embedded is a gomponents node used as a child. It is written verbatim
// and excuses content model failures of its parent.
type Embedded struct {
	Node g.Node
}

// Embed wraps a gomponents node for use as a child.
func Embed(n g.Node) Embedded {
	return Embedded{Node: n}
}

// HTML renders the wrapped node. A render error yields an empty string.
func (e Embedded) HTML() string {
	var b strings.Builder
	if err := e.Node.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// AlwaysValidChild marks Embedded as exempt from content model checks.
func (Embedded) AlwaysValidChild() {}
