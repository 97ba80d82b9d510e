package html

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/vango-dev/markup/pkg/markup"
)

// AddClass appends class to the node's class attribute.
func AddClass(n *markup.Node, class string) error {
	current, err := markup.AttributeAs[string](n, "class")
	if err != nil {
		return err
	}
	return n.SetAttribute("class", strings.TrimSpace(current+" "+class))
}

// ConditionClass adds class when cond is true.
func ConditionClass(n *markup.Node, cond bool, class string) error {
	if !cond {
		return nil
	}
	return AddClass(n, class)
}

// RequireUniqueID returns the node's id, assigning a random one first if
// none is set.
func RequireUniqueID(n *markup.Node) (string, error) {
	id, err := markup.AttributeAs[string](n, "id")
	if err != nil || id != "" {
		return id, err
	}
	var buf [5]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	id = hex.EncodeToString(buf[:])
	if err := n.SetAttribute("id", id); err != nil {
		return "", err
	}
	return id, nil
}

// TransferAttributes copies the attributes set on a composite onto the
// node it rendered to. Attributes the root already has are kept, except
// class, which is appended to. Special attributes are always copied; other
// attributes only if the root declares them. It has the signature of
// markup.Type.AfterExpand.
func TransferAttributes(n, root *markup.Node) error {
	for name, value := range n.Attributes() {
		if !markup.IsAttributeSpecial(name) {
			if _, ok := root.Declaration().Attribute(name); !ok {
				continue
			}
		}
		if name == "class" {
			class, _ := value.(string)
			if class == "" {
				continue
			}
			if err := AddClass(root, class); err != nil {
				return err
			}
			continue
		}
		if root.IsAttributeSet(name) {
			continue
		}
		if err := root.SetAttribute(name, value); err != nil {
			return err
		}
	}
	return nil
}
