package html

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/schema"
)

// GlobalAttributes names the schema-only definition holding the attributes
// every HTML element accepts. Composite types inherit it to accept them too.
const GlobalAttributes = "xhp:html-element"

func init() {
	schema.MustDefine(schema.Definition{
		Name: GlobalAttributes,
		Attributes: append(attrs(
			"id", "class", "style", "title", "lang", "role",
			"accesskey", "contenteditable", "draggable", "spellcheck", "translate",
			"hidden",
		),
			schema.EnumAttr("dir", "ltr", "rtl", "auto"),
			schema.IntAttr("tabindex"),
		),
	})
}

// renderAttributes writes the set attributes of n in sorted order. true
// booleans are written bare; false and nil values are omitted.
func renderAttributes(b *strings.Builder, n *markup.Node) {
	set := n.Attributes()
	for _, key := range slices.Sorted(maps.Keys(set)) {
		value := set[key]
		if value == nil {
			continue
		}
		if v, ok := value.(bool); ok {
			if v {
				b.WriteByte(' ')
				b.WriteString(key)
			}
			continue
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(markup.EscapeAttr(attrToString(value)))
		b.WriteByte('"')
	}
}

// attrToString converts an attribute value to its text form. Sequences are
// joined with spaces, the way class lists are written.
func attrToString(value any) string {
	if s, ok := schema.FormatScalar(value); ok {
		return s
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = attrToString(rv.Index(i).Interface())
		}
		return strings.Join(parts, " ")
	}
	return fmt.Sprint(value)
}
