package schema

import (
	"fmt"
	"strings"
)

// String renders the attribute the way it would be declared, e.g.
// "string title = 'untitled' @required".
func (a AttributeSpec) String() string {
	var out string
	switch a.Type {
	case TypeObject:
		out = a.Class.Name
	case TypeEnum:
		quoted := make([]string, len(a.Enum))
		for i, v := range a.Enum {
			quoted[i] = "'" + v + "'"
		}
		out = "enum {" + strings.Join(quoted, ", ") + "}"
	case TypeUnsupportedCallable:
		out = "<UNSUPPORTED: legacy callable>"
	default:
		out = a.Type.String()
	}
	out += " " + a.Name
	if a.HasDefault() {
		out += " = " + exportValue(a.Default)
	}
	if a.Required {
		out += " @required"
	}
	return out
}

// exportValue renders a default value as a literal.
func exportValue(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(t, "'", `\'`) + "'"
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	if s, ok := formatNumber(v); ok {
		return s
	}
	return fmt.Sprintf("%#v", v)
}

// Description is a read-only, human-readable view of a declaration.
type Description struct {
	Name       string   `json:"name" yaml:"name"`
	Attributes []string `json:"attributes" yaml:"attributes"`
	Categories []string `json:"categories" yaml:"categories"`
	Children   string   `json:"children" yaml:"children"`
}

// Describe builds the Description of a declaration.
func Describe(d *Declaration) Description {
	attrs := d.Attributes()
	desc := Description{
		Name:       d.Name(),
		Attributes: make([]string, len(attrs)),
		Categories: d.Categories(),
		Children:   d.Children().String(),
	}
	for i, a := range attrs {
		desc.Attributes[i] = a.String()
	}
	return desc
}

// String renders the description as a declaration block.
func (d Description) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	b.WriteString("\n")
	for _, a := range d.Attributes {
		b.WriteString("  attribute ")
		b.WriteString(a)
		b.WriteString(";\n")
	}
	if len(d.Categories) > 0 {
		b.WriteString("  category %")
		b.WriteString(strings.Join(d.Categories, ", %"))
		b.WriteString(";\n")
	}
	b.WriteString("  children ")
	b.WriteString(d.Children)
	b.WriteString(";\n")
	return b.String()
}
