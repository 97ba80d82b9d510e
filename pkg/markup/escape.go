package markup

import (
	"slices"
	"strings"
)

// textEntities are the replacements shared by text and attribute escaping.
var textEntities = []string{
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
}

var (
	textEscaper = strings.NewReplacer(textEntities...)

	// Attribute values also escape whitespace that attribute parsers fold.
	attrEscaper = strings.NewReplacer(append(slices.Clone(textEntities),
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)...)
)

// EscapeHTML escapes text for safe inclusion in HTML content.
func EscapeHTML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	return textEscaper.Replace(s)
}

// EscapeAttr escapes text for safe inclusion in a quoted attribute value.
func EscapeAttr(s string) string {
	if !strings.ContainsAny(s, "&<>\"'\n\r\t") {
		return s
	}
	return attrEscaper.Replace(s)
}
