package schema

import "strings"

var (
	identReplacer   = strings.NewReplacer(":", "__", "-", "_")
	elementReplacer = strings.NewReplacer("__", ":", "_", "-")
)

// NormalizeCategory folds the separators of a category name the way type
// identifiers fold them, so "%my-cat" and "my_cat" name the same category.
func NormalizeCategory(c string) string {
	return identReplacer.Replace(trimCategory(c))
}

// TypeIdent converts a node type name to an identifier-safe form:
// "test:for-reflection" becomes "test__for_reflection".
func TypeIdent(name string) string {
	return identReplacer.Replace(name)
}

// TypeName reverses TypeIdent.
func TypeName(ident string) string {
	return elementReplacer.Replace(ident)
}

func trimCategory(c string) string {
	return strings.TrimPrefix(c, "%")
}
