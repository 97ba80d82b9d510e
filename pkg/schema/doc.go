// Package schema holds the static declarations of markup node types.
//
// A node type declares, ahead of use, the attributes it accepts (with value
// types, defaults and required-ness), the categories it belongs to, and a
// content model constraining its children. Declarations are registered once
// as a Definition and resolved lazily into an immutable Declaration that is
// cached for the life of the process.
//
// # Attributes
//
//	schema.StringAttr("title").WithDefault("untitled")
//	schema.EnumAttr("dir", "ltr", "rtl")
//	schema.IntAttr("span").MarkRequired()
//
// ValidateAttribute checks and coerces a raw value against a declaration.
// How mismatches are handled is controlled by the process-wide coercion mode
// (see SetCoercionMode).
//
// # Content Models
//
// Content models are small grammars built from rules and quantifiers:
//
//	// (:head, :body)
//	schema.Children(schema.Seq(
//	    schema.Single(schema.Elem("head")),
//	    schema.Single(schema.Elem("body")),
//	))
//
//	// (pcdata | %phrase)*
//	schema.Children(schema.AnyNumber(schema.Group(schema.Or(
//	    schema.Single(schema.PCData()),
//	    schema.Single(schema.Cat("phrase")),
//	))))
//
// Quantifiers are greedy and never give back what they consumed, so a model
// such as (:x*, :x) rejects every input. Matching is near-linear in the number
// of children.
package schema
