package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryType      Category = "type"
	CategoryAttribute Category = "attribute"
	CategoryChildren  Category = "children"
	CategoryRender    Category = "render"
	CategoryConfig    Category = "config"
	CategoryDocument  Category = "document"
	CategoryPublish   Category = "publish"
)

// MarkupError is a structured error carrying the node type and attribute or
// child position it concerns.
type MarkupError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// NodeType is the name of the node type that raised the error.
	NodeType string

	// Attribute is the attribute name involved, if any.
	Attribute string

	// Index is the offending child index for children errors, -1 otherwise.
	Index int

	// Value is the offending value, if any.
	Value any

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *MarkupError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if subject := e.subject(); subject != "" {
		b.WriteString(" (")
		b.WriteString(subject)
		b.WriteString(")")
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// subject renders the node/attribute/index triple, e.g. "div @class" or "ul [2]".
func (e *MarkupError) subject() string {
	var parts []string
	if e.NodeType != "" {
		parts = append(parts, e.NodeType)
	}
	if e.Attribute != "" {
		parts = append(parts, "@"+e.Attribute)
	}
	if e.Index >= 0 {
		parts = append(parts, "["+strconv.Itoa(e.Index)+"]")
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *MarkupError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same code.
func (e *MarkupError) Is(target error) bool {
	t, ok := target.(*MarkupError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// ForNode records the node type the error concerns.
func (e *MarkupError) ForNode(nodeType string) *MarkupError {
	e.NodeType = nodeType
	return e
}

// ForAttribute records the attribute the error concerns.
func (e *MarkupError) ForAttribute(name string) *MarkupError {
	e.Attribute = name
	return e
}

// AtIndex records the offending child index.
func (e *MarkupError) AtIndex(i int) *MarkupError {
	e.Index = i
	return e
}

// WithValue records the offending value.
func (e *MarkupError) WithValue(v any) *MarkupError {
	e.Value = v
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *MarkupError) WithSuggestion(s string) *MarkupError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *MarkupError) WithDetail(d string) *MarkupError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *MarkupError) WithDetailf(format string, args ...any) *MarkupError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *MarkupError) Wrap(err error) *MarkupError {
	e.Wrapped = err
	return e
}

// New creates a MarkupError from a registered error code.
func New(code string) *MarkupError {
	template, ok := registry[code]
	if !ok {
		return &MarkupError{
			Code:    code,
			Message: "Unknown error",
			Index:   -1,
		}
	}
	return &MarkupError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
		Index:      -1,
	}
}

// Newf creates a new MarkupError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *MarkupError {
	return &MarkupError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Index:    -1,
	}
}

// Sentinel returns a bare error carrying only a code, for use with errors.Is.
func Sentinel(code string) *MarkupError {
	e := New(code)
	e.Suggestion = ""
	return e
}

// FromError wraps a standard error in a MarkupError.
func FromError(err error, code string) *MarkupError {
	if err == nil {
		return nil
	}
	if me, ok := err.(*MarkupError); ok {
		return me
	}
	return New(code).Wrap(err)
}
