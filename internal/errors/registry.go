package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Type Errors (E090-E099)
	// ============================================

	"E090": {
		Category:   CategoryType,
		Message:    "Unknown node type",
		Detail:     "No node type with this name has been registered.",
		Suggestion: "Run 'markup describe' to list registered node types",
	},
	"E091": {
		Category: CategoryType,
		Message:  "Invalid node type definition",
	},

	// ============================================
	// Attribute Errors (E100-E109)
	// ============================================

	"E100": {
		Category:   CategoryAttribute,
		Message:    "Attribute is not supported",
		Detail:     "The attribute is not declared by the node type and is not a data- or aria- attribute.",
		Suggestion: "Declare the attribute on the node type or use a data-* attribute",
	},
	"E101": {
		Category:   CategoryAttribute,
		Message:    "Required attribute is not set",
		Detail:     "The node type marks this attribute as required, but it was read before any value was supplied.",
		Suggestion: "Set the attribute when constructing the node",
	},
	"E102": {
		Category: CategoryAttribute,
		Message:  "Invalid attribute value",
		Detail:   "The value could not be validated or coerced to the attribute's declared type.",
	},
	"E103": {
		Category: CategoryAttribute,
		Message:  "Unsupported attribute type",
		Detail:   "The attribute is declared with a type the runtime refuses to support, such as a callable.",
	},

	// ============================================
	// Children Errors (E110-E119)
	// ============================================

	"E110": {
		Category:   CategoryChildren,
		Message:    "Invalid children",
		Detail:     "The node's children do not match the content model declared by its type.",
		Suggestion: "Compare the children against the type's declared content model",
	},

	// ============================================
	// Render Errors (E120-E129)
	// ============================================

	"E120": {
		Category:   CategoryRender,
		Message:    "Composite did not expand to a primitive",
		Detail:     "Expansion of a composite node must eventually produce a primitive node. The chain either cycled or returned a non-node value.",
		Suggestion: "Return a primitive node (or a composite that expands to one) from Expand",
	},
	"E121": {
		Category: CategoryRender,
		Message:  "Value cannot be rendered",
		Detail:   "Collections must be flattened into a node's children before serialization.",
	},

	// ============================================
	// Config Errors (E130-E139)
	// ============================================

	"E130": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Suggestion: "Check markup.json or markup.yaml for typos",
	},
	"E131": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create markup.json in the working directory or pass --config",
	},

	// ============================================
	// Document Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryDocument,
		Message:  "Document could not be decoded",
	},

	// ============================================
	// Publish Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryPublish,
		Message:  "Publishing rendered output failed",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
