// Package errors provides structured, actionable error values for the markup
// runtime.
//
// Every failure the runtime can report has a registered code. The code maps to
// a category, a short message and a longer explanation, so the same failure
// reads the same whether it surfaces from a library call, the CLI or the
// preview server.
//
// # Error Categories
//
//   - type: unknown or malformed node type definitions
//   - attribute: attribute schema violations (unknown, required, invalid value)
//   - children: content-model violations
//   - render: composite expansion and serialization failures
//   - config: configuration loading errors
//   - document: declarative document decoding errors
//   - publish: output sink failures
//
// # Usage
//
//	err := errors.New("E101").
//	    ForNode("test:required").
//	    ForAttribute("mystring")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Required attribute is not set
//	//
//	//   test:required @mystring
//	//
//	//   Hint: Set the attribute when constructing the node
//
// Errors compare by code with errors.Is, so a sentinel produced by Sentinel
// matches every error carrying the same code.
package errors
