// Package preview serves rendered documents over HTTP while they are
// being edited.
//
// Each request path maps to a document description under the documents
// directory: "/" is index.yaml, "/guide/intro" is guide/intro.yaml (or
// .yml, .json). Documents are parsed and rendered on every request, so an
// edit shows up on the next load. With live reload enabled, a small script
// is injected before </body> that listens on /_markup/reload and reloads
// the page whenever the watcher sees a change.
//
// Other routes:
//
//	GET /_markup/types         registered node type names
//	GET /_markup/types/{name}  declaration of one type
//	GET /metrics               Prometheus metrics, when a registry is set
package preview
