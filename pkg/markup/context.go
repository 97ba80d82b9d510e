package markup

import "maps"

// Context returns the context value for key, or nil.
//
// Context set on a node reaches its descendants only while rendering.
func (n *Node) Context(key string) any {
	return n.context[key]
}

// ContextOr returns the context value for key, or def if it is not set.
func (n *Node) ContextOr(key string, def any) any {
	if v, ok := n.context[key]; ok {
		return v
	}
	return def
}

// AllContexts returns a copy of the node's context.
func (n *Node) AllContexts() map[string]any {
	return maps.Clone(n.context)
}

// SetContext sets a context value, overwriting any previous one.
func (n *Node) SetContext(key string, value any) *Node {
	if n.context == nil {
		n.context = make(map[string]any)
	}
	n.context[key] = value
	return n
}

// AddContextMap sets every entry of m, overwriting existing keys.
func (n *Node) AddContextMap(m map[string]any) *Node {
	for k, v := range m {
		n.SetContext(k, v)
	}
	return n
}

// MergeContextIfAbsent copies the entries of m whose keys the node does not
// have yet. Rendering uses it to pass context from parent to child.
func (n *Node) MergeContextIfAbsent(m map[string]any) *Node {
	for k, v := range m {
		if _, ok := n.context[k]; ok {
			continue
		}
		n.SetContext(k, v)
	}
	return n
}
