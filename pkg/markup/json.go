package markup

import "github.com/goccy/go-json"

// MarshalJSON encodes the rendered markup of n as a JSON string.
func (n *Node) MarshalJSON() ([]byte, error) {
	out, err := n.Stringify()
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}
