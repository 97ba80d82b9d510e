// Package document builds node trees from declarative YAML or JSON
// descriptions.
//
// A description is a node object or a list of children:
//
//	type: html
//	attributes: {lang: en}
//	children:
//	  - type: head
//	    children:
//	      - {type: title, children: [Hello]}
//	  - type: body
//	    context: {theme: dark}
//	    children:
//	      - type: p
//	        children: ["Hello, ", {raw: "<b>world</b>"}]
//
// Scalars become text children, {raw: ...} becomes markup.RawHTML and a
// top-level list becomes a fragment. Type names may also be written in
// their identifier form (test__for_reflection for test:for-reflection).
package document

import (
	"bytes"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/schema"
)

// Format is the encoding of a description.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// FormatFromPath picks the format from a file extension. Anything but
// .json is read as YAML, which also accepts JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFile reads and builds the description in path.
func ParseFile(path string) (*markup.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E140").Wrap(err).WithDetailf("reading %s", path)
	}
	n, err := Parse(data, FormatFromPath(path))
	if me, ok := err.(*errors.MarkupError); ok && me.Code == "E140" && me.Detail == "" {
		me.Detail = path
	}
	return n, err
}

// Parse builds the description in data.
func Parse(data []byte, format Format) (*markup.Node, error) {
	return Decode(bytes.NewReader(data), format)
}

// Decode reads one description from r and builds it.
func Decode(r io.Reader, format Format) (*markup.Node, error) {
	var raw any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.New("E140").Wrap(err)
		}
	default:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			return nil, errors.New("E140").Wrap(err)
		}
	}
	return Build(normalize(raw))
}

// Build turns a decoded description into a node.
func Build(v any) (*markup.Node, error) {
	b := builder{}
	switch t := v.(type) {
	case map[string]any:
		return b.node(t, "$")
	case []any:
		children, err := b.children(t, "$")
		if err != nil {
			return nil, err
		}
		return markup.Frag(children...), nil
	case nil:
		return nil, errors.New("E140").WithDetail("empty document")
	}
	return nil, errors.New("E140").WithValue(v).
		WithDetailf("$: expected a node or a list of children, got %T", v)
}

type builder struct{}

func (b builder) node(m map[string]any, path string) (*markup.Node, error) {
	name, ok := m["type"].(string)
	if !ok || name == "" {
		return nil, errors.New("E140").WithDetailf("%s: node has no type", path)
	}
	name = resolveType(name)

	var unknown []string
	for _, key := range slices.Sorted(maps.Keys(m)) {
		switch key {
		case "type", "attributes", "children", "context":
		default:
			unknown = append(unknown, strconv.Quote(key))
		}
	}
	switch len(unknown) {
	case 0:
	case 1:
		return nil, errors.New("E140").ForNode(name).
			WithDetailf("%s: unknown key %s", path, unknown[0])
	default:
		return nil, errors.New("E140").ForNode(name).
			WithDetailf("%s: unknown keys %s", path, strings.Join(unknown, ", "))
	}

	var children []any
	if raw, ok := m["children"]; ok {
		list, ok := raw.([]any)
		if !ok {
			list = []any{raw}
		}
		var err error
		if children, err = b.children(list, path+".children"); err != nil {
			return nil, err
		}
	}

	attrs, err := stringMap(m["attributes"], path+".attributes")
	if err != nil {
		return nil, err
	}
	n, err := markup.New(name, markup.Attrs(attrs), children...)
	if err != nil {
		return nil, err
	}

	ctx, err := stringMap(m["context"], path+".context")
	if err != nil {
		return nil, err
	}
	return n.AddContextMap(ctx), nil
}

func (b builder) children(list []any, path string) ([]any, error) {
	out := make([]any, 0, len(list))
	for i, item := range list {
		c, err := b.child(item, path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (b builder) child(v any, path string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if raw, ok := t["raw"]; ok && len(t) == 1 {
			s, ok := raw.(string)
			if !ok {
				return nil, errors.New("E140").WithValue(raw).
					WithDetailf("%s.raw: expected a string, got %T", path, raw)
			}
			return markup.RawHTML(s), nil
		}
		return b.node(t, path)
	case []any:
		return b.children(t, path)
	}
	return v, nil
}

// resolveType accepts a registered name as is and otherwise tries it as
// an identifier.
func resolveType(name string) string {
	if markup.IsRegistered(name) {
		return name
	}
	if alt := schema.TypeName(name); markup.IsRegistered(alt) {
		return alt
	}
	return name
}

func stringMap(v any, path string) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("E140").WithValue(v).
			WithDetailf("%s: expected a map, got %T", path, v)
	}
	return m, nil
}

// normalize converts decoder output into plain Go values: string-keyed
// maps, []any, int for integral numbers and float64 otherwise.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalize(t[i])
		}
		return arr
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
