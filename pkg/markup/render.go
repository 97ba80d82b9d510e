package markup

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/schema"
)

// DefaultMaxExpansionDepth bounds the expansions of one composite chain.
const DefaultMaxExpansionDepth = 1024

const tracerName = "github.com/vango-dev/markup"

// Observer receives render events, e.g. for metrics.
type Observer interface {
	// ObserveExpansion is called once per composite expansion step.
	ObserveExpansion(nodeType string)

	// ObserveRender is called when a top-level render finishes.
	ObserveRender(nodeType string, d time.Duration, err error)
}

// RendererConfig configures a Renderer.
type RendererConfig struct {
	// MaxExpansionDepth bounds how many times a composite chain may expand
	// before the render fails. Defaults to DefaultMaxExpansionDepth.
	MaxExpansionDepth int

	// Logger receives debug records for expansions and content model
	// failures. Defaults to slog.Default().
	Logger *slog.Logger

	// Observer, if set, is notified of expansions and renders.
	Observer Observer

	// TracerProvider supplies the tracer for render spans. Defaults to the
	// global OpenTelemetry provider.
	TracerProvider trace.TracerProvider
}

// Renderer turns node trees into text. It holds configuration only and is
// safe for concurrent use on distinct trees.
type Renderer struct {
	config RendererConfig
	tracer trace.Tracer
}

// NewRenderer creates a Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.MaxExpansionDepth <= 0 {
		config.MaxExpansionDepth = DefaultMaxExpansionDepth
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Renderer{
		config: config,
		tracer: tp.Tracer(tracerName),
	}
}

// Config returns the renderer's configuration.
func (r *Renderer) Config() RendererConfig {
	return r.config
}

var defaultRenderer atomic.Pointer[Renderer]

func init() {
	defaultRenderer.Store(NewRenderer(RendererConfig{}))
}

// DefaultRenderer returns the renderer used by Stringify and String.
func DefaultRenderer() *Renderer {
	return defaultRenderer.Load()
}

// SetDefaultRenderer replaces the default renderer and returns the previous
// one.
func SetDefaultRenderer(r *Renderer) *Renderer {
	return defaultRenderer.Swap(r)
}

// Render renders n to text.
func (r *Renderer) Render(n *Node) (string, error) {
	return r.RenderContext(context.Background(), n)
}

// RenderContext renders n to text inside a trace span derived from ctx.
func (r *Renderer) RenderContext(ctx context.Context, n *Node) (string, error) {
	start := time.Now()
	_, span := r.tracer.Start(ctx, "markup.Render",
		trace.WithAttributes(attribute.String("markup.type", n.TypeName())),
	)
	defer span.End()

	out, err := r.stringify(n)

	if r.config.Observer != nil {
		r.config.Observer.ObserveRender(n.TypeName(), time.Since(start), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("markup.bytes", len(out)))
	return out, nil
}

// Stringify renders n with the default renderer.
func (n *Node) Stringify() (string, error) {
	return DefaultRenderer().Render(n)
}

// String renders n with the default renderer. Errors yield "".
func (n *Node) String() string {
	out, err := n.Stringify()
	if err != nil {
		return ""
	}
	return out
}

// stringify is the entry point for one node. A composite is first driven to
// its primitive; the primitive then flushes its children, checks its content
// model and serializes.
func (r *Renderer) stringify(n *Node) (string, error) {
	if n.IsComposite() {
		root, err := r.resolve(n)
		if err != nil {
			return "", err
		}
		n = root
	}
	if err := r.flush(n); err != nil {
		return "", err
	}
	if ChildValidationEnabled() {
		if err := n.ValidateChildren(); err != nil {
			r.config.Logger.Debug("markup: invalid children",
				"type", n.TypeName(),
				"error", err,
			)
			return "", err
		}
	}
	return n.typ.Serialize(n, r)
}

// resolve expands origin until a primitive is reached. Returning to a node
// already expanded in the chain, or exceeding MaxExpansionDepth, fails.
func (r *Renderer) resolve(origin *Node) (*Node, error) {
	seen := make(map[*Node]struct{})
	cur := origin
	for depth := 0; cur.IsComposite(); depth++ {
		if _, ok := seen[cur]; ok {
			return nil, errors.New("E120").ForNode(origin.TypeName()).WithValue(cur).
				WithDetailf("expansion returned %s again", cur.TypeName())
		}
		if depth >= r.config.MaxExpansionDepth {
			return nil, errors.New("E120").ForNode(origin.TypeName()).WithValue(cur).
				WithDetailf("no primitive after %d expansions, last reached %s", depth, cur.TypeName())
		}
		seen[cur] = struct{}{}

		next, err := r.expand(origin, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// expand performs one expansion step of a composite.
func (r *Renderer) expand(origin, n *Node) (*Node, error) {
	if ChildValidationEnabled() {
		if err := n.ValidateChildren(); err != nil {
			return nil, err
		}
	}

	out, err := n.typ.Expand(n)
	if err != nil {
		return nil, err
	}
	root, ok := out.(*Node)
	if !ok || root == nil {
		return nil, errors.New("E120").ForNode(origin.TypeName()).WithValue(out).
			WithDetailf("%s expanded to %s", n.TypeName(), describeValue(out))
	}

	root.MergeContextIfAbsent(n.context)
	if n.typ.AfterExpand != nil {
		if err := n.typ.AfterExpand(n, root); err != nil {
			return nil, err
		}
	}

	r.config.Logger.Debug("markup: expanded composite",
		"type", n.TypeName(),
		"result", root.TypeName(),
	)
	if r.config.Observer != nil {
		r.config.Observer.ObserveExpansion(n.TypeName())
	}
	return root, nil
}

// flush resolves the composite children of n in place, splicing in the
// children of any fragment they resolve to. Each node child inherits n's
// context without overwriting its own.
func (r *Renderer) flush(n *Node) error {
	for i := 0; i < len(n.children); i++ {
		child, ok := n.children[i].(*Node)
		if !ok {
			continue
		}
		child.MergeContextIfAbsent(n.context)

		if child.IsComposite() {
			root, err := r.resolve(child)
			if err != nil {
				return err
			}
			child = root
		}

		if frag, ok := fragmentChildren(child); ok {
			for _, c := range frag {
				if fc, ok := c.(*Node); ok {
					fc.MergeContextIfAbsent(child.context)
				}
			}
			n.children = slices.Replace(n.children, i, i+1, frag...)
			i--
			continue
		}
		n.children[i] = child
	}
	return nil
}

// RenderChild renders one child value. Nodes are rendered, UnsafeRenderable
// values are written verbatim and scalars are escaped.
func (r *Renderer) RenderChild(child any) (string, error) {
	switch c := child.(type) {
	case *Node:
		return r.stringify(c)
	case UnsafeRenderable:
		return c.HTML(), nil
	case string:
		return EscapeHTML(c), nil
	}
	if s, ok := schema.FormatScalar(child); ok {
		return EscapeHTML(s), nil
	}
	if s, ok := child.(fmt.Stringer); ok {
		return EscapeHTML(s.String()), nil
	}
	return "", errors.New("E121").WithValue(child).
		WithDetailf("cannot render a child of type %T", child)
}

// RenderChildren renders the children of n in order and concatenates them.
func (r *Renderer) RenderChildren(n *Node) (string, error) {
	var b strings.Builder
	for _, c := range n.children {
		s, err := r.RenderChild(c)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func describeValue(v any) string {
	if v == nil {
		return "nil"
	}
	if n, ok := v.(*Node); ok {
		if n == nil {
			return "a nil node"
		}
		return n.TypeName()
	}
	return fmt.Sprintf("a %T", v)
}
