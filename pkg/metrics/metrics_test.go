package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/schema"

	_ "github.com/vango-dev/markup/pkg/html"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestObserveRender(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveRender("div", 10*time.Millisecond, nil)
	m.ObserveRender("div", time.Millisecond, markup.ErrInvalidChildren)
	m.ObserveRender("div", time.Millisecond, errors.New("boom"))

	if got := counterValue(t, m.rendersTotal.WithLabelValues("div", "success")); got != 1 {
		t.Errorf("success renders = %v, want 1", got)
	}
	if got := counterValue(t, m.rendersTotal.WithLabelValues("div", "error")); got != 2 {
		t.Errorf("error renders = %v, want 2", got)
	}
	if got := counterValue(t, m.renderErrors.WithLabelValues("div", "E110")); got != 1 {
		t.Errorf("E110 errors = %v, want 1", got)
	}
	if got := counterValue(t, m.renderErrors.WithLabelValues("div", "internal")); got != 1 {
		t.Errorf("internal errors = %v, want 1", got)
	}
	if got := histogramCount(t, m.renderDuration.WithLabelValues("div")); got != 3 {
		t.Errorf("duration samples = %d, want 3", got)
	}
}

func TestRendererReportsToMetrics(t *testing.T) {
	m := newTestMetrics(t)
	r := markup.NewRenderer(markup.RendererConfig{Observer: m})

	n := markup.MustNew("ul", nil, markup.MustNew("li", nil, "x"))
	if _, err := r.Render(n); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(markup.MustNew("ul", nil, "text")); err == nil {
		t.Fatal("expected a content model error")
	}

	if got := counterValue(t, m.rendersTotal.WithLabelValues("ul", "success")); got != 1 {
		t.Errorf("success renders = %v", got)
	}
	if got := counterValue(t, m.renderErrors.WithLabelValues("ul", "E110")); got != 1 {
		t.Errorf("E110 errors = %v", got)
	}
}

func TestNoticeHandler(t *testing.T) {
	m := newTestMetrics(t)

	var forwarded int
	h := m.NoticeHandler(func(schema.Notice) { forwarded++ })

	prevHandler := schema.SetNoticeHandler(h)
	prevMode := schema.SetCoercionMode(schema.CoercionWarn)
	t.Cleanup(func() {
		schema.SetNoticeHandler(prevHandler)
		schema.SetCoercionMode(prevMode)
	})

	if _, err := markup.New("div", markup.Attrs{"tabindex": "3"}); err != nil {
		t.Fatal(err)
	}

	if got := counterValue(t, m.notices.WithLabelValues("div", "tabindex")); got != 1 {
		t.Errorf("notices = %v, want 1", got)
	}
	if forwarded != 1 {
		t.Errorf("forwarded = %d, want 1", forwarded)
	}
}

func TestObserveExpansion(t *testing.T) {
	m := newTestMetrics(t)
	m.ObserveExpansion("app:card")
	m.ObserveExpansion("app:card")
	if got := counterValue(t, m.expansions.WithLabelValues("app:card")); got != 2 {
		t.Errorf("expansions = %v, want 2", got)
	}
}
