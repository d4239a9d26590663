package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounterGaugeHistogram(t *testing.T) {
	c := NewMetricsCollector()

	ctr := c.Counter("test_ops_total", "ops", "")
	ctr.Inc()
	ctr.Add(2)
	if ctr.Value() != 3 {
		t.Fatalf("counter = %d", ctr.Value())
	}

	g := c.Gauge("test_clients", "clients", "")
	g.Inc()
	g.Inc()
	g.Dec()
	if g.Value() != 1 {
		t.Fatalf("gauge = %d", g.Value())
	}

	h := c.Histogram("test_latency", "latency", "", []float64{0.1, 1})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(2)
	if h.count != 3 {
		t.Fatalf("histogram count = %d", h.count)
	}
	if h.buckets[0].count != 1 || h.buckets[1].count != 2 {
		t.Fatalf("bucket counts = %+v", h.buckets)
	}
}

func TestSameNameReturnsSameMetric(t *testing.T) {
	c := NewMetricsCollector()
	a := c.Counter("dup_total", "", "")
	b := c.Counter("dup_total", "", "")
	a.Inc()
	if b.Value() != 1 {
		t.Fatal("counters with the same name must share state")
	}
}

func TestHandlerExposition(t *testing.T) {
	c := NewMetricsCollector()
	c.Counter("render_ops_total", "render operations", "").Add(7)
	c.Gauge("render_clients", "clients", "").Set(2)
	c.Histogram("render_latency_seconds", "latency", "", []float64{0.1}).Observe(0.05)

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("content type = %q", rec.Header().Get("Content-Type"))
	}
	for _, want := range []string{
		"drawbridge_uptime_seconds",
		"render_ops_total 7",
		"render_clients 2",
		`render_latency_seconds_bucket{le="0.1"} 1`,
		"render_latency_seconds_count 1",
		"# TYPE render_ops_total counter",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q:\n%s", want, body)
		}
	}
}
