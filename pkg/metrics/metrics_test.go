package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_ops_total", Help: "ops"}, []string{"kind"})
	reg.MustRegister(c)
	c.WithLabelValues("blur").Add(3)

	var buf bytes.Buffer
	if err := WriteText(&buf, reg); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "# TYPE test_ops_total counter") {
		t.Fatalf("missing TYPE line:\n%s", out)
	}
	if !strings.Contains(out, `test_ops_total{kind="blur"} 3`) {
		t.Fatalf("missing sample:\n%s", out)
	}
}

func TestCollectorsRegistered(t *testing.T) {
	OperationsTotal.WithLabelValues("invert", "ok").Inc()
	OperationDuration.WithLabelValues("invert").Observe(0.002)
	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer,
		"pixedit_operations_total", "pixedit_operation_duration_seconds")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n < 2 {
		t.Fatalf("gathered %d series; want at least 2", n)
	}
}
