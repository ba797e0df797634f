// Package metrics provides Prometheus collectors for the edit engine and
// editing sessions.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// TransformBuckets defines histogram buckets suited for in-memory pixel
// transforms, ranging from 1ms to 10s.
var TransformBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10}

var (
	// OperationsTotal counts engine applications by operation kind and outcome.
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixedit_operations_total",
			Help: "Edit operations applied",
		},
		[]string{"kind", "status"},
	)

	// OperationDuration records how long each transform took, in seconds.
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pixedit_operation_duration_seconds",
			Help:    "Edit operation duration",
			Buckets: TransformBuckets,
		},
		[]string{"kind"},
	)

	// UndoTotal counts undo calls that removed a snapshot.
	UndoTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pixedit_undo_total",
			Help: "Undo operations that changed the current image",
		},
	)

	// BusyRejectionsTotal counts requests rejected because the session was processing.
	BusyRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pixedit_busy_rejections_total",
			Help: "Requests rejected while a transform was in flight",
		},
	)

	// SessionsProcessing tracks sessions with a transform in flight.
	SessionsProcessing = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pixedit_sessions_processing",
			Help: "Sessions currently applying a transform",
		},
	)
)

func init() {
	prometheus.MustRegister(
		OperationsTotal,
		OperationDuration,
		UndoTotal,
		BusyRejectionsTotal,
		SessionsProcessing,
	)
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
