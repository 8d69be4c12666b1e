// Package metrics holds the metric names and tag conventions for tenderwatch.
package metrics

import (
	"maps"
	"time"

	obserrors "github.com/tenderwatch/tenderwatch-api/internal/observability/errors"
	"github.com/tenderwatch/tenderwatch-api/internal/observability/statsd"
)

// Result tag values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultSkipped = "skipped"
	ResultBusy    = "busy"
)

const (
	metricDispatchRun      = "alerts.dispatch.run"
	metricDispatchDuration = "alerts.dispatch.duration"
	metricDispatchFound    = "alerts.dispatch.tenders_found"
	metricSearchProcessed  = "alerts.search.processed"
	metricReaperDeleted    = "reaper.deleted"
)

// DispatchMetric describes one dispatcher invocation.
type DispatchMetric struct {
	Trigger    string
	Result     string
	Duration   time.Duration
	TotalFound int
	Err        error
}

// EmitDispatch records a dispatch run. A nil sink is a no-op.
func EmitDispatch(sink statsd.Sink, in DispatchMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"trigger": in.Trigger, "result": in.Result}
	if in.Err != nil && in.Result == ResultError {
		tags["error_class"] = obserrors.Classify(in.Err)
	}

	sink.Count(metricDispatchRun, 1, tags)
	if in.Duration > 0 {
		sink.Timing(metricDispatchDuration, in.Duration, CloneTags(tags))
	}
	if in.Result == ResultSuccess {
		sink.Gauge(metricDispatchFound, float64(in.TotalFound), map[string]string{"trigger": in.Trigger})
	}
}

// EmitSearchProcessed records the outcome for one saved search.
func EmitSearchProcessed(sink statsd.Sink, frequency, result string) {
	if sink == nil {
		return
	}
	sink.Count(metricSearchProcessed, 1, map[string]string{"frequency": frequency, "result": result})
}

// EmitReaperDeleted records rows removed from a log table.
func EmitReaperDeleted(sink statsd.Sink, table string, n int64) {
	if sink == nil || n <= 0 {
		return
	}
	sink.Count(metricReaperDeleted, n, map[string]string{"table": table})
}

// CloneTags returns a shallow copy of src, or nil when empty.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
