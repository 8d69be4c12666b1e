package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetric struct {
	kind  string
	name  string
	value float64
	tags  map[string]string
}

type recordingSink struct {
	metrics []recordedMetric
}

func (s *recordingSink) Count(name string, value int64, tags map[string]string) {
	s.metrics = append(s.metrics, recordedMetric{"count", name, float64(value), tags})
}

func (s *recordingSink) Gauge(name string, value float64, tags map[string]string) {
	s.metrics = append(s.metrics, recordedMetric{"gauge", name, value, tags})
}

func (s *recordingSink) Timing(name string, value time.Duration, tags map[string]string) {
	s.metrics = append(s.metrics, recordedMetric{"timing", name, float64(value), tags})
}

func TestEmitDispatch_Success(t *testing.T) {
	sink := &recordingSink{}
	EmitDispatch(sink, DispatchMetric{
		Trigger: "cron", Result: ResultSuccess, Duration: 2 * time.Second, TotalFound: 7,
	})

	require.Len(t, sink.metrics, 3)
	assert.Equal(t, "alerts.dispatch.run", sink.metrics[0].name)
	assert.Equal(t, map[string]string{"trigger": "cron", "result": "success"}, sink.metrics[0].tags)
	assert.Equal(t, "timing", sink.metrics[1].kind)
	assert.Equal(t, "alerts.dispatch.tenders_found", sink.metrics[2].name)
	assert.InDelta(t, 7, sink.metrics[2].value, 0)
}

func TestEmitDispatch_ErrorClass(t *testing.T) {
	sink := &recordingSink{}
	EmitDispatch(sink, DispatchMetric{Trigger: "admin", Result: ResultError, Err: context.DeadlineExceeded})

	require.Len(t, sink.metrics, 1)
	assert.Equal(t, "timeout", sink.metrics[0].tags["error_class"])
}

func TestEmitHelpers(t *testing.T) {
	sink := &recordingSink{}
	EmitSearchProcessed(sink, "daily", ResultSkipped)
	EmitReaperDeleted(sink, "alert_logs", 0)
	EmitReaperDeleted(sink, "alert_logs", 12)

	require.Len(t, sink.metrics, 2)
	assert.Equal(t, map[string]string{"frequency": "daily", "result": "skipped"}, sink.metrics[0].tags)
	assert.Equal(t, "reaper.deleted", sink.metrics[1].name)
	assert.InDelta(t, 12, sink.metrics[1].value, 0)

	EmitDispatch(nil, DispatchMetric{})
	EmitSearchProcessed(nil, "daily", ResultSuccess)
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "b"}
	cp := CloneTags(src)
	cp["a"] = "c"
	assert.Equal(t, "b", src["a"])
}
