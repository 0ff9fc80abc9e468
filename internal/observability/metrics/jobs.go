package metrics

import (
	"time"

	obserrors "github.com/inkwell-ai/inkwell-api/internal/observability/errors"
	"github.com/inkwell-ai/inkwell-api/internal/observability/statsd"
)

// Status constants for metric tagging.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// JobMetric captures details about a finished background job for metric emission.
type JobMetric struct {
	Kind     string
	Status   string
	Duration time.Duration
	Err      error
}

// EmitJobFinished emits standardised job completion metrics.
func EmitJobFinished(sink statsd.Sink, in JobMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"kind":   in.Kind,
		"status": in.Status,
	}

	if in.Err != nil && in.Status == StatusFailed {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("job.finished", 1, tags)

	if in.Duration > 0 {
		sink.Timing("job.duration", in.Duration, CloneTags(tags))
	}
}

// EmitSweep emits eviction counts and the post-sweep registry size.
func EmitSweep(sink statsd.Sink, removed, remaining int) {
	if sink == nil {
		return
	}
	sink.Count("sweeper.evicted", int64(removed), nil)
	sink.Gauge("jobs.live", float64(remaining), nil)
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
