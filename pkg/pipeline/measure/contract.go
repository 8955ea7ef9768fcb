package measure

import "time"

// Measure stores one metric per queue entry.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric aggregates the durations of one entry across every job.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AVGDuration() time.Duration
	Total() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
