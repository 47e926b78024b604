// internal/metrics/metrics.go
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	FormRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_rows_total",
			Help: "Form rows seen during reconciliation, by outcome",
		},
		[]string{"outcome"},
	)

	SlotOverlaps = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "timeslot_overlaps",
			Help: "Pairs of roster time slots of different classes that overlap",
		},
	)

	GradeTotalHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gradebook_total_score",
			Help:    "Distribution of total scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"class"},
	)

	GradeLettersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradebook_grades_total",
			Help: "Students per grade letter and judgement",
		},
		[]string{"class", "grade", "judgement"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reconcile_stage_duration_seconds",
			Help:    "Reconciliation stage duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
)

// Push sends everything in the default registry to a Pushgateway. Batch runs
// exit before any scraper could reach them.
func Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(prometheus.DefaultGatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
