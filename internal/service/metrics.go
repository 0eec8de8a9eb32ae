package service

import (
	"context"
	"errors"
	"time"

	"github.com/jjenkins/programselect/internal/tabular"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabular_store_calls_total",
			Help: "Total number of calls to the tabular store",
		},
		[]string{"op", "result"},
	)

	storeCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tabular_store_call_duration_seconds",
			Help:    "Duration of tabular store calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_lookups_total",
			Help: "Student lookups by outcome",
		},
		[]string{"result"},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_submissions_total",
			Help: "Submission confirmations by outcome",
		},
		[]string{"result"},
	)

	dataQualityIssues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_data_quality_issues_total",
			Help: "Malformed cells seen while parsing store ranges",
		},
		[]string{"table"},
	)
)

// instrumentedStore records call counts and latency for a tabular.Store
type instrumentedStore struct {
	next tabular.Store
}

// Instrument wraps store with prometheus metrics
func Instrument(store tabular.Store) tabular.Store {
	return &instrumentedStore{next: store}
}

func (s *instrumentedStore) ReadRange(ctx context.Context, rangeSpec string) ([][]string, error) {
	start := time.Now()
	rows, err := s.next.ReadRange(ctx, rangeSpec)
	observe("read", start, err)
	return rows, err
}

func (s *instrumentedStore) AppendRow(ctx context.Context, rangeSpec string, values []string) error {
	start := time.Now()
	err := s.next.AppendRow(ctx, rangeSpec, values)
	observe("append", start, err)
	return err
}

func observe(op string, start time.Time, err error) {
	storeCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	storeCalls.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, tabular.ErrRangeNotFound):
		return "range_not_found"
	case errors.Is(err, tabular.ErrUpstreamRejected):
		return "rejected"
	default:
		return "unavailable"
	}
}
