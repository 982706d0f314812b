package prometheus

import (
	"strconv"
	"time"
)

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultStageDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60, 120}
	DefaultPriorityBuckets      = []float64{50, 60, 70, 80, 100, 150, 250, 500, 1000}
)

// ClaimMetrics records intake pipeline and HTTP measurements.
type ClaimMetrics struct {
	ClaimsProcessedTotal CounterVec
	ClaimsFailedTotal    CounterVec
	StageDuration        HistogramVec
	PriorityScore        HistogramVec
	ReviewQueueDepth     GaugeVec

	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec
}

// NewClaimMetrics registers every metric on c.
func NewClaimMetrics(c MetricsCollector) *ClaimMetrics {
	return &ClaimMetrics{
		ClaimsProcessedTotal: c.RegisterCounter("claims_processed_total",
			"Claims that completed the intake pipeline.", "claim_type", "format"),
		ClaimsFailedTotal: c.RegisterCounter("claims_failed_total",
			"Claims rejected or failed, by error code.", "code"),
		StageDuration: c.RegisterHistogram("pipeline_stage_duration_seconds",
			"Time spent in each pipeline stage.", DefaultStageDurationBuckets, "stage"),
		PriorityScore: c.RegisterHistogram("review_priority_score",
			"Priority scores of claims sent to human review.", DefaultPriorityBuckets),
		ReviewQueueDepth: c.RegisterGauge("review_queue_depth",
			"Claims currently waiting for human review."),

		HTTPRequestsTotal: c.RegisterCounter("http_requests_total",
			"HTTP requests by method, route and status.", "method", "route", "status"),
		HTTPRequestDuration: c.RegisterHistogram("http_request_duration_seconds",
			"HTTP request latency.", DefaultHTTPDurationBuckets, "method", "route"),
		HTTPActiveRequests: c.RegisterGauge("http_active_requests",
			"In-flight HTTP requests."),
	}
}

func (m *ClaimMetrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *ClaimMetrics) ClaimProcessed(claimType string, format string) {
	m.ClaimsProcessedTotal.WithLabelValues(claimType, format).Inc()
}

func (m *ClaimMetrics) ClaimFailed(code string) {
	m.ClaimsFailedTotal.WithLabelValues(code).Inc()
}

func (m *ClaimMetrics) ObservePriority(score int) {
	m.PriorityScore.WithLabelValues().Observe(float64(score))
}

func (m *ClaimMetrics) SetQueueDepth(n int) {
	m.ReviewQueueDepth.WithLabelValues().Set(float64(n))
}

// RecordHTTPRequest is called once per finished request.
func (m *ClaimMetrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

//Personal.AI order the ending
