package intake

import "time"

// Pipeline stages, used as metric labels and log fields.
const (
	StageExtract  = "extract"
	StageFields   = "fields"
	StageClassify = "classify"
	StageRoute    = "route"
	StageAuto     = "auto_process"
)

// Metrics receives pipeline measurements. The Prometheus implementation
// lives in internal/infrastructure/monitoring/prometheus.
type Metrics interface {
	ObserveStage(stage string, d time.Duration)
	ClaimProcessed(claimType string, format string)
	ClaimFailed(code string)
	ObservePriority(score int)
	SetQueueDepth(n int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveStage(string, time.Duration) {}
func (nopMetrics) ClaimProcessed(string, string)      {}
func (nopMetrics) ClaimFailed(string)                 {}
func (nopMetrics) ObservePriority(int)                {}
func (nopMetrics) SetQueueDepth(int)                  {}

//Personal.AI order the ending
