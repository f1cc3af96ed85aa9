// Package threshold implements the Adaptive Threshold Manager (C11): a
// sliding window of execution outcomes that tunes the upstream planner's
// speculative-suggestion threshold based on observed false-positive and
// false-negative rates.
package threshold

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Mode classifies how a task was scheduled.
type Mode string

const (
	ModeSpeculative Mode = "speculative"
	ModeSuggestion  Mode = "suggestion"
	ModeExplicit    Mode = "explicit"
)

// Record is one execution outcome fed into the sliding window.
type Record struct {
	Confidence      float64
	Mode            Mode
	Success         bool
	UserAccepted    bool
	ExecutionTimeMs int64
}

const (
	defaultWindow = 50
	minWindowGate = 20
	rateAlarm     = 0.20
	step          = 0.02
)

// Thresholds mirrors the AdaptiveThresholds data model.
type Thresholds struct {
	ExplicitThreshold   float64
	SuggestionThreshold float64
	MinThreshold        float64
	MaxThreshold        float64
}

// Metrics is the snapshot Manager.Metrics returns.
type Metrics struct {
	SpeculativeAttempts  int
	SpeculativeSuccesses int
	SpeculativeFailures  int
	AvgExecutionTimeMs   float64
	AvgConfidence        float64
	SavedLatencyMs       int64
	WastedComputeMs      int64
}

// Manager holds one context's sliding window and thresholds. Callers shard
// by ContextHash for per-{workflowType,domain,complexity} tuning.
type Manager struct {
	mu         sync.Mutex
	window     []Record
	windowSize int
	thresholds Thresholds

	adjustmentsMetric prometheus.Counter
	thresholdMetric   prometheus.Gauge
}

// Config seeds a Manager's window size and initial/bound thresholds.
type Config struct {
	WindowSize int
	Initial    Thresholds
}

// New constructs a Manager. windowSize <= 0 defaults to 50. If reg is
// non-nil, an adjustment counter and a threshold gauge are registered
// against it.
func New(cfg Config, reg *prometheus.Registry) *Manager {
	windowSize := cfg.WindowSize
	if windowSize <= 0 {
		windowSize = defaultWindow
	}
	m := &Manager{windowSize: windowSize, thresholds: cfg.Initial}
	if reg != nil {
		m.adjustmentsMetric = prometheus.NewCounter(prometheus.CounterOpts{Name: "dagcore_threshold_adjustments_total"})
		m.thresholdMetric = prometheus.NewGauge(prometheus.GaugeOpts{Name: "dagcore_suggestion_threshold"})
		reg.MustRegister(m.adjustmentsMetric, m.thresholdMetric)
		m.thresholdMetric.Set(cfg.Initial.SuggestionThreshold)
	}
	return m
}

// Record appends an execution outcome to the window (evicting the oldest
// entry once windowSize is exceeded) and re-evaluates the suggestion
// threshold if the window has reached the gate size. FP adjustment is
// applied before FN adjustment when both fire in the same window.
func (m *Manager) Record(r Record) Thresholds {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.window = append(m.window, r)
	if len(m.window) > m.windowSize {
		m.window = m.window[len(m.window)-m.windowSize:]
	}

	if len(m.window) < minWindowGate {
		return m.thresholds
	}

	fpRate := m.falsePositiveRate()
	if fpRate > rateAlarm {
		m.thresholds.SuggestionThreshold += step
		if m.thresholds.SuggestionThreshold > m.thresholds.MaxThreshold {
			m.thresholds.SuggestionThreshold = m.thresholds.MaxThreshold
		}
		m.recordAdjustment()
	}

	fnRate := m.falseNegativeRate()
	if fnRate > rateAlarm {
		m.thresholds.SuggestionThreshold -= step
		if m.thresholds.SuggestionThreshold < m.thresholds.MinThreshold {
			m.thresholds.SuggestionThreshold = m.thresholds.MinThreshold
		}
		m.recordAdjustment()
	}

	return m.thresholds
}

func (m *Manager) recordAdjustment() {
	if m.adjustmentsMetric != nil {
		m.adjustmentsMetric.Inc()
	}
	if m.thresholdMetric != nil {
		m.thresholdMetric.Set(m.thresholds.SuggestionThreshold)
	}
}

// falsePositiveRate is the fraction of the window that is a failed
// speculative execution. Caller must hold m.mu.
func (m *Manager) falsePositiveRate() float64 {
	var count int
	for _, r := range m.window {
		if r.Mode == ModeSpeculative && !r.Success {
			count++
		}
	}
	return float64(count) / float64(len(m.window))
}

// falseNegativeRate is the fraction of the window that is a suggestion the
// user accepted, which succeeded, but whose confidence was below the
// current suggestion threshold (i.e. it should have been offered more
// confidently, or promoted). Caller must hold m.mu.
func (m *Manager) falseNegativeRate() float64 {
	var count int
	for _, r := range m.window {
		if r.Mode == ModeSuggestion && r.Success && r.UserAccepted && r.Confidence < m.thresholds.SuggestionThreshold {
			count++
		}
	}
	return float64(count) / float64(len(m.window))
}

// Thresholds returns the current threshold snapshot.
func (m *Manager) Thresholds() Thresholds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.thresholds
}

// Metrics summarizes the speculative-mode records currently in the window.
func (m *Manager) Metrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out Metrics
	var totalExecMs, totalConfidence float64
	for _, r := range m.window {
		if r.Mode != ModeSpeculative {
			continue
		}
		out.SpeculativeAttempts++
		totalExecMs += float64(r.ExecutionTimeMs)
		totalConfidence += r.Confidence
		if r.Success {
			out.SpeculativeSuccesses++
			out.SavedLatencyMs += r.ExecutionTimeMs
		} else {
			out.SpeculativeFailures++
			out.WastedComputeMs += r.ExecutionTimeMs
		}
	}
	if out.SpeculativeAttempts > 0 {
		out.AvgExecutionTimeMs = totalExecMs / float64(out.SpeculativeAttempts)
		out.AvgConfidence = totalConfidence / float64(out.SpeculativeAttempts)
	}
	return out
}
