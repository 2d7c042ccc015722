package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration module.
// Tracks wizard step transitions, validation failures and provisioning phases.
type Metrics struct {
	StepTransitions    *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	PhaseResults       *prometheus.CounterVec
	ProvisionDuration  prometheus.Histogram
	Outcomes           *prometheus.CounterVec
}

// New creates the registration metrics on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StepTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_registration_step_transitions_total",
			Help: "Wizard step transitions by step and result",
		}, []string{"flow", "step", "result"}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_registration_validation_failures_total",
			Help: "Blocking validation failures surfaced on advance",
		}, []string{"field", "code"}),
		PhaseResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_provisioning_phase_results_total",
			Help: "Provisioning phase results by phase and status",
		}, []string{"phase", "status"}),
		ProvisionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "agora_provisioning_duration_seconds",
			Help:    "Duration of a full provisioning run",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_registration_outcomes_total",
			Help: "Terminal registration outcomes by flow",
		}, []string{"flow", "outcome"}),
	}
}

// IncStep records a wizard transition.
func (m *Metrics) IncStep(flow string, step int, result string) {
	m.StepTransitions.WithLabelValues(flow, strconv.Itoa(step), result).Inc()
}

// IncValidationFailure records the failure that blocked an advance.
func (m *Metrics) IncValidationFailure(field, code string) {
	m.ValidationFailures.WithLabelValues(field, code).Inc()
}

// IncPhase records one provisioning phase result.
func (m *Metrics) IncPhase(phase, status string) {
	m.PhaseResults.WithLabelValues(phase, status).Inc()
}

// ObserveProvision records the duration of a provisioning run.
// Call with time.Now() at the start of the run.
func (m *Metrics) ObserveProvision(start time.Time) {
	m.ProvisionDuration.Observe(time.Since(start).Seconds())
}

// IncOutcome records a terminal registration outcome.
func (m *Metrics) IncOutcome(flow, outcome string) {
	m.Outcomes.WithLabelValues(flow, outcome).Inc()
}
