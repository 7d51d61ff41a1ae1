// Package metrics exposes Prometheus collectors for the scheduling engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "courtmatch"

// Recorder is what services use to report activity
type Recorder interface {
	ScheduleGenerated(gameType string)
	PublishAttempt(outcome string)
	ScoreRecorded()
	Substitution(changed bool)
	ScheduleReset()
	LockWait(d time.Duration)
}

// Metrics implements Recorder with Prometheus collectors
type Metrics struct {
	generations   *prometheus.CounterVec
	publishes     *prometheus.CounterVec
	scores        prometheus.Counter
	substitutions *prometheus.CounterVec
	resets        prometheus.Counter
	lockWait      prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedules_generated_total",
			Help:      "Draft schedules generated, by game type.",
		}, []string{"game_type"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_attempts_total",
			Help:      "Publish attempts, by outcome.",
		}, []string{"outcome"}),
		scores: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_recorded_total",
			Help:      "Score writes accepted.",
		}),
		substitutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "substitutions_total",
			Help:      "Substitutions applied, split by whether the schedule changed.",
		}, []string{"changed"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_resets_total",
			Help:      "Schedule resets.",
		}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schedule_lock_wait_seconds",
			Help:      "Time spent waiting for the per-schedule lock.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}),
	}
	reg.MustRegister(m.generations, m.publishes, m.scores, m.substitutions, m.resets, m.lockWait)
	return m
}

func (m *Metrics) ScheduleGenerated(gameType string) {
	m.generations.WithLabelValues(gameType).Inc()
}

func (m *Metrics) PublishAttempt(outcome string) {
	m.publishes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ScoreRecorded() {
	m.scores.Inc()
}

func (m *Metrics) Substitution(changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	m.substitutions.WithLabelValues(label).Inc()
}

func (m *Metrics) ScheduleReset() {
	m.resets.Inc()
}

func (m *Metrics) LockWait(d time.Duration) {
	m.lockWait.Observe(d.Seconds())
}

// Nop discards everything
type Nop struct{}

func (Nop) ScheduleGenerated(string) {}
func (Nop) PublishAttempt(string) {}
func (Nop) ScoreRecorded() {}
func (Nop) Substitution(bool) {}
func (Nop) ScheduleReset() {}
func (Nop) LockWait(time.Duration) {}

var (
	_ Recorder = (*Metrics)(nil)
	_ Recorder = Nop{}
)
