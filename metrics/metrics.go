// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/smartvote/models"
)

const namespace = "smartvote"

// Login outcomes.
const (
	OutcomeCodeSent = "code_sent"
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds the portal's collectors.
type Metrics struct {
	logins           *prometheus.CounterVec
	nominations      prometheus.Counter
	reviews          *prometheus.CounterVec
	ballotsConfirmed prometheus.Counter
	pipelineStage    prometheus.Gauge
	phase            *prometheus.GaugeVec
	turnout          prometheus.Gauge
}

// New creates the collectors and registers them with reg. Collectors that
// are already registered are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.logins, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "login steps by role and outcome",
	}, []string{"role", "outcome"})); err != nil {
		return nil, err
	}
	if m.nominations, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "nominations_total",
		Help:      "nominations submitted",
	})); err != nil {
		return nil, err
	}
	if m.reviews, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidate_reviews_total",
		Help:      "scrutiny decisions by resulting status",
	}, []string{"status"})); err != nil {
		return nil, err
	}
	if m.ballotsConfirmed, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ballots_confirmed_total",
		Help:      "voters whose ballot was confirmed for the first time",
	})); err != nil {
		return nil, err
	}
	if m.pipelineStage, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pipeline_stage",
		Help:      "index of the current result-processing stage",
	})); err != nil {
		return nil, err
	}
	if m.phase, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "election_phase",
		Help:      "1 for the current election phase, 0 otherwise",
	}, []string{"phase"})); err != nil {
		return nil, err
	}
	if m.turnout, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "turnout_ratio",
		Help:      "share of registered voters marked as voted",
	})); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("registering collector: %w", err)
}

func (m *Metrics) Login(role, outcome string) {
	m.logins.WithLabelValues(role, outcome).Inc()
}

func (m *Metrics) Nomination() {
	m.nominations.Inc()
}

func (m *Metrics) Review(status string) {
	m.reviews.WithLabelValues(status).Inc()
}

func (m *Metrics) BallotConfirmed() {
	m.ballotsConfirmed.Inc()
}

func (m *Metrics) PipelineStage(index int) {
	m.pipelineStage.Set(float64(index))
}

// Phase marks p as the only current phase.
func (m *Metrics) Phase(p models.Phase) {
	for _, each := range models.Phases() {
		v := 0.0
		if each == p {
			v = 1
		}
		m.phase.WithLabelValues(string(each)).Set(v)
	}
}

// Turnout records voted/total; an empty roll reports 0.
func (m *Metrics) Turnout(total, voted int) {
	if total == 0 {
		m.turnout.Set(0)
		return
	}
	m.turnout.Set(float64(voted) / float64(total))
}
