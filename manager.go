package goToken

import (
	"time"
)

// Manager issues and verifies tokens of one subject type under a validated
// Config, recording the outcome of every call in its Metrics.
//
// Manager methods are safe to call from multiple goroutines.
type Manager[S Subject] struct {
	config  Config
	now     func() time.Time
	metrics *Metrics
}

// NewManager binds cfg to subject type S. Extra options are applied after the
// ones derived from cfg; WithClock is the usual one. The merged configuration
// must pass Validate, so options cannot widen the leeway bound or select an
// unsupported algorithm.
func NewManager[S Subject](cfg Config, opts ...Option) (*Manager[S], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := buildOptions(append(cfg.options(), opts...))
	cfg.Algorithm = o.algorithm
	cfg.Leeway = o.leeway
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Manager[S]{
		config:  cfg,
		now:     o.now,
		metrics: NewMetrics(cfg.Metrics),
	}, nil
}

// Issue creates and signs a token for subject.
func (m *Manager[S]) Issue(subject S) (Encoded[S], error) {
	enc, err := New(subject, m.options()...).Encode(m.options()...)
	if err != nil {
		m.metrics.Inc(MetricIssueFailure)
		return Encoded[S]{}, err
	}
	m.metrics.Inc(MetricIssueSuccess)
	return enc, nil
}

// Verify decodes token as a subject of type S.
func (m *Manager[S]) Verify(token string) (Decoded[S], error) {
	var start time.Time
	if m.metrics.LatencyEnabled() {
		start = time.Now()
	}

	dec, err := FromString[S](token).Decode(m.options()...)

	if m.metrics.LatencyEnabled() {
		m.metrics.Observe(MetricVerifyLatency, time.Since(start))
	}
	if err != nil {
		m.recordVerifyFailure(err)
		return Decoded[S]{}, err
	}
	m.metrics.Inc(MetricVerifySuccess)
	return dec, nil
}

// Config returns the effective configuration.
func (m *Manager[S]) Config() Config {
	return m.config
}

// MetricsSnapshot returns the current counters; exporters read it on every scrape.
func (m *Manager[S]) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.Snapshot()
}

func (m *Manager[S]) options() []Option {
	return []Option{
		WithAlgorithm(m.config.Algorithm),
		WithLeeway(m.config.Leeway),
		WithClock(m.now),
	}
}

func (m *Manager[S]) recordVerifyFailure(err error) {
	m.metrics.Inc(MetricVerifyFailure)
	switch {
	case IsExpired(err):
		m.metrics.Inc(MetricVerifyExpired)
	case IsSignatureInvalid(err):
		m.metrics.Inc(MetricVerifySignatureInvalid)
	case IsMalformed(err):
		m.metrics.Inc(MetricVerifyMalformed)
	}
}
