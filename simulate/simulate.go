// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package simulate

import (
	"context"
	"time"
)

// Operation turns a request into a result or a failure.
type Operation[Req, Res any] interface {
	Do(ctx context.Context, req Req) (Res, error)
}

// Func adapts a plain function to Operation.
type Func[Req, Res any] func(ctx context.Context, req Req) (Res, error)

func (f Func[Req, Res]) Do(ctx context.Context, req Req) (Res, error) {
	return f(ctx, req)
}

// Delayed waits Latency and then runs Fn. A nil Fn returns the zero result.
type Delayed[Req, Res any] struct {
	Latency time.Duration
	Fn      func(ctx context.Context, req Req) (Res, error)
}

// After builds a Delayed operation.
func After[Req, Res any](latency time.Duration, fn func(ctx context.Context, req Req) (Res, error)) *Delayed[Req, Res] {
	return &Delayed[Req, Res]{Latency: latency, Fn: fn}
}

func (d *Delayed[Req, Res]) Do(ctx context.Context, req Req) (Res, error) {
	var zero Res
	if err := Sleep(ctx, d.Latency); err != nil {
		return zero, err
	}
	if d.Fn == nil {
		return zero, nil
	}
	return d.Fn(ctx, req)
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Latencies are the response times the portal simulates for each backend call.
type Latencies struct {
	VoterDispatch     time.Duration
	CandidateDispatch time.Duration
	Verify            time.Duration
	AdminLogin        time.Duration
	PipelineStage     time.Duration
	VoterImport       time.Duration
	SettingsSave      time.Duration
}

// DefaultLatencies match the delays users of the portal are used to.
func DefaultLatencies() Latencies {
	return Latencies{
		VoterDispatch:     1200 * time.Millisecond,
		CandidateDispatch: 1500 * time.Millisecond,
		Verify:            1500 * time.Millisecond,
		AdminLogin:        1500 * time.Millisecond,
		PipelineStage:     1500 * time.Millisecond,
		VoterImport:       1500 * time.Millisecond,
		SettingsSave:      600 * time.Millisecond,
	}
}

// NoLatencies is used by tests and when latency simulation is switched off.
func NoLatencies() Latencies {
	return Latencies{}
}
