// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package simulate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayed_RunsFnAfterLatency(t *testing.T) {
	op := After(20*time.Millisecond, func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})

	start := time.Now()
	got, err := op.Do(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.True(t, time.Since(start) >= 20*time.Millisecond, "returned before latency elapsed")
}

func TestDelayed_NilFn(t *testing.T) {
	op := &Delayed[string, int]{}
	got, err := op.Do(context.Background(), "x")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestDelayed_PropagatesFailure(t *testing.T) {
	errBackend := errors.New("backend down")
	op := After(0, func(ctx context.Context, _ struct{}) (string, error) {
		return "", errBackend
	})

	_, err := op.Do(context.Background(), struct{}{})
	assert.ErrorIs(t, err, errBackend)
}

func TestDelayed_Cancelled(t *testing.T) {
	called := false
	op := After(time.Hour, func(ctx context.Context, _ int) (int, error) {
		called = true
		return 1, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := op.Do(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestFunc(t *testing.T) {
	var op Operation[int, int] = Func[int, int](func(ctx context.Context, n int) (int, error) {
		return n + 1, nil
	})
	got, err := op.Do(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestNoLatencies(t *testing.T) {
	assert.Equal(t, Latencies{}, NoLatencies())
	assert.Equal(t, 1500*time.Millisecond, DefaultLatencies().PipelineStage)
}
