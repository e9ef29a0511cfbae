package retry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebetterst/lightAIchat/llm"
)

type fakeTimer struct {
	mu     sync.Mutex
	c      chan time.Time
	delays []time.Duration
}

func newFakeTimer() *fakeTimer { return &fakeTimer{c: make(chan time.Time, 1)} }

func (f *fakeTimer) Start(d time.Duration) {
	f.mu.Lock()
	f.delays = append(f.delays, d)
	f.mu.Unlock()
	f.c <- time.Now()
}

func (f *fakeTimer) Stop() {}

func (f *fakeTimer) C() <-chan time.Time { return f.c }

func testPolicy(ft *fakeTimer) Policy {
	p := Default()
	p.NewTimer = func() backoff.Timer { return ft }
	return p
}

func timeoutErr() error {
	return &llm.Error{Provider: "deepseek", Kind: llm.KindTransient, Fault: llm.FaultTimeout, Message: "context deadline exceeded"}
}

func TestDoValue_RetriesTransientWithLinearBackoff(t *testing.T) {
	ft := newFakeTimer()
	calls := 0
	got, err := DoValue(context.Background(), testPolicy(ft), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", timeoutErr()
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, ft.delays)
}

func TestDo_ExhaustedReturnsTranslatedError(t *testing.T) {
	ft := newFakeTimer()
	calls := 0
	err := testPolicy(ft).Do(context.Background(), func(context.Context) error {
		calls++
		return timeoutErr()
	})
	require.Error(t, err)
	assert.Equal(t, DefaultMaxAttempts, calls)
	assert.Contains(t, err.Error(), "request timed out")
	assert.True(t, llm.IsTransient(err))
}

func TestDo_ConfigurationErrorIsNotRetried(t *testing.T) {
	ft := newFakeTimer()
	calls := 0
	cfgErr := llm.ConfigError(llm.ProviderBaidu, "malformed key")
	err := testPolicy(ft).Do(context.Background(), func(context.Context) error {
		calls++
		return cfgErr
	})
	assert.Equal(t, 1, calls)
	assert.Empty(t, ft.delays)
	assert.True(t, errors.Is(err, cfgErr))
}

func TestDo_StatusErrorIsNotRetried(t *testing.T) {
	ft := newFakeTimer()
	calls := 0
	err := testPolicy(ft).Do(context.Background(), func(context.Context) error {
		calls++
		return &llm.Error{Kind: llm.KindProtocol, Fault: llm.FaultStatus, HTTPStatus: 500}
	})
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "server responded with status 500")
}

func TestDo_StopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := Default()
	err := p.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return timeoutErr()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestZeroPolicyRunsOnce(t *testing.T) {
	calls := 0
	err := Policy{}.Do(context.Background(), func(context.Context) error {
		calls++
		return timeoutErr()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
