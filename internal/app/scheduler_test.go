package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeDigest struct {
	calls atomic.Int32
	err   error
}

func (d *fakeDigest) SendPendingDigest(context.Context) (int, error) {
	d.calls.Add(1)
	return 2, d.err
}

type fakePurger struct {
	calls atomic.Int32
}

func (p *fakePurger) PurgeRevokedTokens(context.Context, time.Time) (int64, error) {
	p.calls.Add(1)
	return 1, nil
}

func TestSchedulerTicksUntilStopped(t *testing.T) {
	digest := &fakeDigest{}
	purger := &fakePurger{}
	s := NewScheduler(digest, purger, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		return digest.calls.Load() >= 2 && purger.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestSchedulerLogsDigestFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewScheduler(&fakeDigest{err: errors.New("boom")}, &fakePurger{}, time.Hour, zap.New(core))

	s.tick(context.Background())

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("Revoked tokens purged").Len())
}
