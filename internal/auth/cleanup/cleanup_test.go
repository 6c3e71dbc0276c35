package cleanup

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlibekovAA/gql-user-auth/internal/common/clock"
	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
)

type mockClearer struct {
	clearFunc func(ctx context.Context, now time.Time) (int64, error)
	calls     atomic.Int32
}

func (m *mockClearer) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	m.calls.Add(1)
	if m.clearFunc != nil {
		return m.clearFunc(ctx, now)
	}
	return 0, nil
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "test", "debug")
}

func TestSweepOnce_UsesClockTime(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockClearer{
		clearFunc: func(ctx context.Context, at time.Time) (int64, error) {
			if !at.Equal(now) {
				t.Errorf("expected sweep at %v, got %v", now, at)
			}
			return 4, nil
		},
	}

	cleared, err := SweepOnce(context.Background(), repo, clock.NewMockClock(now), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleared != 4 {
		t.Errorf("expected 4 cleared, got %d", cleared)
	}
}

func TestSweepOnce_Error(t *testing.T) {
	repo := &mockClearer{
		clearFunc: func(ctx context.Context, at time.Time) (int64, error) {
			return 0, errors.New("cleanup error")
		},
	}

	if _, err := SweepOnce(context.Background(), repo, clock.NewRealClock(), testLogger()); err == nil {
		t.Fatal("expected error")
	}
}

func TestStartResetTokenCleanup_RunsUntilCancelled(t *testing.T) {
	repo := &mockClearer{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		StartResetTokenCleanup(ctx, repo, clock.NewRealClock(), 10*time.Millisecond, testLogger())
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for repo.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper did not run")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
