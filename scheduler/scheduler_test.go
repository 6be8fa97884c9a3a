package scheduler

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"member-etl/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerWithOutput(&bytes.Buffer{}) }

func TestNewRejectsInvalidSpec(t *testing.T) {
	if _, err := New("every day at ten", newTestLogger(), func() {}); err == nil {
		t.Error("expected an error for an invalid cron expression")
	}
	if _, err := New("0 22 * * * *", newTestLogger(), func() {}); err == nil {
		t.Error("six fields should be rejected by the standard parser")
	}
}

func TestNewAcceptsDailySchedule(t *testing.T) {
	s, err := New("0 22 * * *", newTestLogger(), func() {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !s.Next().IsZero() {
		t.Error("Next should be zero before Run")
	}
}

func TestRunInvokesJobUntilCancelled(t *testing.T) {
	var calls int32
	s, err := New("@every 1s", newTestLogger(), func() { atomic.AddInt32(&calls, 1) })
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if n := atomic.LoadInt32(&calls); n < 1 {
		t.Errorf("job calls: got %d, want at least 1", n)
	}
}

func TestRunSurvivesPanickingJob(t *testing.T) {
	var calls int32
	s, err := New("@every 1s", newTestLogger(), func() {
		atomic.AddInt32(&calls, 1)
		panic("boom")
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if n := atomic.LoadInt32(&calls); n < 2 {
		t.Errorf("job calls: got %d, want at least 2", n)
	}
}
