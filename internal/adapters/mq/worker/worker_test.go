package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/mq/queue"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/router"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/model"
	"github.com/HagAli22/LLM-Dynamic-routing/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

// recordingReporter captures applied reports for assertions.
type recordingReporter struct {
	mu      sync.Mutex
	applied []Report
	fail    bool
}

func (r *recordingReporter) ReportOutcome(ctx context.Context, tier model.Tier, id string, outcome router.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("boom")
	}
	r.applied = append(r.applied, Report{Tier: tier, ModelID: id, Outcome: outcome})
	return nil
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applied)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWorker_ProcessesReports(t *testing.T) {
	ctx := context.Background()
	q := queue.NewInMemoryQueue(queue.WithCapacity(10))
	reporter := &recordingReporter{}

	w := NewWorker(q, reporter, WithName("test-worker"))
	go w.Run(ctx)

	q.Enqueue(ctx, Report{Tier: "tier1", ModelID: "m1", Outcome: router.OutcomeFailure})
	q.Enqueue(ctx, Report{Tier: "tier1", ModelID: "m2", Outcome: router.OutcomeSuccess})

	waitFor(t, func() bool { return reporter.count() == 2 })

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := w.Shutdown(shutdownCtx); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestWorker_ContinuesAfterReporterError(t *testing.T) {
	ctx := context.Background()
	q := queue.NewInMemoryQueue(queue.WithCapacity(10))
	reporter := &recordingReporter{fail: true}

	w := NewWorker(q, reporter)
	go w.Run(ctx)

	q.Enqueue(ctx, Report{Tier: "tier1", ModelID: "m1", Outcome: router.OutcomeFailure})

	// Let the failing report pass through, then recover.
	time.Sleep(50 * time.Millisecond)
	reporter.mu.Lock()
	reporter.fail = false
	reporter.mu.Unlock()

	q.Enqueue(ctx, Report{Tier: "tier1", ModelID: "m2", Outcome: router.OutcomeSuccess})
	waitFor(t, func() bool { return reporter.count() == 1 })

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = w.Shutdown(shutdownCtx)
}

func TestPool_DrainsOnShutdown(t *testing.T) {
	ctx := context.Background()
	q := queue.NewInMemoryQueue(queue.WithCapacity(100))
	reporter := &recordingReporter{}

	pool := NewPool(4, q, reporter)
	pool.Start(ctx)

	const n = 50
	for i := 0; i < n; i++ {
		if !q.Enqueue(ctx, Report{Tier: "tier1", ModelID: "m", Outcome: router.OutcomeSuccess}) {
			t.Fatal("enqueue failed")
		}
	}

	if err := pool.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if got := reporter.count(); got != n {
		t.Errorf("expected %d reports applied before shutdown returned, got %d", n, got)
	}
	if !q.IsClosed() {
		t.Error("expected shutdown to close the queue")
	}
}
