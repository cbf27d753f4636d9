package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/feedback"
)

func TestScoreStore_RegisterAndRead(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore()

	created, err := s.Register(ctx, "org/model-a:free", "", "tier1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !created {
		t.Error("expected first registration to create the model")
	}

	// Registration is idempotent.
	created, err = s.Register(ctx, "org/model-a:free", "", "tier1")
	if err != nil {
		t.Fatalf("re-register failed: %v", err)
	}
	if created {
		t.Error("expected second registration to be a no-op")
	}

	snap, err := s.Read(ctx, "org/model-a:free")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if snap.Score != DefaultBaselineScore {
		t.Errorf("expected baseline score %d, got %d", DefaultBaselineScore, snap.Score)
	}
	if snap.Name != "model-a" {
		t.Errorf("expected derived display name, got %q", snap.Name)
	}
	if !snap.Active {
		t.Error("expected new model to be active")
	}

	if _, err := s.Read(ctx, "nope"); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestScoreStore_ApplyDelta(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore()
	_, _ = s.Register(ctx, "m", "m", "tier1")

	// like, star, dislike: 100 +5 +10 -5 = 110.
	steps := []struct {
		kind  feedback.Kind
		want  int
		total int
	}{
		{feedback.KindLike, 105, 1},
		{feedback.KindStar, 115, 2},
		{feedback.KindDislike, 110, 3},
	}
	for _, step := range steps {
		res, err := s.ApplyDelta(ctx, "m", step.kind.Delta(), step.kind)
		if err != nil {
			t.Fatalf("apply %s failed: %v", step.kind, err)
		}
		if res.NewScore != step.want {
			t.Errorf("after %s: expected score %d, got %d", step.kind, step.want, res.NewScore)
		}
		if res.Total != step.total {
			t.Errorf("after %s: expected total %d, got %d", step.kind, step.total, res.Total)
		}
	}

	snap, _ := s.Read(ctx, "m")
	if snap.Counters.Likes != 1 || snap.Counters.Dislikes != 1 || snap.Counters.Stars != 1 {
		t.Errorf("unexpected counters: %+v", snap.Counters)
	}
}

func TestScoreStore_ApplyDeltaUnknownAndDeactivated(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore()
	_, _ = s.Register(ctx, "m", "m", "tier1")

	if _, err := s.ApplyDelta(ctx, "ghost", 5, feedback.KindLike); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}

	if _, err := s.Deactivate(ctx, "m"); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := s.ApplyDelta(ctx, "m", 5, feedback.KindLike); !errors.Is(err, ErrModelDeactivated) {
		t.Errorf("expected ErrModelDeactivated, got %v", err)
	}

	// No mutation happened behind the error.
	snap, _ := s.Read(ctx, "m")
	if snap.Score != DefaultBaselineScore || snap.Total != 0 {
		t.Errorf("deactivated model mutated: %+v", snap)
	}

	if _, err := s.Reactivate(ctx, "m"); err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}
	if _, err := s.ApplyDelta(ctx, "m", 5, feedback.KindLike); err != nil {
		t.Errorf("apply after reactivate failed: %v", err)
	}
}

func TestScoreStore_ConcurrentDeltas(t *testing.T) {
	ctx := context.Background()
	s := NewScoreStore()
	_, _ = s.Register(ctx, "m", "m", "tier1")

	const n = 500
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ApplyDelta(ctx, "m", feedback.DeltaLike, feedback.KindLike); err != nil {
				t.Errorf("apply failed: %v", err)
			}
		}()
	}
	wg.Wait()

	snap, _ := s.Read(ctx, "m")
	want := DefaultBaselineScore + n*feedback.DeltaLike
	if snap.Score != want {
		t.Errorf("lost updates: expected score %d, got %d", want, snap.Score)
	}
	if snap.Total != n || snap.Counters.Likes != n {
		t.Errorf("expected %d applied events, got total=%d likes=%d", n, snap.Total, snap.Counters.Likes)
	}
}

func TestScoreStore_CommutativeDeltas(t *testing.T) {
	ctx := context.Background()

	// The same multiset of deltas yields the same score in any order.
	orders := [][]feedback.Kind{
		{feedback.KindLike, feedback.KindDislike, feedback.KindStar},
		{feedback.KindStar, feedback.KindLike, feedback.KindDislike},
		{feedback.KindDislike, feedback.KindStar, feedback.KindLike},
	}
	for _, order := range orders {
		s := NewScoreStore()
		_, _ = s.Register(ctx, "m", "m", "tier1")
		for _, k := range order {
			if _, err := s.ApplyDelta(ctx, "m", k.Delta(), k); err != nil {
				t.Fatalf("apply failed: %v", err)
			}
		}
		snap, _ := s.Read(ctx, "m")
		if snap.Score != 110 {
			t.Errorf("order %v: expected 110, got %d", order, snap.Score)
		}
	}
}

func TestScoreStore_AdminPaths(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewScoreStore(WithClock(func() time.Time { return now }))
	_, _ = s.Register(ctx, "m", "m", "tier1")

	snap, err := s.ResetScore(ctx, "m", 42)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if snap.Score != 42 {
		t.Errorf("expected score 42, got %d", snap.Score)
	}

	prev, snap, err := s.Retier(ctx, "m", "tier2")
	if err != nil {
		t.Fatalf("retier failed: %v", err)
	}
	if prev != "tier1" || snap.Tier != "tier2" {
		t.Errorf("unexpected tiers: prev=%s new=%s", prev, snap.Tier)
	}
	if snap.Score != 42 {
		t.Error("retier must not change the score")
	}

	if got := s.Count(ctx); got != 1 {
		t.Errorf("expected 1 model, got %d", got)
	}
}
