package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/ledger"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/adapters/repository"
	"github.com/HagAli22/LLM-Dynamic-routing/internal/domain/feedback"
	"github.com/HagAli22/LLM-Dynamic-routing/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func newTestService(ctx context.Context, t *testing.T, opts ...Option) *Service {
	t.Helper()
	base := []Option{
		WithWorkerCount(2),
		WithQueueSize(16),
		WithModels(map[string][]string{
			"tier1": {"org/alpha:free", "org/beta:free", "org/gamma:free"},
			"tier2": {"org/delta:free"},
		}),
	}
	svc := New(append(base, opts...)...)
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("service start failed: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestSubmitFeedback(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newTestService(ctx, t)

		Convey("When a like, a star and a dislike land on one model", func() {
			r1, err1 := svc.SubmitFeedback(ctx, "q1", "u1", "org/alpha:free", feedback.KindLike)
			r2, err2 := svc.SubmitFeedback(ctx, "q2", "u1", "org/alpha:free", feedback.KindStar)
			r3, err3 := svc.SubmitFeedback(ctx, "q3", "u2", "org/alpha:free", feedback.KindDislike)

			Convey("Then the score walks 100 -> 105 -> 115 -> 110", func() {
				So(err1, ShouldBeNil)
				So(r1.NewScore, ShouldEqual, 105)
				So(r1.PointsChange, ShouldEqual, 5)
				So(err2, ShouldBeNil)
				So(r2.NewScore, ShouldEqual, 115)
				So(err3, ShouldBeNil)
				So(r3.NewScore, ShouldEqual, 110)
				So(r3.TotalFeedbacks, ShouldEqual, 3)
			})

			Convey("Then the model's stats report a 66.7% success rate", func() {
				stats, err := svc.StatsFor(ctx, "org/alpha:free")
				So(err, ShouldBeNil)
				So(stats.Score, ShouldEqual, 110)
				So(stats.TotalLikes, ShouldEqual, 1)
				So(stats.TotalDislikes, ShouldEqual, 1)
				So(stats.TotalStars, ShouldEqual, 1)
				So(stats.SuccessRate, ShouldAlmostEqual, 66.6667, 0.001)
			})

			Convey("Then the ledger kept every event", func() {
				records, err := svc.History(ctx, "org/alpha:free", 10)
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 3)
				// Newest first.
				So(records[0].FeedbackType, ShouldEqual, "dislike")
				So(records[2].FeedbackType, ShouldEqual, "like")
			})
		})

		Convey("When repeat feedback comes from the same user", func() {
			for i := 0; i < 3; i++ {
				_, err := svc.SubmitFeedback(ctx, "q1", "same-user", "org/alpha:free", feedback.KindLike)
				So(err, ShouldBeNil)
			}

			Convey("Then every submission counts", func() {
				stats, err := svc.StatsFor(ctx, "org/alpha:free")
				So(err, ShouldBeNil)
				So(stats.Score, ShouldEqual, 115)
				So(stats.TotalFeedbacks, ShouldEqual, 3)
			})
		})

		Convey("When the feedback type is unknown", func() {
			_, err := svc.SubmitFeedback(ctx, "q1", "u1", "org/alpha:free", feedback.Kind("meh"))

			Convey("Then it is rejected with ErrInvalidKind", func() {
				So(errors.Is(err, ErrInvalidKind), ShouldBeTrue)
			})
		})

		Convey("When the model is unknown", func() {
			_, err := svc.SubmitFeedback(ctx, "q1", "u1", "org/ghost:free", feedback.KindLike)

			Convey("Then it is rejected with ErrUnknownModel", func() {
				So(errors.Is(err, repository.ErrUnknownModel), ShouldBeTrue)
			})
		})

		Convey("When the model is deactivated", func() {
			_, err := svc.Deactivate(ctx, "org/alpha:free")
			So(err, ShouldBeNil)

			_, err = svc.SubmitFeedback(ctx, "q1", "u1", "org/alpha:free", feedback.KindLike)

			Convey("Then it is rejected without mutation", func() {
				So(errors.Is(err, repository.ErrModelDeactivated), ShouldBeTrue)
			})
		})
	})
}

func TestSubmitFeedbackPersistenceFailure(t *testing.T) {
	Convey("Given a service whose ledger append fails", t, func() {
		ctx := context.Background()
		journal := ledger.NewMemory()
		svc := newTestService(ctx, t, WithLedger(journal))

		before, err := svc.StatsFor(ctx, "org/alpha:free")
		So(err, ShouldBeNil)

		journal.FailNextAppend()
		_, err = svc.SubmitFeedback(ctx, "q1", "u1", "org/alpha:free", feedback.KindLike)

		Convey("Then the submission fails with ErrPersistence", func() {
			So(errors.Is(err, ledger.ErrPersistence), ShouldBeTrue)
		})

		Convey("Then no score changed and no event was recorded", func() {
			after, err := svc.StatsFor(ctx, "org/alpha:free")
			So(err, ShouldBeNil)
			So(after.Score, ShouldEqual, before.Score)
			So(after.TotalFeedbacks, ShouldEqual, 0)

			records, err := svc.History(ctx, "", 10)
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})
	})
}

func TestLeaderboards(t *testing.T) {
	Convey("Given a service with mixed feedback", t, func() {
		ctx := context.Background()
		svc := newTestService(ctx, t)

		// beta: +20, gamma: +5, alpha: -5.
		_, _ = svc.SubmitFeedback(ctx, "q1", "u1", "org/beta:free", feedback.KindStar)
		_, _ = svc.SubmitFeedback(ctx, "q2", "u1", "org/beta:free", feedback.KindStar)
		_, _ = svc.SubmitFeedback(ctx, "q3", "u1", "org/gamma:free", feedback.KindLike)
		_, _ = svc.SubmitFeedback(ctx, "q4", "u1", "org/alpha:free", feedback.KindDislike)

		Convey("When reading the tier leaderboard", func() {
			entries, err := svc.TopN(ctx, "tier1", 10)

			Convey("Then entries are ranked best to worst with contiguous ranks", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 3)
				So(entries[0].ModelIdentifier, ShouldEqual, "org/beta:free")
				So(entries[0].Score, ShouldEqual, 120)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].ModelIdentifier, ShouldEqual, "org/gamma:free")
				So(entries[2].ModelIdentifier, ShouldEqual, "org/alpha:free")
				So(entries[2].Rank, ShouldEqual, 3)
			})

			Convey("Then display names are derived from identifiers", func() {
				So(err, ShouldBeNil)
				So(entries[0].ModelName, ShouldEqual, "beta")
			})
		})

		Convey("When reading one model's stats", func() {
			stats, err := svc.StatsFor(ctx, "org/beta:free")

			Convey("Then the current tier rank is included", func() {
				So(err, ShouldBeNil)
				So(stats.Rank, ShouldEqual, 1)

				last, err := svc.StatsFor(ctx, "org/alpha:free")
				So(err, ShouldBeNil)
				So(last.Rank, ShouldEqual, 3)
			})

			Convey("Then a deactivated model reports no rank", func() {
				So(err, ShouldBeNil)
				stats, err := svc.Deactivate(ctx, "org/beta:free")
				So(err, ShouldBeNil)
				So(stats.Rank, ShouldEqual, 0)
			})
		})

		Convey("When reading an unknown tier", func() {
			entries, err := svc.TopN(ctx, "ghost", 10)

			Convey("Then the result is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("When reading all leaderboards", func() {
			boards, err := svc.AllLeaderboards(ctx, 10)

			Convey("Then each populated tier appears", func() {
				So(err, ShouldBeNil)
				So(boards, ShouldContainKey, "tier1")
				So(boards, ShouldContainKey, "tier2")
				So(boards["tier2"], ShouldHaveLength, 1)
			})
		})

		Convey("When reading the summary", func() {
			sum, err := svc.Summary(ctx)

			Convey("Then totals and per-tier winners are reported", func() {
				So(err, ShouldBeNil)
				So(sum.TotalModels, ShouldEqual, 4)
				So(sum.TotalLikes, ShouldEqual, 1)
				So(sum.TotalDislikes, ShouldEqual, 1)
				So(sum.TotalStars, ShouldEqual, 2)
				So(sum.TopModels["tier1"].ModelIdentifier, ShouldEqual, "org/beta:free")
			})
		})
	})
}

func TestAdminOperations(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newTestService(ctx, t)

		Convey("When a model's score is reset", func() {
			stats, err := svc.ResetScore(ctx, "org/alpha:free", 150)

			Convey("Then the new score shows up in the ranking", func() {
				So(err, ShouldBeNil)
				So(stats.Score, ShouldEqual, 150)
				So(stats.Rank, ShouldEqual, 1)

				entries, err := svc.TopN(ctx, "tier1", 1)
				So(err, ShouldBeNil)
				So(entries[0].ModelIdentifier, ShouldEqual, "org/alpha:free")
			})
		})

		Convey("When a model is deactivated and reactivated", func() {
			_, err := svc.Deactivate(ctx, "org/beta:free")
			So(err, ShouldBeNil)

			entries, err := svc.TopN(ctx, "tier1", 10)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)

			stats, err := svc.Reactivate(ctx, "org/beta:free")

			Convey("Then it returns to the ranking at its retained score", func() {
				So(err, ShouldBeNil)
				So(stats.Score, ShouldEqual, 100)
				entries, err := svc.TopN(ctx, "tier1", 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 3)
			})
		})

		Convey("When a model moves to another tier", func() {
			stats, err := svc.Retier(ctx, "org/gamma:free", "tier2")

			Convey("Then it leaves its old ranking and joins the new one", func() {
				So(err, ShouldBeNil)
				So(stats.Tier, ShouldEqual, "tier2")

				tier1, err := svc.TopN(ctx, "tier1", 10)
				So(err, ShouldBeNil)
				So(tier1, ShouldHaveLength, 2)

				tier2, err := svc.TopN(ctx, "tier2", 10)
				So(err, ShouldBeNil)
				So(tier2, ShouldHaveLength, 2)
			})
		})
	})
}

func TestStartupReplay(t *testing.T) {
	Convey("Given a ledger with recorded feedback", t, func() {
		ctx := context.Background()
		journal := ledger.NewMemory()
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, kind := range []feedback.Kind{feedback.KindLike, feedback.KindStar, feedback.KindLike} {
			_, err := journal.Append(ctx, feedback.Event{
				QueryID:   "q",
				UserID:    "u",
				ModelID:   "org/alpha:free",
				Kind:      kind,
				Delta:     kind.Delta(),
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			So(err, ShouldBeNil)
		}

		Convey("When the service starts over that ledger", func() {
			svc := newTestService(ctx, t, WithLedger(journal))

			Convey("Then scores are rebuilt from the events", func() {
				stats, err := svc.StatsFor(ctx, "org/alpha:free")
				So(err, ShouldBeNil)
				So(stats.Score, ShouldEqual, 120)
				So(stats.TotalFeedbacks, ShouldEqual, 3)

				entries, err := svc.TopN(ctx, "tier1", 1)
				So(err, ShouldBeNil)
				So(entries[0].ModelIdentifier, ShouldEqual, "org/alpha:free")
			})
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newTestService(ctx, t)

		stats := svc.GetStats()

		Convey("Then runtime stats are exposed", func() {
			So(stats["started"], ShouldBeTrue)
			So(stats["workerCount"], ShouldEqual, 2)
			So(stats["totalModels"], ShouldEqual, 4)
		})
	})
}
