package loadgen

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/HagAli22/LLM-Dynamic-routing/pkg/logger"
)

// Feedback kind deltas mirrored for local score prediction.
const (
	deltaLike    = 5
	deltaDislike = -5
	deltaStar    = 10
	baseline     = 100
)

// kind distribution per model position: earlier models in the config
// list get friendlier feedback so the expected ordering is known.
const (
	rollDivisor  = 100
	starCeiling  = 15
	likeSpread   = 50
	biasPerIndex = 12
)

// roll returns a random int in [0, n) using crypto/rand.
func roll(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// generateFeedback creates the requested number of feedback events,
// biased so models earlier in the list accumulate higher scores.
// It returns the events and the expected final score per model.
func generateFeedback(ctx context.Context, config *Config, stats *Stats) ([]Feedback, map[string]int) {
	logger.Get().Info(ctx, "generating feedback events",
		logger.Int("numEvents", config.NumEvents),
		logger.Int("models", len(config.Models)),
	)

	events := make([]Feedback, 0, config.NumEvents)
	expected := make(map[string]int, len(config.Models))
	for _, id := range config.Models {
		expected[id] = baseline
	}

	for i := 0; i < config.NumEvents; i++ {
		idx := int(roll(int64(len(config.Models))))
		id := config.Models[idx]

		kind, delta := pickKind(idx)
		expected[id] += delta

		events = append(events, Feedback{
			QueryID:         "query_" + strconv.Itoa(i) + "_" + uuid.NewString(),
			ModelIdentifier: id,
			FeedbackType:    kind,
			UserID:          "loadgen_" + strconv.Itoa(int(roll(32))),
		})
	}

	stats.EventsGenerated = len(events)
	return events, expected
}

// pickKind biases the feedback mix by model position: index 0 gets the
// most stars and likes, later indexes drift toward dislikes.
func pickKind(idx int) (string, int) {
	r := roll(rollDivisor)
	likeCut := int64(starCeiling + likeSpread - idx*biasPerIndex)
	switch {
	case r < starCeiling:
		return "star", deltaStar
	case r < likeCut:
		return "like", deltaLike
	default:
		return "dislike", deltaDislike
	}
}
