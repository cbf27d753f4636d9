package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/HagAli22/LLM-Dynamic-routing/pkg/logger"
)

// verifyLeaderboard fetches the tier leaderboard and checks it against
// the locally predicted scores: every submitted model present, scores
// matching when all submissions succeeded, ranks contiguous and scores
// non-increasing.
func verifyLeaderboard(ctx context.Context, config *Config, expected map[string]int, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/leaderboard/" + config.Tier + "?limit=" + strconv.Itoa(config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("leaderboard fetch failed with status: %d", resp.StatusCode)
	}

	var entries []RankEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return fmt.Errorf("failed to parse leaderboard: %w", err)
	}
	stats.LeaderboardEntries = len(entries)

	byID := make(map[string]RankEntry, len(entries))
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("ranks not contiguous: entry %d has rank %d", i, e.Rank)
		}
		if i > 0 && entries[i-1].Score < e.Score {
			return fmt.Errorf("scores not non-increasing at rank %d", e.Rank)
		}
		byID[e.ModelIdentifier] = e
	}

	// Exact score comparison only holds when nothing failed.
	exact := stats.EventsFailed == 0
	mismatches := 0
	for id, want := range expected {
		got, ok := byID[id]
		if !ok {
			return fmt.Errorf("model %s missing from leaderboard", id)
		}
		if exact && got.Score != want {
			mismatches++
			logger.Get().Warn(ctx, "score mismatch",
				logger.String("model", id),
				logger.Int("expected", want),
				logger.Int("actual", got.Score),
			)
		}
	}
	if mismatches > 0 {
		return fmt.Errorf("%d models have unexpected scores", mismatches)
	}

	logger.Get().Info(ctx, "leaderboard verified",
		logger.Int("entries", len(entries)),
		logger.Bool("exactScores", exact),
	)
	return nil
}
