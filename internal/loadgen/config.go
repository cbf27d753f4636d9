package loadgen

import "time"

// Config holds configuration for the feedback load test.
type Config struct {
	BaseURL   string        // Base URL of the service
	Tier      string        // Tier to exercise
	Models    []string      // Model identifiers to rate
	NumEvents int           // Number of feedback events to submit
	TopN      int           // Number of leaderboard entries to fetch
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	Verbose   bool          // Enable verbose logging
}

// Feedback is one submission sent to POST /feedback.
type Feedback struct {
	QueryID         string `json:"query_id"`
	ModelIdentifier string `json:"model_identifier"`
	FeedbackType    string `json:"feedback_type"`
	UserID          string `json:"-"`
}

// FeedbackResult mirrors the response from POST /feedback.
type FeedbackResult struct {
	Success         bool   `json:"success"`
	ModelIdentifier string `json:"model_identifier"`
	NewScore        int    `json:"new_score"`
	TotalFeedbacks  int    `json:"total_feedbacks"`
}

// RankEntry mirrors one leaderboard row.
type RankEntry struct {
	Rank            int    `json:"rank"`
	ModelIdentifier string `json:"model_identifier"`
	Score           int    `json:"score"`
	TotalFeedbacks  int    `json:"total_feedbacks"`
}

// Stats holds test statistics.
type Stats struct {
	EventsGenerated    int
	EventsSubmitted    int
	EventsSuccessful   int
	EventsFailed       int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
