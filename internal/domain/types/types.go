// Package types contains common types used across the application.
package types

// RankEntry represents one row of a tier leaderboard.
type RankEntry struct {
	Rank            int     `json:"rank"`
	ModelIdentifier string  `json:"model_identifier"`
	ModelName       string  `json:"model_name"`
	Score           int     `json:"score"`
	TotalLikes      int     `json:"total_likes"`
	TotalDislikes   int     `json:"total_dislikes"`
	TotalStars      int     `json:"total_stars"`
	TotalFeedbacks  int     `json:"total_feedbacks"`
	SuccessRate     float64 `json:"success_rate"`
}

// ModelStats mirrors RankEntry for a single model plus tier membership.
// Rank is 0 when the model is not currently ranked (deactivated).
type ModelStats struct {
	ModelIdentifier string  `json:"model_identifier"`
	ModelName       string  `json:"model_name"`
	Tier            string  `json:"tier"`
	Rank            int     `json:"rank,omitempty"`
	Score           int     `json:"score"`
	TotalLikes      int     `json:"total_likes"`
	TotalDislikes   int     `json:"total_dislikes"`
	TotalStars      int     `json:"total_stars"`
	TotalFeedbacks  int     `json:"total_feedbacks"`
	SuccessRate     float64 `json:"success_rate"`
	LastUpdated     string  `json:"last_updated"`
	Active          bool    `json:"active"`
}

// FeedbackResult is the response to a processed feedback submission.
type FeedbackResult struct {
	Success         bool   `json:"success"`
	ModelIdentifier string `json:"model_identifier"`
	FeedbackType    string `json:"feedback_type"`
	PointsChange    int    `json:"points_change"`
	NewScore        int    `json:"new_score"`
	TotalFeedbacks  int    `json:"total_feedbacks"`
}

// FeedbackRecord is one ledger entry as exposed by the history endpoint.
type FeedbackRecord struct {
	ID              string `json:"id"`
	QueryID         string `json:"query_id"`
	UserID          string `json:"user_id"`
	ModelIdentifier string `json:"model_identifier"`
	FeedbackType    string `json:"feedback_type"`
	PointsChange    int    `json:"points_change"`
	CreatedAt       string `json:"created_at"`
}

// TopModel is the per-tier winner reported by the summary endpoint.
type TopModel struct {
	ModelIdentifier string `json:"model_identifier"`
	ModelName       string `json:"model_name"`
	Score           int    `json:"score"`
}

// Summary aggregates the state of the whole rating system.
type Summary struct {
	TotalModels   int                 `json:"total_models"`
	TotalLikes    int                 `json:"total_likes"`
	TotalDislikes int                 `json:"total_dislikes"`
	TotalStars    int                 `json:"total_stars"`
	TopModels     map[string]TopModel `json:"top_models"`
}
