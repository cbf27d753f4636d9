// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - Layer defaults, optional YAML file, then environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LedgerPath is the SQLite file backing the feedback ledger.
	// Empty means in-memory only (no durability across restarts).
	LedgerPath string `koanf:"ledger_path"`

	// QueueSize bounds the in-memory outcome report queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of outcome report workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxLeaderboardLimit caps leaderboard limit query params.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// BaselineScore is the starting score for newly registered models.
	BaselineScore int `koanf:"baseline_score"`

	// FailureThreshold is the consecutive-failure count that suspends
	// a model from routing.
	FailureThreshold int `koanf:"failure_threshold"`

	// CooldownSeconds is how long a routing suspension lasts.
	CooldownSeconds int `koanf:"cooldown_seconds"`

	// FeedbackTimeoutMS bounds the ledger append on the feedback path.
	FeedbackTimeoutMS int `koanf:"feedback_timeout_ms"`

	// Models seeds the registry: tier name to model identifiers.
	Models map[string][]string `koanf:"models"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		LedgerPath:          "feedback.db",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		MaxLeaderboardLimit: 100,
		BaselineScore:       100,
		FailureThreshold:    3,
		CooldownSeconds:     30,
		FeedbackTimeoutMS:   2000,
		Models: map[string][]string{
			"tier1": {
				"qwen/qwen3-coder:free",
				"deepseek/deepseek-chat-v3.1:free",
				"mistralai/mistral-small-3.2-24b-instruct:free",
			},
			"tier2": {
				"meta-llama/llama-3.3-70b-instruct:free",
				"google/gemma-3-27b-it:free",
			},
			"tier3": {
				"mistralai/mistral-7b-instruct:free",
				"meta-llama/llama-3.2-3b-instruct:free",
			},
		},
	}
}
