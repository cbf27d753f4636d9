package loadgen

import (
	"fmt"
	"os"

	"github.com/HagAli22/LLM-Dynamic-routing/pkg/logger"
)

// SetupLogging initializes the logger for the tool.
func SetupLogging() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Feedback Load Test Tool
=======================

A concurrent tool for exercising the feedback and ranking pipeline.

Usage:
  go run cmd/loadgen/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -tier string
        Tier to exercise (default "tier1")
  -models string
        Comma-separated model identifiers (must match the service config)
  -events int
        Number of feedback events to submit (default 10000)
  -top int
        Number of leaderboard entries to fetch (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/loadgen/main.go

  # Test with custom parameters
  go run cmd/loadgen/main.go -events 50000 -workers 16 -tier tier2
`)
}
