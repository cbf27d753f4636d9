package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/loadgen"
	"github.com/HagAli22/LLM-Dynamic-routing/pkg/logger"
)

const defaultModels = "qwen/qwen3-coder:free," +
	"deepseek/deepseek-chat-v3.1:free," +
	"mistralai/mistral-small-3.2-24b-instruct:free"

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		tier    = flag.String("tier", "tier1", "Tier to exercise")
		models  = flag.String("models", defaultModels, "Comma-separated model identifiers")
		events  = flag.Int("events", 10000, "Number of feedback events to submit")
		topN    = flag.Int("top", 50, "Number of leaderboard entries to fetch")
		workers = flag.Int("workers", runtime.NumCPU()*2, "Number of concurrent workers")
		timeout = flag.Duration("timeout", 30*time.Second, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	if err := loadgen.SetupLogging(); err != nil {
		os.Stderr.WriteString("failed to set up logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config := &loadgen.Config{
		BaseURL:   *baseURL,
		Tier:      *tier,
		Models:    strings.Split(*models, ","),
		NumEvents: *events,
		TopN:      *topN,
		Workers:   *workers,
		Timeout:   *timeout,
		Verbose:   *verbose,
	}

	if err := loadgen.Run(ctx, config); err != nil {
		logger.Get().Error(ctx, "load test failed", logger.Error(err))
		os.Exit(1)
	}
}
