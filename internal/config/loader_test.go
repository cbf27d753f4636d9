package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/HagAli22/LLM-Dynamic-routing/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"ROUTER_CONFIG",
		"ROUTER_ADDR",
		"ROUTER_LOG_LEVEL",
		"ROUTER_QUEUE_SIZE",
		"ROUTER_WORKER_COUNT",
		"ROUTER_MAX_LEADERBOARD_LIMIT",
		"ROUTER_BASELINE_SCORE",
		"ROUTER_FAILURE_THRESHOLD",
		"ROUTER_COOLDOWN_SECONDS",
		"ROUTER_FEEDBACK_TIMEOUT_MS",
		"ROUTER_LEDGER_PATH",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.FailureThreshold, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ROUTER_ADDR", ":8080")
			_ = os.Setenv("ROUTER_QUEUE_SIZE", "500")
			_ = os.Setenv("ROUTER_WORKER_COUNT", "4")
			_ = os.Setenv("ROUTER_FAILURE_THRESHOLD", "5")
			_ = os.Setenv("ROUTER_LEDGER_PATH", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.FailureThreshold, convey.ShouldEqual, 5)
				convey.So(cfg.LedgerPath, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "addr: \":7070\"\nbaseline_score: 50\nmodels:\n  fast:\n    - \"org/tiny:free\"\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("ROUTER_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.BaselineScore, convey.ShouldEqual, 50)
				convey.So(cfg.Models["fast"], convey.ShouldResemble, []string{"org/tiny:free"})
			})

			convey.Convey("And env should still win over the file", func() {
				_ = os.Setenv("ROUTER_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config is invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ROUTER_QUEUE_SIZE", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation should reject it", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "queue_size")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ROUTER_CONFIG", "/nonexistent/config.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
