package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/sportgrade/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"SPORTGRADE_CONFIG",
	"SPORTGRADE_ADDR",
	"SPORTGRADE_QUEUE_SIZE",
	"SPORTGRADE_WORKER_COUNT",
	"SPORTGRADE_RESULT_CAPACITY",
	"SPORTGRADE_CATALOG_PATH",
	"SPORTGRADE_MAX_BATCH_SIZE",
	"SPORTGRADE_LOG_FORMAT",
	"SPORTGRADE_SHUTDOWN_TIMEOUT",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("SPORTGRADE_ADDR", ":8080")
			_ = os.Setenv("SPORTGRADE_QUEUE_SIZE", "42")
			_ = os.Setenv("SPORTGRADE_CATALOG_PATH", "/etc/sportgrade/catalog.yaml")
			_ = os.Setenv("SPORTGRADE_SHUTDOWN_TIMEOUT", "3s")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 42)
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/etc/sportgrade/catalog.yaml")
				convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 3*time.Second)
			})
		})

		convey.Convey("When a YAML file and env are both set", func() {
			path := writeConfig(t, `
# service settings
addr: ":9090"
worker_count: 3
result_capacity: 50
`)
			_ = os.Setenv("SPORTGRADE_CONFIG", path)
			_ = os.Setenv("SPORTGRADE_WORKER_COUNT", "5")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins over the file and the file over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 5)
				convey.So(cfg.ResultCapacity, convey.ShouldEqual, 50)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_ = os.Setenv("SPORTGRADE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file is not YAML", func() {
			_ = os.Setenv("SPORTGRADE_CONFIG", writeConfig(t, "addr: [unclosed"))

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a number does not parse", func() {
			_ = os.Setenv("SPORTGRADE_QUEUE_SIZE", "many")

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the batch size is zero", func() {
			_ = os.Setenv("SPORTGRADE_MAX_BATCH_SIZE", "0")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the log format is unknown", func() {
			_ = os.Setenv("SPORTGRADE_LOG_FORMAT", "xml")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
