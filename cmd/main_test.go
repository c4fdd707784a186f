package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/sportgrade/internal/config"
	"github.com/okian/sportgrade/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const testCatalog = "../internal/adapters/catalog/testdata/catalog.yaml"

func testConfig() *config.Config {
	cfg := config.New()
	cfg.Addr = "127.0.0.1:0"
	cfg.CatalogPath = testCatalog
	cfg.WorkerCount = 2
	cfg.QueueSize = 16
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func TestConfigFromEnv(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("SPORTGRADE_ADDR", ":8080")
		t.Setenv("SPORTGRADE_QUEUE_SIZE", "1000")
		t.Setenv("SPORTGRADE_WORKER_COUNT", "4")

		convey.Convey("Then configuration picks them up", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
		})
	})
}

func TestNewService(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		ctx := context.Background()
		cfg := testConfig()

		convey.Convey("When the catalog exists", func() {
			svc, err := newService(ctx, cfg, logger.NewNop())

			convey.Convey("Then the service serves it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Catalog().Catalog().GradingKeys, convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When the catalog is missing", func() {
			cfg.CatalogPath = "missing.yaml"
			svc, err := newService(ctx, cfg, logger.NewNop())

			convey.Convey("Then startup fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(svc, convey.ShouldBeNil)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given the wired mux", t, func() {
		ctx := context.Background()
		cfg := testConfig()
		svc, err := newService(ctx, cfg, logger.NewNop())
		convey.So(err, convey.ShouldBeNil)
		mux := newMux(ctx, cfg, svc, logger.NewNop())

		convey.Convey("Then API and docs routes respond", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("POST", "/evaluate",
				strings.NewReader(`{"kind":"grade","gradingKeyId":"school-100","score":92}`)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"grade":"1"`)

			w = httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/openapi.yaml", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

			w = httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("POST", "/catalog/reload", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a running server", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- run(ctx, testConfig(), logger.NewNop()) }()
		time.Sleep(50 * time.Millisecond)

		convey.Convey("When the context is cancelled", func() {
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("run did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given an unusable catalog", t, func() {
		cfg := testConfig()
		cfg.CatalogPath = "missing.yaml"

		convey.Convey("Then run fails before listening", func() {
			convey.So(run(context.Background(), cfg, logger.NewNop()), convey.ShouldNotBeNil)
		})
	})
}
