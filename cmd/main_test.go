package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/sharpscore/internal/adapters/repository"
	app "github.com/okian/sharpscore/internal/app"
	"github.com/okian/sharpscore/internal/config"
	"github.com/okian/sharpscore/internal/domain/scoring"
	"github.com/okian/sharpscore/internal/testutil"
	"github.com/okian/sharpscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SHARP_ADDR", ":8181")
			_ = os.Setenv("SHARP_STORE_DRIVER", "sqlite")
			defer func() {
				_ = os.Unsetenv("SHARP_ADDR")
				_ = os.Unsetenv("SHARP_STORE_DRIVER")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8181")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "sqlite")
			})
		})

		convey.Convey("When the model file is missing", func() {
			cfg := config.New()
			cfg.ModelPath = filepath.Join(t.TempDir(), "missing.gob")

			convey.Convey("Then run refuses to start", func() {
				err := run(context.Background(), cfg)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "load model")
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			a, err := testutil.Artifact(200, 3)
			convey.So(err, convey.ShouldBeNil)
			cfg := config.New()
			cfg.Addr = "127.0.0.1:0"
			cfg.ModelPath = filepath.Join(t.TempDir(), "model.gob")
			convey.So(scoring.Save(cfg.ModelPath, a), convey.ShouldBeNil)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			convey.Convey("Then run shuts down cleanly", func() {
				convey.So(run(ctx, cfg), convey.ShouldBeNil)
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the wired handler", t, func() {
		ctx := context.Background()
		a, err := testutil.Artifact(200, 3)
		convey.So(err, convey.ShouldBeNil)
		sc, err := scoring.NewScorer(a)
		convey.So(err, convey.ShouldBeNil)
		store := repository.NewMemoryStore()
		_, _ = store.Insert(ctx, testutil.Record("u1"))
		h := newHandler(ctx, app.New(store, sc))

		routes := map[string]int{
			"GET /health":       http.StatusOK,
			"GET /metrics":      http.StatusOK,
			"GET /stats":        http.StatusOK,
			"GET /api-docs":     http.StatusOK,
			"GET /openapi.yaml": http.StatusOK,
		}
		for route, want := range routes {
			method, path, _ := strings.Cut(route, " ")
			convey.Convey("Then "+route+" answers", func() {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(method, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, want)
			})
		}

		convey.Convey("Then a stored user can be scored", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/limit-increase", strings.NewReader(`{"userId":"u1"}`)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"score":`)
		})
	})
}
