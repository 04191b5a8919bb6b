package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/sharpscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"SHARP_CONFIG",
	"SHARP_ADDR",
	"SHARP_LOG_LEVEL",
	"SHARP_LOG_FORMAT",
	"SHARP_MODEL_PATH",
	"SHARP_STORE_DRIVER",
	"SHARP_MONGO_URI",
	"SHARP_SQL_DSN",
	"SHARP_EXPLAINER_PROVIDER",
	"SHARP_EXPLAINER_API_KEY",
	"SHARP_EXPLAINER_MAX_TOKENS",
	"SHARP_EXPLAINER_TEMPERATURE",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
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
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "memory")
				convey.So(cfg.ExplainerProvider, convey.ShouldEqual, "static")
				convey.So(cfg.ExplainerMaxTokens, convey.ShouldEqual, 150)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SHARP_ADDR", ":9090")
			_ = os.Setenv("SHARP_STORE_DRIVER", "sqlite")
			_ = os.Setenv("SHARP_SQL_DSN", "file:test.db")
			_ = os.Setenv("SHARP_EXPLAINER_MAX_TOKENS", "200")
			_ = os.Setenv("SHARP_EXPLAINER_TEMPERATURE", "0.2")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.SQLDSN, convey.ShouldEqual, "file:test.db")
				convey.So(cfg.ExplainerMaxTokens, convey.ShouldEqual, 200)
				convey.So(cfg.ExplainerTemperature, convey.ShouldEqual, 0.2)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := createTempConfigFile(t, `
addr: ":7070"
model_path: /models/rf.gob
log_format: json
`)
			_ = os.Setenv("SHARP_CONFIG", path)
			_ = os.Setenv("SHARP_ADDR", ":6060")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.ModelPath, convey.ShouldEqual, "/models/rf.gob")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("SHARP_CONFIG", createTempConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SHARP_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SHARP_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the chat provider is selected without a key", func() {
			_ = os.Setenv("SHARP_EXPLAINER_PROVIDER", "chat")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "explainer_api_key")
		})
	})
}
