package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/sharpscore/internal/adapters/explain"
	"github.com/okian/sharpscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.MongoCollection, convey.ShouldEqual, "fingerprints")
			convey.So(cfg.ExplainerModel, convey.ShouldEqual, "grok-2")
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with bad settings", t, func() {
		cases := map[string]func(*config.Config){
			"unknown store":     func(c *config.Config) { c.StoreDriver = "redis" },
			"mongo without uri": func(c *config.Config) { c.StoreDriver = "mongo" },
			"unknown provider":  func(c *config.Config) { c.ExplainerProvider = "oracle" },
			"unknown format":    func(c *config.Config) { c.LogFormat = "xml" },
			"empty model path":  func(c *config.Config) { c.ModelPath = " " },
		}
		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			convey.Convey("Then "+name+" is rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}

func TestConfig_Wiring(t *testing.T) {
	convey.Convey("Given a config", t, func() {
		cfg := config.New()

		convey.Convey("Then the static provider is the default explainer", func() {
			e, err := cfg.Explainer()
			convey.So(err, convey.ShouldBeNil)
			_, ok := e.(*explain.StaticExplainer)
			convey.So(ok, convey.ShouldBeTrue)
		})

		convey.Convey("Then the chat provider is built from the explainer keys", func() {
			cfg.ExplainerProvider = config.ProviderChat
			cfg.ExplainerAPIKey = "key"
			e, err := cfg.Explainer()
			convey.So(err, convey.ShouldBeNil)
			_, ok := e.(*explain.ChatExplainer)
			convey.So(ok, convey.ShouldBeTrue)
		})

		convey.Convey("Then the store settings are carried over", func() {
			cfg.StoreDriver = "SQLite"
			cfg.SQLDSN = "file:x.db"
			st := cfg.Store()
			convey.So(st.Driver, convey.ShouldEqual, "sqlite")
			convey.So(st.SQLDSN, convey.ShouldEqual, "file:x.db")
		})
	})
}
