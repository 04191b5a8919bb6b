package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given a freshly initialized logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then the global logger is available", func() {
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("And a named logger can be derived", func() {
			named := Named("test")
			So(named, ShouldNotBeNil)
			named.Info(context.Background(), "named message")
		})
	})
}

func TestLoggerJSONFormat(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithFormat(FormatJSON, &buf), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When logging with fields", func() {
			Named("scorer").Info(context.Background(), "scored", String("user_id", "u-1"), Int("score", 42))

			Convey("Then the record carries fields, logger name and source", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "scored")
				So(rec["user_id"], ShouldEqual, "u-1")
				So(rec["score"], ShouldEqual, 42)
				So(rec["logger"], ShouldEqual, "scorer")
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised above debug", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(context.Background(), "hidden")
			Get().Warn(context.Background(), "shown")

			Convey("Then only the warning is written", func() {
				out := buf.String()
				So(strings.Contains(out, "hidden"), ShouldBeFalse)
				So(strings.Contains(out, "shown"), ShouldBeTrue)
			})
		})
	})
}

func TestLoggerInvalidInput(t *testing.T) {
	Convey("Given invalid logger settings", t, func() {
		Convey("Then an unknown format is rejected", func() {
			So(InitWithFormat("xml", nil), ShouldNotBeNil)
		})

		Convey("Then an unknown level is rejected", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}

func TestLoggerDefault(t *testing.T) {
	Convey("Given no initialized global logger", t, func() {
		saved := global
		global = nil
		defer func() { global = saved }()

		Convey("Then Default returns a usable discarding logger", func() {
			l := Default()
			So(l, ShouldNotBeNil)
			l.Named("quiet").Error(context.Background(), "dropped", Error(nil))
			So(func() { Get() }, ShouldPanic)
		})
	})

	Convey("Given an initialized global logger", t, func() {
		So(Init(), ShouldBeNil)
		So(Default(), ShouldEqual, Get())
	})
}
