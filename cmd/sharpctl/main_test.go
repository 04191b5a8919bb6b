package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	app "github.com/okian/sharpscore/internal/app"
	"github.com/okian/sharpscore/internal/seeding"
	. "github.com/smartystreets/goconvey/convey"
)

func runApp(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	root := newApp()
	root.Writer = &out
	err := root.Run(ctx, append([]string{name}, args...))
	return out.String(), err
}

func TestOfflinePipeline(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.csv")
	model := filepath.Join(dir, "model.gob")
	t.Setenv("SHARP_STORE_DRIVER", "sqlite")
	t.Setenv("SHARP_SQL_DSN", "file:"+filepath.Join(dir, "records.db")+"?_pragma=busy_timeout(5000)")
	t.Setenv("SHARP_MODEL_PATH", model)
	t.Setenv("SHARP_LOG_LEVEL", "error")
	ctx := context.Background()

	Convey("Given a fresh workspace", t, func() {
		out, err := runApp(ctx, "generate", "--rows", "300", "--out", data)
		So(err, ShouldBeNil)
		So(out, ShouldContainSubstring, "wrote 300 rows")

		out, err = runApp(ctx, "train", "--dataset", data)
		So(err, ShouldBeNil)
		So(out, ShouldContainSubstring, "R2 score:")
		So(out, ShouldContainSubstring, "model saved to "+model)

		out, err = runApp(ctx, "seed", "--reset", "--count", "2", "--interval", "0s", "--seed", "7")
		So(err, ShouldBeNil)
		So(out, ShouldContainSubstring, "inserted 10 records")

		Convey("Then a seeded persona can be scored offline", func() {
			out, err := runApp(ctx, "score", "--user", seeding.SharpUserID)
			So(err, ShouldBeNil)
			var dec app.Decision
			So(json.Unmarshal([]byte(out), &dec), ShouldBeNil)
			So(dec.UserID, ShouldEqual, seeding.SharpUserID)
			So(dec.Score, ShouldBeBetweenOrEqual, 0, 100)
			So(dec.Records, ShouldEqual, 2)
			So(dec.Reason, ShouldNotBeBlank)
		})

		Convey("Then an unseeded user is reported as missing", func() {
			_, err := runApp(ctx, "score", "--user", "nobody")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "no data found")
		})
	})

	Convey("Given no dataset", t, func() {
		_, err := runApp(ctx, "train", "--dataset", filepath.Join(dir, "missing.csv"), "--model", filepath.Join(dir, "other.gob"))

		Convey("Then training fails without writing a model", func() {
			So(err, ShouldNotBeNil)
			_, statErr := os.Stat(filepath.Join(dir, "other.gob"))
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})
	})
}
