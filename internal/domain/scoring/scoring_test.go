package scoring_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/okian/sharpscore/internal/domain/features"
	"github.com/okian/sharpscore/internal/domain/fingerprint"
	"github.com/okian/sharpscore/internal/domain/scoring"
	"github.com/okian/sharpscore/internal/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregate(t *testing.T) {
	Convey("Given per-record predictions", t, func() {
		Convey("Then the mean is truncated toward zero", func() {
			score, err := scoring.Aggregate([]float64{10.9, 20.5})
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 15)
		})

		Convey("Then a single prediction aggregates to itself", func() {
			score, err := scoring.Aggregate([]float64{99.99})
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 99)
		})

		Convey("Then the result is clamped to the score range", func() {
			lo, _ := scoring.Aggregate([]float64{-5})
			hi, _ := scoring.Aggregate([]float64{250})
			So(lo, ShouldEqual, 0)
			So(hi, ShouldEqual, 100)
		})

		Convey("Then no predictions is an error", func() {
			_, err := scoring.Aggregate(nil)
			So(errors.Is(err, scoring.ErrNoRecords), ShouldBeTrue)
		})
	})

	Convey("Given raw model outputs", t, func() {
		So(scoring.Clip(-0.1), ShouldEqual, 0)
		So(scoring.Clip(42.5), ShouldEqual, 42.5)
		So(scoring.Clip(100.1), ShouldEqual, 100)
	})
}

func TestScorer(t *testing.T) {
	ctx := context.Background()

	Convey("Given a scorer over a fitted artifact", t, func() {
		a, err := testutil.Artifact(300, 8)
		So(err, ShouldBeNil)
		s, err := scoring.NewScorer(a)
		So(err, ShouldBeNil)

		Convey("When scoring one record", func() {
			res, err := s.Score(ctx, testutil.Records("u1", 1))
			So(err, ShouldBeNil)

			Convey("Then the score is the truncated clipped prediction", func() {
				So(len(res.Predictions), ShouldEqual, 1)
				So(res.Score, ShouldEqual, int(math.Trunc(res.Predictions[0])))
				So(res.Score, ShouldBeBetweenOrEqual, 0, 100)
			})
		})

		Convey("When scoring several records", func() {
			recs := testutil.Records("u1", 3)
			recs[1].Hardware.CPUCores = fingerprint.Float(32)
			recs[2].Headless = fingerprint.Bool(true)
			res, err := s.Score(ctx, recs)
			So(err, ShouldBeNil)

			Convey("Then the score is the mean of the predictions", func() {
				want, _ := scoring.Aggregate(res.Predictions)
				So(res.Score, ShouldEqual, want)
				for _, p := range res.Predictions {
					So(p, ShouldBeBetweenOrEqual, 0, 100)
				}
			})
		})

		Convey("When there are no records", func() {
			_, err := s.Score(ctx, nil)
			So(errors.Is(err, scoring.ErrNoRecords), ShouldBeTrue)
		})

		Convey("When one record is missing a nested field", func() {
			recs := testutil.Records("u1", 2)
			recs[1].Battery = nil
			_, err := s.Score(ctx, recs)

			Convey("Then the whole batch fails with an extraction error", func() {
				var xe *features.ExtractionError
				So(errors.As(err, &xe), ShouldBeTrue)
				So(xe.Path, ShouldEqual, "battery")
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Score(cctx, testutil.Records("u1", 1))
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestArtifact(t *testing.T) {
	Convey("Given a fitted artifact", t, func() {
		a, err := testutil.Artifact(200, 5)
		So(err, ShouldBeNil)
		So(a.Validate(), ShouldBeNil)
		So(a.Features, ShouldResemble, features.Names())

		Convey("When saved and loaded again", func() {
			path := filepath.Join(t.TempDir(), "model", "sharpscore.gob")
			So(scoring.Save(path, a), ShouldBeNil)
			back, err := scoring.Load(path)
			So(err, ShouldBeNil)

			Convey("Then predictions on a fixed sample are bit-identical", func() {
				before, _ := scoring.NewScorer(a)
				after, _ := scoring.NewScorer(back)
				recs := testutil.Records("u", 4)
				recs[3].Screen.Width = fingerprint.Float(2560)
				recs[3].Screen.Height = fingerprint.Float(1440)

				want, err := before.Predict(context.Background(), recs)
				So(err, ShouldBeNil)
				got, err := after.Predict(context.Background(), recs)
				So(err, ShouldBeNil)
				for i := range want {
					So(math.Float64bits(got[i]), ShouldEqual, math.Float64bits(want[i]))
				}
			})
		})

		Convey("When the stored schema differs", func() {
			a.Features = append(a.Features[1:], a.Features[0])
			_, err := scoring.NewScorer(a)
			So(errors.Is(err, scoring.ErrSchemaMismatch), ShouldBeTrue)
		})

		Convey("When the model expects another width", func() {
			a.Forest.NumFeatures = 3
			err := a.Validate()
			So(errors.Is(err, scoring.ErrSchemaMismatch), ShouldBeTrue)
		})

		Convey("When the version is unknown", func() {
			a.Version = 99
			var buf bytes.Buffer
			So(a.Encode(&buf), ShouldBeNil)
			_, err := scoring.Decode(&buf)
			So(errors.Is(err, scoring.ErrArtifact), ShouldBeTrue)
		})
	})

	Convey("Given bytes that are not an artifact", t, func() {
		_, err := scoring.Decode(bytes.NewBufferString("not gob"))
		So(errors.Is(err, scoring.ErrArtifact), ShouldBeTrue)
	})

	Convey("Given a missing artifact file", t, func() {
		_, err := scoring.Load(filepath.Join(t.TempDir(), "nope.gob"))
		So(err, ShouldNotBeNil)
	})

	Convey("Given no artifact", t, func() {
		_, err := scoring.NewScorer(nil)
		So(errors.Is(err, scoring.ErrArtifact), ShouldBeTrue)
	})
}
