package encoding_test

import (
	"errors"
	"testing"

	"github.com/okian/sharpscore/internal/domain/encoding"
	"github.com/okian/sharpscore/internal/domain/features"
	"github.com/okian/sharpscore/internal/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLabelMap(t *testing.T) {
	Convey("Given a label map fit on repeated unsorted values", t, func() {
		m, err := encoding.NewLabelMap([]float64{1, 0, 1, 1, 0})
		So(err, ShouldBeNil)

		Convey("Then classes are sorted and distinct", func() {
			So(m.Classes(), ShouldResemble, []float64{0, 1})
		})

		Convey("Then encode and decode are inverse", func() {
			for _, v := range []float64{0, 1} {
				code, err := m.Encode(v)
				So(err, ShouldBeNil)
				back, err := m.Decode(code)
				So(err, ShouldBeNil)
				So(back, ShouldEqual, v)
			}
		})

		Convey("Then values and codes outside the domain fail", func() {
			_, err := m.Encode(2)
			So(errors.Is(err, encoding.ErrUnseenValue), ShouldBeTrue)
			_, err = m.Decode(5)
			So(errors.Is(err, encoding.ErrUnknownCode), ShouldBeTrue)
		})
	})

	Convey("Given an empty domain", t, func() {
		_, err := encoding.NewLabelMap(nil)
		So(errors.Is(err, encoding.ErrEmptyDomain), ShouldBeTrue)
	})
}

func TestCanonicalEncoder(t *testing.T) {
	Convey("Given the canonical encoder", t, func() {
		enc := encoding.Canonical()

		Convey("Then true and false map to 1 and 0 for every boolean field", func() {
			for _, name := range features.CategoricalNames() {
				f, err := enc.Encode(name, 0)
				So(err, ShouldBeNil)
				So(f, ShouldEqual, 0)
				tr, err := enc.Encode(name, 1)
				So(err, ShouldBeNil)
				So(tr, ShouldEqual, 1)
			}
		})

		Convey("Then encoding the same value twice is stable", func() {
			a, _ := enc.Encode(features.Headless, 1)
			b, _ := enc.Encode(features.Headless, 1)
			So(a, ShouldEqual, b)
		})

		Convey("Then continuous and unknown fields have no encoder", func() {
			_, err := enc.Encode(features.PageLoadTime, 100)
			So(errors.Is(err, encoding.ErrUnknownField), ShouldBeTrue)
		})

		Convey("Then an unseen value is fatal", func() {
			_, err := enc.Encode(features.EventCopy, 0.5)
			So(errors.Is(err, encoding.ErrUnseenValue), ShouldBeTrue)
		})

		Convey("When encoding a normalized row", func() {
			row, err := features.Normalize(testutil.Record("u"))
			So(err, ShouldBeNil)
			encoded, err := enc.EncodeRow(row)
			So(err, ShouldBeNil)

			Convey("Then continuous columns are untouched", func() {
				i, _ := features.Index(features.PageLoadTime)
				So(encoded.Vector()[i], ShouldEqual, 412.5)
				j, _ := features.Index(features.CookiesEnabled)
				So(encoded.Vector()[j], ShouldEqual, 1)
			})
		})

		Convey("When a row carries a non-boolean categorical value", func() {
			row, _ := features.Normalize(testutil.Record("u"))
			row.Headless = 3
			_, err := enc.EncodeRows([]features.Row{row})

			Convey("Then encoding the batch fails", func() {
				So(errors.Is(err, encoding.ErrUnseenValue), ShouldBeTrue)
			})
		})
	})
}

func TestFitEncoder(t *testing.T) {
	Convey("Given categorical columns observed in training data", t, func() {
		cols := map[string][]float64{}
		for _, name := range features.CategoricalNames() {
			cols[name] = []float64{1, 0, 0, 1}
		}

		Convey("When fitting", func() {
			enc, err := encoding.Fit(cols)
			So(err, ShouldBeNil)

			Convey("Then it matches the canonical encoder", func() {
				So(enc.Equal(encoding.Canonical()), ShouldBeTrue)
			})
		})

		Convey("When a column only saw one value", func() {
			cols[features.EventCopy] = []float64{1, 1}
			enc, err := encoding.Fit(cols)
			So(err, ShouldBeNil)

			Convey("Then codes drift from the canonical encoder", func() {
				So(enc.Equal(encoding.Canonical()), ShouldBeFalse)
				classes, ok := enc.Classes(features.EventCopy)
				So(ok, ShouldBeTrue)
				So(classes, ShouldResemble, []float64{1})
			})
		})

		Convey("When a categorical column is missing", func() {
			delete(cols, features.Headless)
			_, err := encoding.Fit(cols)
			So(errors.Is(err, encoding.ErrUnknownField), ShouldBeTrue)
		})
	})
}
