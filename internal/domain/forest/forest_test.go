package forest

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"math"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// stepData has a target that depends only on feature 0; feature 1 is noise.
func stepData(n int, seed int64) ([][]float64, []float64) {
	r := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		a := float64(r.Intn(2))
		x[i] = []float64{a, r.Float64()}
		if a == 1 {
			y[i] = 0
		} else {
			y[i] = 100
		}
	}
	return x, y
}

func TestTree(t *testing.T) {
	Convey("Given a tree grown on a separable step", t, func() {
		x := [][]float64{{0}, {0}, {1}, {1}}
		y := []float64{10, 10, 90, 90}
		p := Params{Trees: 1, MaxDepth: 3, MinSamplesSplit: 2, MinSamplesLeaf: 1}
		b := newBuilder(x, y, p, len(x))
		b.grow([]int{0, 1, 2, 3}, 0)
		tree := Tree{Nodes: b.nodes}

		Convey("Then it splits once at the midpoint", func() {
			So(len(tree.Nodes), ShouldEqual, 3)
			So(tree.Nodes[0].Feature, ShouldEqual, 0)
			So(tree.Nodes[0].Threshold, ShouldEqual, 0.5)
			So(tree.Nodes[1].Leaf(), ShouldBeTrue)
		})

		Convey("Then leaves predict their means", func() {
			So(tree.Predict([]float64{0}), ShouldEqual, 10)
			So(tree.Predict([]float64{1}), ShouldEqual, 90)
		})

		Convey("Then the whole impurity decrease goes to the split feature", func() {
			So(b.importance[0], ShouldAlmostEqual, 6400, 1e-9)
		})
	})

	Convey("Given a depth limit of one", t, func() {
		x, y := stepData(200, 3)
		p := Params{Trees: 1, MaxDepth: 1, MinSamplesSplit: 2, MinSamplesLeaf: 1}
		idx := make([]int, len(x))
		for i := range idx {
			idx[i] = i
		}
		b := newBuilder(x, y, p, len(x))
		b.grow(idx, 0)

		Convey("Then the tree has a root and two leaves", func() {
			So(len(b.nodes), ShouldEqual, 3)
		})
	})
}

func TestFit(t *testing.T) {
	ctx := context.Background()

	Convey("Given a noisy step dataset", t, func() {
		x, y := stepData(400, 1)

		Convey("When fitting a small forest", func() {
			f, err := Fit(ctx, x, y, WithTrees(10), WithMaxDepth(4))
			So(err, ShouldBeNil)

			Convey("Then it recovers the step", func() {
				hi, err := f.Predict([]float64{0, 0.3})
				So(err, ShouldBeNil)
				lo, err := f.Predict([]float64{1, 0.3})
				So(err, ShouldBeNil)
				So(hi, ShouldAlmostEqual, 100, 1e-9)
				So(lo, ShouldAlmostEqual, 0, 1e-9)
			})

			Convey("Then importances sum to one and favour the signal", func() {
				var total float64
				for _, v := range f.Importances {
					total += v
				}
				So(total, ShouldAlmostEqual, 1, 1e-9)
				So(f.Importances[0], ShouldBeGreaterThan, f.Importances[1])
			})

			Convey("Then hyperparameters are kept", func() {
				So(f.Params.Trees, ShouldEqual, 10)
				So(f.Params.Seed, ShouldEqual, DefaultSeed)
				So(len(f.Trees), ShouldEqual, 10)
				So(f.NumFeatures, ShouldEqual, 2)
			})
		})

		Convey("When fitting twice with different worker counts", func() {
			a, err := Fit(ctx, x, y, WithTrees(6), WithWorkers(1))
			So(err, ShouldBeNil)
			b, err := Fit(ctx, x, y, WithTrees(6), WithWorkers(4))
			So(err, ShouldBeNil)

			Convey("Then both forests are identical", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Fit(cctx, x, y, WithTrees(4))

			Convey("Then the fit is abandoned", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given invalid input", t, func() {
		Convey("Then empty data is rejected", func() {
			_, err := Fit(ctx, nil, nil)
			So(errors.Is(err, ErrEmptyInput), ShouldBeTrue)
		})

		Convey("Then ragged rows are rejected", func() {
			_, err := Fit(ctx, [][]float64{{1, 2}, {1}}, []float64{0, 1})
			So(errors.Is(err, ErrShapeMismatch), ShouldBeTrue)
		})

		Convey("Then mismatched targets are rejected", func() {
			_, err := Fit(ctx, [][]float64{{1}}, []float64{0, 1})
			So(errors.Is(err, ErrShapeMismatch), ShouldBeTrue)
		})

		Convey("Then bad hyperparameters are rejected", func() {
			_, err := Fit(ctx, [][]float64{{1}}, []float64{0}, WithTrees(0))
			So(errors.Is(err, ErrInvalidParam), ShouldBeTrue)
			_, err = Fit(ctx, [][]float64{{1}}, []float64{0}, WithMinSamplesSplit(1))
			So(errors.Is(err, ErrInvalidParam), ShouldBeTrue)
		})
	})
}

func TestPredict(t *testing.T) {
	Convey("Given a fitted forest", t, func() {
		x, y := stepData(100, 9)
		f, err := Fit(context.Background(), x, y, WithTrees(5))
		So(err, ShouldBeNil)

		Convey("Then a wrong feature count is a shape mismatch", func() {
			_, err := f.Predict([]float64{1})
			So(errors.Is(err, ErrShapeMismatch), ShouldBeTrue)
			_, err = f.PredictBatch([][]float64{{1, 0}, {1}})
			So(errors.Is(err, ErrShapeMismatch), ShouldBeTrue)
		})

		Convey("Then an empty forest cannot predict", func() {
			_, err := (&Forest{NumFeatures: 2}).Predict([]float64{0, 0})
			So(errors.Is(err, ErrNotFitted), ShouldBeTrue)
		})

		Convey("When round-tripped through gob", func() {
			var buf bytes.Buffer
			So(gob.NewEncoder(&buf).Encode(f), ShouldBeNil)
			var back Forest
			So(gob.NewDecoder(&buf).Decode(&back), ShouldBeNil)

			Convey("Then predictions are bit-identical", func() {
				want, err := f.PredictBatch(x)
				So(err, ShouldBeNil)
				got, err := back.PredictBatch(x)
				So(err, ShouldBeNil)
				for i := range want {
					So(math.Float64bits(got[i]), ShouldEqual, math.Float64bits(want[i]))
				}
			})
		})
	})
}
