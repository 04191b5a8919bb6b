package forest

import (
	"cmp"
	"slices"
)

// minImpurityDecrease guards against splitting on floating point noise.
const minImpurityDecrease = 1e-12

// Node is one node of a fitted regression tree. Leaves have Left == -1.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
	Samples   int
}

// Leaf reports whether n has no children.
func (n Node) Leaf() bool { return n.Left < 0 }

// Tree is a CART regression tree stored as a flat node slice rooted at 0.
type Tree struct {
	Nodes []Node
}

// Predict walks x down to a leaf. Samples with x[f] <= threshold go left.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// builder grows one tree over a shared, read-only training matrix.
type builder struct {
	x      [][]float64
	y      []float64
	params Params

	nodes      []Node
	importance []float64
	buf        []int
}

func newBuilder(x [][]float64, y []float64, p Params, n int) *builder {
	return &builder{
		x:          x,
		y:          y,
		params:     p,
		importance: make([]float64, len(x[0])),
		buf:        make([]int, n),
	}
}

type split struct {
	feature   int
	threshold float64
	sse       float64
	ok        bool
}

// grow builds the subtree for idx and returns its node index. idx is
// partitioned in place.
func (b *builder) grow(idx []int, depth int) int {
	n := len(idx)
	var sum, sq float64
	for _, i := range idx {
		sum += b.y[i]
		sq += b.y[i] * b.y[i]
	}
	mean := sum / float64(n)
	sse := sq - sum*sum/float64(n)

	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: -1, Left: -1, Right: -1, Value: mean, Samples: n})

	if depth >= b.params.MaxDepth || n < b.params.MinSamplesSplit || sse <= minImpurityDecrease {
		return id
	}

	best := b.bestSplit(idx, sum, sq, sse)
	if !best.ok {
		return id
	}

	// partition: left holds x[f] <= threshold
	lo, hi := 0, n-1
	for lo <= hi {
		if b.x[idx[lo]][best.feature] <= best.threshold {
			lo++
			continue
		}
		idx[lo], idx[hi] = idx[hi], idx[lo]
		hi--
	}

	b.importance[best.feature] += sse - best.sse

	left := b.grow(idx[:lo], depth+1)
	right := b.grow(idx[lo:], depth+1)

	node := &b.nodes[id]
	node.Feature = best.feature
	node.Threshold = best.threshold
	node.Left = left
	node.Right = right
	return id
}

// bestSplit scans every feature for the threshold minimizing the summed
// squared error of both children.
func (b *builder) bestSplit(idx []int, sum, sq, parentSSE float64) split {
	n := len(idx)
	minLeaf := b.params.MinSamplesLeaf
	best := split{sse: parentSSE - minImpurityDecrease}
	order := b.buf[:n]

	for f := range b.importance {
		copy(order, idx)
		slices.SortFunc(order, func(a, c int) int {
			return cmp.Compare(b.x[a][f], b.x[c][f])
		})

		var lsum, lsq float64
		for k := 0; k < n-1; k++ {
			yi := b.y[order[k]]
			lsum += yi
			lsq += yi * yi

			cur, next := b.x[order[k]][f], b.x[order[k+1]][f]
			if cur == next {
				continue
			}
			nl := k + 1
			nr := n - nl
			if nl < minLeaf || nr < minLeaf {
				continue
			}
			rsum := sum - lsum
			rsq := sq - lsq
			s := (lsq - lsum*lsum/float64(nl)) + (rsq - rsum*rsum/float64(nr))
			if s < best.sse {
				thr := cur + (next-cur)/2
				if thr == next {
					thr = cur
				}
				best = split{feature: f, threshold: thr, sse: s, ok: true}
			}
		}
	}
	return best
}
