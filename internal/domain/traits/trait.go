// Package traits describes how synthetic fingerprint attributes are produced.
// Each attribute is a tagged variant: a fixed value or an explicit sampling
// rule evaluated when a record is generated.
package traits

import (
	"math"
	"math/rand"
)

// Kind tags the variant held by a Trait.
type Kind int

// Trait kinds.
const (
	KindFixed Kind = iota
	KindUniform
	KindIntRange
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindUniform:
		return "uniform"
	case KindIntRange:
		return "int_range"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Trait produces a numeric attribute.
type Trait struct {
	kind     Kind
	value    float64
	lo, hi   float64
	choices  []float64
	decimals int
}

// Fixed always yields v.
func Fixed(v float64) Trait { return Trait{kind: KindFixed, value: v, decimals: -1} }

// Uniform yields a value drawn uniformly from [lo, hi].
func Uniform(lo, hi float64) Trait {
	return Trait{kind: KindUniform, lo: lo, hi: hi, decimals: -1}
}

// IntRange yields an integer drawn uniformly from [lo, hi] inclusive.
func IntRange(lo, hi int) Trait {
	return Trait{kind: KindIntRange, lo: float64(lo), hi: float64(hi), decimals: -1}
}

// Choice yields one of values with equal probability.
func Choice(values ...float64) Trait {
	return Trait{kind: KindChoice, choices: append([]float64(nil), values...), decimals: -1}
}

// Rounded returns a copy of t whose samples are rounded to d decimals.
func (t Trait) Rounded(d int) Trait {
	t.decimals = d
	return t
}

// Kind reports the variant.
func (t Trait) Kind() Kind { return t.kind }

// Sample evaluates the trait.
func (t Trait) Sample(r *rand.Rand) float64 {
	var v float64
	switch t.kind {
	case KindFixed:
		v = t.value
	case KindUniform:
		v = t.lo + r.Float64()*(t.hi-t.lo)
	case KindIntRange:
		v = t.lo + float64(r.Intn(int(t.hi-t.lo)+1))
	case KindChoice:
		if len(t.choices) == 0 {
			return 0
		}
		v = t.choices[r.Intn(len(t.choices))]
	}
	if t.decimals >= 0 {
		p := math.Pow(10, float64(t.decimals))
		v = math.Round(v*p) / p
	}
	return v
}

// Pin draws one sample and returns a Fixed trait holding it.
func (t Trait) Pin(r *rand.Rand) Trait {
	if t.kind == KindFixed {
		return t
	}
	return Fixed(t.Sample(r))
}

// Flag produces a boolean attribute: fixed, or a fair coin.
type Flag struct {
	random bool
	value  bool
}

// FixedFlag always yields v.
func FixedFlag(v bool) Flag { return Flag{value: v} }

// CoinFlip yields true or false with equal probability.
func CoinFlip() Flag { return Flag{random: true} }

// Random reports whether the flag is sampled.
func (f Flag) Random() bool { return f.random }

// Sample evaluates the flag.
func (f Flag) Sample(r *rand.Rand) bool {
	if f.random {
		return r.Intn(2) == 1
	}
	return f.value
}

// Pin draws one sample and returns a FixedFlag holding it.
func (f Flag) Pin(r *rand.Rand) Flag {
	return FixedFlag(f.Sample(r))
}

// Pick returns one element of xs with equal probability.
func Pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.Intn(len(xs))]
}
