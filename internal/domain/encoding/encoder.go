// Package encoding maps boolean-valued features to stable integer codes.
//
// An Encoder is immutable once built. Build it once at process start (or once
// per training run) and share it; it is safe for concurrent use.
package encoding

import (
	"errors"
	"fmt"
	"sort"

	"github.com/okian/sharpscore/internal/domain/features"
)

// Sentinel error kinds for this package.
var (
	ErrUnknownField = errors.New("no encoder for field")
	ErrUnseenValue  = errors.New("value outside encoder domain")
	ErrUnknownCode  = errors.New("code outside encoder range")
	ErrEmptyDomain  = errors.New("empty encoder domain")
)

// canonicalDomain is the closed domain every boolean feature is fit on.
var canonicalDomain = []float64{0, 1}

// LabelMap is a bidirectional mapping between sorted distinct raw values and
// their positions.
type LabelMap struct {
	classes []float64
}

// NewLabelMap fits a map over the distinct values in domain.
func NewLabelMap(domain []float64) (LabelMap, error) {
	if len(domain) == 0 {
		return LabelMap{}, ErrEmptyDomain
	}
	seen := make(map[float64]struct{}, len(domain))
	classes := make([]float64, 0, len(domain))
	for _, v := range domain {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		classes = append(classes, v)
	}
	sort.Float64s(classes)
	return LabelMap{classes: classes}, nil
}

// Encode returns the code for v.
func (m LabelMap) Encode(v float64) (int, error) {
	i := sort.SearchFloat64s(m.classes, v)
	if i < len(m.classes) && m.classes[i] == v {
		return i, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnseenValue, v)
}

// Decode returns the raw value for code.
func (m LabelMap) Decode(code int) (float64, error) {
	if code < 0 || code >= len(m.classes) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCode, code)
	}
	return m.classes[code], nil
}

// Classes returns a copy of the fitted values in code order.
func (m LabelMap) Classes() []float64 {
	return append([]float64(nil), m.classes...)
}

func (m LabelMap) equal(o LabelMap) bool {
	if len(m.classes) != len(o.classes) {
		return false
	}
	for i := range m.classes {
		if m.classes[i] != o.classes[i] {
			return false
		}
	}
	return true
}

// Encoder holds one LabelMap per categorical feature.
type Encoder struct {
	maps map[string]LabelMap
}

// Canonical returns the encoder fit on {0,1} for every categorical feature.
// Inference always uses this encoder.
func Canonical() *Encoder {
	e := &Encoder{maps: make(map[string]LabelMap)}
	for _, name := range features.CategoricalNames() {
		m, _ := NewLabelMap(canonicalDomain)
		e.maps[name] = m
	}
	return e
}

// Fit builds an encoder from the observed values of each categorical column.
// Every categorical feature must be present in columns.
func Fit(columns map[string][]float64) (*Encoder, error) {
	e := &Encoder{maps: make(map[string]LabelMap)}
	for _, name := range features.CategoricalNames() {
		values, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		m, err := NewLabelMap(values)
		if err != nil {
			return nil, fmt.Errorf("fit %s: %w", name, err)
		}
		e.maps[name] = m
	}
	return e, nil
}

// Encode returns the code for value in field.
func (e *Encoder) Encode(field string, value float64) (int, error) {
	m, ok := e.maps[field]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	code, err := m.Encode(value)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", field, err)
	}
	return code, nil
}

// Decode returns the raw value behind code in field.
func (e *Encoder) Decode(field string, code int) (float64, error) {
	m, ok := e.maps[field]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return m.Decode(code)
}

// Classes returns the fitted values of field in code order.
func (e *Encoder) Classes(field string) ([]float64, bool) {
	m, ok := e.maps[field]
	if !ok {
		return nil, false
	}
	return m.Classes(), true
}

// Equal reports whether both encoders assign identical codes.
func (e *Encoder) Equal(o *Encoder) bool {
	if len(e.maps) != len(o.maps) {
		return false
	}
	for name, m := range e.maps {
		om, ok := o.maps[name]
		if !ok || !m.equal(om) {
			return false
		}
	}
	return true
}

// EncodedRow is a feature vector whose categorical columns hold encoder
// codes. Its values are only reachable through Vector, so an encoded row
// cannot be passed back into EncodeRow.
type EncodedRow struct {
	v features.Vector
}

// Vector returns the model input in canonical order.
func (r EncodedRow) Vector() features.Vector { return r.v }

// EncodeRow replaces every categorical column of row with its code.
func (e *Encoder) EncodeRow(row features.Row) (EncodedRow, error) {
	v := row.Vector()
	for _, name := range features.CategoricalNames() {
		i, _ := features.Index(name)
		code, err := e.Encode(name, v[i])
		if err != nil {
			return EncodedRow{}, err
		}
		v[i] = float64(code)
	}
	return EncodedRow{v: v}, nil
}

// EncodeRows encodes every row, failing on the first unseen value.
func (e *Encoder) EncodeRows(rows []features.Row) ([]EncodedRow, error) {
	out := make([]EncodedRow, len(rows))
	for i := range rows {
		enc, err := e.EncodeRow(rows[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = enc
	}
	return out, nil
}
