package generator

import (
	"fmt"

	"github.com/Noofbiz/pairgen/datasets"
)

// Materializer converts a list of raw instance indices into a ready
// (features, labels) batch. Variants differ only in whether they apply a
// text transform, an upsampling step, both or neither; all slice the dataset
// the same way. Collaborator failures are returned unmodified — a batch is
// materialized whole or not at all.
type Materializer interface {
	Materialize(ds datasets.Dataset, indices []int) (*datasets.Batch, error)
}

// Unit is a preprocessing unit exposing a single text transform step.
type Unit interface {
	Transform(text string) string
}

// TransformFunc rewrites one text field.
type TransformFunc func(string) string

// UpsampleFunc expands a view of positive pairs into a larger set, typically
// pairing each positive with numNeg sampled negatives and duplicating
// numDup times. The generator treats it as a black box.
type UpsampleFunc func(v *datasets.View, numDup, numNeg int) (*datasets.View, error)

// Plain slices the dataset by the index list and unpacks it directly.
type Plain struct{}

// Materialize implements Materializer.
func (Plain) Materialize(ds datasets.Dataset, indices []int) (*datasets.Batch, error) {
	v, err := ds.Slice(indices)
	if err != nil {
		return nil, err
	}
	return v.Unpack(), nil
}

// UnitTransform applies a preprocessing unit's transform to every left and
// right text field of the sliced instances before unpacking. The slice is a
// working copy; instances outside it are never touched.
type UnitTransform struct {
	Unit Unit
}

// Materialize implements Materializer.
func (m UnitTransform) Materialize(ds datasets.Dataset, indices []int) (*datasets.Batch, error) {
	if m.Unit == nil {
		return nil, fmt.Errorf("transform unit must not be nil")
	}
	return applyTransform(ds, indices, m.Unit.Transform)
}

// FuncTransform is UnitTransform with the transform supplied as a bare
// function instead of a unit.
type FuncTransform struct {
	Fn TransformFunc
}

// Materialize implements Materializer.
func (m FuncTransform) Materialize(ds datasets.Dataset, indices []int) (*datasets.Batch, error) {
	if m.Fn == nil {
		return nil, fmt.Errorf("transform function must not be nil")
	}
	return applyTransform(ds, indices, m.Fn)
}

func applyTransform(ds datasets.Dataset, indices []int, fn TransformFunc) (*datasets.Batch, error) {
	v, err := ds.Slice(indices)
	if err != nil {
		return nil, err
	}
	v.ApplyLeft(fn)
	v.ApplyRight(fn)
	return v.Unpack(), nil
}

// Upsample hands the sliced instances to an upsampling collaborator and
// unpacks whatever expanded set it returns.
type Upsample struct {
	NumNeg int
	NumDup int
	Fn     UpsampleFunc
}

// Materialize implements Materializer.
func (m Upsample) Materialize(ds datasets.Dataset, indices []int) (*datasets.Batch, error) {
	if m.Fn == nil {
		return nil, fmt.Errorf("upsample function must not be nil")
	}
	v, err := ds.Slice(indices)
	if err != nil {
		return nil, err
	}
	expanded, err := m.Fn(v, m.NumDup, m.NumNeg)
	if err != nil {
		return nil, err
	}
	return expanded.Unpack(), nil
}

// Fusion composes transform and upsampling in one materializer. The
// transform runs first so the upsampling collaborator sees transformed text
// fields. Set either Unit or Fn; Unit wins when both are set.
type Fusion struct {
	Unit   Unit
	Fn     TransformFunc
	NumNeg int
	NumDup int
	UpFn   UpsampleFunc
}

// Materialize implements Materializer.
func (m Fusion) Materialize(ds datasets.Dataset, indices []int) (*datasets.Batch, error) {
	fn := m.Fn
	if m.Unit != nil {
		fn = m.Unit.Transform
	}
	if fn == nil {
		return nil, fmt.Errorf("fusion requires a transform unit or function")
	}
	if m.UpFn == nil {
		return nil, fmt.Errorf("upsample function must not be nil")
	}

	v, err := ds.Slice(indices)
	if err != nil {
		return nil, err
	}
	v.ApplyLeft(fn)
	v.ApplyRight(fn)
	expanded, err := m.UpFn(v, m.NumDup, m.NumNeg)
	if err != nil {
		return nil, err
	}
	return expanded.Unpack(), nil
}
