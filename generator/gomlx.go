package generator

import (
	"io"

	"github.com/Noofbiz/pairgen/datasets"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
)

// TrainDataset adapts a Generator plus an Encoder to gomlx's train.Dataset
// interface: Yield walks the current epoch's batches as tensors and returns
// io.EOF after the last one; Reset repartitions and rewinds.
type TrainDataset struct {
	name string
	gen  *Generator
	enc  *datasets.Encoder

	next     int
	resetErr error
}

var _ train.Dataset = (*TrainDataset)(nil)

// NewTrainDataset wraps gen for consumption by a gomlx training loop. The
// encoder turns each batch's text columns into padded id tensors.
func NewTrainDataset(name string, gen *Generator, enc *datasets.Encoder) *TrainDataset {
	return &TrainDataset{name: name, gen: gen, enc: enc}
}

// Name implements train.Dataset.
func (t *TrainDataset) Name() string {
	return t.name
}

// Yield implements train.Dataset. It returns one input tensor per text
// column plus a single label tensor, and io.EOF once the epoch is exhausted.
func (t *TrainDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if t.resetErr != nil {
		err = t.resetErr
		return
	}
	if t.next >= t.gen.Len() {
		err = io.EOF
		return
	}

	b, err := t.gen.Batch(t.next)
	if err != nil {
		return nil, nil, nil, err
	}
	t.next++

	eb, err := t.enc.Encode(b)
	if err != nil {
		return nil, nil, nil, err
	}
	inputs, labT, err := eb.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, inputs, []*tensors.Tensor{labT}, nil
}

// Reset implements train.Dataset. It repartitions the generator (reshuffling
// when enabled) and rewinds to the first batch. train.Dataset's Reset cannot
// report failure, so a repartition error is surfaced by the next Yield.
func (t *TrainDataset) Reset() {
	t.next = 0
	t.resetErr = t.gen.OnEpochEnd()
}
