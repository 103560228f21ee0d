package datasets

// This file defines the pair-instance data model shared by the rest of the
// module.
//
// A dataset is an ordered collection of labeled text pairs (for example a
// query matched against a document, with a relevance label). The batch
// generator in the generator package never reads instances directly: it asks
// the dataset for a View over a list of raw indices and hands that view to a
// materializer, which may transform or upsample it before unpacking it into a
// Batch.
//
// Views copy the rows they cover, so a materializer can rewrite text fields
// in place without touching the dataset shared across batches.
//
// Notes on gomlx tensors:
//   - A Batch keeps its text columns as strings; converting them into gomlx
//     tensors requires a vocabulary, so that step lives in Encoder (see
//     encode.go), which produces padded id matrices plus label buffers and
//     converts those with tensors.FromAnyValue. Training code that wants a
//     different tensor type can consume EncodedBatch directly.

// Pair is one labeled instance: a left text, a right text and a label.
type Pair struct {
	TextLeft  string
	TextRight string
	Label     float32
}

// Dataset is the container contract the batch generator works against.
// Len reports the current number of instances; Slice copies the rows at the
// given indices into a fresh View.
type Dataset interface {
	Len() int
	Slice(indices []int) (*View, error)
}

// FeatureLeft and FeatureRight are the keys under which Unpack exposes the
// two text columns of a batch.
const (
	FeatureLeft  = "text_left"
	FeatureRight = "text_right"
)

// Batch is the materialized form of a list of instances: a features mapping
// holding the text columns plus a parallel label vector. Batches are
// recomputed on every request and never cached.
type Batch struct {
	Features map[string][]string
	Labels   []float32
}

// Size returns the number of instances in the batch.
func (b *Batch) Size() int {
	return len(b.Labels)
}
