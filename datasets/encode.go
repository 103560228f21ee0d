package datasets

import (
	"fmt"
	"strings"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Token ids reserved by every vocabulary.
const (
	PadID = 0
	UnkID = 1
)

// Encoder turns the string columns of a Batch into padded token-id matrices
// so batches can be fed to tensor-based training code. Tokenization is plain
// whitespace splitting; anything fancier belongs in a transform function
// applied during materialization.
type Encoder struct {
	vocab map[string]int32
}

// NewEncoder builds an encoder whose vocabulary covers every token appearing
// in the dataset's text columns. Ids 0 and 1 are reserved for padding and
// unknown tokens.
func NewEncoder(d *PairDataset) *Encoder {
	vocab := make(map[string]int32)
	next := int32(UnkID + 1)
	for _, pair := range d.pairs {
		for _, text := range []string{pair.TextLeft, pair.TextRight} {
			for _, tok := range strings.Fields(text) {
				if _, ok := vocab[tok]; !ok {
					vocab[tok] = next
					next++
				}
			}
		}
	}
	return &Encoder{vocab: vocab}
}

// VocabSize returns the number of distinct tokens plus the two reserved ids.
func (e *Encoder) VocabSize() int {
	return len(e.vocab) + 2
}

// EncodedBatch stores a batch as rectangular id matrices plus labels. Rows
// are padded with PadID to the length of the longest sequence per column.
type EncodedBatch struct {
	LeftIDs  [][]int32
	RightIDs [][]int32
	Labels   []float32
}

// Encode converts a batch's text columns into id matrices. Tokens outside
// the vocabulary map to UnkID.
func (e *Encoder) Encode(b *Batch) (*EncodedBatch, error) {
	left, ok := b.Features[FeatureLeft]
	if !ok {
		return nil, fmt.Errorf("batch has no %q column", FeatureLeft)
	}
	right, ok := b.Features[FeatureRight]
	if !ok {
		return nil, fmt.Errorf("batch has no %q column", FeatureRight)
	}
	if len(left) != len(b.Labels) || len(right) != len(b.Labels) {
		return nil, fmt.Errorf("ragged batch: left=%d right=%d labels=%d",
			len(left), len(right), len(b.Labels))
	}

	labels := make([]float32, len(b.Labels))
	copy(labels, b.Labels)
	return &EncodedBatch{
		LeftIDs:  e.encodeColumn(left),
		RightIDs: e.encodeColumn(right),
		Labels:   labels,
	}, nil
}

// encodeColumn maps each text to ids and pads the rows to a common length.
func (e *Encoder) encodeColumn(texts []string) [][]int32 {
	rows := make([][]int32, len(texts))
	maxLen := 0
	for i, text := range texts {
		toks := strings.Fields(text)
		row := make([]int32, len(toks))
		for j, tok := range toks {
			if id, ok := e.vocab[tok]; ok {
				row[j] = id
			} else {
				row[j] = UnkID
			}
		}
		rows[i] = row
		if len(row) > maxLen {
			maxLen = len(row)
		}
	}
	for i, row := range rows {
		if len(row) < maxLen {
			padded := make([]int32, maxLen)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows
}

// ToGomlxTensors converts the encoded batch into gomlx tensors: one input
// tensor per text column and one label tensor.
func (b *EncodedBatch) ToGomlxTensors() (inputs []*tensors.Tensor, labels *tensors.Tensor, err error) {
	if len(b.LeftIDs) != len(b.Labels) || len(b.RightIDs) != len(b.Labels) {
		return nil, nil, fmt.Errorf("inconsistent encoded batch: left=%d right=%d labels=%d",
			len(b.LeftIDs), len(b.RightIDs), len(b.Labels))
	}
	leftT := tensors.FromAnyValue(b.LeftIDs)
	rightT := tensors.FromAnyValue(b.RightIDs)
	labT := tensors.FromAnyValue(b.Labels)
	return []*tensors.Tensor{leftT, rightT}, labT, nil
}
