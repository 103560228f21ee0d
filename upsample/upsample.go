// Package upsample provides the default negative-sampling collaborator for
// the batch generator. It expands a view of labeled pairs by duplicating
// each instance numDup times and, for every positive instance, emitting
// numNeg negative pairs formed by keeping the left text and sampling a right
// text from another row in the view.
//
// The generator treats the returned function as a black box; any function
// with the same signature can replace it.
package upsample

import (
	"fmt"
	"math/rand"

	"github.com/Noofbiz/pairgen/datasets"
)

// New returns an upsampling function backed by rng. A nil rng is rejected at
// call time so tests fail loudly instead of sharing global state.
func New(rng *rand.Rand) func(v *datasets.View, numDup, numNeg int) (*datasets.View, error) {
	return func(v *datasets.View, numDup, numNeg int) (*datasets.View, error) {
		if rng == nil {
			return nil, fmt.Errorf("rng must not be nil")
		}
		if numDup < 1 {
			return nil, fmt.Errorf("numDup must be at least 1, got %d", numDup)
		}
		if numNeg < 0 {
			return nil, fmt.Errorf("numNeg must be non-negative, got %d", numNeg)
		}

		rows := v.Rows()
		out := make([]datasets.Pair, 0, len(rows)*numDup*(1+numNeg))
		for i, row := range rows {
			for d := 0; d < numDup; d++ {
				out = append(out, row)
				// Negatives need a distinct row to steal a right text
				// from, so a single-row view yields no negatives.
				if row.Label <= 0 || len(rows) < 2 {
					continue
				}
				for k := 0; k < numNeg; k++ {
					j := rng.Intn(len(rows) - 1)
					if j >= i {
						j++
					}
					out = append(out, datasets.Pair{
						TextLeft:  row.TextLeft,
						TextRight: rows[j].TextRight,
						Label:     0,
					})
				}
			}
		}
		return datasets.NewView(out), nil
	}
}
