package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrBatchOutOfRange is wrapped by errors returned for single-batch requests
// whose position falls outside [0, Len()).
var ErrBatchOutOfRange = errors.New("batch index out of range")

// Partition splits the index range [0, n) into ceil(n/batchSize) consecutive
// chunks, each of length batchSize except possibly the last, which holds the
// remainder. When shuffle is set the range is first replaced by a uniformly
// random permutation drawn from rng; otherwise identity order is kept.
//
// Concatenating the returned chunks in order always reproduces a permutation
// of [0, n) with every index exactly once. n == 0 yields an empty table and
// batchSize > n yields a single chunk of length n.
//
// A nil rng falls back to a time-seeded source; pass a seeded rng for
// deterministic partitions.
func Partition(n, batchSize int, shuffle bool, rng *rand.Rand) ([][]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("instance count must be non-negative, got %d", n)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be at least 1, got %d", batchSize)
	}

	var pool []int
	if shuffle {
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		pool = rng.Perm(n)
	} else {
		pool = make([]int, n)
		for i := range pool {
			pool[i] = i
		}
	}

	numBatches := (n + batchSize - 1) / batchSize
	table := make([][]int, 0, numBatches)
	for lower := 0; lower < n; lower += batchSize {
		upper := lower + batchSize
		if upper > n {
			upper = n
		}
		table = append(table, pool[lower:upper])
	}
	return table, nil
}
