package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Noofbiz/pairgen/datasets"
)

// DefaultBatchSize is used when Config.BatchSize is left zero.
const DefaultBatchSize = 32

// Config holds the construction parameters for a Generator.
type Config struct {
	// BatchSize is the number of instances per batch; defaults to
	// DefaultBatchSize when zero. Values below zero are rejected.
	BatchSize int

	// Shuffle draws a fresh random permutation of the instance indices on
	// every (re)partition instead of keeping identity order.
	Shuffle bool

	// Seed seeds the generator's random source. Zero means seed from the
	// clock; set it for reproducible shuffles.
	Seed int64

	// Materializer converts each batch's index list into a (features,
	// labels) batch. Defaults to Plain.
	Materializer Materializer
}

// DefaultConfig returns the conventional configuration: batches of 32,
// shuffled each epoch, plain materialization.
func DefaultConfig() Config {
	return Config{BatchSize: DefaultBatchSize, Shuffle: true}
}

// Generator produces an ordered sequence of minibatches over a dataset. It
// keeps a partition table of instance-index chunks, resolves batch requests
// against that table and delegates materialization to its Materializer.
//
// A Generator assumes a single caller: it is not safe for concurrent use and
// repartitioning must not be interleaved with an in-flight batch request.
// Callers exposing one instance to several goroutines must add their own
// locking around Batch, BatchRange, OnEpochEnd and Reset.
type Generator struct {
	dataset   datasets.Dataset
	batchSize int
	shuffle   bool
	rng       *rand.Rand
	mat       Materializer

	table [][]int
}

// New builds a Generator over the dataset and computes its first partition
// table. The dataset is referenced, never copied; it must not shrink or grow
// between repartitions, or index lists go stale — call Reset after resizing.
func New(ds datasets.Dataset, cfg Config) (*Generator, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset must not be nil")
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchSize < 1 {
		return nil, fmt.Errorf("batch size must be at least 1, got %d", cfg.BatchSize)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mat := cfg.Materializer
	if mat == nil {
		mat = Plain{}
	}

	g := &Generator{
		dataset:   ds,
		batchSize: cfg.BatchSize,
		shuffle:   cfg.Shuffle,
		rng:       rand.New(rand.NewSource(seed)),
		mat:       mat,
	}
	if err := g.repartition(); err != nil {
		return nil, err
	}
	return g, nil
}

// repartition replaces the partition table wholesale. Old tables are never
// mutated in place, so index lists handed out earlier stay self-consistent.
func (g *Generator) repartition() error {
	table, err := Partition(g.dataset.Len(), g.batchSize, g.shuffle, g.rng)
	if err != nil {
		return fmt.Errorf("failed to partition dataset: %w", err)
	}
	g.table = table
	return nil
}

// Len returns the number of batches in the current partition table,
// ceil(N/batchSize).
func (g *Generator) Len() int {
	return len(g.table)
}

// Indices returns the raw instance-index list for batch position i. The
// returned slice is the table's own storage; callers must not modify it.
func (g *Generator) Indices(i int) ([]int, error) {
	if i < 0 || i >= len(g.table) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrBatchOutOfRange, i, len(g.table))
	}
	return g.table[i], nil
}

// Batch materializes the batch at position i. Requests for the same position
// return the same index list until the next repartition.
func (g *Generator) Batch(i int) (*datasets.Batch, error) {
	indices, err := g.Indices(i)
	if err != nil {
		return nil, err
	}
	return g.mat.Materialize(g.dataset, indices)
}

// BatchRange concatenates the index lists of batch positions [start, end) in
// table order and materializes them as one combined batch. Bounds are
// clamped to the table, so an empty or inverted range yields an empty batch
// rather than an error.
func (g *Generator) BatchRange(start, end int) (*datasets.Batch, error) {
	if start < 0 {
		start = 0
	}
	if end > len(g.table) {
		end = len(g.table)
	}
	var combined []int
	for i := start; i < end; i++ {
		combined = append(combined, g.table[i]...)
	}
	return g.mat.Materialize(g.dataset, combined)
}

// OnEpochEnd rebuilds the partition table for the next epoch, reshuffling
// when shuffle is on. It rereads the dataset length, so it also picks up a
// resized dataset.
func (g *Generator) OnEpochEnd() error {
	return g.repartition()
}

// Reset repartitions immediately. Identical to OnEpochEnd; provided so a
// caller can restart mid-epoch without overloading the epoch hook's meaning.
func (g *Generator) Reset() error {
	return g.repartition()
}
