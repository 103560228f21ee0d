package generator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Noofbiz/pairgen/datasets"
)

// newTestDataset builds a dataset of n pairs with recognizable texts so
// batch contents can be traced back to raw indices.
func newTestDataset(n int) *datasets.PairDataset {
	pairs := make([]datasets.Pair, n)
	for i := range pairs {
		pairs[i] = datasets.Pair{
			TextLeft:  fmt.Sprintf("query %d", i),
			TextRight: fmt.Sprintf("doc %d", i),
			Label:     float32(i % 2),
		}
	}
	return datasets.NewPairDataset(pairs)
}

// TestGenerator_SequentialBatches covers the unshuffled case: length
// arithmetic and per-batch index coverage (N=10, batch size 3).
func TestGenerator_SequentialBatches(t *testing.T) {
	g, err := New(newTestDataset(10), Config{BatchSize: 3, Shuffle: false})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if g.Len() != 4 {
		t.Fatalf("expected 4 batches, got %d", g.Len())
	}
	expected := [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, {9}}
	for i, want := range expected {
		got, err := g.Indices(i)
		if err != nil {
			t.Fatalf("Indices(%d) error: %v", i, err)
		}
		if len(got) != len(want) {
			t.Fatalf("batch %d: expected %v, got %v", i, want, got)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("batch %d: expected %v, got %v", i, want, got)
			}
		}
	}

	// Materialized content matches the index lists.
	b, err := g.Batch(3)
	if err != nil {
		t.Fatalf("Batch(3) error: %v", err)
	}
	if b.Size() != 1 || b.Features[datasets.FeatureLeft][0] != "query 9" {
		t.Fatalf("unexpected final batch: %+v", b)
	}
}

// TestGenerator_EmptyDataset verifies N=0 yields zero batches and any
// single-index request fails.
func TestGenerator_EmptyDataset(t *testing.T) {
	g, err := New(newTestDataset(0), Config{BatchSize: 5})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if g.Len() != 0 {
		t.Fatalf("expected 0 batches, got %d", g.Len())
	}
	if _, err := g.Batch(0); !errors.Is(err, ErrBatchOutOfRange) {
		t.Fatalf("expected ErrBatchOutOfRange, got %v", err)
	}
}

// TestGenerator_OutOfRange verifies single-index bounds on a non-empty
// generator.
func TestGenerator_OutOfRange(t *testing.T) {
	g, err := New(newTestDataset(10), Config{BatchSize: 3})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for _, i := range []int{-1, 4, 100} {
		if _, err := g.Batch(i); !errors.Is(err, ErrBatchOutOfRange) {
			t.Fatalf("Batch(%d): expected ErrBatchOutOfRange, got %v", i, err)
		}
	}
}

// TestGenerator_BatchRange verifies range requests concatenate index lists
// in table order, and that bounds are clamped: an empty or inverted range
// returns an empty batch rather than an error.
func TestGenerator_BatchRange(t *testing.T) {
	g, err := New(newTestDataset(10), Config{BatchSize: 3, Shuffle: false})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	b, err := g.BatchRange(1, 3)
	if err != nil {
		t.Fatalf("BatchRange(1,3) error: %v", err)
	}
	if b.Size() != 6 {
		t.Fatalf("expected combined batch of 6, got %d", b.Size())
	}
	wantLeft := []string{"query 3", "query 4", "query 5", "query 6", "query 7", "query 8"}
	for i, want := range wantLeft {
		if b.Features[datasets.FeatureLeft][i] != want {
			t.Fatalf("combined batch row %d: expected %q, got %q",
				i, want, b.Features[datasets.FeatureLeft][i])
		}
	}

	// Clamped and degenerate ranges.
	for _, r := range [][2]int{{-5, 0}, {2, 2}, {3, 1}, {10, 20}} {
		b, err := g.BatchRange(r[0], r[1])
		if err != nil {
			t.Fatalf("BatchRange(%d,%d) error: %v", r[0], r[1], err)
		}
		if b.Size() != 0 {
			t.Fatalf("BatchRange(%d,%d): expected empty batch, got %d rows", r[0], r[1], b.Size())
		}
	}

	// Over-long end clamps to the table.
	b, err = g.BatchRange(0, 100)
	if err != nil {
		t.Fatalf("BatchRange(0,100) error: %v", err)
	}
	if b.Size() != 10 {
		t.Fatalf("expected all 10 rows, got %d", b.Size())
	}
}

// TestGenerator_IdempotentWithinEpoch verifies repeated requests for the
// same position return identical index lists until a repartition.
func TestGenerator_IdempotentWithinEpoch(t *testing.T) {
	g, err := New(newTestDataset(50), Config{BatchSize: 8, Shuffle: true, Seed: 11})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for i := 0; i < g.Len(); i++ {
		a, err := g.Indices(i)
		if err != nil {
			t.Fatalf("Indices(%d) error: %v", i, err)
		}
		b, err := g.Indices(i)
		if err != nil {
			t.Fatalf("Indices(%d) error: %v", i, err)
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("batch %d changed between requests: %v vs %v", i, a, b)
			}
		}
	}
}

// epochOrder snapshots the full index order of the current table.
func epochOrder(t *testing.T, g *Generator) []int {
	t.Helper()
	var out []int
	for i := 0; i < g.Len(); i++ {
		indices, err := g.Indices(i)
		if err != nil {
			t.Fatalf("Indices(%d) error: %v", i, err)
		}
		out = append(out, indices...)
	}
	return out
}

// TestGenerator_EpochEndReshuffles verifies OnEpochEnd produces a new
// permutation when shuffling and the identity table when not.
func TestGenerator_EpochEndReshuffles(t *testing.T) {
	g, err := New(newTestDataset(100), Config{BatchSize: 16, Shuffle: true, Seed: 5})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	before := epochOrder(t, g)
	if err := g.OnEpochEnd(); err != nil {
		t.Fatalf("OnEpochEnd error: %v", err)
	}
	after := epochOrder(t, g)
	if !isPermutation(after, 100) {
		t.Fatalf("reshuffled table is not a permutation")
	}
	same := true
	for i := range before {
		if before[i] != after[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("reshuffle produced an identical permutation")
	}

	seq, err := New(newTestDataset(100), Config{BatchSize: 16, Shuffle: false})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := seq.OnEpochEnd(); err != nil {
		t.Fatalf("OnEpochEnd error: %v", err)
	}
	for i, idx := range epochOrder(t, seq) {
		if idx != i {
			t.Fatalf("sequential table changed after epoch end at %d: got %d", i, idx)
		}
	}
}

// TestGenerator_ResetPicksUpResize verifies Reset rebuilds the table from
// the dataset's current length.
func TestGenerator_ResetPicksUpResize(t *testing.T) {
	pairs := make([]datasets.Pair, 6)
	ds := &resizableDataset{ds: datasets.NewPairDataset(pairs)}
	g, err := New(ds, Config{BatchSize: 4, Shuffle: false})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 batches, got %d", g.Len())
	}

	ds.ds = datasets.NewPairDataset(make([]datasets.Pair, 13))
	if err := g.Reset(); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	if g.Len() != 4 {
		t.Fatalf("expected 4 batches after resize, got %d", g.Len())
	}
	if !isPermutation(epochOrder(t, g), 13) {
		t.Fatalf("table after resize does not cover [0,13)")
	}
}

// resizableDataset lets a test swap the underlying dataset between
// repartitions.
type resizableDataset struct {
	ds *datasets.PairDataset
}

func (r *resizableDataset) Len() int { return r.ds.Len() }

func (r *resizableDataset) Slice(indices []int) (*datasets.View, error) {
	return r.ds.Slice(indices)
}

// TestGenerator_ConfigValidation rejects bad construction parameters and
// applies defaults.
func TestGenerator_ConfigValidation(t *testing.T) {
	if _, err := New(nil, Config{BatchSize: 4}); err == nil {
		t.Fatalf("expected error for nil dataset")
	}
	if _, err := New(newTestDataset(5), Config{BatchSize: -1}); err == nil {
		t.Fatalf("expected error for negative batch size")
	}

	g, err := New(newTestDataset(100), Config{})
	if err != nil {
		t.Fatalf("New with zero config error: %v", err)
	}
	if g.Len() != 4 {
		t.Fatalf("expected default batch size %d to yield 4 batches, got %d",
			DefaultBatchSize, g.Len())
	}
}
