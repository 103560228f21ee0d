package generator

import (
	"io"
	"testing"

	"github.com/Noofbiz/pairgen/datasets"
)

// TestTrainDataset_YieldsEpoch verifies the gomlx adapter walks every batch
// of an epoch, signals io.EOF, and rewinds on Reset.
func TestTrainDataset_YieldsEpoch(t *testing.T) {
	pairs := newTestDataset(10)
	g, err := New(pairs, Config{BatchSize: 4, Shuffle: false})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	enc := datasets.NewEncoder(pairs)
	td := NewTrainDataset("pairs-train", g, enc)

	if td.Name() != "pairs-train" {
		t.Fatalf("unexpected name %q", td.Name())
	}

	yields := 0
	for {
		_, inputs, labels, err := td.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Yield error: %v", err)
		}
		if len(inputs) != 2 || inputs[0] == nil || inputs[1] == nil {
			t.Fatalf("expected two non-nil input tensors, got %v", inputs)
		}
		if len(labels) != 1 || labels[0] == nil {
			t.Fatalf("expected one non-nil label tensor, got %v", labels)
		}
		yields++
	}
	if yields != 3 {
		t.Fatalf("expected 3 yields for 10 instances at batch size 4, got %d", yields)
	}

	// A drained dataset keeps returning io.EOF until Reset.
	if _, _, _, err := td.Yield(); err != io.EOF {
		t.Fatalf("expected io.EOF after epoch, got %v", err)
	}

	td.Reset()
	if _, _, _, err := td.Yield(); err != nil {
		t.Fatalf("Yield after Reset error: %v", err)
	}
}
