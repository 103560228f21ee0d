package datasets

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// PairDataset holds labeled text pairs in memory. The generator needs random
// access by arbitrary index lists and the materializers need mutable working
// copies of slices, so rows are kept resident rather than lazily re-read.
type PairDataset struct {
	pairs []Pair
}

// NewPairDataset wraps an existing slice of pairs. The dataset takes
// ownership of the slice; callers should not mutate it afterwards.
func NewPairDataset(pairs []Pair) *PairDataset {
	return &PairDataset{pairs: pairs}
}

// NewPairDatasetFromCSV loads a dataset from a CSV file whose header contains
// the given left-text, right-text and label columns. Column lookup is
// case-insensitive; labels must parse as floats.
func NewPairDatasetFromCSV(path, leftCol, rightCol, labelCol string) (*PairDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(strings.ToLower(col))] = i
	}

	cols := make([]int, 3)
	for i, name := range []string{leftCol, rightCol, labelCol} {
		idx, ok := colIndex[strings.TrimSpace(strings.ToLower(name))]
		if !ok {
			return nil, fmt.Errorf("required column %q not found in CSV", name)
		}
		cols[i] = idx
	}

	var pairs []Pair
	rowIdx := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowIdx, err)
		}
		label, err := parseFloat32(record[cols[2]])
		if err != nil {
			return nil, fmt.Errorf("failed to parse label at row %d: %w", rowIdx, err)
		}
		pairs = append(pairs, Pair{
			TextLeft:  record[cols[0]],
			TextRight: record[cols[1]],
			Label:     label,
		})
		rowIdx++
	}

	return &PairDataset{pairs: pairs}, nil
}

// Len returns the number of instances in the dataset.
func (d *PairDataset) Len() int {
	return len(d.pairs)
}

// Pair returns the instance at index i.
func (d *PairDataset) Pair(i int) (Pair, error) {
	if i < 0 || i >= len(d.pairs) {
		return Pair{}, fmt.Errorf("index %d out of range [0, %d)", i, len(d.pairs))
	}
	return d.pairs[i], nil
}

// Slice copies the rows at the given indices, in order, into a fresh View.
// The view owns its rows: mutating it never affects the dataset.
func (d *PairDataset) Slice(indices []int) (*View, error) {
	rows := make([]Pair, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(d.pairs) {
			return nil, fmt.Errorf("index %d out of range [0, %d)", idx, len(d.pairs))
		}
		rows[i] = d.pairs[idx]
	}
	return &View{rows: rows}, nil
}

// View is an ordered working copy of dataset rows, produced by Slice. Text
// columns can be rewritten in place before the view is unpacked into a Batch.
type View struct {
	rows []Pair
}

// NewView builds a view directly from rows. Used by upsampling collaborators
// that expand a slice into a new set of instances.
func NewView(rows []Pair) *View {
	return &View{rows: rows}
}

// Len returns the number of rows in the view.
func (v *View) Len() int {
	return len(v.rows)
}

// Rows returns the view's backing rows. The slice is the view's own storage;
// callers that need an independent copy should use Copy first.
func (v *View) Rows() []Pair {
	return v.rows
}

// Copy returns a deep copy of the view.
func (v *View) Copy() *View {
	rows := make([]Pair, len(v.rows))
	copy(rows, v.rows)
	return &View{rows: rows}
}

// ApplyLeft rewrites every left text field with fn.
func (v *View) ApplyLeft(fn func(string) string) {
	for i := range v.rows {
		v.rows[i].TextLeft = fn(v.rows[i].TextLeft)
	}
}

// ApplyRight rewrites every right text field with fn.
func (v *View) ApplyRight(fn func(string) string) {
	for i := range v.rows {
		v.rows[i].TextRight = fn(v.rows[i].TextRight)
	}
}

// Unpack converts the view into a Batch: a features mapping holding the two
// text columns plus the label vector, in row order.
func (v *View) Unpack() *Batch {
	left := make([]string, len(v.rows))
	right := make([]string, len(v.rows))
	labels := make([]float32, len(v.rows))
	for i, row := range v.rows {
		left[i] = row.TextLeft
		right[i] = row.TextRight
		labels[i] = row.Label
	}
	return &Batch{
		Features: map[string][]string{
			FeatureLeft:  left,
			FeatureRight: right,
		},
		Labels: labels,
	}
}
