// Command epochs drives the batch generator over a synthetic paired-text
// dataset for several epochs and plots how shuffling redistributes the
// instances across batch positions. It also runs one fusion-materialized
// epoch (lowercasing transform + negative-sampling upsample) and reports the
// expanded batch sizes.
//
// Output: a PNG scatter of (batch position, first raw index) per epoch under
// the --out directory, plus per-epoch stats on stdout.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/Noofbiz/pairgen/datasets"
	"github.com/Noofbiz/pairgen/generator"
	"github.com/Noofbiz/pairgen/upsample"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// syntheticPairs builds n labeled pairs: even indices are matching
// query/document pairs, odd indices are mismatched.
func syntheticPairs(n int) []datasets.Pair {
	pairs := make([]datasets.Pair, n)
	for i := range pairs {
		topic := fmt.Sprintf("topic%d", i%7)
		pairs[i] = datasets.Pair{
			TextLeft:  fmt.Sprintf("Question about %s number %d", topic, i),
			TextRight: fmt.Sprintf("Answer covering %s in detail", topic),
			Label:     float32(1 - i%2),
		}
	}
	return pairs
}

func main() {
	n := flag.Int("n", 200, "number of synthetic instances")
	batchSize := flag.Int("batch", 16, "batch size")
	epochs := flag.Int("epochs", 4, "number of epochs to walk")
	seed := flag.Int64("seed", 42, "random seed for shuffling and upsampling")
	outDir := flag.String("out", "plots", "output directory for the shuffle plot")
	flag.Parse()

	ds := datasets.NewPairDataset(syntheticPairs(*n))

	gen, err := generator.New(ds, generator.Config{
		BatchSize: *batchSize,
		Shuffle:   true,
		Seed:      *seed,
	})
	if err != nil {
		log.Fatalf("failed to create generator: %v", err)
	}

	// Walk the epochs, collecting one scatter series per epoch: the first
	// raw index at each batch position. With shuffling on, the series
	// should scatter differently every epoch.
	series := make([]plotter.XYs, 0, *epochs)
	for ep := 0; ep < *epochs; ep++ {
		xys := make(plotter.XYs, 0, gen.Len())
		covered := 0
		for i := 0; i < gen.Len(); i++ {
			indices, err := gen.Indices(i)
			if err != nil {
				log.Fatalf("epoch %d: %v", ep, err)
			}
			covered += len(indices)
			xys = append(xys, plotter.XY{X: float64(i), Y: float64(indices[0])})
		}
		series = append(series, xys)
		log.Printf("epoch %d: %d batches covering %d instances", ep, gen.Len(), covered)
		if err := gen.OnEpochEnd(); err != nil {
			log.Fatalf("epoch end failed: %v", err)
		}
	}

	// One fusion-materialized pass over a few batches to show the
	// transform + upsample composition expanding batch sizes.
	rng := rand.New(rand.NewSource(*seed))
	fusionGen, err := generator.New(ds, generator.Config{
		BatchSize: *batchSize,
		Shuffle:   true,
		Seed:      *seed,
		Materializer: generator.Fusion{
			Fn:     strings.ToLower,
			NumNeg: 1,
			NumDup: 2,
			UpFn:   upsample.New(rng),
		},
	})
	if err != nil {
		log.Fatalf("failed to create fusion generator: %v", err)
	}
	for i := 0; i < 3 && i < fusionGen.Len(); i++ {
		b, err := fusionGen.Batch(i)
		if err != nil {
			log.Fatalf("fusion batch %d failed: %v", i, err)
		}
		log.Printf("fusion batch %d: %d instances from %d raw indices", i, b.Size(), *batchSize)
	}

	if err := plotShuffle(*outDir, series); err != nil {
		log.Fatalf("failed to generate plot: %v", err)
	}
	log.Printf("Shuffle plot written to %s", *outDir)
}

// plotShuffle writes a PNG scattering the first raw index of every batch
// position, one color per epoch.
func plotShuffle(outDir string, series []plotter.XYs) error {
	p := plot.New()
	p.Title.Text = "First raw index per batch position, by epoch"
	p.X.Label.Text = "batch position"
	p.Y.Label.Text = "first raw index"

	palette := []color.RGBA{
		{R: 120, G: 120, B: 120, A: 200},
		{R: 20, G: 80, B: 200, A: 200},
		{R: 200, G: 30, B: 30, A: 200},
		{R: 40, G: 140, B: 40, A: 200},
	}
	for ep, xys := range series {
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = palette[ep%len(palette)]
		sc.GlyphStyle.Radius = vg.Points(2.2)
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("epoch %d", ep), sc)
	}
	p.Add(plotter.NewGrid())

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 6*vg.Inch, filepath.Join(outDir, "shuffle_epochs.png"))
}
