// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// cdsstats calculates and prints coding sequence statistics
// for each record of a GenBank or EMBL file (default stdin).
// It prints: the record length, GC content, the number of
// coding features, the fraction of the record they cover,
// and the mean and standard deviation of their nucleotide
// and protein lengths. A histogram of protein lengths over
// all records may be saved with -hist.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"runtime"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/biogo/flatfile/flatio"
	"github.com/biogo/flatfile/record"
)

// cdsStats contains the statistics reported for one record.
type cdsStats struct {
	name     string
	length   int
	gc       float64
	features int
	coding   float64 // Fraction of the record covered by features.
	ntMean   float64
	ntStd    float64
	aaMean   float64
	aaStd    float64
}

var (
	inf     = flag.String("in", "", "input flat file, defaults to stdin")
	format  = flag.String("format", "genbank", "input format: genbank or embl")
	hist    = flag.String("hist", "", "file to save a protein length histogram to (format from extension)")
	bins    = flag.Int("bins", 50, "number of histogram bins")
	threads = flag.Int("threads", runtime.GOMAXPROCS(0), "number of concurrent derivations per record")
	help    = flag.Bool("help", false, "help prints this message")
)

func main() {
	flag.Parse()
	if *help {
		flag.Usage()
		os.Exit(0)
	}

	f, err := flatio.ParseFormat(*format)
	if err != nil {
		log.Fatalf("invalid format: %v", err)
	}

	var in io.Reader
	if *inf == "" {
		in = os.Stdin
	} else {
		fh, err := os.Open(*inf)
		if err != nil {
			log.Fatalf("failed to open %q: %v", *inf, err)
		}
		defer fh.Close()
		in = fh
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	fmt.Fprintln(out, "#name\tlength\tgc\tfeatures\tcoding\tnt_mean\tnt_sd\taa_mean\taa_sd")

	var aaLens []float64
	sc := flatio.NewRecords(flatio.NewReader(in, f))
	for sc.Next() {
		if err := sc.Err(); err != nil {
			log.Printf("skipping entry: %v", err)
			continue
		}
		r := sc.Record()
		warnings, err := r.DeriveAll(*threads)
		if err != nil {
			log.Printf("skipping record %s: %v", r.ID, err)
			continue
		}
		for _, w := range warnings {
			log.Printf("warning: record %s: %v", r.ID, w)
		}
		b, aa := stats(r)
		aaLens = append(aaLens, aa...)
		fmt.Fprintf(out, "%s\t%d\t%.4f\t%d\t%.4f\t%.1f\t%.1f\t%.1f\t%.1f\n",
			b.name, b.length, b.gc, b.features, b.coding, b.ntMean, b.ntStd, b.aaMean, b.aaStd)
	}
	err = sc.Err()
	if err != nil {
		log.Fatalf("failed during read: %v", err)
	}

	if *hist != "" && len(aaLens) != 0 {
		err = histogram(*hist, aaLens, *bins)
		if err != nil {
			log.Fatalf("failed to save histogram: %v", err)
		}
	}
}

// stats returns the statistics of r, which must have had its sequences
// derived, and the protein lengths of its features.
func stats(r *record.Record) (cdsStats, []float64) {
	b := cdsStats{name: r.ID, length: r.Len(), features: r.NumFeatures()}

	var gc, acgt int
	for _, c := range r.Bytes() {
		switch c {
		case 'g', 'G', 'c', 'C':
			gc++
			acgt++
		case 'a', 'A', 't', 'T':
			acgt++
		}
	}
	if acgt != 0 {
		b.gc = float64(gc) / float64(acgt)
	}

	nt := make([]float64, 0, b.features)
	aa := make([]float64, 0, b.features)
	for _, l := range r.Loci() {
		sa, _ := r.SequenceAttributes(l)
		nt = append(nt, float64(len(sa.FFN)))
		aa = append(aa, float64(len(sa.FAA)))
	}
	if b.length != 0 {
		b.coding = math.Min(1, floats.Sum(nt)/float64(b.length))
	}
	if len(nt) != 0 {
		b.ntMean, b.ntStd = stat.MeanStdDev(nt, nil)
		b.aaMean, b.aaStd = stat.MeanStdDev(aa, nil)
		if len(nt) == 1 {
			b.ntStd, b.aaStd = 0, 0
		}
	}
	return b, aa
}

// histogram saves a histogram of the protein lengths in aa to the named file.
func histogram(file string, aa []float64, n int) error {
	p := plot.New()
	p.Title.Text = "Protein lengths"
	p.X.Label.Text = "length (aa)"
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(aa), n)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}
