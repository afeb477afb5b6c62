// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// gbconv converts GenBank and EMBL flat files to GFF3, GenBank or EMBL, or
// writes the nucleotide or protein sequences of their coding features as
// FASTA.
//
// Entries that fail to parse are reported and skipped. With -join every
// record is placed end to end in a single coordinate space before output.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/biogo/flatfile/flatio"
	"github.com/biogo/flatfile/gff3"
	"github.com/biogo/flatfile/join"
	"github.com/biogo/flatfile/record"
)

var (
	inf     = flag.String("in", "", "input flat file name. Defaults to stdin.")
	outf    = flag.String("out", "", "output file name. Defaults to stdout.")
	from    = flag.String("format", "auto", "input format: auto, genbank or embl.")
	to      = flag.String("to", "gff", "output format: gff, genbank, embl, faa or ffn.")
	dna     = flag.Bool("dna", false, "embed nucleotide sequence in GFF3 output.")
	joined  = flag.Bool("join", false, "join records into a single coordinate space.")
	region  = flag.String("region", "", "only output features overlapping start-end (1-based, inclusive).")
	threads = flag.Int("threads", 0, "number of concurrent derivations per record (0 == GOMAXPROCS).")
	phase   = flag.Bool("phase", false, "write CDS phase in GFF3 output.")
	date    = flag.String("date", "", "date written to flat file entries without one.")
	product = flag.String("product", "", "product written to GFF3 features without one.")
	width   = flag.Int("width", 60, "FASTA line width.")
	help    = flag.Bool("help", false, "help prints this message.")
)

func main() {
	flag.Parse()
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if *threads <= 0 {
		*threads = runtime.GOMAXPROCS(0)
	}

	data, err := readInput(*inf)
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}
	format, err := inputFormat(*from, data)
	if err != nil {
		log.Fatalf("failed to determine input format: %v", err)
	}

	recs, err := parse(data, format)
	if err != nil {
		log.Fatalf("failed during read: %v", err)
	}
	if len(recs) == 0 {
		log.Fatal("no valid records")
	}

	var extents *record.Extents
	if *joined {
		j, err := join.Join(recs)
		if err != nil {
			log.Fatalf("failed to join records: %v", err)
		}
		for _, w := range j.Warnings {
			log.Printf("warning: %v", w)
		}
		recs = j.Records
		extents = j.Extents
	}

	if *region != "" {
		start, end, err := parseRegion(*region)
		if err != nil {
			log.Fatalf("invalid region: %v", err)
		}
		recs, err = selectRegion(recs, start, end)
		if err != nil {
			log.Fatalf("failed to select region: %v", err)
		}
	}

	var out io.Writer
	if *outf == "" {
		out = os.Stdout
	} else {
		f, err := os.Create(*outf)
		if err != nil {
			log.Fatalf("failed to create %q: %v", *outf, err)
		}
		defer f.Close()
		out = f
	}
	buf := bufio.NewWriter(out)

	switch *to {
	case "gff", "gff3":
		w := gff3.NewWriter(buf)
		w.Phase = *phase
		w.Width = *width
		w.DefaultProduct = *product
		err = w.Write(extents, recs, *dna)
		for _, wrn := range w.Warnings {
			log.Printf("warning: %v", wrn)
		}
	case "faa", "ffn":
		recs = derive(recs)
		err = writeFASTA(buf, recs, *to == "faa")
	default:
		var f flatio.Format
		f, err = flatio.ParseFormat(*to)
		if err != nil {
			log.Fatalf("invalid output format: %v", err)
		}
		recs = derive(recs)
		w := flatio.NewWriter(buf, f)
		w.Date = *date
		err = w.Write(extents, recs)
	}
	if err != nil {
		log.Fatalf("failed to write output: %v", err)
	}
	err = buf.Flush()
	if err != nil {
		log.Fatalf("failed to write output: %v", err)
	}
}

func readInput(name string) ([]byte, error) {
	if name == "" {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(name)
}

// inputFormat returns the named format, or the format of the first
// non-blank line of data when name is "auto".
func inputFormat(name string, data []byte) (flatio.Format, error) {
	if name != "auto" {
		return flatio.ParseFormat(name)
	}
	line := bytes.TrimLeft(data, " \t\r\n")
	if len(line) == 0 {
		return 0, errors.New("empty input")
	}
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return flatio.Detect(string(line))
}

// parse returns the valid records in data, reporting entries that could not
// be parsed.
func parse(data []byte, f flatio.Format) ([]*record.Record, error) {
	var recs []*record.Record
	sc := flatio.NewRecords(flatio.NewReader(bytes.NewReader(data), f))
	for sc.Next() {
		if err := sc.Err(); err != nil {
			log.Printf("skipping entry: %v", err)
			continue
		}
		recs = append(recs, sc.Record())
	}
	return recs, sc.Err()
}

func parseRegion(s string) (start, end uint32, err error) {
	f := strings.SplitN(s, "-", 2)
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("region %q not of the form start-end", s)
	}
	a, err := strconv.ParseUint(f[0], 10, 32)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseUint(f[1], 10, 32)
	if err != nil {
		return 0, 0, err
	}
	if a == 0 || a > b {
		return 0, 0, fmt.Errorf("region %q is empty", s)
	}
	return uint32(a), uint32(b), nil
}

// selectRegion returns the records of recs holding only the features that
// overlap start..end. Records with no such feature are dropped.
func selectRegion(recs []*record.Record, start, end uint32) ([]*record.Record, error) {
	var sel []*record.Record
	for _, r := range recs {
		idx, err := record.NewIndex(r)
		if err != nil {
			return nil, err
		}
		loci := idx.Overlapping(start, end)
		if len(loci) == 0 {
			continue
		}
		sel = append(sel, r.Select(loci))
	}
	return sel, nil
}

// derive stores the derived sequences of every feature, dropping records
// with features that cannot be derived.
func derive(recs []*record.Record) []*record.Record {
	ok := recs[:0]
	for _, r := range recs {
		warnings, err := r.DeriveAll(*threads)
		if err != nil {
			log.Printf("skipping record %s: %v", r.ID, err)
			continue
		}
		for _, w := range warnings {
			log.Printf("warning: record %s: %v", r.ID, w)
		}
		ok = append(ok, r)
	}
	return ok
}

// writeFASTA writes the protein sequence of each feature if protein is true,
// and the nucleotide sequence otherwise.
func writeFASTA(w io.Writer, recs []*record.Record, protein bool) error {
	fw := fasta.NewWriter(w, *width)
	for _, r := range recs {
		for _, l := range r.Loci() {
			sa, _ := r.SequenceAttributes(l)
			f, _ := r.Feature(l)
			var s *linear.Seq
			if protein {
				s = linear.NewSeq(l, alphabet.BytesToLetters([]byte(sa.FAA)), alphabet.Protein)
			} else {
				s = linear.NewSeq(l, alphabet.BytesToLetters([]byte(sa.FFN)), alphabet.DNAredundant)
			}
			s.Desc = f.Product
			_, err := fw.Write(s)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
