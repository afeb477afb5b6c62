// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gff3 writes records as GFF3 with an optional embedded FASTA
// block.
package gff3

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/biogo/flatfile/coord"
	"github.com/biogo/flatfile/record"
	"github.com/biogo/flatfile/translate"
)

const (
	Version = "##gff-version 3"
	Region  = "##sequence-region"
	FASTA   = "##FASTA"
)

// Writer writes GFF3.
type Writer struct {
	w io.Writer

	// Source is written in the source column. If empty "." is used.
	Source string

	// Phase enables the phase column for CDS features. When false
	// the column is ".".
	Phase bool

	// Width is the line width of the FASTA block.
	Width int

	// DefaultProduct is written as the product attribute of
	// features without a product. If empty the attribute is
	// omitted.
	DefaultProduct string

	// Warnings holds a warning for each written feature with a
	// truncated bound, in write order.
	Warnings []error
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, Width: 60}
}

// Write writes the version header, one region pragma for each distinct
// source in recs, a CDS line for every feature of recs and, if dna is true,
// a FASTA block holding each record's buffer. Region extents are taken from
// extents, which may be nil, or from the records themselves.
func Write(w io.Writer, extents *record.Extents, recs []*record.Record, dna bool) error {
	return NewWriter(w).Write(extents, recs, dna)
}

// Write is the method form of the package-level Write function.
func (w *Writer) Write(extents *record.Extents, recs []*record.Record, dna bool) error {
	err := w.WriteHeader()
	if err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, r := range recs {
		name := record.SourceName(r)
		if seen[name] {
			continue
		}
		seen[name] = true
		x, ok := extents.Get(name)
		if !ok {
			x = record.ExtentOf(r)
			x.Start += r.Offset
			x.End += r.Offset
		}
		err = w.WriteRegion(name, x)
		if err != nil {
			return err
		}
	}
	for _, r := range recs {
		err = w.WriteRecord(r)
		if err != nil {
			return err
		}
	}
	if dna {
		return w.WriteFASTA(recs)
	}
	return nil
}

// WriteHeader writes the GFF3 version pragma.
func (w *Writer) WriteHeader() error {
	_, err := fmt.Fprintln(w.w, Version)
	return err
}

// WriteRegion writes a sequence-region pragma.
func (w *Writer) WriteRegion(name string, x record.Extent) error {
	_, err := fmt.Fprintf(w.w, "%s %s %d %d\n", Region, escape(name, seqidReserved), x.Start, x.End)
	return err
}

// WriteRecord writes a CDS line for each feature of r in feature order.
// Truncated bounds are written as plain positions and reported in
// w.Warnings.
func (w *Writer) WriteRecord(r *record.Record) error {
	name := record.SourceName(r)
	for _, l := range r.Loci() {
		f, _ := r.Feature(l)
		err := w.WriteFeature(w.Feature(name, l, f))
		if err != nil {
			return err
		}
		if f.Start.Truncated() || f.Stop.Truncated() {
			w.Warnings = append(w.Warnings, &record.DeriveError{
				Locus: l,
				Err:   &translate.TruncationWarning{Start: f.Start, Stop: f.Stop},
			})
		}
	}
	return nil
}

// Feature returns the GFF feature for the coding feature f held under locus
// on the named source.
func (w *Writer) Feature(name, locus string, f record.FeatureAttributes) *gff.Feature {
	attrs := gff.Attributes{{Tag: "locus_tag", Value: locus}}
	if f.Gene != "" {
		attrs = append(attrs, gff.Attribute{Tag: "gene", Value: f.Gene})
	}
	product := f.Product
	if product == "" {
		product = w.DefaultProduct
	}
	if product != "" {
		attrs = append(attrs, gff.Attribute{Tag: "product", Value: product})
	}
	source := w.Source
	if source == "" {
		source = "."
	}
	frame := gff.NoFrame
	if w.Phase {
		skip, err := coord.CodonStart(f.CodonStart)
		if err == nil {
			frame = gff.Frame(skip)
		}
	}
	return &gff.Feature{
		SeqName:        name,
		Source:         source,
		Feature:        "CDS",
		FeatStart:      int(f.Start.Pos) - 1,
		FeatEnd:        int(f.Stop.Pos),
		FeatStrand:     f.Strand,
		FeatFrame:      frame,
		FeatAttributes: attrs,
	}
}

// WriteFeature writes f as a single GFF3 line. Feature coordinates are
// zero-based half-open and are written 1-based inclusive.
func (w *Writer) WriteFeature(f *gff.Feature) error {
	score := "."
	if f.FeatScore != nil {
		score = strconv.FormatFloat(*f.FeatScore, 'g', -1, 64)
	}
	phase := "."
	if f.FeatFrame != gff.NoFrame {
		phase = strconv.Itoa(int(f.FeatFrame))
	}
	_, err := fmt.Fprintf(w.w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
		escape(f.SeqName, seqidReserved),
		escape(f.Source, columnReserved),
		escape(f.Feature, columnReserved),
		f.FeatStart+1,
		f.FeatEnd,
		score,
		coord.StrandSymbol(f.FeatStrand),
		phase,
		attributes(f.FeatAttributes),
	)
	return err
}

// WriteFASTA writes the FASTA pragma and each record's buffer named by its
// source.
func (w *Writer) WriteFASTA(recs []*record.Record) error {
	_, err := fmt.Fprintln(w.w, FASTA)
	if err != nil {
		return err
	}
	fw := fasta.NewWriter(w.w, w.Width)
	for _, r := range recs {
		s := r.Seq()
		_, err = fw.Write(linear.NewSeq(record.SourceName(r), s.Seq, s.Alpha))
		if err != nil {
			return err
		}
	}
	return nil
}

func attributes(attrs gff.Attributes) string {
	if len(attrs) == 0 {
		return "."
	}
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = escape(a.Tag, attributeReserved) + "=" + escape(a.Value, attributeReserved)
	}
	return strings.Join(parts, ";")
}

const (
	columnReserved    = "\t%"
	attributeReserved = "\t%;=&,"
	seqidReserved     = "\t% ;=&,>"
)

// escape percent-encodes control characters and the bytes in reserved.
func escape(s, reserved string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f || strings.IndexByte(reserved, c) >= 0 {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
