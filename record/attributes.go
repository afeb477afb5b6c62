// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

import (
	"github.com/biogo/biogo/seq"

	"github.com/biogo/flatfile/coord"
)

// SourceAttributes describes the source feature of a record. Empty strings
// are absent values.
type SourceAttributes struct {
	// Name identifies the source in multi-record output. It is the key of
	// the source's extent when records are joined.
	Name string

	Start, Stop coord.RangeValue

	Organism          string
	MolType           string
	Strain            string
	CultureCollection string
	TypeMaterial      string
	DbXref            string
}

// FeatureAttributes describes one coding feature.
type FeatureAttributes struct {
	Start, Stop coord.RangeValue

	Gene    string
	Product string

	// CodonStart is the 1-based position of the first complete
	// codon in the feature's sequence. Zero is treated as 1.
	CodonStart uint8
	Strand     seq.Strand
}

// SequenceAttributes holds the derived sequences of one coding feature
// beside a copy of the feature's coordinates.
type SequenceAttributes struct {
	Start, Stop coord.RangeValue
	CodonStart  uint8
	Strand      seq.Strand

	// FFN is the nucleotide sequence of the feature.
	FFN string
	// FAA is the translation of FFN.
	FAA string
}

// agrees returns whether f and s hold the same coordinates.
func agrees(f FeatureAttributes, s SequenceAttributes) bool {
	return f.Start == s.Start &&
		f.Stop == s.Stop &&
		f.Strand == s.Strand &&
		f.CodonStart == s.CodonStart
}

// Header holds entry-level metadata from the flat file header.
type Header struct {
	MolType    string
	Topology   string
	Division   string
	Date       string
	Definition string
	Accession  string
	Version    string
	Keywords   string
	Taxonomy   string
}
