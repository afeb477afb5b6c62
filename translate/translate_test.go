// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package translate

import (
	"errors"
	"testing"

	"github.com/biogo/biogo/seq"
	"gopkg.in/check.v1"

	"github.com/biogo/flatfile/coord"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func (s *S) TestDerive(c *check.C) {
	for i, t := range []struct {
		buf         string
		start, stop coord.RangeValue
		strand      seq.Strand
		codonStart  uint8
		ffn, faa    string
	}{
		{
			buf: "ATGAAATAA", start: coord.At(1), stop: coord.At(9), strand: seq.Plus, codonStart: 1,
			ffn: "ATGAAATAA", faa: "MK",
		},
		{
			buf: "ATGAAATAA", start: coord.At(1), stop: coord.At(9), strand: seq.Minus, codonStart: 1,
			ffn: "TTATTTCAT", faa: "LFH",
		},
		{
			// Unset codon start reads from the first base.
			buf: "ATGAAATAA", start: coord.At(1), stop: coord.At(9), strand: seq.Plus,
			ffn: "ATGAAATAA", faa: "MK",
		},
		{
			buf: "cATGGCCTGA", start: coord.At(1), stop: coord.At(10), strand: seq.Plus, codonStart: 2,
			ffn: "cATGGCCTGA", faa: "MA",
		},
		{
			buf: "ccATGGCCTGAtt", start: coord.At(3), stop: coord.At(11), strand: seq.Plus, codonStart: 1,
			ffn: "ATGGCCTGA", faa: "MA",
		},
		{
			// Ambiguous codon translates to X and a trailing partial codon is dropped.
			buf: "ATGNNAGGGTT", start: coord.At(1), stop: coord.At(11), strand: seq.Plus, codonStart: 1,
			ffn: "ATGNNAGGGTT", faa: "MXG",
		},
		{
			// Stop codons are case insensitive and end translation mid-sequence.
			buf: "atgtagaaa", start: coord.At(1), stop: coord.At(9), strand: seq.Plus, codonStart: 1,
			ffn: "atgtagaaa", faa: "M",
		},
		{
			buf: "ATG", start: coord.At(2), stop: coord.At(2), strand: seq.Plus, codonStart: 1,
			ffn: "T", faa: "",
		},
	} {
		ffn, faa, err := Derive([]byte(t.buf), t.start, t.stop, t.strand, t.codonStart)
		c.Check(err, check.IsNil, check.Commentf("Test %d", i))
		c.Check(ffn, check.Equals, t.ffn, check.Commentf("Test %d", i))
		c.Check(faa, check.Equals, t.faa, check.Commentf("Test %d", i))
	}
}

func (s *S) TestDeriveCoordinateErrors(c *check.C) {
	buf := []byte("ATGAAATAA")
	for i, t := range []struct {
		start, stop uint32
		codonStart  uint8
	}{
		{0, 3, 1},
		{5, 4, 1},
		{1, 10, 1},
		{10, 12, 1},
	} {
		_, _, err := Derive(buf, coord.At(t.start), coord.At(t.stop), seq.Plus, t.codonStart)
		var ce *CoordinateError
		c.Check(errors.As(err, &ce), check.Equals, true, check.Commentf("Test %d", i))
		c.Check(IsWarning(err), check.Equals, false, check.Commentf("Test %d", i))
	}
	_, _, err := Derive(buf, coord.At(1), coord.At(9), seq.Plus, 4)
	c.Check(err, check.Equals, coord.ErrCodonStart)
}

func (s *S) TestDeriveTruncated(c *check.C) {
	ffn, faa, err := Derive([]byte("ATGAAATAA"), coord.Before(1), coord.After(9), seq.Plus, 1)
	c.Check(IsWarning(err), check.Equals, true)
	c.Check(err, check.ErrorMatches, `translate: truncated coordinates <1..>9 used as slice bounds`)
	c.Check(ffn, check.Equals, "ATGAAATAA")
	c.Check(faa, check.Equals, "MK")
}

func (s *S) TestForwardSlice(c *check.C) {
	buf := []byte("ATGCGTACGTTAGCNNRYacgtgcta")
	for start := 1; start <= len(buf); start++ {
		for stop := start; stop <= len(buf); stop++ {
			ffn, _, err := Derive(buf, coord.At(uint32(start)), coord.At(uint32(stop)), seq.Plus, 1)
			c.Assert(err, check.IsNil)
			c.Check(ffn, check.Equals, string(buf[start-1:stop]))

			rc, _, err := Derive(buf, coord.At(uint32(start)), coord.At(uint32(stop)), seq.Minus, 1)
			c.Assert(err, check.IsNil)
			c.Check(len(rc), check.Equals, stop-start+1)
			c.Check(string(ReverseComplement([]byte(rc))), check.Equals, ffn)
		}
	}
}

func (s *S) TestReverseComplement(c *check.C) {
	for i, t := range []struct {
		in, want string
	}{
		{"", ""},
		{"A", "T"},
		{"AACGTN", "NACGTT"},
		{"acgt", "acgt"},
		{"aaGG", "CCtt"},
		{"ATGAAATAA", "TTATTTCAT"},
	} {
		in := []byte(t.in)
		c.Check(string(ReverseComplement(in)), check.Equals, t.want, check.Commentf("Test %d", i))
		c.Check(string(in), check.Equals, t.in, check.Commentf("Test %d: input modified", i))
	}
}

func (s *S) TestTranslateLength(c *check.C) {
	nt := []byte("ATGGCCAAAGGGCCCTTTACGTGCAT")
	for skip := 0; skip < 3; skip++ {
		aa := Translate(nt, skip)
		c.Check(len(aa), check.Equals, (len(nt)-skip)/3, check.Commentf("skip %d", skip))
	}
	c.Check(Translate(nt, len(nt)), check.HasLen, 0)
	c.Check(Translate(nil, 2), check.HasLen, 0)
}

func (s *S) TestDeterministic(c *check.C) {
	buf := []byte("ATGGCCAAAGGGCCCTTTACGTGCATAA")
	ffn1, faa1, err1 := Derive(buf, coord.At(2), coord.At(27), seq.Minus, 3)
	ffn2, faa2, err2 := Derive(buf, coord.At(2), coord.At(27), seq.Minus, 3)
	c.Check(err1, check.IsNil)
	c.Check(err2, check.IsNil)
	c.Check(ffn1, check.Equals, ffn2)
	c.Check(faa1, check.Equals, faa2)
	c.Check(string(buf), check.Equals, "ATGGCCAAAGGGCCCTTTACGTGCATAA")
}

func (s *S) TestCodonTable(c *check.C) {
	stops := 0
	bases := "TCAG"
	for _, a := range []byte(bases) {
		for _, b := range []byte(bases) {
			for _, d := range []byte(bases) {
				if Codon(a, b, d) == Stop {
					stops++
				}
			}
		}
	}
	c.Check(stops, check.Equals, 3)
	c.Check(Codon('A', 'T', 'G'), check.Equals, byte('M'))
	c.Check(Codon('a', 'u', 'g'), check.Equals, byte('M'))
	c.Check(Codon('T', 'G', 'G'), check.Equals, byte('W'))
	c.Check(Codon('G', 'G', 'N'), check.Equals, byte(Unknown))
	c.Check(Codon('R', 'A', 'A'), check.Equals, byte(Unknown))
}
