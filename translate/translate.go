// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package translate derives the nucleotide (ffn) and protein (faa) sequences
// of coding features from a record's nucleotide buffer.
//
// All functions are pure: they never modify the buffer they are given and
// retain no state between calls, so they may be called concurrently on the
// same buffer.
package translate

import (
	"errors"
	"fmt"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"

	"github.com/biogo/flatfile/coord"
)

// Unknown is the residue emitted for codons containing ambiguous bases.
const Unknown = 'X'

// Stop is the residue the genetic code assigns to stop codons. It is never
// written to derived protein sequences.
const Stop = '*'

// standardCode is NCBI translation table 1 in TCAG order.
const standardCode = "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG"

var (
	code      [64]byte
	baseIndex [256]int8
)

func init() {
	copy(code[:], standardCode)
	for i := range baseIndex {
		baseIndex[i] = -1
	}
	for i, b := range []byte("TCAG") {
		baseIndex[b] = int8(i)
		baseIndex[b+'a'-'A'] = int8(i)
	}
	baseIndex['U'] = baseIndex['T']
	baseIndex['u'] = baseIndex['T']
}

// CoordinateError is returned when a feature's bounds cannot be resolved
// against a buffer.
type CoordinateError struct {
	Start, Stop uint32
	Len         int
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("translate: invalid coordinates %d..%d for sequence of length %d", e.Start, e.Stop, e.Len)
}

// TruncationWarning is returned alongside valid sequences when a truncated
// bound was used as a literal slicing position.
type TruncationWarning struct {
	Start, Stop coord.RangeValue
}

func (w *TruncationWarning) Error() string {
	return fmt.Sprintf("translate: truncated coordinates %v..%v used as slice bounds", w.Start, w.Stop)
}

// IsWarning returns whether err only reports a truncated coordinate, in
// which case the accompanying results are valid.
func IsWarning(err error) bool {
	var w *TruncationWarning
	return errors.As(err, &w)
}

// Derive returns the nucleotide and protein sequences of the feature lying
// between start and stop on buf. Bounds are 1-based and inclusive. When
// strand is seq.Minus the nucleotide sequence is the reverse complement of
// the forward slice. The protein sequence is translated from ffn after
// skipping codonStart-1 bases, and ends before the first in-frame stop codon
// or incomplete trailing codon.
//
// If either bound is truncated, Derive returns the sequences together with a
// *TruncationWarning.
func Derive(buf []byte, start, stop coord.RangeValue, strand seq.Strand, codonStart uint8) (ffn, faa string, err error) {
	skip, err := coord.CodonStart(codonStart)
	if err != nil {
		return "", "", err
	}
	s, e := start.Pos, stop.Pos
	if s == 0 || s > e || int(e) > len(buf) {
		return "", "", &CoordinateError{Start: s, Stop: e, Len: len(buf)}
	}
	nt := buf[s-1 : e]
	if strand == seq.Minus {
		nt = ReverseComplement(nt)
	} else {
		nt = append([]byte(nil), nt...)
	}
	aa := Translate(nt, skip)
	if start.Truncated() || stop.Truncated() {
		err = &TruncationWarning{Start: start, Stop: stop}
	}
	return string(nt), string(aa), err
}

// ReverseComplement returns the reverse complement of the nucleotides in nt
// without modifying nt. Case is preserved and IUPAC ambiguity codes are
// complemented to their ambiguity partners.
func ReverseComplement(nt []byte) []byte {
	s := linear.NewSeq("", alphabet.BytesToLetters(append([]byte(nil), nt...)), alphabet.DNAredundant)
	s.RevComp()
	return alphabet.LettersToBytes(s.Seq)
}

// Translate returns the protein encoded by nt using the standard genetic
// code, starting skip bases into nt. Translation stops before the first stop
// codon; a trailing partial codon is ignored. Codons containing anything
// other than A, C, G, T or U translate to Unknown.
func Translate(nt []byte, skip int) []byte {
	if skip >= len(nt) {
		return []byte{}
	}
	nt = nt[skip:]
	aa := make([]byte, 0, len(nt)/3)
	for i := 0; i+3 <= len(nt); i += 3 {
		r := Codon(nt[i], nt[i+1], nt[i+2])
		if r == Stop {
			break
		}
		aa = append(aa, r)
	}
	return aa
}

// Codon returns the residue encoded by the codon a, b, c.
func Codon(a, b, c byte) byte {
	i, j, k := baseIndex[a], baseIndex[b], baseIndex[c]
	if i < 0 || j < 0 || k < 0 {
		return Unknown
	}
	return code[int(i)<<4|int(j)<<2|int(k)]
}
