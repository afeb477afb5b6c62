// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coord provides the coordinate primitives of annotation records:
// 1-based inclusive endpoints that may be truncated by the edge of a
// fragment or contig, and the codon start of a coding feature.
package coord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/biogo/biogo/seq"
)

// Kind describes how a RangeValue relates to the true feature boundary.
type Kind uint8

const (
	// Exact is a known boundary.
	Exact Kind = iota
	// LessThan is a boundary lying somewhere before Pos, written "<Pos".
	LessThan
	// GreaterThan is a boundary lying somewhere after Pos, written ">Pos".
	GreaterThan
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case LessThan:
		return "less-than"
	case GreaterThan:
		return "greater-than"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// RangeValue is one coordinate endpoint. Positions are 1-based and
// inclusive, as written in GenBank and EMBL files.
type RangeValue struct {
	Kind Kind
	Pos  uint32
}

// At returns an exact RangeValue at pos.
func At(pos uint32) RangeValue { return RangeValue{Kind: Exact, Pos: pos} }

// Before returns a RangeValue truncated below pos.
func Before(pos uint32) RangeValue { return RangeValue{Kind: LessThan, Pos: pos} }

// After returns a RangeValue truncated above pos.
func After(pos uint32) RangeValue { return RangeValue{Kind: GreaterThan, Pos: pos} }

// Truncated returns whether the value is not an exact boundary.
func (v RangeValue) Truncated() bool { return v.Kind != Exact }

// Add returns v shifted by n positions, keeping its kind.
func (v RangeValue) Add(n uint32) RangeValue { return RangeValue{Kind: v.Kind, Pos: v.Pos + n} }

// Sub returns v shifted back by n positions, keeping its kind.
func (v RangeValue) Sub(n uint32) RangeValue { return RangeValue{Kind: v.Kind, Pos: v.Pos - n} }

// String returns the location syntax for v, "12", "<12" or ">12".
func (v RangeValue) String() string {
	switch v.Kind {
	case LessThan:
		return "<" + strconv.FormatUint(uint64(v.Pos), 10)
	case GreaterThan:
		return ">" + strconv.FormatUint(uint64(v.Pos), 10)
	}
	return strconv.FormatUint(uint64(v.Pos), 10)
}

// Parse parses a single location endpoint such as "12", "<1" or ">340".
func Parse(s string) (RangeValue, error) {
	var v RangeValue
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "<"):
		v.Kind = LessThan
		s = s[1:]
	case strings.HasPrefix(s, ">"):
		v.Kind = GreaterThan
		s = s[1:]
	}
	p, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return RangeValue{}, fmt.Errorf("coord: invalid position %q", s)
	}
	v.Pos = uint32(p)
	return v, nil
}

// ErrCodonStart is returned for codon start values outside 1..3.
var ErrCodonStart = errors.New("coord: codon start must be 1, 2 or 3")

// CodonStart returns the number of leading bases to skip before the first
// complete codon for the codon start c. A zero c is taken as unset and
// treated as 1.
func CodonStart(c uint8) (skip int, err error) {
	switch c {
	case 0, 1:
		return 0, nil
	case 2, 3:
		return int(c) - 1, nil
	}
	return 0, ErrCodonStart
}

// StrandSymbol returns the GFF symbol for s.
func StrandSymbol(s seq.Strand) string {
	switch s {
	case seq.Plus:
		return "+"
	case seq.Minus:
		return "-"
	}
	return "."
}
