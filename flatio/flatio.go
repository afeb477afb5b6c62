// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flatio reads and writes GenBank and EMBL flat files.
//
// A Reader is a line-oriented state machine that converts a stream into a
// sequence of records, one per entry. Malformed entries are reported as
// errors without ending the stream: the Reader skips to the next entry
// terminator and continues with the following entry.
package flatio

import (
	"errors"
	"fmt"
	"strings"
)

// Format is a flat file dialect.
type Format int

const (
	GenBank Format = iota
	EMBL
)

func (f Format) String() string {
	switch f {
	case GenBank:
		return "genbank"
	case EMBL:
		return "embl"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// idSection returns the name of the section holding the entry identifier.
func (f Format) idSection() string {
	if f == EMBL {
		return "ID"
	}
	return "LOCUS"
}

// seqSection returns the name of the section holding sequence data.
func (f Format) seqSection() string {
	if f == EMBL {
		return "SQ"
	}
	return "ORIGIN"
}

// Detect returns the format of an entry beginning with line.
func Detect(line string) (Format, error) {
	switch {
	case strings.HasPrefix(line, "LOCUS"):
		return GenBank, nil
	case strings.HasPrefix(line, "ID   "):
		return EMBL, nil
	}
	return 0, errors.New("flatio: unknown format")
}

// ParseFormat returns the format named by s. GenBank is named "genbank",
// "gbk" or "gb", and EMBL "embl".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "genbank", "gbk", "gb":
		return GenBank, nil
	case "embl":
		return EMBL, nil
	}
	return 0, fmt.Errorf("flatio: unknown format %q", s)
}

// ParseError reports a malformed line. The entry containing the line is
// discarded; reading may continue with the next entry.
type ParseError struct {
	Format Format
	// Record is the 1-based index of the entry in the stream.
	Record int
	// Line is the 1-based line number within the entry.
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("flatio: %v record %d line %d: %s: %q", e.Format, e.Record, e.Line, e.Msg, e.Text)
}

// MissingSectionError reports an entry without an identifier or without
// sequence data. Reading may continue with the next entry.
type MissingSectionError struct {
	Format  Format
	Record  int
	ID      string
	Section string
}

func (e *MissingSectionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("flatio: %v record %d: missing %s section", e.Format, e.Record, e.Section)
	}
	return fmt.Sprintf("flatio: %v record %d (%s): missing %s section", e.Format, e.Record, e.ID, e.Section)
}

// IsRecordError returns whether err invalidates only a single entry, so
// that reading may continue.
func IsRecordError(err error) bool {
	var (
		pe *ParseError
		me *MissingSectionError
	)
	return errors.As(err, &pe) || errors.As(err, &me)
}
