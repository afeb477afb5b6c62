// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flatio

import (
	"errors"
	"strings"

	"github.com/biogo/biogo/seq"

	"github.com/biogo/flatfile/coord"
)

type segment struct {
	start, stop coord.RangeValue
}

var errNoLocalSegment = errors.New("no local segment in location")

// parseLocation returns the segments of an INSDC feature location and the
// strand of the feature. Any complement operator makes the feature
// reverse stranded. Segments on other entries, such as "J00194.1:100..202",
// are skipped.
func parseLocation(s string) ([]segment, seq.Strand, error) {
	s = strings.Join(strings.Fields(s), "")
	var (
		segs  []segment
		minus bool
	)
	err := parseLoc(s, false, &segs, &minus)
	if err != nil {
		return nil, seq.None, err
	}
	if len(segs) == 0 {
		return nil, seq.None, errNoLocalSegment
	}
	if minus {
		return segs, seq.Minus, nil
	}
	return segs, seq.Plus, nil
}

func parseLoc(s string, comp bool, segs *[]segment, minus *bool) error {
	if op, inner, ok := operator(s); ok {
		switch op {
		case "complement":
			return parseLoc(inner, !comp, segs, minus)
		case "join", "order":
			for _, part := range splitTop(inner) {
				err := parseLoc(part, comp, segs, minus)
				if err != nil {
					return err
				}
			}
			return nil
		}
		return errors.New("unknown location operator " + op)
	}
	if strings.IndexByte(s, ':') >= 0 {
		return nil
	}

	lo, hi := s, s
	if i := strings.Index(s, ".."); i >= 0 {
		lo, hi = s[:i], s[i+2:]
	} else if i := strings.IndexAny(s, "^."); i >= 0 {
		lo, hi = s[:i], s[i+1:]
	}
	start, err := coord.Parse(lo)
	if err != nil {
		return err
	}
	stop, err := coord.Parse(hi)
	if err != nil {
		return err
	}
	if comp {
		*minus = true
	}
	*segs = append(*segs, segment{start: start, stop: stop})
	return nil
}

// operator splits a location of the form "op(inner)".
func operator(s string) (op, inner string, ok bool) {
	i := strings.IndexByte(s, '(')
	if i <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return s[:i], s[i+1 : len(s)-1], true
}

// splitTop splits s on commas that are not enclosed in parentheses.
func splitTop(s string) []string {
	var (
		parts []string
		depth int
		last  int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

// formatLocation returns the location syntax for a single span.
func formatLocation(start, stop coord.RangeValue, strand seq.Strand) string {
	loc := start.String() + ".." + stop.String()
	if strand == seq.Minus {
		return "complement(" + loc + ")"
	}
	return loc
}
