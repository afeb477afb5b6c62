// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"testing"

	"gopkg.in/check.v1"

	"github.com/biogo/flatfile/flatio"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

const entries = `LOCUS       one                        9 bp    DNA     linear   BCT 01-JAN-2020
FEATURES             Location/Qualifiers
     CDS             1..9
                     /locus_tag="o1"
                     /product="first"
ORIGIN
        1 atgaaataa
//
LOCUS       broken                     9 bp    DNA     linear   BCT 01-JAN-2020
FEATURES             Location/Qualifiers
     CDS             1..z
ORIGIN
        1 atgaaataa
//
LOCUS       two                       12 bp    DNA     linear   BCT 01-JAN-2020
FEATURES             Location/Qualifiers
     CDS             1..6
                     /locus_tag="t1"
     CDS             complement(7..12)
                     /locus_tag="t2"
ORIGIN
        1 atggcctgac at
//
`

func (s *S) TestInputFormat(c *check.C) {
	f, err := inputFormat("auto", []byte("\n\n"+entries))
	c.Check(err, check.IsNil)
	c.Check(f, check.Equals, flatio.GenBank)
	f, err = inputFormat("auto", []byte("ID   x; SV 1; linear; DNA; STD; PRO; 3 BP.\n"))
	c.Check(err, check.IsNil)
	c.Check(f, check.Equals, flatio.EMBL)
	f, err = inputFormat("embl", nil)
	c.Check(err, check.IsNil)
	c.Check(f, check.Equals, flatio.EMBL)
	_, err = inputFormat("auto", []byte("  \n"))
	c.Check(err, check.NotNil)
}

func (s *S) TestParseRegion(c *check.C) {
	for i, t := range []struct {
		in         string
		start, end uint32
		ok         bool
	}{
		{"1-10", 1, 10, true},
		{"5-5", 5, 5, true},
		{"0-10", 0, 0, false},
		{"10-1", 0, 0, false},
		{"10", 0, 0, false},
		{"a-b", 0, 0, false},
	} {
		start, end, err := parseRegion(t.in)
		c.Check(err == nil, check.Equals, t.ok, check.Commentf("Test %d", i))
		if t.ok {
			c.Check(start, check.Equals, t.start, check.Commentf("Test %d", i))
			c.Check(end, check.Equals, t.end, check.Commentf("Test %d", i))
		}
	}
}

func (s *S) TestPipeline(c *check.C) {
	recs, err := parse([]byte(entries), flatio.GenBank)
	c.Assert(err, check.IsNil)
	c.Assert(recs, check.HasLen, 2)

	sel, err := selectRegion(recs, 8, 12)
	c.Assert(err, check.IsNil)
	c.Assert(sel, check.HasLen, 1)
	c.Check(sel[0].ID, check.Equals, "two")
	c.Check(sel[0].Loci(), check.DeepEquals, []string{"t2"})

	*threads = 2
	var buf bytes.Buffer
	c.Assert(writeFASTA(&buf, derive(recs), true), check.IsNil)
	c.Check(buf.String(), check.Equals, ">o1 first\nMK\n>t1\nMA\n>t2\nMS\n")
}
