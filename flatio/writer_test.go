// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flatio

import (
	"bytes"
	"errors"
	"strings"

	"gopkg.in/check.v1"

	"github.com/biogo/flatfile/record"
	"github.com/biogo/flatfile/translate"
)

func checkSameEntry(c *check.C, got, want *record.Record) {
	c.Check(got.ID, check.Equals, want.ID)
	c.Check(string(got.Bytes()), check.Equals, string(want.Bytes()))
	c.Check(got.Source, check.Equals, want.Source)
	c.Check(got.Header.Definition, check.Equals, want.Header.Definition)
	c.Check(got.Header.Taxonomy, check.Equals, want.Header.Taxonomy)
	c.Check(got.Loci(), check.DeepEquals, want.Loci())
	for _, l := range want.Loci() {
		gf, _ := got.Feature(l)
		wf, _ := want.Feature(l)
		c.Check(gf, check.Equals, wf, check.Commentf("locus %s", l))
	}
}

func (s *S) TestRoundTrip(c *check.C) {
	for _, t := range []struct {
		in   string
		from Format
		to   Format
	}{
		{genBankEntry, GenBank, GenBank},
		{genBankEntry, GenBank, EMBL},
		{emblEntry, EMBL, EMBL},
		{emblEntry, EMBL, GenBank},
	} {
		want := readOne(c, t.in, t.from)
		var buf bytes.Buffer
		w := NewWriter(&buf, t.to)
		w.Date = "15-OCT-2026"
		c.Assert(w.Write(nil, []*record.Record{want}), check.IsNil)

		got := readOne(c, buf.String(), t.to)
		checkSameEntry(c, got, want)
		c.Check(got.Header.Date, check.Equals, "01-JAN-2020")
	}
}

func (s *S) TestRoundTripLongWord(c *check.C) {
	const product = "2-succinyl-5-enolpyruvyl-6-hydroxy-3-cyclohexene-1-carboxylic-acid synthase"
	for i, t := range []struct {
		in   string
		from Format
		to   Format
	}{
		{genBankEntry, GenBank, GenBank},
		{genBankEntry, GenBank, EMBL},
		{emblEntry, EMBL, EMBL},
		{emblEntry, EMBL, GenBank},
	} {
		want := readOne(c, t.in, t.from)
		f, _ := want.Feature("g1")
		f.Product = product
		want.SetFeature("g1", f)

		var buf bytes.Buffer
		c.Assert(NewWriter(&buf, t.to).Write(nil, []*record.Record{want}), check.IsNil, check.Commentf("Test %d", i))
		got := readOne(c, buf.String(), t.to)
		f, _ = got.Feature("g1")
		c.Check(f.Product, check.Equals, product, check.Commentf("Test %d", i))
	}
}

func (s *S) TestWriteWarnings(c *check.C) {
	rec := readOne(c, genBankEntry, GenBank)
	var buf bytes.Buffer
	w := NewWriter(&buf, GenBank)
	c.Assert(w.Write(nil, []*record.Record{rec}), check.IsNil)
	c.Assert(w.Warnings, check.HasLen, 1)
	c.Check(translate.IsWarning(w.Warnings[0]), check.Equals, true)
	var de *record.DeriveError
	c.Assert(errors.As(w.Warnings[0], &de), check.Equals, true)
	c.Check(de.Locus, check.Equals, "g3")

	// Stored sequences are not derived again.
	_, err := rec.DeriveAll(1)
	c.Assert(err, check.IsNil)
	w = NewWriter(&buf, EMBL)
	c.Assert(w.Write(nil, []*record.Record{rec}), check.IsNil)
	c.Check(w.Warnings, check.HasLen, 0)
}

func (s *S) TestWriteGenBank(c *check.C) {
	rec := readOne(c, genBankEntry, GenBank)
	var buf bytes.Buffer
	c.Assert(NewWriter(&buf, GenBank).WriteRecord(rec, record.ExtentOf(rec)), check.IsNil)
	out := buf.String()
	for _, want := range []string{
		"LOCUS       test                      22 bp    DNA     linear   BCT 01-JAN-2020\n",
		"     source          1..22\n",
		"     CDS             complement(<1..>9)\n",
		"                     /codon_start=1\n",
		"                     /translation=\"MK\"\n",
		"                     /translation=\"LFH\"\n",
		"                     /product=\"protein A with a rather long name that wraps\n                     onto a second line\"\n",
		"ORIGIN\n        1 atgaaataac catggcctga tt\n//\n",
	} {
		c.Check(strings.Contains(out, want), check.Equals, true, check.Commentf("missing %q in:\n%s", want, out))
	}
	for _, l := range strings.Split(out, "\n") {
		c.Check(len(l) <= lineWidth, check.Equals, true, check.Commentf("long line %q", l))
	}
}

func (s *S) TestWriteEMBL(c *check.C) {
	rec := readOne(c, genBankEntry, GenBank)
	var buf bytes.Buffer
	c.Assert(NewWriter(&buf, EMBL).WriteRecord(rec, record.ExtentOf(rec)), check.IsNil)
	out := buf.String()
	for _, want := range []string{
		"ID   test; SV 1; linear; DNA; STD; BCT; 22 BP.\n",
		"FT   source          1..22\n",
		"FT   CDS             complement(<1..>9)\n",
		"SQ   Sequence 22 BP; 8 A; 4 C; 4 G; 6 T; 0 other;\n",
		"     atgaaataac catggcctga tt                                                 22\n//\n",
	} {
		c.Check(strings.Contains(out, want), check.Equals, true, check.Commentf("missing %q in:\n%s", want, out))
	}
}

func (s *S) TestWriteShifted(c *check.C) {
	rec := readOne(c, genBankEntry, GenBank)
	sh := rec.Shift(100)
	ext := record.NewExtents()
	ext.Set("test", record.Extent{Start: 101, End: 122})

	var buf bytes.Buffer
	c.Assert(NewWriter(&buf, GenBank).Write(ext, []*record.Record{sh}), check.IsNil)
	got := readOne(c, buf.String(), GenBank)
	checkSameEntry(c, got, rec)
}

func (s *S) TestWriteDeriveFailure(c *check.C) {
	rec := readOne(c, secondEntry, GenBank)
	f, _ := rec.Feature("s1")
	f.Stop.Pos = 90
	rec.SetFeature("s1", f)
	var buf bytes.Buffer
	err := NewWriter(&buf, GenBank).Write(nil, []*record.Record{rec})
	var de *record.DeriveError
	c.Check(errors.As(err, &de), check.Equals, true)
	c.Check(buf.Len(), check.Equals, 0)
}

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

func (s *S) TestWriteError(c *check.C) {
	rec := readOne(c, secondEntry, GenBank)
	boom := errors.New("boom")
	for _, f := range []Format{GenBank, EMBL} {
		err := NewWriter(failWriter{boom}, f).Write(nil, []*record.Record{rec, rec})
		c.Check(err, check.Equals, boom)
	}
}

func (s *S) TestWrap(c *check.C) {
	for i, t := range []struct {
		in      string
		width   int
		atSpace bool
		want    []string
	}{
		{"", 5, true, []string{""}},
		{"abc", 5, true, []string{"abc"}},
		{"abc def ghi", 7, true, []string{"abc def", "ghi"}},
		{"abc defghijk", 5, true, []string{"abc", "defghijk"}},
		{"abcdefgh ij kl", 4, true, []string{"abcdefgh", "ij", "kl"}},
		{"abcdefgh", 4, true, []string{"abcdefgh"}},
		{"abcdefghij", 4, false, []string{"abcd", "efgh", "ij"}},
	} {
		c.Check(wrap(t.in, t.width, t.atSpace), check.DeepEquals, t.want, check.Commentf("Test %d", i))
	}
}
