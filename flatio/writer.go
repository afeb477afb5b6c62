// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flatio

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/biogo/biogo/seq"

	"github.com/biogo/flatfile/coord"
	"github.com/biogo/flatfile/record"
	"github.com/biogo/flatfile/translate"
)

const (
	lineWidth = 79
	blockSize = 10
	lineBases = 60
)

// Writer writes records as GenBank or EMBL entries.
type Writer struct {
	w      io.Writer
	format Format

	// Date is written for records without a header date. If
	// Date is empty the current date is used.
	Date string

	// Warnings holds the truncation warnings reported while deriving
	// the translations of written features, in write order. Features
	// with stored sequence attributes are not derived and report no
	// warnings here; DeriveAll returns theirs.
	Warnings []error
}

// NewWriter returns a Writer writing entries of the given format to w.
func NewWriter(w io.Writer, f Format) *Writer {
	return &Writer{w: w, format: f}
}

// Write writes every record in recs. The extent of each record's source is
// looked up by source name in extents, which may be nil; records without an
// extent use their own source bounds.
func (w *Writer) Write(extents *record.Extents, recs []*record.Record) error {
	for _, r := range recs {
		x, ok := extents.Get(record.SourceName(r))
		if ok && x.Start > r.Offset {
			x.Start -= r.Offset
			x.End -= r.Offset
		} else {
			x = record.ExtentOf(r)
		}
		err := w.WriteRecord(r, x)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord writes r as a single entry with its source feature spanning x.
// Coding features are written with a translation taken from the record's
// sequence attributes, derived if none are stored. Feature coordinates are
// written relative to the record's own buffer.
func (w *Writer) WriteRecord(r *record.Record, x record.Extent) error {
	var b bytes.Buffer
	var err error
	switch w.format {
	case GenBank:
		err = w.genBank(&b, r, x)
	case EMBL:
		err = w.embl(&b, r, x)
	default:
		err = fmt.Errorf("flatio: cannot write %v", w.format)
	}
	if err != nil {
		return err
	}
	_, err = w.w.Write(b.Bytes())
	return err
}

func (w *Writer) date(r *record.Record) string {
	switch {
	case r.Header.Date != "":
		return r.Header.Date
	case w.Date != "":
		return w.Date
	}
	return strings.ToUpper(time.Now().Format("02-Jan-2006"))
}

func definition(r *record.Record) string {
	if r.Header.Definition != "" {
		return r.Header.Definition
	}
	d := strings.TrimSpace(r.Source.Organism + " " + r.Source.Strain)
	return d + "."
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func molType(r *record.Record) string {
	if r.Header.MolType != "" {
		return r.Header.MolType
	}
	if strings.Contains(r.Source.MolType, "RNA") {
		return "RNA"
	}
	return "DNA"
}

type qual struct {
	name, value string
	quoted      bool
}

func sourceQualifiers(r *record.Record) []qual {
	var q []qual
	for _, v := range []qual{
		{"organism", r.Source.Organism, true},
		{"mol_type", r.Source.MolType, true},
		{"strain", r.Source.Strain, true},
		{"culture_collection", r.Source.CultureCollection, true},
		{"type_material", r.Source.TypeMaterial, true},
		{"db_xref", r.Source.DbXref, true},
	} {
		if v.value != "" {
			q = append(q, v)
		}
	}
	return q
}

// codingFeature is a coding feature prepared for writing.
type codingFeature struct {
	locus string
	loc   string
	gene  []qual
	cds   []qual
}

func (w *Writer) codingFeatures(r *record.Record) ([]codingFeature, error) {
	var (
		feats    []codingFeature
		warnings []error
	)
	for _, l := range r.Loci() {
		f, _ := r.Feature(l)
		sa, err := r.Sequence(l)
		if err != nil {
			if !translate.IsWarning(err) {
				return nil, err
			}
			warnings = append(warnings, err)
		}
		cf := codingFeature{
			locus: l,
			loc:   formatLocation(f.Start.Sub(r.Offset), f.Stop.Sub(r.Offset), f.Strand),
		}
		if f.Gene != "" {
			cf.gene = append(cf.gene, qual{"gene", f.Gene, true})
			cf.cds = append(cf.cds, qual{"gene", f.Gene, true})
		}
		cf.gene = append(cf.gene, qual{"locus_tag", l, true})
		cf.cds = append(cf.cds, qual{"locus_tag", l, true})
		codonStart := f.CodonStart
		if codonStart == 0 {
			codonStart = 1
		}
		cf.cds = append(cf.cds, qual{"codon_start", fmt.Sprint(codonStart), false})
		if f.Product != "" {
			cf.cds = append(cf.cds, qual{"product", f.Product, true})
		}
		if sa.FAA != "" {
			cf.cds = append(cf.cds, qual{"translation", sa.FAA, true})
		}
		feats = append(feats, cf)
	}
	w.Warnings = append(w.Warnings, warnings...)
	return feats, nil
}

func (w *Writer) genBank(b *bytes.Buffer, r *record.Record, x record.Extent) error {
	feats, err := w.codingFeatures(r)
	if err != nil {
		return err
	}
	h := r.Header
	fmt.Fprintf(b, "LOCUS       %-16s %11d bp    %-6s  %-8s %-3s %s\n",
		r.ID, r.Len(), molType(r), orDefault(h.Topology, "linear"), orDefault(h.Division, "UNA"), w.date(r))
	headerLine(b, "DEFINITION", definition(r))
	headerLine(b, "ACCESSION", orDefault(h.Accession, r.ID))
	if h.Version != "" {
		headerLine(b, "VERSION", h.Version)
	}
	headerLine(b, "KEYWORDS", orDefault(h.Keywords, "."))
	headerLine(b, "SOURCE", orDefault(r.Source.Organism, "."))
	headerLine(b, "  ORGANISM", orDefault(r.Source.Organism, "."))
	if h.Taxonomy != "" {
		for _, l := range wrap(h.Taxonomy, lineWidth-len(headerIndent), true) {
			b.WriteString(headerIndent + l + "\n")
		}
	}

	b.WriteString("FEATURES             Location/Qualifiers\n")
	w.features(b, keyIndent, qualIndent, r, x, feats)

	b.WriteString("ORIGIN\n")
	nt := r.Bytes()
	for i := 0; i < len(nt); i += lineBases {
		fmt.Fprintf(b, "%9d", i+1)
		for j := i; j < i+lineBases && j < len(nt); j += blockSize {
			b.WriteByte(' ')
			b.Write(nt[j:min(j+blockSize, len(nt))])
		}
		b.WriteByte('\n')
	}
	b.WriteString(terminator + "\n")
	return nil
}

// headerLine writes a GenBank header keyword line, wrapping its value onto
// continuation lines.
func headerLine(b *bytes.Buffer, key, value string) {
	for i, l := range wrap(value, lineWidth-len(headerIndent), true) {
		if i == 0 {
			fmt.Fprintf(b, "%-12s%s\n", key, l)
			continue
		}
		b.WriteString(headerIndent + l + "\n")
	}
}

func (w *Writer) embl(b *bytes.Buffer, r *record.Record, x record.Extent) error {
	feats, err := w.codingFeatures(r)
	if err != nil {
		return err
	}
	h := r.Header
	fmt.Fprintf(b, "ID   %s; SV %s; %s; %s; STD; %s; %d BP.\n",
		r.ID, emblVersion(h.Version), orDefault(h.Topology, "linear"), molType(r), orDefault(h.Division, "UNC"), r.Len())
	b.WriteString("XX\n")
	fmt.Fprintf(b, "AC   %s;\n", orDefault(h.Accession, r.ID))
	b.WriteString("XX\n")
	fmt.Fprintf(b, "DT   %s\n", w.date(r))
	b.WriteString("XX\n")
	emblLines(b, "DE", definition(r))
	b.WriteString("XX\n")
	emblLines(b, "KW", orDefault(h.Keywords, "."))
	b.WriteString("XX\n")
	emblLines(b, "OS", orDefault(r.Source.Organism, "."))
	if h.Taxonomy != "" {
		emblLines(b, "OC", h.Taxonomy)
	}
	b.WriteString("XX\n")
	b.WriteString("FH   Key             Location/Qualifiers\nFH\n")
	w.features(b, "FT   ", "FT                   ", r, x, feats)
	b.WriteString("XX\n")

	nt := r.Bytes()
	var a, c, g, t int
	for _, n := range nt {
		switch n {
		case 'a', 'A':
			a++
		case 'c', 'C':
			c++
		case 'g', 'G':
			g++
		case 't', 'T':
			t++
		}
	}
	fmt.Fprintf(b, "SQ   Sequence %d BP; %d A; %d C; %d G; %d T; %d other;\n", len(nt), a, c, g, t, len(nt)-a-c-g-t)
	for i := 0; i < len(nt); i += lineBases {
		var blocks []string
		end := min(i+lineBases, len(nt))
		for j := i; j < end; j += blockSize {
			blocks = append(blocks, string(nt[j:min(j+blockSize, end)]))
		}
		fmt.Fprintf(b, "     %-65s%10d\n", strings.Join(blocks, " "), end)
	}
	b.WriteString(terminator + "\n")
	return nil
}

// emblVersion returns the sequence version number from an accession version
// such as "NC_000913.3".
func emblVersion(v string) string {
	if i := strings.LastIndexByte(v, '.'); i >= 0 {
		v = v[i+1:]
	}
	return orDefault(v, "1")
}

func emblLines(b *bytes.Buffer, code, value string) {
	for _, l := range wrap(value, lineWidth-5, true) {
		fmt.Fprintf(b, "%s   %s\n", code, l)
	}
}

// features writes the source feature and each coding feature as a gene and
// CDS pair.
func (w *Writer) features(b *bytes.Buffer, key, indent string, r *record.Record, x record.Extent, feats []codingFeature) {
	src := formatLocation(sourceBound(r.Source.Start, x.Start), sourceBound(r.Source.Stop, x.End), seq.Plus)
	featureKey(b, key, "source", src)
	qualifiers(b, indent, sourceQualifiers(r))
	for _, f := range feats {
		featureKey(b, key, "gene", f.loc)
		qualifiers(b, indent, f.gene)
		featureKey(b, key, "CDS", f.loc)
		qualifiers(b, indent, f.cds)
	}
}

// sourceBound returns pos with the truncation of v when v is at pos.
func sourceBound(v coord.RangeValue, pos uint32) coord.RangeValue {
	if v.Pos == pos {
		return v
	}
	return coord.At(pos)
}

func featureKey(b *bytes.Buffer, indent, key, loc string) {
	fmt.Fprintf(b, "%s%-16s%s\n", indent, key, loc)
}

func qualifiers(b *bytes.Buffer, indent string, quals []qual) {
	width := lineWidth - len(qualIndent)
	for _, q := range quals {
		text := "/" + q.name + "=" + q.value
		if q.quoted {
			text = "/" + q.name + `="` + strings.Replace(q.value, `"`, `""`, -1) + `"`
		}
		for _, l := range wrap(text, width, q.name != "translation") {
			b.WriteString(indent + l + "\n")
		}
	}
}

// wrap splits s into lines no longer than width. When atSpace is true lines
// are broken at the last space that fits, and the space is dropped; a word
// longer than width is left whole on an overlong line since readers rejoin
// continuation lines with a space. When atSpace is false lines are broken
// every width bytes.
func wrap(s string, width int, atSpace bool) []string {
	var lines []string
	for len(s) > width {
		if atSpace {
			i := strings.LastIndexByte(s[:width+1], ' ')
			if i <= 0 {
				i = strings.IndexByte(s[width:], ' ')
				if i < 0 {
					break
				}
				i += width
			}
			lines = append(lines, s[:i])
			s = s[i+1:]
			continue
		}
		lines = append(lines, s[:width])
		s = s[width:]
	}
	return append(lines, s)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
