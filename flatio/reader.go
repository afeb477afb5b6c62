// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flatio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"

	"github.com/biogo/flatfile/record"
)

const (
	terminator = "//"

	// Feature key lines have the key at column 6; qualifier and location
	// continuation lines begin at column 22.
	keyIndent  = "     "
	qualIndent = "                     "

	// GenBank header continuation lines begin at column 13.
	headerIndent = "            "
)

type state int

const (
	inHeader state = iota
	inFeatures
	inSequence
)

type qualifier struct {
	name  string
	value string
}

// open returns whether q holds a quoted value that has not been closed.
func (q *qualifier) open() bool {
	return strings.HasPrefix(q.value, `"`) && strings.Count(q.value, `"`)%2 == 1
}

// text returns the unquoted value of q.
func (q *qualifier) text() string {
	v := q.value
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}
	return strings.Replace(v, `""`, `"`, -1)
}

type pending struct {
	key   string
	loc   string
	line  int
	text  string
	quals []qualifier
	inLoc bool
}

// Reader reads records from a GenBank or EMBL stream.
type Reader struct {
	r      *bufio.Reader
	format Format

	// err is the sticky terminal error, io.EOF once
	// the stream is exhausted.
	err error

	records int

	rec      *record.Record
	started  bool
	line     int
	state    state
	sawSeq   bool
	buf      []byte
	feat     *pending
	cds      int
	organism string
	cont     *string
}

// NewReader returns a Reader reading entries of the given format from r.
func NewReader(r io.Reader, f Format) *Reader {
	return &Reader{r: bufio.NewReader(r), format: f}
}

// Format returns the format read by r.
func (r *Reader) Format() Format { return r.format }

// Read returns the next record in the stream. A *ParseError or
// *MissingSectionError invalidates only the entry it describes and the
// following call to Read continues with the next entry. Read returns io.EOF
// when the stream is exhausted, and on every call thereafter. Any other
// error is returned by every subsequent call.
func (r *Reader) Read() (*record.Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.reset()
	var perr error
	for {
		line, err := r.readLine()
		if err != nil {
			r.err = err
			if err != io.EOF {
				return nil, err
			}
			if !r.started {
				return nil, io.EOF
			}
			if perr != nil {
				return nil, perr
			}
			return r.finish()
		}
		if !r.started {
			if strings.TrimSpace(line) == "" {
				continue
			}
			r.started = true
			r.records++
		}
		r.line++
		if strings.HasPrefix(line, terminator) {
			if perr != nil {
				return nil, perr
			}
			return r.finish()
		}
		if perr != nil {
			continue
		}
		perr = r.handle(line)
	}
}

func (r *Reader) readLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			err = nil
		} else {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *Reader) reset() {
	r.rec = record.New()
	r.started = false
	r.line = 0
	r.state = inHeader
	r.sawSeq = false
	r.buf = r.buf[:0]
	r.feat = nil
	r.cds = 0
	r.organism = ""
	r.cont = nil
}

func (r *Reader) errorf(line int, text, format string, args ...interface{}) error {
	return &ParseError{
		Format: r.format,
		Record: r.records,
		Line:   line,
		Text:   text,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func (r *Reader) finish() (*record.Record, error) {
	err := r.flush()
	if err != nil {
		return nil, err
	}
	rec := r.rec
	if rec.ID == "" {
		return nil, &MissingSectionError{Format: r.format, Record: r.records, Section: r.format.idSection()}
	}
	if !r.sawSeq || len(r.buf) == 0 {
		return nil, &MissingSectionError{Format: r.format, Record: r.records, ID: rec.ID, Section: r.format.seqSection()}
	}
	rec.SetBytes(r.buf)
	if rec.Source.Name == "" {
		rec.Source.Name = rec.ID
	}
	if rec.Source.Organism == "" {
		rec.Source.Organism = r.organism
	}
	return rec, nil
}

func (r *Reader) handle(line string) error {
	if r.format == EMBL {
		return r.handleEMBL(line)
	}
	return r.handleGenBank(line)
}

func (r *Reader) handleGenBank(line string) error {
	switch r.state {
	case inSequence:
		return r.sequenceLine(line)
	case inFeatures:
		if strings.HasPrefix(line, " ") {
			return r.featureLine(line)
		}
		err := r.flush()
		if err != nil {
			return err
		}
		r.state = inHeader
	}

	key, value := genBankKey(line)
	switch key {
	case "":
		if r.cont != nil && strings.HasPrefix(line, headerIndent) {
			appendText(r.cont, value)
		}
		return nil
	case "LOCUS":
		return r.locus(line)
	case "DEFINITION":
		r.rec.Header.Definition = value
		r.cont = &r.rec.Header.Definition
		return nil
	case "ACCESSION":
		r.rec.Header.Accession = value
	case "VERSION":
		r.rec.Header.Version = value
	case "KEYWORDS":
		r.rec.Header.Keywords = value
		r.cont = &r.rec.Header.Keywords
		return nil
	case "ORGANISM":
		r.organism = value
		r.cont = &r.rec.Header.Taxonomy
		return nil
	case "FEATURES":
		r.state = inFeatures
	case "ORIGIN":
		r.state = inSequence
		r.sawSeq = true
	}
	r.cont = nil
	return nil
}

// genBankKey returns the keyword and value of a GenBank header line.
func genBankKey(line string) (key, value string) {
	if len(line) <= len(headerIndent) {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:len(headerIndent)]), strings.TrimSpace(line[len(headerIndent):])
}

func (r *Reader) locus(line string) error {
	f := strings.Fields(line)
	if len(f) < 3 {
		return r.errorf(r.line, line, "short LOCUS line")
	}
	n, err := strconv.Atoi(f[2])
	if err != nil || n < 0 {
		return r.errorf(r.line, line, "invalid sequence length %q", f[2])
	}
	r.rec.ID = f[1]
	r.rec.Length = n
	h := &r.rec.Header
	rest := f[3:]
	if len(rest) != 0 && (rest[0] == "bp" || rest[0] == "aa") {
		rest = rest[1:]
	}
	for _, t := range rest {
		switch {
		case t == "linear" || t == "circular":
			h.Topology = t
		case isDate(t):
			h.Date = t
		case h.MolType == "" && h.Topology == "":
			h.MolType = t
		default:
			h.Division = t
		}
	}
	return nil
}

// isDate returns whether s has the form dd-MMM-yyyy.
func isDate(s string) bool {
	return len(s) == 11 && s[2] == '-' && s[6] == '-'
}

func (r *Reader) handleEMBL(line string) error {
	if r.state == inSequence {
		return r.sequenceLine(line)
	}
	code := line
	if len(code) > 2 {
		code = code[:2]
	}
	var value string
	if len(line) > 5 {
		value = strings.TrimSpace(line[5:])
	}
	if code != "FT" && r.state == inFeatures {
		err := r.flush()
		if err != nil {
			return err
		}
		r.state = inHeader
	}
	h := &r.rec.Header
	switch code {
	case "ID":
		return r.emblID(line, value)
	case "AC":
		if h.Accession == "" {
			h.Accession = strings.TrimSpace(strings.SplitN(value, ";", 2)[0])
		}
	case "SV":
		h.Version = value
	case "DT":
		if f := strings.Fields(value); len(f) != 0 {
			h.Date = f[0]
		}
	case "DE":
		appendText(&h.Definition, value)
	case "KW":
		appendText(&h.Keywords, value)
	case "OS":
		if r.organism == "" {
			r.organism = value
		}
	case "OC":
		appendText(&h.Taxonomy, value)
	case "FT":
		r.state = inFeatures
		return r.featureLine("  " + line[2:])
	case "SQ":
		r.state = inSequence
		r.sawSeq = true
	}
	return nil
}

// emblID parses an identification line of the form
//  ID   X56734; SV 1; linear; mRNA; STD; PLN; 1859 BP.
func (r *Reader) emblID(line, value string) error {
	f := strings.Split(strings.TrimSuffix(value, "."), ";")
	if len(f) < 2 {
		return r.errorf(r.line, line, "short ID line")
	}
	for i := range f {
		f[i] = strings.TrimSpace(f[i])
	}
	r.rec.ID = strings.Fields(f[0] + " ")[0]
	size := strings.Fields(f[len(f)-1])
	if len(size) != 2 || (size[1] != "BP" && size[1] != "AA") {
		return r.errorf(r.line, line, "invalid sequence length %q", f[len(f)-1])
	}
	n, err := strconv.Atoi(size[0])
	if err != nil || n < 0 {
		return r.errorf(r.line, line, "invalid sequence length %q", size[0])
	}
	r.rec.Length = n

	h := &r.rec.Header
	fields := f[1 : len(f)-1]
	if len(fields) != 0 && strings.HasPrefix(fields[0], "SV ") {
		h.Version = strings.TrimPrefix(fields[0], "SV ")
		fields = fields[1:]
	}
	if len(fields) == 4 {
		h.Topology = fields[0]
		h.MolType = fields[1]
		h.Division = fields[3]
	}
	return nil
}

// featureLine handles a line of the feature table. EMBL lines have had their
// FT code blanked so both formats share column positions.
func (r *Reader) featureLine(line string) error {
	if strings.HasPrefix(line, keyIndent) && len(line) > len(keyIndent) && line[len(keyIndent)] != ' ' {
		err := r.flush()
		if err != nil {
			return err
		}
		f := strings.Fields(line)
		r.feat = &pending{
			key:   f[0],
			loc:   strings.Join(f[1:], ""),
			line:  r.line,
			text:  line,
			inLoc: true,
		}
		return nil
	}
	if !strings.HasPrefix(line, qualIndent) || r.feat == nil {
		// Feature table headers and blank lines.
		return nil
	}
	v := strings.TrimSpace(line)
	p := r.feat
	var last *qualifier
	if len(p.quals) != 0 {
		last = &p.quals[len(p.quals)-1]
	}
	switch {
	case last != nil && last.open():
		if last.name == "translation" {
			last.value += v
		} else {
			last.value += " " + v
		}
	case strings.HasPrefix(v, "/"):
		p.inLoc = false
		q := qualifier{name: v[1:]}
		if i := strings.IndexByte(v, '='); i >= 0 {
			q.name, q.value = v[1:i], v[i+1:]
		}
		p.quals = append(p.quals, q)
	case p.inLoc:
		p.loc += v
	case last != nil:
		last.value += " " + v
	}
	return nil
}

// flush adds the pending feature to the record.
func (r *Reader) flush() error {
	p := r.feat
	r.feat = nil
	if p == nil {
		return nil
	}
	switch p.key {
	case "source":
		return r.source(p)
	case "CDS":
		return r.coding(p)
	}
	return nil
}

func (r *Reader) source(p *pending) error {
	segs, _, err := parseLocation(p.loc)
	if err == errNoLocalSegment {
		return nil
	}
	if err != nil {
		return r.errorf(p.line, p.text, "invalid location %q: %v", p.loc, err)
	}
	src := &r.rec.Source
	if src.Stop.Pos != 0 {
		// Only the first source feature describes the entry.
		return nil
	}
	src.Start = segs[0].start
	src.Stop = segs[len(segs)-1].stop
	for i := range p.quals {
		q := &p.quals[i]
		switch q.name {
		case "organism":
			src.Organism = q.text()
		case "mol_type":
			src.MolType = q.text()
		case "strain":
			src.Strain = q.text()
		case "culture_collection":
			src.CultureCollection = q.text()
		case "type_material":
			src.TypeMaterial = q.text()
		case "db_xref":
			if src.DbXref == "" {
				src.DbXref = q.text()
			}
		}
	}
	return nil
}

func (r *Reader) coding(p *pending) error {
	r.cds++
	segs, strand, err := parseLocation(p.loc)
	if err == errNoLocalSegment {
		// Features lying wholly on other entries are skipped.
		return nil
	}
	if err != nil {
		return r.errorf(p.line, p.text, "invalid location %q: %v", p.loc, err)
	}
	f := record.FeatureAttributes{Strand: strand, CodonStart: 1}
	var locus string
	for i := range p.quals {
		q := &p.quals[i]
		switch q.name {
		case "locus_tag":
			locus = q.text()
		case "gene":
			f.Gene = q.text()
		case "product":
			f.Product = q.text()
		case "codon_start":
			n, err := strconv.Atoi(q.text())
			if err != nil || n < 1 || n > 3 {
				return r.errorf(p.line, p.text, "invalid codon_start %q", q.value)
			}
			f.CodonStart = uint8(n)
		}
	}
	if locus == "" {
		locus = fmt.Sprintf("CDS_%d", r.cds)
	}
	if len(segs) == 1 {
		f.Start, f.Stop = segs[0].start, segs[0].stop
		r.rec.SetFeature(r.unique(locus), f)
		return nil
	}
	for i, s := range segs {
		f.Start, f.Stop = s.start, s.stop
		r.rec.SetFeature(r.unique(fmt.Sprintf("%s_%d", locus, i)), f)
	}
	return nil
}

// unique returns locus, or locus with the smallest numeric suffix from 2 that
// is not yet used in the record.
func (r *Reader) unique(locus string) string {
	if !r.rec.HasFeature(locus) {
		return locus
	}
	for i := 2; ; i++ {
		l := fmt.Sprintf("%s_%d", locus, i)
		if !r.rec.HasFeature(l) {
			return l
		}
	}
}

func (r *Reader) sequenceLine(line string) error {
	if line != "" && line[0] != ' ' && (line[0] < '0' || '9' < line[0]) {
		return r.errorf(r.line, line, "unexpected line in sequence section")
	}
	for i := 0; i < len(line); i++ {
		b := line[i]
		switch {
		case b == ' ' || b == '\t' || ('0' <= b && b <= '9'):
		case alphabet.DNAredundant.IsValid(alphabet.Letter(b)):
			r.buf = append(r.buf, b)
		default:
			return r.errorf(r.line, line, "invalid sequence character %q", b)
		}
	}
	return nil
}

// appendText appends s to *dst separated by a space.
func appendText(dst *string, s string) {
	if s == "" {
		return
	}
	if *dst == "" {
		*dst = s
		return
	}
	*dst += " " + s
}
