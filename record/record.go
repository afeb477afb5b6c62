// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package record provides the in-memory model of one annotated genomic
// entry: its nucleotide buffer, source metadata, coding features and the
// sequences derived from them.
//
// The nucleotide buffer is the only source of sequence data. Derived
// sequences are computed from it by package translate, either lazily with
// Derive and Sequence, or for every feature at once with DeriveAll.
package record

import (
	"errors"
	"fmt"
	"sync"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/biogo/seq/sequtils"

	"github.com/biogo/flatfile/translate"
)

var (
	// ErrNoFeature is returned when a locus has no feature in a record.
	ErrNoFeature = errors.New("record: no feature for locus")
	// ErrDuplicateLocus is returned when a locus is added twice.
	ErrDuplicateLocus = errors.New("record: duplicate locus")
	// ErrEmptyLocus is returned when a feature is added without a locus.
	ErrEmptyLocus = errors.New("record: empty locus")
)

// DeriveError reports a failure to derive the sequences of a locus.
type DeriveError struct {
	Locus string
	Err   error
}

func (e *DeriveError) Error() string { return fmt.Sprintf("record: locus %q: %v", e.Locus, e.Err) }

func (e *DeriveError) Unwrap() error { return e.Err }

// AgreementError reports a locus whose feature and sequence attributes
// disagree on coordinates, or which is present in only one of them.
type AgreementError struct {
	Locus  string
	Reason string
}

func (e *AgreementError) Error() string {
	return fmt.Sprintf("record: locus %q: %s", e.Locus, e.Reason)
}

// Record is one genomic entry. The zero value is not usable; records are
// made by New or by a parser.
type Record struct {
	ID string
	// Length is the length declared in the entry header. It is
	// not required to match the length of the buffer.
	Length int
	Header Header
	Source SourceAttributes

	// Offset is the distance of the record's first base from the origin
	// of a joined coordinate space. Feature coordinates include the
	// offset; derivation removes it before slicing the buffer.
	Offset uint32

	seq *linear.Seq

	loci     []string
	features map[string]FeatureAttributes

	seqLoci   []string
	sequences map[string]SequenceAttributes
}

// New returns an empty Record ready to be populated.
func New() *Record {
	return &Record{
		seq:       linear.NewSeq("", nil, alphabet.DNAredundant),
		features:  make(map[string]FeatureAttributes),
		sequences: make(map[string]SequenceAttributes),
	}
}

// SetBytes replaces the record's nucleotide buffer with a copy of b.
func (r *Record) SetBytes(b []byte) {
	r.seq.Seq = alphabet.BytesToLetters(append([]byte(nil), b...))
}

// AppendBytes appends b to the record's nucleotide buffer.
func (r *Record) AppendBytes(b []byte) {
	r.seq.Seq = append(r.seq.Seq, alphabet.BytesToLetters(b)...)
}

// Bytes returns the record's nucleotide buffer. The returned slice must not
// be modified.
func (r *Record) Bytes() []byte { return alphabet.LettersToBytes(r.seq.Seq) }

// Len returns the length of the nucleotide buffer.
func (r *Record) Len() int { return len(r.seq.Seq) }

// Seq returns the nucleotide buffer as a biogo sequence named by the
// record's ID. The sequence shares storage with the record.
func (r *Record) Seq() *linear.Seq {
	r.seq.ID = r.ID
	r.seq.Desc = r.Header.Definition
	return r.seq
}

// Slice returns a copy of the buffer between the 1-based inclusive bounds
// start and stop.
func (r *Record) Slice(start, stop uint32) (*linear.Seq, error) {
	if start == 0 || start > stop || int(stop) > r.Len() {
		return nil, &translate.CoordinateError{Start: start, Stop: stop, Len: r.Len()}
	}
	dst := linear.NewSeq(fmt.Sprintf("%s:%d-%d", r.ID, start, stop), nil, r.seq.Alpha)
	err := sequtils.Truncate(dst, r.seq, int(start)-1, int(stop))
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// AddFeature adds the feature f under the locus identifier locus.
func (r *Record) AddFeature(locus string, f FeatureAttributes) error {
	if locus == "" {
		return ErrEmptyLocus
	}
	if _, ok := r.features[locus]; ok {
		return ErrDuplicateLocus
	}
	r.loci = append(r.loci, locus)
	r.features[locus] = f
	return nil
}

// SetFeature adds or replaces the feature held under locus.
func (r *Record) SetFeature(locus string, f FeatureAttributes) {
	if _, ok := r.features[locus]; !ok {
		r.loci = append(r.loci, locus)
	}
	r.features[locus] = f
}

// HasFeature returns whether a feature is held under locus.
func (r *Record) HasFeature(locus string) bool {
	_, ok := r.features[locus]
	return ok
}

// Feature returns the feature held under locus.
func (r *Record) Feature(locus string) (FeatureAttributes, bool) {
	f, ok := r.features[locus]
	return f, ok
}

// Loci returns the locus identifiers of the record's features in the order
// they were added.
func (r *Record) Loci() []string { return append([]string(nil), r.loci...) }

// NumFeatures returns the number of features in the record.
func (r *Record) NumFeatures() int { return len(r.loci) }

// SetSequence adds or replaces the sequence attributes held under locus.
func (r *Record) SetSequence(locus string, s SequenceAttributes) {
	if _, ok := r.sequences[locus]; !ok {
		r.seqLoci = append(r.seqLoci, locus)
	}
	r.sequences[locus] = s
}

// SequenceAttributes returns the stored sequence attributes of locus.
func (r *Record) SequenceAttributes(locus string) (SequenceAttributes, bool) {
	s, ok := r.sequences[locus]
	return s, ok
}

// Derive computes the sequence attributes of locus from the buffer. It does
// not modify the record and may be called concurrently with other calls to
// Derive. If the feature has truncated bounds the result is returned with
// an error for which translate.IsWarning is true.
func (r *Record) Derive(locus string) (SequenceAttributes, error) {
	f, ok := r.features[locus]
	if !ok {
		return SequenceAttributes{}, &DeriveError{Locus: locus, Err: ErrNoFeature}
	}
	if f.Start.Pos <= r.Offset || f.Stop.Pos <= r.Offset {
		return SequenceAttributes{}, &DeriveError{
			Locus: locus,
			Err:   &translate.CoordinateError{Start: f.Start.Pos, Stop: f.Stop.Pos, Len: r.Len()},
		}
	}
	ffn, faa, err := translate.Derive(r.Bytes(), f.Start.Sub(r.Offset), f.Stop.Sub(r.Offset), f.Strand, f.CodonStart)
	if err != nil {
		err = &DeriveError{Locus: locus, Err: err}
		if !translate.IsWarning(err) {
			return SequenceAttributes{}, err
		}
	}
	return SequenceAttributes{
		Start:      f.Start,
		Stop:       f.Stop,
		CodonStart: f.CodonStart,
		Strand:     f.Strand,
		FFN:        ffn,
		FAA:        faa,
	}, err
}

// Sequence returns the stored sequence attributes of locus, deriving them
// from the buffer if none are stored. Derived values are not stored.
func (r *Record) Sequence(locus string) (SequenceAttributes, error) {
	if s, ok := r.sequences[locus]; ok {
		return s, nil
	}
	return r.Derive(locus)
}

// DeriveAll derives and stores the sequence attributes of every feature,
// using up to threads concurrent derivations. If any feature cannot be
// derived no attributes are stored and the first failure in feature order
// is returned. Truncation warnings are returned in feature order.
func (r *Record) DeriveAll(threads int) (warnings []error, err error) {
	if threads < 1 {
		threads = 1
	}
	var (
		res  = make([]SequenceAttributes, len(r.loci))
		errs = make([]error, len(r.loci))

		wg    sync.WaitGroup
		limit = make(chan struct{}, threads)
	)
	for i, locus := range r.loci {
		wg.Add(1)
		limit <- struct{}{}
		go func(i int, locus string) {
			defer func() {
				<-limit
				wg.Done()
			}()
			res[i], errs[i] = r.Derive(locus)
		}(i, locus)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil && !translate.IsWarning(err) {
			return nil, err
		}
	}
	for i, locus := range r.loci {
		if errs[i] != nil {
			warnings = append(warnings, errs[i])
		}
		r.SetSequence(locus, res[i])
	}
	return warnings, nil
}

// Check returns an error if any feature lacks sequence attributes, if any
// sequence attributes lack a feature, or if the two disagree on start,
// stop, strand or codon start.
func (r *Record) Check() error {
	for _, l := range r.loci {
		s, ok := r.sequences[l]
		if !ok {
			return &AgreementError{Locus: l, Reason: "no sequence attributes"}
		}
		if !agrees(r.features[l], s) {
			return &AgreementError{Locus: l, Reason: "feature and sequence coordinates disagree"}
		}
	}
	for _, l := range r.seqLoci {
		if _, ok := r.features[l]; !ok {
			return &AgreementError{Locus: l, Reason: "no feature attributes"}
		}
	}
	return nil
}

// Select returns a record holding only the features, and their sequence
// attributes, named in loci. Unknown loci are ignored. The returned record
// shares the receiver's buffer.
func (r *Record) Select(loci []string) *Record {
	c := r.shallow()
	for _, l := range loci {
		f, ok := r.features[l]
		if !ok || c.HasFeature(l) {
			continue
		}
		c.SetFeature(l, f)
		if s, ok := r.sequences[l]; ok {
			c.SetSequence(l, s)
		}
	}
	return c
}

// Shift returns a copy of the record with every feature and sequence
// coordinate moved by offset, and the record Offset increased to match.
// The returned record shares the receiver's buffer.
func (r *Record) Shift(offset uint32) *Record {
	c := r.shallow()
	c.Offset += offset
	for _, l := range r.loci {
		f := r.features[l]
		f.Start = f.Start.Add(offset)
		f.Stop = f.Stop.Add(offset)
		c.SetFeature(l, f)
	}
	for _, l := range r.seqLoci {
		s := r.sequences[l]
		s.Start = s.Start.Add(offset)
		s.Stop = s.Stop.Add(offset)
		c.SetSequence(l, s)
	}
	return c
}

// shallow returns a record with the receiver's metadata and buffer and no
// features.
func (r *Record) shallow() *Record {
	return &Record{
		ID:        r.ID,
		Length:    r.Length,
		Header:    r.Header,
		Source:    r.Source,
		Offset:    r.Offset,
		seq:       r.seq,
		features:  make(map[string]FeatureAttributes),
		sequences: make(map[string]SequenceAttributes),
	}
}
