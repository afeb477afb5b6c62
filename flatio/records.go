// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flatio

import (
	"io"

	"github.com/biogo/flatfile/record"
)

// Records is a scanner over the records of a Reader.
//
// Successive calls to Next step through the stream. Entries that fail to
// parse are reported by Err without ending the scan, so after Next returns
// true exactly one of Record and Err is non-nil. When Next returns false
// Err holds the error that ended the scan, or nil at the end of the stream.
type Records struct {
	r    *Reader
	rec  *record.Record
	err  error
	done bool
}

// NewRecords returns a Records scanning r.
func NewRecords(r *Reader) *Records {
	return &Records{r: r}
}

// Next advances to the next entry in the stream.
func (s *Records) Next() bool {
	if s.done {
		return false
	}
	s.rec, s.err = s.r.Read()
	if s.err == nil {
		return true
	}
	if IsRecordError(s.err) {
		s.rec = nil
		return true
	}
	s.rec = nil
	s.done = true
	if s.err == io.EOF {
		s.err = nil
	}
	return false
}

// Record returns the record read by the last call to Next.
func (s *Records) Record() *record.Record { return s.rec }

// Err returns the error from the last call to Next.
func (s *Records) Err() error { return s.err }

// ReadAll returns all valid records in the stream read by r with the
// per-entry errors encountered, in stream order. The returned error is
// non-nil only if reading ended before the end of the stream.
func ReadAll(r *Reader) (recs []*record.Record, errs []error, err error) {
	sc := NewRecords(r)
	for sc.Next() {
		if sc.Err() != nil {
			errs = append(errs, sc.Err())
			continue
		}
		recs = append(recs, sc.Record())
	}
	return recs, errs, sc.Err()
}
