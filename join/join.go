// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package join places records end to end in a single coordinate space.
package join

import (
	"fmt"

	"github.com/biogo/store/step"

	"github.com/biogo/flatfile/record"
)

// Warning reports a source whose extent stops before it starts in the joined
// coordinate space. The source is still included in the join.
type Warning struct {
	Source     string
	Start, End uint32
}

func (w *Warning) Error() string {
	return fmt.Sprintf("join: source %q has inverted extent %d..%d", w.Source, w.Start, w.End)
}

// part is the step vector value for the span of one record.
type part int

const gap part = -1

func (p part) Equal(e step.Equaler) bool { return p == e.(part) }

// Joined is a set of records sharing one coordinate space.
type Joined struct {
	// Records holds a shifted copy of each input record in input
	// order. Copies share the buffers of the input records.
	Records []*record.Record

	// Extents holds the extent of each record's source in the
	// joined coordinate space.
	Extents *record.Extents

	// Warnings holds a *Warning for each source with an inverted
	// extent.
	Warnings []error

	length int
	vector *step.Vector
}

// Join returns recs placed end to end in iteration order. Each record is
// offset by the summed lengths of the records before it; a record's length
// is the length of its buffer, or its source stop if the buffer is empty.
// Sources sharing a name are renamed with a numeric suffix so that each
// joined record has its own extent.
func Join(recs []*record.Record) (*Joined, error) {
	j := &Joined{
		Records: make([]*record.Record, 0, len(recs)),
		Extents: record.NewExtents(),
	}
	offsets := make([]int, len(recs))
	for i, r := range recs {
		offsets[i] = j.length
		j.length += length(r)
	}
	if j.length > 0 {
		var err error
		j.vector, err = step.New(0, j.length, gap)
		if err != nil {
			return nil, err
		}
	}

	for i, r := range recs {
		off := uint32(offsets[i])
		sh := r.Shift(off)
		sh.Source.Name = j.unique(record.SourceName(r))

		x := record.ExtentOf(r)
		x.Start += off
		x.End += off
		if x.End < x.Start {
			j.Warnings = append(j.Warnings, &Warning{Source: sh.Source.Name, Start: x.Start, End: x.End})
		}
		j.Extents.Set(sh.Source.Name, x)
		j.Records = append(j.Records, sh)

		if n := length(r); n > 0 {
			j.vector.SetRange(offsets[i], offsets[i]+n, part(i))
		}
	}
	return j, nil
}

func length(r *record.Record) int {
	if n := r.Len(); n > 0 {
		return n
	}
	return int(r.Source.Stop.Pos)
}

func (j *Joined) unique(name string) string {
	if _, ok := j.Extents.Get(name); !ok {
		return name
	}
	for i := 2; ; i++ {
		n := fmt.Sprintf("%s_%d", name, i)
		if _, ok := j.Extents.Get(n); !ok {
			return n
		}
	}
}

// Len returns the length of the joined coordinate space.
func (j *Joined) Len() int { return j.length }

// Locate returns the joined record holding the 1-based joined position pos
// and the corresponding position in the record's own buffer.
func (j *Joined) Locate(pos uint32) (r *record.Record, local uint32, ok bool) {
	if j.vector == nil || pos == 0 || int(pos) > j.length {
		return nil, 0, false
	}
	e, err := j.vector.At(int(pos) - 1)
	if err != nil {
		return nil, 0, false
	}
	i := e.(part)
	if i == gap {
		return nil, 0, false
	}
	r = j.Records[i]
	return r, pos - r.Offset, true
}

// Spans calls fn for each contiguous run of the joined space held by one
// record, in coordinate order. Spans are 1-based and inclusive.
func (j *Joined) Spans(fn func(r *record.Record, start, end uint32)) {
	if j.vector == nil {
		return
	}
	j.vector.Do(func(start, end int, e step.Equaler) {
		if i := e.(part); i != gap {
			fn(j.Records[i], uint32(start+1), uint32(end))
		}
	})
}
