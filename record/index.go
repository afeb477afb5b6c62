// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

import (
	"sort"

	"github.com/biogo/store/interval"
)

// span is a feature interval in 0-based half-open coordinates.
type span struct {
	start, end int
	id         uintptr
}

func (s span) Overlap(b interval.IntRange) bool { return s.end > b.Start && s.start < b.End }
func (s span) ID() uintptr                      { return s.id }
func (s span) Range() interval.IntRange         { return interval.IntRange{Start: s.start, End: s.end} }

type query struct{ start, end int }

func (q query) Overlap(b interval.IntRange) bool { return q.end > b.Start && q.start < b.End }

// Index is an overlap index of the features of a record. An Index is not
// updated when the record changes.
type Index struct {
	tree interval.IntTree
	loci []string
}

// NewIndex returns an overlap index of the features of r. Features whose
// start lies after their stop are not indexed.
func NewIndex(r *Record) (*Index, error) {
	idx := &Index{loci: r.Loci()}
	for i, l := range idx.loci {
		f := r.features[l]
		if f.Start.Pos == 0 || f.Start.Pos > f.Stop.Pos {
			continue
		}
		err := idx.tree.Insert(span{start: int(f.Start.Pos) - 1, end: int(f.Stop.Pos), id: uintptr(i)}, true)
		if err != nil {
			return nil, err
		}
	}
	idx.tree.AdjustRanges()
	return idx, nil
}

// Overlapping returns the loci of features overlapping the 1-based
// inclusive range [start, stop], in feature order.
func (idx *Index) Overlapping(start, stop uint32) []string {
	if start == 0 || start > stop {
		return nil
	}
	hits := idx.tree.Get(query{start: int(start) - 1, end: int(stop)})
	ids := make([]int, len(hits))
	for i, h := range hits {
		ids[i] = int(h.ID())
	}
	sort.Ints(ids)
	loci := make([]string, len(ids))
	for i, id := range ids {
		loci[i] = idx.loci[id]
	}
	return loci
}

// Len returns the number of indexed features.
func (idx *Index) Len() int { return idx.tree.Len() }
