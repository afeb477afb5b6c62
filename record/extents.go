// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package record

// Extent is the 1-based inclusive span of a source.
type Extent struct {
	Start, End uint32
}

// Extents is a mapping from source names to extents that remembers the
// order in which sources were added.
type Extents struct {
	names []string
	m     map[string]Extent
}

// NewExtents returns an empty Extents.
func NewExtents() *Extents {
	return &Extents{m: make(map[string]Extent)}
}

// Set sets the extent of the named source. A source keeps the position of
// its first Set.
func (e *Extents) Set(name string, x Extent) {
	if _, ok := e.m[name]; !ok {
		e.names = append(e.names, name)
	}
	e.m[name] = x
}

// Get returns the extent of the named source. Get may be called on a nil
// Extents.
func (e *Extents) Get(name string) (Extent, bool) {
	if e == nil {
		return Extent{}, false
	}
	x, ok := e.m[name]
	return x, ok
}

// Names returns the source names in the order they were added.
func (e *Extents) Names() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.names...)
}

// Len returns the number of sources.
func (e *Extents) Len() int {
	if e == nil {
		return 0
	}
	return len(e.names)
}

// ExtentOf returns the extent of r's source in local coordinates: the
// source feature's bounds if they are set, otherwise the whole buffer.
func ExtentOf(r *Record) Extent {
	if r.Source.Stop.Pos != 0 {
		return Extent{Start: r.Source.Start.Pos, End: r.Source.Stop.Pos}
	}
	return Extent{Start: 1, End: uint32(r.Len())}
}

// SourceName returns the name of r's source, falling back to the record ID.
func SourceName(r *Record) string {
	if r.Source.Name != "" {
		return r.Source.Name
	}
	return r.ID
}
