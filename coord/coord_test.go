// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coord

import (
	"testing"

	"github.com/biogo/biogo/seq"
	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func (s *S) TestParse(c *check.C) {
	for i, t := range []struct {
		in   string
		want RangeValue
		str  string
		err  string
	}{
		{in: "12", want: At(12), str: "12"},
		{in: "<1", want: Before(1), str: "<1"},
		{in: ">340", want: After(340), str: ">340"},
		{in: " 7 ", want: At(7), str: "7"},
		{in: "x1", err: `coord: invalid position "x1"`},
		{in: "<", err: `coord: invalid position ""`},
		{in: "-3", err: `coord: invalid position "-3"`},
	} {
		v, err := Parse(t.in)
		if t.err != "" {
			c.Check(err, check.ErrorMatches, t.err, check.Commentf("Test %d", i))
			continue
		}
		c.Check(err, check.IsNil, check.Commentf("Test %d", i))
		c.Check(v, check.Equals, t.want, check.Commentf("Test %d", i))
		c.Check(v.String(), check.Equals, t.str, check.Commentf("Test %d", i))
	}
}

func (s *S) TestTruncated(c *check.C) {
	c.Check(At(3).Truncated(), check.Equals, false)
	c.Check(Before(3).Truncated(), check.Equals, true)
	c.Check(After(3).Truncated(), check.Equals, true)
	c.Check(Before(3).Add(10), check.Equals, Before(13))
	c.Check(After(13).Sub(10), check.Equals, After(3))
}

func (s *S) TestCodonStart(c *check.C) {
	for i, t := range []struct {
		in   uint8
		skip int
		err  error
	}{
		{0, 0, nil},
		{1, 0, nil},
		{2, 1, nil},
		{3, 2, nil},
		{4, 0, ErrCodonStart},
	} {
		skip, err := CodonStart(t.in)
		c.Check(skip, check.Equals, t.skip, check.Commentf("Test %d", i))
		c.Check(err, check.Equals, t.err, check.Commentf("Test %d", i))
	}
}

func (s *S) TestStrandSymbol(c *check.C) {
	c.Check(StrandSymbol(seq.Plus), check.Equals, "+")
	c.Check(StrandSymbol(seq.Minus), check.Equals, "-")
	c.Check(StrandSymbol(seq.None), check.Equals, ".")
}
