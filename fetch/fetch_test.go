// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

const entry = `LOCUS       one                        9 bp    DNA     linear   BCT 01-JAN-2020
FEATURES             Location/Qualifiers
     CDS             1..9
ORIGIN
        1 atgaaataa
//
`

func (s *S) TestValidate(c *check.C) {
	n, err := validate([]byte(entry + entry))
	c.Check(err, check.IsNil)
	c.Check(n, check.Equals, 2)

	// A response cut short inside the sequence section lacks its data.
	n, err = validate([]byte(entry + entry[:len(entry)-len("        1 atgaaataa\n//\n")]))
	c.Check(err, check.ErrorMatches, "1 invalid entries, first: .*missing ORIGIN section")
	c.Check(n, check.Equals, 0)

	n, err = validate(nil)
	c.Check(err, check.IsNil)
	c.Check(n, check.Equals, 0)
}
