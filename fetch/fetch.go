// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fetch retrieves GenBank flat files from the NCBI nucleotide database for
// the records matching a query. Each retrieved batch is parsed before it is
// written so that truncated or malformed responses are retried.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/biogo/ncbi/entrez"

	"github.com/biogo/flatfile/flatio"
)

const (
	db   = "nuccore"
	tool = "biogo.flatfile"
)

var (
	query   = flag.String("query", "", "query specifies the Entrez search term (required).")
	retmax  = flag.Int("retmax", 20, "retmax specifies the number of records to be retrieved per request.")
	out     = flag.String("out", "", "out specifies destination of the returned data (default to stdout).")
	email   = flag.String("email", "", "email specifies the email address to be sent to the server (required).")
	retries = flag.Int("retry", 5, "retry specifies the number of attempts to retrieve the data.")
	help    = flag.Bool("help", false, "help prints this message.")
)

func main() {
	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if *email == "" || *query == "" {
		flag.Usage()
		os.Exit(1)
	}

	h := entrez.History{}
	s, err := entrez.DoSearch(db, *query, nil, &h, tool, *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Will retrieve %d records.\n", s.Count)

	var of *os.File
	if *out == "" {
		of = os.Stdout
	} else {
		of, err = os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer of.Close()
	}

	var (
		buf = &bytes.Buffer{}
		p   = &entrez.Parameters{RetMax: *retmax, RetType: "gbwithparts", RetMode: "text"}

		total int
	)
	for p.RetStart = 0; p.RetStart < s.Count; p.RetStart += p.RetMax {
		fmt.Fprintf(os.Stderr, "Attempting to retrieve %d records starting from %d with %d retries.\n", p.RetMax, p.RetStart, *retries)
		var n int
		for t := 0; t < *retries; t++ {
			buf.Reset()
			n, err = fetch(buf, p, &h)
			if err == nil {
				break
			}
			fmt.Fprintf(os.Stderr, "Failed on attempt %d: %v... retrying.\n", t, err)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Exceeded retries: last error: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Retrieved %d records... writing out.\n", n)
		total += n
		_, err = io.Copy(of, buf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if total != s.Count {
		fmt.Fprintf(os.Stderr, "Record count mismatch: %d != %d\n", total, s.Count)
	}
}

// fetch retrieves one batch into buf and returns the number of valid
// records it holds.
func fetch(buf *bytes.Buffer, p *entrez.Parameters, h *entrez.History) (int, error) {
	r, err := entrez.Fetch(db, p, tool, *email, h)
	if err != nil {
		return 0, err
	}
	_, err = io.Copy(buf, r)
	r.Close()
	if err != nil {
		return 0, err
	}
	return validate(buf.Bytes())
}

// validate parses a batch of GenBank entries and returns the number of
// records it holds. Any entry that fails to parse invalidates the batch.
func validate(b []byte) (int, error) {
	recs, errs, err := flatio.ReadAll(flatio.NewReader(bytes.NewReader(b), flatio.GenBank))
	if err != nil {
		return 0, err
	}
	if len(errs) != 0 {
		return 0, fmt.Errorf("%d invalid entries, first: %v", len(errs), errs[0])
	}
	return len(recs), nil
}
