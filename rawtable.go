package taxoset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/carbocation/pfx"
	"github.com/csimplestring/go-csv/detector"
)

// RawTable is a delimited text file as loaded: a header row plus string
// cells, rectangular. Typing and re-keying happen later, in BuildExperiment.
type RawTable struct {
	Path   string
	Header []string
	Rows   [][]string
}

// ReadRawTable loads a delimited file with a mandatory header row. The
// delimiter is auto-detected, defaulting to tab. Ragged rows, duplicate
// header names, or a missing header yield a MalformedInputError. Cells stay
// strings here: numeric validation of the count columns happens during
// re-keying in BuildExperiment, the first point where it is known which
// columns must be numeric, and reports the same MalformedInputError with the
// offending file and line.
func ReadRawTable(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, pfx.Err(err)
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = determineDelimiter(bytes.NewReader(raw))
	r.LazyQuotes = true

	// The csv reader enforces a consistent field count against the header.
	records, err := r.ReadAll()
	if err != nil {
		return nil, MalformedInputError{Path: path, Reason: err.Error()}
	}

	if len(records) == 0 {
		return nil, MalformedInputError{Path: path, Reason: "empty file; a header row is required"}
	}

	header := records[0]
	if len(header) < 2 {
		return nil, MalformedInputError{Path: path, Line: 1, Reason: "header must name a key column and at least one data column"}
	}

	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if _, exists := seen[name]; exists {
			return nil, MalformedInputError{Path: path, Line: 1, Reason: fmt.Sprintf("duplicate column name %q", name)}
		}
		seen[name] = struct{}{}
	}

	return &RawTable{
		Path:   path,
		Header: header,
		Rows:   records[1:],
	}, nil
}

// determineDelimiter returns the most likely delimiter rune for the reader.
// Only tab and comma are accepted: lineage strings are full of semicolons,
// which would otherwise win the detection.
func determineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	for _, v := range delimiters {
		switch c := rune(v[0]); c {
		case '\t', ',':
			return c
		}
	}

	return '\t'
}
