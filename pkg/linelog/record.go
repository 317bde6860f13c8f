// Package linelog parses the per-line change log into typed line records.
package linelog

import "time"

// LineRecord is one line of code touched by one commit.
type LineRecord struct {
	Commit   string    `json:"commit"`
	File     string    `json:"file"`
	Line     int       `json:"line"`
	Type     string    `json:"type,omitempty"`
	Author   string    `json:"author"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Timezone string    `json:"timezone"`
	Datetime time.Time `json:"datetime"`
	Depth    int       `json:"depth"`
	Length   int       `json:"length"`
}

// HasType reports whether the record carries a language tag.
func (r LineRecord) HasType() bool {
	return r.Type != ""
}

// Result is the outcome of a parse: the accepted records in input order and
// one error per skipped row.
type Result struct {
	Records []LineRecord
	Errors  []*ParseError
	Rows    int
}

// Skipped returns the number of rows dropped because they failed to parse.
func (r *Result) Skipped() int {
	return len(r.Errors)
}
