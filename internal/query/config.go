// Package query selects what csvpeek reports about a record stream and renders it.
package query

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Mode is the single report a run produces.
type Mode int

const (
	// FullDump prints every record.
	FullDump Mode = iota
	// Count prints the number of data records.
	Count
	// Header prints the header row.
	Header
	// Projection prints one field of every record.
	Projection
)

func (m Mode) String() string {
	switch m {
	case FullDump:
		return "full-dump"
	case Count:
		return "count"
	case Header:
		return "header"
	case Projection:
		return "projection"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// NoIndex disables projection.
const NoIndex = -1

// MaxIndex is the largest projection index accepted.
const MaxIndex = math.MaxInt16

var (
	// ErrDelimiter is returned for delimiters that are not exactly one usable byte.
	ErrDelimiter = errors.New("query: delimiter must be a single byte other than quote, CR or LF")
	// ErrIndexRange is returned for projection indexes above MaxIndex.
	ErrIndexRange = fmt.Errorf("query: index must not exceed %d", MaxIndex)
)

// Config is the resolved, immutable description of one run.
type Config struct {
	// Source is the input path; empty or "-" selects standard input.
	Source string
	// Delimiter separates fields.
	Delimiter byte
	// Count requests the record count.
	Count bool
	// Header requests the header row.
	Header bool
	// Index is the 0-based field to project; negative disables projection.
	Index int
	// HasHeader treats the first row as a header.
	HasHeader bool
	// Pretty renders the header row as an index/name table.
	Pretty bool
}

// Mode resolves the requested report. Count wins over Header, which wins over
// a projection; FullDump is the fallback.
func (c Config) Mode() Mode {
	switch {
	case c.Count:
		return Count
	case c.Header:
		return Header
	case c.Index >= 0:
		return Projection
	default:
		return FullDump
	}
}

// Validate checks the invariants NewExecutor relies on.
func (c Config) Validate() error {
	switch c.Delimiter {
	case 0, '"', '\r', '\n':
		return ErrDelimiter
	}
	if c.Index > MaxIndex {
		return ErrIndexRange
	}
	return nil
}

// ParseDelimiter normalizes a delimiter given on the command line. The two
// character escape `\t` stands for a tab; the result must be a single byte.
func ParseDelimiter(s string) (byte, error) {
	s = strings.ReplaceAll(s, `\t`, "\t")
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: got %q", ErrDelimiter, s)
	}
	switch s[0] {
	case '"', '\r', '\n':
		return 0, fmt.Errorf("%w: got %q", ErrDelimiter, s)
	}
	return s[0], nil
}
