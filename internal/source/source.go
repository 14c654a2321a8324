// Package source resolves the input of a csvpeek run into a readable byte stream.
package source

import (
	"fmt"
	"io"
	"os"
)

// Stdin is the path that selects standard input. An empty path does too.
const Stdin = "-"

// OpenError reports that the named input file could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("error opening file '%s': %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsStdin reports whether path selects standard input.
func IsStdin(path string) bool {
	return path == "" || path == Stdin
}

// Open returns the byte stream for path. Standard input is returned wrapped so
// that closing it leaves the process's stdin untouched.
func Open(path string, stdin io.Reader) (io.ReadCloser, error) {
	if IsStdin(path) {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return f, nil
}
