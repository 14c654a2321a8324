package csvpeek

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

// ErrNoHeaders is returned by Stream.Headers when the stream was built without a header row.
var ErrNoHeaders = errors.New("csvpeek: no header row configured")

// RecordError reports a failure while reading the record at Row.
// Err is a *ParseError for malformed input or a *ReadError for source failures.
type RecordError struct {
	Row int
	Err error
}

func (e *RecordError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("csvpeek: record %d: %v", e.Row, e.Err)
}

func (e *RecordError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ReadError wraps an error returned by the underlying byte source.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("csvpeek: read failed: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HeaderError reports that the header row could not be read.
type HeaderError struct {
	Err error
}

func (e *HeaderError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("csvpeek: reading header: %v", e.Err)
}

func (e *HeaderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Stream yields the records of a delimited byte source one at a time.
//
// Rows may have any number of fields. When the stream has a header, the first
// physical row is captured on the first call to Headers or Next and is never
// yielded as data. A Stream is single pass and owns its source: Close releases
// it when the source implements io.Closer.
type Stream struct {
	src       io.Reader
	r         *Reader
	hasHeader bool

	header     Record
	headerRead bool
	headerErr  error

	row    int
	err    error
	closed bool
}

// NewStream returns a Stream reading src with the given delimiter byte.
func NewStream(src io.Reader, delimiter byte, hasHeader bool) *Stream {
	r := NewReader(src)
	r.Comma = delimiter
	r.LazyQuotes = true
	r.ReuseRecord = true
	return &Stream{src: src, r: r, hasHeader: hasHeader}
}

// Headers returns the header row. It fails with ErrNoHeaders when the stream
// has no header and with a *HeaderError when the first row cannot be read.
// An empty source has an empty header.
func (s *Stream) Headers() (Record, error) {
	if !s.hasHeader {
		return nil, ErrNoHeaders
	}
	if err := s.readHeader(); err != nil {
		return nil, err
	}
	return s.header, nil
}

// Next returns the next data record, or io.EOF once the source is exhausted.
// The returned Record is only valid until the following call to Next.
// Any other error is terminal: every later call returns it again.
func (s *Stream) Next() (Record, error) {
	if s.hasHeader {
		if err := s.readHeader(); err != nil {
			return nil, err
		}
	}
	return s.next()
}

// Records returns the remaining data records as a single-use sequence.
// Iteration stops after the first error is yielded.
func (s *Stream) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Row returns the 1-based physical row number of the last row read, header included.
func (s *Stream) Row() int {
	return s.row
}

// Close releases the underlying source. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Stream) readHeader() error {
	if s.headerRead {
		return s.headerErr
	}
	s.headerRead = true

	rec, err := s.next()
	switch {
	case err == io.EOF:
		s.header = Record{}
	case err != nil:
		s.headerErr = &HeaderError{Err: err}
		s.err = s.headerErr
		return s.headerErr
	default:
		s.header = rec.Clone()
	}
	return nil
}

func (s *Stream) next() (Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.closed {
		return nil, io.EOF
	}

	fields, err := s.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var perr *ParseError
		if !errors.As(err, &perr) {
			err = &ReadError{Err: err}
		}
		s.err = &RecordError{Row: s.row + 1, Err: err}
		return nil, s.err
	}

	s.row++
	return Record(fields), nil
}
