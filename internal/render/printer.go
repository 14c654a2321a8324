// Package render turns records into the line-oriented output of csvpeek.
package render

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

const defaultBufferSize = 4 << 10

var (
	errNilPrinter      = errors.New("render: printer is nil")
	errPrinterNoTarget = errors.New("render: printer destination cannot be nil")
)

// Printer writes one line per call to a buffered destination. The first write
// error is sticky and returned by every later call.
type Printer struct {
	dst *bufio.Writer
	buf []byte

	err error
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		panic(errPrinterNoTarget.Error())
	}
	return &Printer{
		dst: bufio.NewWriterSize(w, defaultBufferSize),
		buf: make([]byte, 0, 256),
	}
}

// Record writes fields as a bracketed list of Go-quoted strings, for example
// ["Alice", "30"]. Quoting keeps field boundaries unambiguous whatever the
// fields contain.
func (p *Printer) Record(fields []string) error {
	if p == nil {
		return errNilPrinter
	}
	if p.err != nil {
		return p.err
	}
	p.buf = AppendRecord(p.buf[:0], fields)
	p.buf = append(p.buf, '\n')
	return p.write(p.buf)
}

// Field writes a single field on its own line with trailing whitespace removed.
func (p *Printer) Field(field string) error {
	if p == nil {
		return errNilPrinter
	}
	if p.err != nil {
		return p.err
	}
	p.buf = append(p.buf[:0], TrimField(field)...)
	p.buf = append(p.buf, '\n')
	return p.write(p.buf)
}

// Count writes the "<n> records" summary line.
func (p *Printer) Count(n int) error {
	if p == nil {
		return errNilPrinter
	}
	if p.err != nil {
		return p.err
	}
	p.buf = strconv.AppendInt(p.buf[:0], int64(n), 10)
	p.buf = append(p.buf, " records\n"...)
	return p.write(p.buf)
}

// Flush flushes pending buffered output to the destination.
func (p *Printer) Flush() error {
	if p == nil {
		return errNilPrinter
	}
	if p.err != nil {
		return p.err
	}
	if err := p.dst.Flush(); err != nil {
		p.err = err
		return err
	}
	return nil
}

// Error reports the first error encountered by the printer.
func (p *Printer) Error() error {
	if p == nil {
		return errNilPrinter
	}
	return p.err
}

func (p *Printer) write(line []byte) error {
	if _, err := p.dst.Write(line); err != nil {
		p.err = err
		return err
	}
	return nil
}

// AppendRecord appends the bracketed rendering of fields to dst.
func AppendRecord(dst []byte, fields []string) []byte {
	dst = append(dst, '[')
	for i, f := range fields {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = strconv.AppendQuote(dst, f)
	}
	return append(dst, ']')
}

// TrimField removes trailing whitespace, including stray CR and LF bytes, from a field.
func TrimField(field string) string {
	return strings.TrimRightFunc(field, unicode.IsSpace)
}
