package query

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/oleg578/csvpeek"
	"github.com/oleg578/csvpeek/internal/render"
)

// RecordSource is the pull side of a record stream.
type RecordSource interface {
	Headers() (csvpeek.Record, error)
	Next() (csvpeek.Record, error)
}

// IndexError reports a record too short for the requested projection.
type IndexError struct {
	// Row is the 1-based data record number.
	Row    int
	Index  int
	Fields int
}

func (e *IndexError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("index %d out of range for record %d with %d field(s)", e.Index, e.Row, e.Fields)
}

// Executor runs one report over a record stream.
type Executor struct {
	cfg    Config
	out    io.Writer
	logger *slog.Logger
}

// NewExecutor returns an Executor writing to out. A nil logger discards logs.
func NewExecutor(cfg Config, out io.Writer, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{cfg: cfg, out: out, logger: logger}
}

// Run produces the configured report from src. Output written before an error
// stays written; it is flushed on every return path.
func (e *Executor) Run(src RecordSource) (err error) {
	p := render.NewPrinter(e.out)
	defer func() {
		if ferr := p.Flush(); err == nil {
			err = ferr
		}
	}()

	mode := e.cfg.Mode()
	e.logger.Debug("Query started.", "mode", mode, "source", e.cfg.Source)

	switch mode {
	case Count:
		return e.count(src, p)
	case Header:
		return e.header(src, p)
	case Projection:
		return e.project(src, p)
	default:
		return e.dump(src, p)
	}
}

func (e *Executor) count(src RecordSource, p *render.Printer) error {
	n := 0
	for {
		_, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		n++
	}
	e.logger.Debug("Records counted.", "count", n)
	return p.Count(n)
}

func (e *Executor) header(src RecordSource, p *render.Printer) error {
	header, err := src.Headers()
	if errors.Is(err, csvpeek.ErrNoHeaders) {
		// Asking for the header of headerless input prints nothing and succeeds.
		e.logger.Debug("Header requested but header detection is disabled.")
		return nil
	}
	if err != nil {
		return err
	}
	if e.cfg.Pretty {
		if err := p.Flush(); err != nil {
			return err
		}
		return render.HeaderTable(e.out, header)
	}
	return p.Record(header)
}

func (e *Executor) project(src RecordSource, p *render.Printer) error {
	idx := e.cfg.Index
	for row := 1; ; row++ {
		rec, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		field, ok := rec.Field(idx)
		if !ok {
			e.logger.Debug("Projection index out of range.", "row", row, "index", idx, "fields", rec.Len())
			return &IndexError{Row: row, Index: idx, Fields: rec.Len()}
		}
		if err := p.Field(field); err != nil {
			return err
		}
	}
}

func (e *Executor) dump(src RecordSource, p *render.Printer) error {
	n := 0
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := p.Record(rec); err != nil {
			return err
		}
		n++
	}
	e.logger.Debug("Records printed.", "count", n)
	return nil
}
