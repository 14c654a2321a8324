// Package cli wires the csvpeek command line to the record stream and the query executor.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oleg578/csvpeek"
	"github.com/oleg578/csvpeek/internal/query"
	"github.com/oleg578/csvpeek/internal/source"
)

// Version is reported by --version.
var Version = "dev"

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Err: fmt.Errorf(format, args...)}
}

type options struct {
	file      string
	delimiter string
	count     bool
	header    bool
	noHeader  bool
	index     int
	pretty    bool
	logLevel  string
}

// Streams groups the process's standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// NewCommand returns the csvpeek root command bound to the given streams.
func NewCommand(streams Streams) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "csvpeek [file]",
		Short: "Print records, a column, the header or a record count of delimited text",
		Long: `csvpeek reads CSV, TSV or any other single-byte delimited text from a file
or standard input and prints every record, one column, the header row or the
number of records. Rows may have differing numbers of fields.

Examples:

  # Print every record
  csvpeek -f people.csv

  # Count data rows of a TSV read from stdin
  cat people.tsv | csvpeek -d '\t' --count

  # Print the second column of a file without a header row
  csvpeek --noheader -i 1 people.csv`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return &ExitError{Code: 2, Err: err}
			}
			return nil
		},
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.file == "" && len(args) > 0 {
				opts.file = args[0]
			}
			return run(cmd, opts)
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "input file, empty or - for standard input")
	flags.StringVarP(&opts.delimiter, "delimiter", "d", ",", `field delimiter, a single byte; \t is a tab`)
	flags.BoolVarP(&opts.count, "count", "c", false, "print the number of records")
	flags.BoolVarP(&opts.header, "header", "e", false, "print the header row")
	flags.BoolVar(&opts.header, "eader", false, "print the header row")
	flags.BoolVarP(&opts.noHeader, "noheader", "n", false, "treat the first row as data")
	flags.IntVarP(&opts.index, "index", "i", query.NoIndex, "print only the field at this 0-based index")
	flags.BoolVarP(&opts.pretty, "pretty", "p", false, "print the header row as an index/name table")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	_ = flags.MarkHidden("eader")

	return cmd
}

// Execute runs the command with args and returns the process exit code.
// Errors are reported on streams.Err.
func Execute(args []string, streams Streams) int {
	if args == nil {
		args = []string{}
	}
	cmd := NewCommand(streams)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	errorColor := color.New(color.FgRed, color.Bold)
	_, _ = errorColor.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func run(cmd *cobra.Command, opts *options) error {
	logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
	if err != nil {
		return err
	}

	cfg, err := resolve(opts)
	if err != nil {
		return err
	}
	logger.Debug("Configuration resolved.", "source", cfg.Source, "delimiter", string(cfg.Delimiter), "mode", cfg.Mode(), "has_header", cfg.HasHeader)

	in, err := source.Open(cfg.Source, cmd.InOrStdin())
	if err != nil {
		return err
	}
	stream := csvpeek.NewStream(in, cfg.Delimiter, cfg.HasHeader)
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			logger.Warn("Closing input failed.", "source", cfg.Source, "error", cerr)
		}
	}()

	return query.NewExecutor(cfg, cmd.OutOrStdout(), logger).Run(stream)
}

// resolve turns raw flag values into a validated query.Config.
func resolve(opts *options) (query.Config, error) {
	delim, err := query.ParseDelimiter(opts.delimiter)
	if err != nil {
		return query.Config{}, &ExitError{Code: 2, Err: err}
	}
	cfg := query.Config{
		Source:    opts.file,
		Delimiter: delim,
		Count:     opts.count,
		Header:    opts.header,
		Index:     opts.index,
		HasHeader: !opts.noHeader,
		Pretty:    opts.pretty,
	}
	if err := cfg.Validate(); err != nil {
		return query.Config{}, &ExitError{Code: 2, Err: err}
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, usageError("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
