// Command csvpeek prints the records, one column, the header row or the record
// count of CSV, TSV and other delimited text.
//
// Usage:
//
//	csvpeek [options] [file]
//
// Examples:
//
//	csvpeek -f people.csv
//	csvpeek -d '\t' --count < people.tsv
//	csvpeek --noheader -i 1 people.csv
//	csvpeek --header --pretty people.csv
package main

import (
	"os"

	"github.com/oleg578/csvpeek/internal/cli"
)

// Version information, set via ldflags at build time.
var version = "dev"

func main() {
	cli.Version = version
	os.Exit(cli.Execute(os.Args[1:], cli.Streams{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}))
}
