// # csvpeek: Streaming Inspection of Delimited Text
//
// csvpeek reads CSV, TSV and other single-byte delimited text as a lazy stream of records.
// It backs the csvpeek command, which prints every record, a single column, the header row,
// or a record count, without ever holding more than the current record in memory.
//
// # Features
//
// - Byte-level `Reader` with custom delimiter and quote bytes, CRLF handling, blank-line skipping and minimal copying.
// - Ragged rows: every record keeps the fields actually present. Lenient quoting via `Reader.LazyQuotes`.
// - `Stream` on top of `Reader`: optional header capture, row tracking and ownership of the byte source.
// - Structured errors: `ParseError` for malformed input, `RecordError` tagged with the failing row,
//   `ReadError` for source failures, `HeaderError` and `ErrNoHeaders` for header access.
//
// # Getting Started
//
//	s := csvpeek.NewStream(f, ',', true)
//	defer s.Close()
//	header, err := s.Headers()
//	...
//	for rec, err := range s.Records() {
//		...
//	}
package csvpeek
