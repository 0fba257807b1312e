package common

import "io"

// Row is one logical record: the raw field text in positional order.
// A Row is only valid until the next row is produced.
type Row []string

// RowSource yields the data rows of one input. The header has already been
// consumed by the time a RowSource is returned, and rows are forward-only:
// ScanRows can be called once.
type RowSource interface {
	// ScanRows calls yield for each row in input order.
	// If yield returns an error, iteration stops and that error is returned.
	ScanRows(yield func(row Row) error) error

	// Line reports the physical line (or sheet row) on which the most
	// recently yielded row started, counting from 1.
	Line() int
}

// Driver defines the interface that must be implemented by a source package.
type Driver interface {
	// Open returns a RowSource for the given input. The header row is read
	// and discarded before Open returns.
	Open(source io.Reader, opts *SourceOptions) (RowSource, error)
}
