package converters

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/darianmavgo/csvtosql/converters/common"
)

var (
	// BatchSize is the default number of rows per insert statement.
	BatchSize = 1000
)

// Options configures script generation.
type Options struct {
	BatchSize int  // Rows per insert statement; <= 0 uses BatchSize
	Verbose   bool // If true, enables detailed logging.
}

// TableStats summarises what was written for one table.
type TableStats struct {
	Table      string
	Source     string
	Rows       int
	Statements int
}

// Emitter writes a SQL script that truncates and repopulates tables.
//
// Rows are rendered one at a time. The most recent row is held back until
// the next row (or the end of the table) shows whether it closes its
// statement, so no separator ever has to be rewritten in the output.
type Emitter struct {
	w         *bufio.Writer
	batchSize int
	verbose   bool
	pending   []byte
}

// NewEmitter returns an Emitter writing to w.
func NewEmitter(w io.Writer, opts *Options) *Emitter {
	e := &Emitter{
		w:         bufio.NewWriterSize(w, 65536),
		batchSize: BatchSize,
	}
	if opts != nil {
		if opts.BatchSize > 0 {
			e.batchSize = opts.BatchSize
		}
		e.verbose = opts.Verbose
	}
	return e
}

// Begin writes the script preamble.
func (e *Emitter) Begin() error {
	if _, err := e.w.WriteString("set names utf8mb4;\nstart transaction;\n"); err != nil {
		return fmt.Errorf("failed to write preamble: %w", err)
	}
	return nil
}

// End writes the closing commit and flushes the output.
func (e *Emitter) End() error {
	if _, err := e.w.WriteString("\ncommit;\n"); err != nil {
		return fmt.Errorf("failed to write commit: %w", err)
	}
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// WriteTable writes the truncate and insert statements for one table,
// consuming rows until the source is exhausted. source names the input in
// errors. A row with more fields than spec has column types aborts the table
// with common.ErrFieldCount before anything of that row is written.
func (e *Emitter) WriteTable(spec common.TableSpec, source string, rows common.RowSource) (TableStats, error) {
	stats := TableStats{Table: spec.TableName, Source: source}
	if err := spec.Validate(); err != nil {
		return stats, err
	}

	if _, err := fmt.Fprintf(e.w, "\ntruncate %s;\n", spec.TableName); err != nil {
		return stats, fmt.Errorf("failed to write truncate for table %s: %w", spec.TableName, err)
	}

	columns := len(spec.ColumnTypes)
	inStmt := 0
	hasPending := false

	err := rows.ScanRows(func(row common.Row) error {
		if len(row) > columns {
			return fmt.Errorf("%w: row %d (line %d) of %s has %d fields but table %s declares %d column types",
				common.ErrFieldCount, stats.Rows+1, rows.Line(), source, len(row), spec.TableName, columns)
		}

		if hasPending {
			terminator := ",\n"
			if inStmt == e.batchSize {
				terminator = ";\n"
				inStmt = 0
			}
			if err := e.flushPending(terminator); err != nil {
				return err
			}
		}

		if inStmt == 0 {
			if _, err := fmt.Fprintf(e.w, "insert into %s values\n", spec.TableName); err != nil {
				return fmt.Errorf("failed to write insert for table %s: %w", spec.TableName, err)
			}
			stats.Statements++
		}

		if err := e.render(spec, row); err != nil {
			return err
		}
		hasPending = true
		inStmt++
		stats.Rows++
		return nil
	})
	if err != nil {
		return stats, err
	}

	if hasPending {
		if err := e.flushPending(";\n"); err != nil {
			return stats, err
		}
	}

	if e.verbose {
		log.Printf("[CSVTOSQL] Finished table %s, rows: %d, statements: %d", spec.TableName, stats.Rows, stats.Statements)
	}
	return stats, nil
}

// render replaces the pending tuple with the literal tuple for row.
func (e *Emitter) render(spec common.TableSpec, row common.Row) error {
	buf := append(e.pending[:0], '(')
	for i, field := range row {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		var err error
		buf, err = common.AppendField(buf, spec.ColumnTypes[i], field)
		if err != nil {
			return fmt.Errorf("table %s column %d: %w", spec.TableName, i+1, err)
		}
	}
	e.pending = append(buf, ')')
	return nil
}

func (e *Emitter) flushPending(terminator string) error {
	if _, err := e.w.Write(e.pending); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	if _, err := e.w.WriteString(terminator); err != nil {
		return fmt.Errorf("failed to write row terminator: %w", err)
	}
	return nil
}

// ConvertToSQL writes one script covering every job, in order, to writer.
// Each input is opened, drained and closed before the next is opened. The
// first error aborts the run; whatever was already written stays written.
func ConvertToSQL(jobs []common.Job, writer io.Writer, opts *Options) ([]TableStats, error) {
	e := NewEmitter(writer, opts)
	if err := e.Begin(); err != nil {
		return nil, err
	}

	all := make([]TableStats, 0, len(jobs))
	for _, job := range jobs {
		stats, err := e.convertJob(job)
		if err != nil {
			e.w.Flush()
			return all, err
		}
		all = append(all, stats)
	}

	if err := e.End(); err != nil {
		return all, err
	}
	if e.verbose {
		log.Printf("[CSVTOSQL] Conversion completed successfully.")
	}
	return all, nil
}

func (e *Emitter) convertJob(job common.Job) (TableStats, error) {
	driverName := DriverFor(job.SourcePath)
	if e.verbose {
		log.Printf("[CSVTOSQL] Converting %s into table %s (%s)", job.SourcePath, job.Table.TableName, driverName)
	}

	file, err := os.Open(job.SourcePath)
	if err != nil {
		return TableStats{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	source, err := Open(driverName, file, job.SourceOptions())
	if err != nil {
		return TableStats{}, err
	}

	// Clean up source resources if it implements io.Closer
	if c, ok := source.(io.Closer); ok {
		defer c.Close()
	}

	return e.WriteTable(job.Table, job.SourcePath, source)
}
