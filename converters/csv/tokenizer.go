package csv

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/darianmavgo/csvtosql/converters/common"
)

const (
	delimiter = ','
	quote     = '"'
)

type scanState int

const (
	unquoted scanState = iota
	quoted
)

// Tokenizer splits delimited text into rows.
//
// Fields may be enclosed in double quotes, in which case they can contain
// delimiters, doubled quotes ("") standing for one quote, and line breaks.
// Only one logical row is held in memory at a time.
type Tokenizer struct {
	r      *bufio.Reader
	name   string
	line   int    // physical lines consumed so far
	start  int    // physical line on which the current row began
	buf    []byte // logical row being scanned
	closed bool
}

// Ensure Tokenizer implements RowSource
var _ common.RowSource = (*Tokenizer)(nil)

// NewTokenizer reads and discards the header line of r and returns a
// Tokenizer positioned at the first data row. name identifies the input in
// errors. An input without any line fails with common.ErrEmptyInput.
func NewTokenizer(r io.Reader, name string) (*Tokenizer, error) {
	t := &Tokenizer{
		r:    bufio.NewReaderSize(r, 65536),
		name: name,
	}
	_, ok, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptyInput, name)
	}
	return t, nil
}

// Line returns the physical line on which the last returned row started.
func (t *Tokenizer) Line() int {
	return t.start
}

// Next returns the next row, or io.EOF once the input is exhausted.
func (t *Tokenizer) Next() (common.Row, error) {
	if t.closed {
		return nil, io.EOF
	}
	line, ok, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		t.closed = true
		return nil, io.EOF
	}
	t.start = t.line

	if strings.IndexByte(line, quote) < 0 {
		return strings.Split(line, string(delimiter)), nil
	}
	return t.splitQuoted(line)
}

// ScanRows implements RowSource.
func (t *Tokenizer) ScanRows(yield func(row common.Row) error) error {
	for {
		row, err := t.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := yield(row); err != nil {
			return err
		}
	}
}

// splitQuoted runs the quote-aware scan over line, pulling in further
// physical lines while a quoted field is still open.
func (t *Tokenizer) splitQuoted(line string) (common.Row, error) {
	buf := append(t.buf[:0], line...)
	defer func() { t.buf = buf[:0] }()

	var row common.Row
	state := unquoted
	pos, start := 0, 0
	for {
		switch state {
		case unquoted:
			if pos == start && pos < len(buf) && buf[pos] == quote {
				state = quoted
				pos++
				start = pos
				continue
			}
			i := bytes.IndexByte(buf[pos:], delimiter)
			if i < 0 {
				return append(row, unescape(buf[start:])), nil
			}
			pos += i
			row = append(row, unescape(buf[start:pos]))
			pos++
			start = pos

		case quoted:
			i := bytes.IndexByte(buf[pos:], quote)
			if i < 0 {
				next, ok, err := t.readLine()
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, fmt.Errorf("%w starting on line %d of %s; check the input for a missing closing quote",
						common.ErrUnterminatedQuote, t.start, t.name)
				}
				buf = append(buf, '\n')
				buf = append(buf, next...)
				continue
			}
			pos += i
			switch {
			case pos+1 < len(buf) && buf[pos+1] == quote:
				// escaped quote
				pos += 2
			case pos+1 == len(buf):
				return append(row, unescape(buf[start:pos])), nil
			case buf[pos+1] == delimiter:
				row = append(row, unescape(buf[start:pos]))
				state = unquoted
				pos += 2
				start = pos
			default:
				// a stray quote inside a quoted field is kept as text
				pos++
			}
		}
	}
}

// readLine returns the next physical line without its line terminator.
// ok is false once the input is exhausted.
func (t *Tokenizer) readLine() (string, bool, error) {
	s, err := t.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, fmt.Errorf("failed to read %s: %w", t.name, err)
	}
	if err == io.EOF && s == "" {
		return "", false, nil
	}
	t.line++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, true, nil
}

func unescape(field []byte) string {
	if bytes.IndexByte(field, quote) < 0 {
		return string(field)
	}
	return string(bytes.ReplaceAll(field, []byte(`""`), []byte(`"`)))
}
