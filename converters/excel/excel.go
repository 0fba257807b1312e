package excel

import (
	"fmt"
	"io"

	"github.com/darianmavgo/csvtosql/converters"
	"github.com/darianmavgo/csvtosql/converters/common"

	"github.com/xuri/excelize/v2"
)

func init() {
	converters.Register("excel", &excelDriver{})
}

type excelDriver struct{}

func (d *excelDriver) Open(source io.Reader, opts *common.SourceOptions) (common.RowSource, error) {
	return NewSheetSource(source, opts)
}

// SheetSource reads the rows of one worksheet. Like delimited text, the
// first row is a header and is skipped; trailing empty cells are not
// reported, so rows can be shorter than the table.
type SheetSource struct {
	file  *excelize.File
	rows  *excelize.Rows
	name  string
	sheet string
	line  int
}

// Ensure SheetSource implements RowSource
var _ common.RowSource = (*SheetSource)(nil)

// Ensure SheetSource implements io.Closer
var _ io.Closer = (*SheetSource)(nil)

// NewSheetSource opens a workbook from r and positions it after the header
// row of the sheet named in opts, or of the first sheet when none is named.
// The workbook is loaded into memory; rows are still produced one at a time.
func NewSheetSource(r io.Reader, opts *common.SourceOptions) (*SheetSource, error) {
	name := opts.DisplayName()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel stream %s: %w", name, err)
	}

	sheet := ""
	if opts != nil {
		sheet = opts.Sheet
	}
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			f.Close()
			return nil, fmt.Errorf("%w: no sheets found in %s", common.ErrEmptyInput, name)
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get rows iterator for sheet %s of %s: %w", sheet, name, err)
	}

	s := &SheetSource{file: f, rows: rows, name: name, sheet: sheet}

	// Skip the header row.
	if !rows.Next() {
		err := rows.Error()
		s.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheet, name, err)
		}
		return nil, fmt.Errorf("%w: sheet %s of %s", common.ErrEmptyInput, sheet, name)
	}
	s.line = 1
	return s, nil
}

// Line returns the sheet row number of the last returned row.
func (s *SheetSource) Line() int {
	return s.line
}

// ScanRows implements RowSource.
func (s *SheetSource) ScanRows(yield func(row common.Row) error) error {
	for s.rows.Next() {
		s.line++
		cols, err := s.rows.Columns()
		if err != nil {
			return fmt.Errorf("failed to read row %d of sheet %s in %s: %w", s.line, s.sheet, s.name, err)
		}
		if len(cols) == 0 {
			// an empty sheet row reads like a blank text line
			cols = []string{""}
		}
		if err := yield(cols); err != nil {
			return err
		}
	}
	if err := s.rows.Error(); err != nil {
		return fmt.Errorf("failed to read sheet %s of %s: %w", s.sheet, s.name, err)
	}
	return nil
}

// Close releases the row iterator and the workbook.
func (s *SheetSource) Close() error {
	rowsErr := s.rows.Close()
	if err := s.file.Close(); err != nil {
		return err
	}
	return rowsErr
}
