package common

import "errors"

// Sentinel errors for the conversion engine.
//
// All of them are fatal to the whole run. They are always wrapped with the
// file, row and counts involved, so callers classify them with errors.Is:
//
//	if errors.Is(err, common.ErrFieldCount) {
//	    // the input has more fields than the table declares
//	}
//
// A value that fails Int, Float or Bool coercion is not an error; it is
// written as null.
var (
	// ErrEmptyInput indicates a source without a single line, not even a header.
	ErrEmptyInput = errors.New("input has no content")

	// ErrUnterminatedQuote indicates a quoted field still open when the input ended.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")

	// ErrFieldCount indicates a row with more fields than the table has column types.
	ErrFieldCount = errors.New("row has more fields than declared columns")

	// ErrUnsupportedType indicates a column type name that is not implemented.
	ErrUnsupportedType = errors.New("type not implemented")

	// ErrUnknownDriver indicates that no source driver is registered under a name.
	ErrUnknownDriver = errors.New("unknown source driver")
)
