package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// CLPRE prefixes the generated column names of scratch tables.
	CLPRE = "cl"

	nullLiteral = "null"
)

// AppendField appends the SQL literal for raw, coerced according to t.
//
// Strings are single-quoted with embedded quotes doubled. Int, Float and Bool
// values are parsed from the trimmed text; text that does not parse becomes
// null rather than an error.
func AppendField(dst []byte, t ColumnType, raw string) ([]byte, error) {
	switch t {
	case TypeString:
		return appendQuoted(dst, raw), nil
	case TypeInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return append(dst, nullLiteral...), nil
		}
		return strconv.AppendInt(dst, n, 10), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return append(dst, nullLiteral...), nil
		}
		return strconv.AppendFloat(dst, f, 'f', -1, 64), nil
	case TypeBool:
		switch s := strings.TrimSpace(raw); {
		case strings.EqualFold(s, "true"):
			return append(dst, "true"...), nil
		case strings.EqualFold(s, "false"):
			return append(dst, "false"...), nil
		}
		return append(dst, nullLiteral...), nil
	}
	return dst, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

// FormatField returns the SQL literal for raw as a string.
func FormatField(t ColumnType, raw string) (string, error) {
	b, err := AppendField(nil, t, raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// QuoteLiteral returns a single-quoted SQL string literal with embedded quotes escaped.
func QuoteLiteral(s string) string {
	return string(appendQuoted(make([]byte, 0, len(s)+2), s))
}

func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '\'')
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			dst = append(dst, s[last:i+1]...)
			dst = append(dst, '\'')
			last = i + 1
		}
	}
	dst = append(dst, s[last:]...)
	return append(dst, '\'')
}

// SQLiteType maps a column type to the SQLite column affinity used for scratch tables.
func SQLiteType(t ColumnType) string {
	switch t {
	case TypeInt:
		return "INTEGER"
	case TypeFloat:
		return "REAL"
	case TypeBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// GenColumnNames returns positional column names cl0, cl1, ... for n columns.
func GenColumnNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", CLPRE, i)
	}
	return names
}

// GenCreateTableSQL generates a CREATE TABLE statement for a scratch copy of spec.
func GenCreateTableSQL(spec TableSpec) string {
	columnNames := GenColumnNames(len(spec.ColumnTypes))

	var builder strings.Builder
	builder.Grow(len(spec.TableName) + len(columnNames)*20) // Heuristic pre-allocation
	builder.WriteString("CREATE TABLE ")
	builder.WriteString(spec.TableName)
	builder.WriteString(" (")
	for i, name := range columnNames {
		builder.WriteString(name)
		builder.WriteByte(' ')
		builder.WriteString(SQLiteType(spec.ColumnTypes[i]))
		if i < len(columnNames)-1 {
			builder.WriteString(", ")
		}
	}
	builder.WriteByte(')')
	return builder.String()
}
