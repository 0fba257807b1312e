package common

import (
	"errors"
	"testing"
)

func TestAppendField(t *testing.T) {
	tests := []struct {
		name     string
		typ      ColumnType
		raw      string
		expected string
	}{
		{"StringPlain", TypeString, "hello", "'hello'"},
		{"StringEmpty", TypeString, "", "''"},
		{"StringQuote", TypeString, "O'Connor", "'O''Connor'"},
		{"StringQuotesAtEdges", TypeString, "'x'", "'''x'''"},
		{"StringKeepsSpaces", TypeString, "  a b ", "'  a b '"},
		{"StringNoBackslashEscape", TypeString, `a\b`, `'a\b'`},
		{"IntPlain", TypeInt, "42", "42"},
		{"IntTrimmed", TypeInt, " 42 ", "42"},
		{"IntNegative", TypeInt, "-7", "-7"},
		{"IntLeadingZeros", TypeInt, "007", "7"},
		{"IntPlusSign", TypeInt, "+5", "5"},
		{"IntGarbage", TypeInt, "abc", "null"},
		{"IntDecimal", TypeInt, "1.5", "null"},
		{"IntEmpty", TypeInt, "", "null"},
		{"FloatPlain", TypeFloat, "3.14", "3.14"},
		{"FloatInteger", TypeFloat, "2", "2"},
		{"FloatExponent", TypeFloat, "1e3", "1000"},
		{"FloatSmall", TypeFloat, "0.0001", "0.0001"},
		{"FloatGarbage", TypeFloat, "pi", "null"},
		{"FloatNaN", TypeFloat, "NaN", "null"},
		{"FloatInf", TypeFloat, "Inf", "null"},
		{"BoolTrue", TypeBool, "True", "true"},
		{"BoolFalseUpper", TypeBool, "FALSE", "false"},
		{"BoolTrimmed", TypeBool, " true ", "true"},
		{"BoolDigit", TypeBool, "1", "null"},
		{"BoolGarbage", TypeBool, "yes", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatField(tt.typ, tt.raw)
			if err != nil {
				t.Fatalf("FormatField(%s, %q) returned error: %v", tt.typ, tt.raw, err)
			}
			if got != tt.expected {
				t.Errorf("FormatField(%s, %q) = %s, want %s", tt.typ, tt.raw, got, tt.expected)
			}
		})
	}
}

func TestAppendFieldUnknownType(t *testing.T) {
	_, err := AppendField(nil, ColumnType(42), "x")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestAppendFieldReusesBuffer(t *testing.T) {
	buf := []byte("(")
	buf, _ = AppendField(buf, TypeInt, "1")
	buf = append(buf, ", "...)
	buf, _ = AppendField(buf, TypeString, "a")
	if got := string(buf); got != "(1, 'a'" {
		t.Errorf("got %s", got)
	}
}

func TestQuoteLiteral(t *testing.T) {
	if got := QuoteLiteral("it's"); got != "'it''s'" {
		t.Errorf("QuoteLiteral = %s", got)
	}
}

func TestGenCreateTableSQL(t *testing.T) {
	spec := TableSpec{
		TableName:   "people",
		ColumnTypes: []ColumnType{TypeInt, TypeString, TypeFloat, TypeBool},
	}
	expected := "CREATE TABLE people (cl0 INTEGER, cl1 TEXT, cl2 REAL, cl3 BOOLEAN)"
	if got := GenCreateTableSQL(spec); got != expected {
		t.Errorf("GenCreateTableSQL = %s, want %s", got, expected)
	}
}
