package csv

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/darianmavgo/csvtosql/converters/common"
)

func tokenize(t *testing.T, content string) []common.Row {
	t.Helper()
	tok, err := NewTokenizer(strings.NewReader(content), "test.csv")
	if err != nil {
		t.Fatalf("NewTokenizer failed: %v", err)
	}
	var rows []common.Row
	err = tok.ScanRows(func(row common.Row) error {
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanRows failed: %v", err)
	}
	return rows
}

func TestTokenizerRows(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []common.Row
	}{
		{"Plain", "h1,h2\na,b\nc,d\n", []common.Row{{"a", "b"}, {"c", "d"}}},
		{"NoTrailingNewline", "h\na,b", []common.Row{{"a", "b"}}},
		{"CRLF", "h\r\na,b\r\nc,d\r\n", []common.Row{{"a", "b"}, {"c", "d"}}},
		{"HeaderOnly", "id,name\n", nil},
		{"HeaderWithoutNewline", "id,name", nil},
		{"EmptyFields", "h\n,,\n", []common.Row{{"", "", ""}}},
		{"BlankLine", "h\n\n", []common.Row{{""}}},
		{"QuotedComma", "h\n\"a,b\",c\n", []common.Row{{"a,b", "c"}}},
		{"EscapedQuote", "h\n\"He said \"\"hi\"\"\"\n", []common.Row{{`He said "hi"`}}},
		{"QuotedLastField", "h\n1,\"x,y\"\n", []common.Row{{"1", "x,y"}}},
		{"QuotedMiddleField", "h\n1,\"x\",2\n", []common.Row{{"1", "x", "2"}}},
		{"EmptyQuoted", "h\n\"\",a\n", []common.Row{{"", "a"}}},
		{"QuotedThenTrailingDelimiter", "h\n\"a\",\n", []common.Row{{"a", ""}}},
		{"OnlyEscapedQuote", "h\n\"\"\"\"\n", []common.Row{{`"`}}},
		{"QuoteMidUnquotedField", "h\nab\"c,d\"\"e\n", []common.Row{{`ab"c`, `d"e`}}},
		{"StrayQuoteInsideQuoted", "h\n\"say \"hi\" now\",x\n", []common.Row{{`say "hi" now`, "x"}}},
		{"MultiLine", "h\n1,\"first\nsecond\",2\n3,4\n", []common.Row{{"1", "first\nsecond", "2"}, {"3", "4"}}},
		{"MultiLineCRLF", "h\r\n\"a\r\nb\"\r\n", []common.Row{{"a\nb"}}},
		{"ManyLines", "h\n\"l1\n\nl3\n\"\n", []common.Row{{"l1\n\nl3\n"}}},
		{"MultiLineEscapedQuoteAcrossBreak", "h\n\"a\"\"\n\"\"b\"\n", []common.Row{{"a\"\n\"b"}}},
		{"SingleQuotesUntouched", "h\nO'Connor,'x'\n", []common.Row{{"O'Connor", "'x'"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(t, tt.content)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTokenizerFastPathMatchesStateMachine(t *testing.T) {
	lines := []string{
		"a,b,c",
		"",
		",",
		"one",
		"x,,y,",
		" spaced , values ",
		"1.5,true,O'Neil",
	}
	for _, line := range lines {
		tok := &Tokenizer{name: "equivalence"}
		slow, err := tok.splitQuoted(line)
		if err != nil {
			t.Fatalf("splitQuoted(%q) failed: %v", line, err)
		}
		fast := strings.Split(line, ",")
		if !reflect.DeepEqual([]string(slow), fast) {
			t.Errorf("line %q: state machine %q, split %q", line, slow, fast)
		}
	}
}

func TestTokenizerEmptyInput(t *testing.T) {
	_, err := NewTokenizer(strings.NewReader(""), "empty.csv")
	if !errors.Is(err, common.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "empty.csv") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestTokenizerUnterminatedQuote(t *testing.T) {
	tok, err := NewTokenizer(strings.NewReader("h\nok,1\n\"never closed,2\nmore\n"), "broken.csv")
	if err != nil {
		t.Fatalf("NewTokenizer failed: %v", err)
	}

	if _, err := tok.Next(); err != nil {
		t.Fatalf("first row failed: %v", err)
	}
	_, err = tok.Next()
	if !errors.Is(err, common.ErrUnterminatedQuote) {
		t.Fatalf("expected ErrUnterminatedQuote, got %v", err)
	}
	for _, want := range []string{"broken.csv", "line 3"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestTokenizerLineNumbers(t *testing.T) {
	tok, err := NewTokenizer(strings.NewReader("h\na\n\"b\nc\"\nd\n"), "lines.csv")
	if err != nil {
		t.Fatalf("NewTokenizer failed: %v", err)
	}
	var starts []int
	for {
		_, err := tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		starts = append(starts, tok.Line())
	}
	if !reflect.DeepEqual(starts, []int{2, 3, 5}) {
		t.Errorf("row start lines = %v, want [2 3 5]", starts)
	}
	if _, err := tok.Next(); err != io.EOF {
		t.Errorf("Next after EOF = %v, want io.EOF", err)
	}
}

func TestTokenizerYieldErrorStops(t *testing.T) {
	tok, err := NewTokenizer(strings.NewReader("h\n1\n2\n3\n"), "stop.csv")
	if err != nil {
		t.Fatalf("NewTokenizer failed: %v", err)
	}
	stop := errors.New("stop")
	seen := 0
	err = tok.ScanRows(func(row common.Row) error {
		seen++
		if seen == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop error, got %v", err)
	}
	if seen != 2 {
		t.Errorf("yield called %d times, want 2", seen)
	}
}

func TestDriverDecodesEncoding(t *testing.T) {
	// "café" in windows-1252
	content := []byte("name\ncaf\xe9\n")
	src, err := (&csvDriver{}).Open(strings.NewReader(string(content)), &common.SourceOptions{
		Path:     "latin.csv",
		Encoding: "windows-1252",
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	var rows []common.Row
	if err := src.ScanRows(func(row common.Row) error {
		rows = append(rows, row)
		return nil
	}); err != nil {
		t.Fatalf("ScanRows failed: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "café" {
		t.Errorf("got %q, want [[café]]", rows)
	}
}

func TestDriverStripsBOM(t *testing.T) {
	// BOM followed by nothing but the header still counts as content.
	src, err := (&csvDriver{}).Open(strings.NewReader("\xef\xbb\xbfid\n1\n"), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	var rows []common.Row
	src.ScanRows(func(row common.Row) error {
		rows = append(rows, row)
		return nil
	})
	if !reflect.DeepEqual(rows, []common.Row{{"1"}}) {
		t.Errorf("got %q", rows)
	}
}

func TestDriverUnknownEncoding(t *testing.T) {
	_, err := (&csvDriver{}).Open(strings.NewReader("h\n"), &common.SourceOptions{Path: "x.csv", Encoding: "klingon"})
	if err == nil || !strings.Contains(err.Error(), "klingon") {
		t.Fatalf("expected unsupported encoding error, got %v", err)
	}
}
