package common

import (
	"fmt"
	"strings"
)

// ColumnType is the declared SQL type of a table column. It decides how a
// raw field is turned into a literal.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt
	TypeFloat
	TypeBool
)

var columnTypeNames = [...]string{
	TypeString: "string",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeBool:    "bool",
}

func (t ColumnType) String() string {
	if t < 0 || int(t) >= len(columnTypeNames) {
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
	return columnTypeNames[t]
}

// Valid reports whether t is one of the declared column types.
func (t ColumnType) Valid() bool {
	return t >= TypeString && t <= TypeBool
}

// ParseColumnType maps a configured type name to a ColumnType.
// Matching is case-insensitive and "double" is accepted for float.
func ParseColumnType(name string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string":
		return TypeString, nil
	case "int":
		return TypeInt, nil
	case "float", "double":
		return TypeFloat, nil
	case "bool":
		return TypeBool, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

// ParseColumnTypes parses an ordered list of type names.
func ParseColumnTypes(names []string) ([]ColumnType, error) {
	types := make([]ColumnType, len(names))
	for i, name := range names {
		t, err := ParseColumnType(name)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		types[i] = t
	}
	return types, nil
}

// TableSpec describes one target table.
type TableSpec struct {
	TableName   string
	ColumnTypes []ColumnType
}

// Validate checks that the spec can drive a conversion.
func (s TableSpec) Validate() error {
	if s.TableName == "" {
		return fmt.Errorf("table name is required")
	}
	if len(s.ColumnTypes) == 0 {
		return fmt.Errorf("table %s declares no column types", s.TableName)
	}
	for i, t := range s.ColumnTypes {
		if !t.Valid() {
			return fmt.Errorf("table %s column %d: %w: %s", s.TableName, i+1, ErrUnsupportedType, t)
		}
	}
	return nil
}

// Job pairs one input source with the table it repopulates.
type Job struct {
	SourcePath string
	Table      TableSpec
	Encoding   string // optional input character set
	Sheet      string // optional worksheet for spreadsheet sources
}

// SourceOptions returns the driver options for the job's input.
func (j Job) SourceOptions() *SourceOptions {
	return &SourceOptions{
		Path:     j.SourcePath,
		Encoding: j.Encoding,
		Sheet:    j.Sheet,
	}
}
