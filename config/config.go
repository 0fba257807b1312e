package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/darianmavgo/csvtosql/converters/common"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// ErrInvalidConfig indicates a configuration that cannot drive a conversion.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application configuration.
type Config struct {
	Output    string  `hcl:"output,optional"`
	BatchSize int     `hcl:"batch_size,optional"`
	Verbose   bool    `hcl:"verbose,optional"`
	Tables    []Table `hcl:"table,block"`
}

// Table maps one input file onto one target table.
type Table struct {
	Name     string   `hcl:"name,label"`
	Source   string   `hcl:"source"`
	Columns  []string `hcl:"columns"`
	Encoding string   `hcl:"encoding,optional"`
	Sheet    string   `hcl:"sheet,optional"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BatchSize: 1000,
	}
}

// Load reads the configuration from the given HCL file. Relative source and
// output paths are resolved against the directory holding the file.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	cfg := DefaultConfig()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	cfg.Resolve(filepath.Dir(path))
	return cfg, nil
}

// Resolve makes relative source and output paths relative to baseDir.
func (c *Config) Resolve(baseDir string) {
	c.Output = resolvePath(baseDir, c.Output)
	for i := range c.Tables {
		c.Tables[i].Source = resolvePath(baseDir, c.Tables[i].Source)
	}
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// Validate checks everything the conversion engine relies on without
// re-checking: table names, column types and readable source files.
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("%w: no table blocks defined", ErrInvalidConfig)
	}

	for _, t := range c.Tables {
		if t.Name == "" {
			return fmt.Errorf("%w: table name must not be empty", ErrInvalidConfig)
		}
		if len(t.Columns) == 0 {
			return fmt.Errorf("%w: table %s declares no columns", ErrInvalidConfig, t.Name)
		}
		if _, err := common.ParseColumnTypes(t.Columns); err != nil {
			return fmt.Errorf("%w: table %s: %w", ErrInvalidConfig, t.Name, err)
		}
		if t.Source == "" {
			return fmt.Errorf("%w: table %s has no source", ErrInvalidConfig, t.Name)
		}
		info, err := os.Stat(t.Source)
		if err != nil {
			return fmt.Errorf("%w: table %s: %w", ErrInvalidConfig, t.Name, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%w: table %s: source %s is not a regular file", ErrInvalidConfig, t.Name, t.Source)
		}
	}
	return nil
}

// Jobs returns one conversion job per table block, in file order.
func (c *Config) Jobs() ([]common.Job, error) {
	jobs := make([]common.Job, 0, len(c.Tables))
	for _, t := range c.Tables {
		types, err := common.ParseColumnTypes(t.Columns)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		jobs = append(jobs, common.Job{
			SourcePath: t.Source,
			Table: common.TableSpec{
				TableName:   t.Name,
				ColumnTypes: types,
			},
			Encoding: t.Encoding,
			Sheet:    t.Sheet,
		})
	}
	return jobs, nil
}

// TableSpecs returns the table specs of all jobs.
func (c *Config) TableSpecs() ([]common.TableSpec, error) {
	jobs, err := c.Jobs()
	if err != nil {
		return nil, err
	}
	specs := make([]common.TableSpec, len(jobs))
	for i, job := range jobs {
		specs[i] = job.Table
	}
	return specs, nil
}

// Export writes the configuration to the specified file in HCL format.
func Export(path string, cfg *Config) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	root.SetAttributeValue("output", cty.StringVal(cfg.Output))
	root.SetAttributeValue("batch_size", cty.NumberIntVal(int64(cfg.BatchSize)))
	if cfg.Verbose {
		root.SetAttributeValue("verbose", cty.True)
	}

	for _, t := range cfg.Tables {
		root.AppendNewline()
		block := root.AppendNewBlock("table", []string{t.Name}).Body()
		block.SetAttributeValue("source", cty.StringVal(t.Source))

		columns := make([]cty.Value, len(t.Columns))
		for i, c := range t.Columns {
			columns[i] = cty.StringVal(c)
		}
		if len(columns) == 0 {
			block.SetAttributeValue("columns", cty.ListValEmpty(cty.String))
		} else {
			block.SetAttributeValue("columns", cty.ListVal(columns))
		}

		if t.Encoding != "" {
			block.SetAttributeValue("encoding", cty.StringVal(t.Encoding))
		}
		if t.Sheet != "" {
			block.SetAttributeValue("sheet", cty.StringVal(t.Sheet))
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(f.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write config to file: %w", err)
	}
	return nil
}

// Example returns a starter configuration.
func Example() *Config {
	cfg := DefaultConfig()
	cfg.Output = "out/load.sql"
	cfg.Tables = []Table{
		{
			Name:    "customers",
			Source:  "data/customers.csv",
			Columns: []string{"int", "string", "double", "bool"},
		},
	}
	return cfg
}
