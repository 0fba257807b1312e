package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/darianmavgo/csvtosql/converters"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Write the SQL load script for every configured table",
	Long: `Write the SQL load script for every configured table.

Examples:
  csvtosql convert -c csvtosql.hcl
  csvtosql convert -c load.hcl -o /tmp/load.sql -v`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "Output script path (overrides the config)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	jobs, err := cfg.Jobs()
	if err != nil {
		return err
	}

	// Ensure output directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputFile, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outputFile.Close()

	stats, err := converters.ConvertToSQL(jobs, outputFile, &converters.Options{
		BatchSize: cfg.BatchSize,
		Verbose:   cfg.Verbose,
	})
	if err != nil {
		return err
	}
	if err := outputFile.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Successfully converted %d table(s) to %s\n", len(stats), cfg.Output)
	for _, s := range stats {
		fmt.Fprintf(out, "  %s: %d rows in %d insert statement(s) from %s\n", s.Table, s.Rows, s.Statements, s.Source)
	}
	return nil
}
