// Package main provides the csvtosql command: it turns CSV files into one SQL
// script that truncates and repopulates the target tables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/darianmavgo/csvtosql/config"
	_ "github.com/darianmavgo/csvtosql/converters/all"
)

var rootCmd = &cobra.Command{
	Use:   "csvtosql",
	Short: "Convert CSV files into a SQL load script",
	Long: `csvtosql reads the tables listed in an HCL config file and writes a single
SQL script that truncates each table and inserts the rows of its CSV file.
Running "csvtosql" with no command is the same as "csvtosql convert".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "csvtosql.hcl", "Path to the HCL config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable detailed logging")
	rootCmd.Flags().StringP("output", "o", "", "Output script path (overrides the config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the config named by --config and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		cfg.Output = f.Value.String()
	}
	return cfg, nil
}
