package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/darianmavgo/csvtosql/converters"
)

var checkCmd = &cobra.Command{
	Use:   "check <script.sql>",
	Short: "Run a generated script against a scratch SQLite database",
	Long: `Run a generated script against a scratch SQLite database built from the
tables in the config, and print how many rows each table ends up with.
The first statement SQLite rejects is reported as an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		specs, err := cfg.TableSpecs()
		if err != nil {
			return err
		}

		script, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer script.Close()

		counts, err := converters.CheckScript(script, specs, &converters.Options{Verbose: cfg.Verbose})
		if err != nil {
			return err
		}

		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s loaded cleanly\n", args[0])
		for _, name := range names {
			fmt.Fprintf(out, "  %s: %d rows\n", name, counts[name])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
