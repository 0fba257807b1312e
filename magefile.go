//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the csvtosql binary into the bin/ directory.
func Build() error {
	fmt.Println("Building...")
	return sh.Run("go", "build", "-o", "./bin/csvtosql", "./cmd/csvtosql")
}

// Install copies the csvtosql binary to /usr/local/bin.
func Install() error {
	mg.Deps(Build)
	fmt.Println("Installing...")
	return sh.Run("cp", "bin/csvtosql", "/usr/local/bin/csvtosql")
}

// Test runs all tests in the project with verbose output.
func Test() error {
	fmt.Println("Running Tests...")
	return sh.Run("go", "test", "-v", "./...")
}

// TestTokenizer runs only the CSV tokenizer tests.
func TestTokenizer() error {
	fmt.Println("Running Tokenizer Tests...")
	return sh.Run("go", "test", "-timeout", "30s", "-run", "^TestTokenizer", "github.com/darianmavgo/csvtosql/converters/csv")
}

// Bench runs the tokenizer and emitter benchmarks.
func Bench() error {
	fmt.Println("Running Benchmarks...")
	return sh.Run("go", "test", "-run", "^$", "-bench", ".", "-benchmem", "./converters/...")
}

// Example converts the config in the current directory, then loads the
// result into a scratch SQLite database.
func Example() error {
	mg.Deps(Build)
	bin := filepath.Join("bin", "csvtosql")
	if err := sh.RunV(bin, "convert", "-c", "csvtosql.hcl", "-o", "test_output/load.sql"); err != nil {
		return err
	}
	return sh.RunV(bin, "check", "test_output/load.sql", "-c", "csvtosql.hcl")
}

// Clean removes the bin directory and test outputs.
func Clean() error {
	fmt.Println("Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	if err := os.RemoveAll("test_output"); err != nil {
		return err
	}
	return nil
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println("Running go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Check runs formatting and linting checks (fmt, vet).
func Check() error {
	mg.Deps(Fmt, Vet)
	return nil
}

// Fmt runs go fmt ./...
func Fmt() error {
	fmt.Println("Running go fmt...")
	return sh.Run("go", "fmt", "./...")
}

// Vet runs go vet ./...
func Vet() error {
	fmt.Println("Running go vet...")
	return sh.Run("go", "vet", "./...")
}
