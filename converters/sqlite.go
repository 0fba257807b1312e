package converters

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/darianmavgo/csvtosql/converters/common"

	_ "modernc.org/sqlite"
)

// maxStatementSize bounds a single statement read by CheckScript.
const maxStatementSize = 256 << 20

// CheckScript executes a generated script against a scratch SQLite database
// that holds one table per spec, and returns the number of rows each table
// ends up with. It reports the first statement the database rejects.
//
// MySQL-only statements are mapped: "set names" is skipped, "start
// transaction" becomes BEGIN and "truncate t" becomes DELETE FROM t.
func CheckScript(script io.Reader, specs []common.TableSpec, opts *Options) (map[string]int64, error) {
	verbose := opts != nil && opts.Verbose

	tmpFile, err := os.CreateTemp("", "csvtosql-*.db")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	dbPath := tmpFile.Name()
	tmpFile.Close() // Close it so sql.Open can use it
	defer os.Remove(dbPath)

	if verbose {
		log.Printf("[CSVTOSQL] Checking script against scratch database %s", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// BEGIN and COMMIT in the script must land on the same connection
	db.SetMaxOpenConns(1)
	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	created := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if created[spec.TableName] {
			continue
		}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if _, err := conn.ExecContext(ctx, common.GenCreateTableSQL(spec)); err != nil {
			return nil, fmt.Errorf("failed to create table %s: %w", spec.TableName, err)
		}
		created[spec.TableName] = true
	}

	scanner := bufio.NewScanner(script)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStatementSize)
	scanner.Split(splitStatements)

	n := 0
	for scanner.Scan() {
		stmt := strings.TrimSpace(scanner.Text())
		if stmt == "" {
			continue
		}
		n++
		translated, ok := translateStatement(stmt)
		if !ok {
			continue
		}
		if _, err := conn.ExecContext(ctx, translated); err != nil {
			return nil, fmt.Errorf("statement %d (%s) failed: %w", n, summarize(stmt), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	counts := make(map[string]int64, len(created))
	for name := range created {
		var count int64
		if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+name).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", name, err)
		}
		counts[name] = count
	}

	if verbose {
		log.Printf("[CSVTOSQL] Script executed %d statements", n)
	}
	return counts, nil
}

// splitStatements is a bufio.SplitFunc yielding text up to each ';' that is
// not inside a single-quoted literal.
func splitStatements(data []byte, atEOF bool) (advance int, token []byte, err error) {
	inQuote := false
	for i, b := range data {
		switch {
		case b == '\'':
			inQuote = !inQuote
		case b == ';' && !inQuote:
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// translateStatement maps a statement to its SQLite equivalent. ok is false
// for statements that have no SQLite counterpart and should be skipped.
func translateStatement(stmt string) (string, bool) {
	lower := strings.ToLower(stmt)
	switch {
	case strings.HasPrefix(lower, "set names"):
		return "", false
	case lower == "start transaction":
		return "BEGIN", true
	case strings.HasPrefix(lower, "truncate "):
		return "DELETE FROM " + strings.TrimSpace(stmt[len("truncate "):]), true
	}
	return stmt, true
}

func summarize(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		stmt = stmt[:i]
	}
	if len(stmt) > 60 {
		stmt = stmt[:60] + "..."
	}
	return stmt
}
