package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Flat-file exchange format: one record per line, scalar fields joined by
// commas, repeated values inside a field joined by semicolons.

const (
	FieldSep = ","
	ListSep  = ";"
)

// JoinFields builds one record line from scalar fields.
func JoinFields(fields ...string) string {
	return strings.Join(fields, FieldSep)
}

// SplitFields splits a record line and verifies the expected field count.
func SplitFields(line string, want int) ([]string, error) {
	parts := strings.Split(line, FieldSep)
	if len(parts) != want {
		return nil, fmt.Errorf("malformed record: got %d fields, want %d", len(parts), want)
	}
	return parts, nil
}

// JoinList encodes a repeated value for embedding in a single field.
func JoinList(items []string) string {
	return strings.Join(items, ListSep)
}

// SplitList decodes a repeated-value field. An empty field is an empty list.
func SplitList(field string) []string {
	if strings.TrimSpace(field) == "" {
		return []string{}
	}
	return strings.Split(field, ListSep)
}

// ReadLines loads every non-blank line of a collection file. A missing file
// is an empty collection, not an error.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

// WriteLines overwrites a collection file with one record per line, creating
// the parent directory if needed.
func WriteLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// AppendLine adds a single record to a collection file.
func AppendLine(path string, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}
