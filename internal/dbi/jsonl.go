package dbi

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// readJSONL reads a JSON-lines file and returns each non-empty, valid line.
// Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// ImportJSONL inserts the objects of a JSON-lines file into db.table inside
// one transaction and returns the number of rows inserted. Keys that are
// not columns of the table are ignored, missing keys insert NULL, and lines
// that are not JSON objects are skipped. A constraint violation aborts the
// import and rolls it back.
func (b *Backend) ImportJSONL(db, table, path string) (int, error) {
	cols, err := b.Describe(db, table)
	if err != nil {
		return 0, err
	}
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	names := make([]string, len(cols))
	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		quoted[i] = QuoteIdent(c.Name)
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	h, err := b.handle(db)
	if err != nil {
		return 0, err
	}
	tx, err := h.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	count := 0
	for n, rec := range records {
		dec := json.NewDecoder(bytes.NewReader(rec))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			continue
		}

		args := make([]any, len(names))
		for i, col := range names {
			args[i] = importValue(obj[col])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return 0, fmt.Errorf("importing record %d into %s: %w", n+1, table, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import transaction: %w", err)
	}
	return count, nil
}

// importValue converts a decoded JSON value into an SQL argument. Nested
// objects and arrays are stored as their JSON text.
func importValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case json.Number:
		return x.String()
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case map[string]any, []any:
		data, err := json.Marshal(x)
		if err != nil {
			return nil
		}
		return string(data)
	default:
		return x
	}
}
