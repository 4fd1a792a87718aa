// Package reqteststore implements the per-spec requirement and test
// sub-stores (spec §4.5): each spec owns its own requirements.jsonl and
// tests.jsonl, with monotonic ids assigned within the spec.
//
// Grounded on the teacher's internal/audit package (audit.go) for the
// JSONL line-encoding style (json.Encoder with HTML-escaping disabled,
// one record per line) generalized from append-only to full
// read-modify-rewrite since requirements and tests support update and
// delete, not just append.
package reqteststore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/oaps-dev/oaps/internal/oapserrors"
)

// readJSONLines reads path and returns each non-empty line verbatim.
// A missing file is treated as empty, not an error.
func readJSONLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// writeJSONLines rewrites path atomically (temp-then-rename) with one
// line per entry, preserving caller-supplied order.
func writeJSONLines(path string, lines []string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func encodeLine(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func wrapFormatErr(path string, err error) error {
	if err == nil {
		return nil
	}
	return &oapserrors.FormatError{Path: path, Reason: "malformed JSONL record", Err: err}
}
