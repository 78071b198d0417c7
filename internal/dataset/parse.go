package dataset

import (
	"strings"

	"github.com/ppiankov/chronicle/internal/model"
)

// Delimiter separates values on each line.
// Quoting is not supported: a delimiter inside a value splits it.
const Delimiter = ","

// Parse converts raw delimited text into records.
// The first line is the header; each following line becomes one record.
// Missing trailing values become empty strings. Parse never fails: empty
// or header-only input yields an empty record set.
func Parse(raw string) []model.Record {
	lines := splitLines(raw)
	if len(lines) < 2 {
		return []model.Record{}
	}

	headers := splitValues(lines[0])
	records := make([]model.Record, 0, len(lines)-1)

	for _, line := range lines[1:] {
		values := splitValues(line)

		var rec model.Record
		for i, header := range headers {
			value := ""
			if i < len(values) {
				value = values[i]
			}
			rec.Set(header, value)
		}
		records = append(records, rec)
	}

	return records
}

// Headers returns the trimmed header names from the first line
func Headers(raw string) []string {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return nil
	}
	return splitValues(lines[0])
}

// splitLines splits on newlines and drops the empty line produced by a
// trailing newline. Interior blank lines are kept.
func splitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	if last := lines[len(lines)-1]; strings.TrimSpace(last) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func splitValues(line string) []string {
	parts := strings.Split(line, Delimiter)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
