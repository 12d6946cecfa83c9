// Package tabular converts between ordered sequences of named-field records
// and delimited-text documents (RFC 4180 CSV). It has no knowledge of
// domain entities: values are plain strings in both directions and callers
// re-coerce types themselves.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FormatError describes a malformed tabular document.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed document at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("malformed document: %s", e.Msg)
}

// Record is an insertion-ordered set of named string fields.
type Record struct {
	keys   []string
	values map[string]string
}

// Set adds or replaces a field. First insertion fixes the field's position.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for a field, or the empty string if absent.
func (r *Record) Get(key string) string {
	return r.values[key]
}

// Has reports whether the record contains the field.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// Marshal serializes records to a CSV document. The header is the union of
// field names across all records in first-seen order; fields a record does
// not carry serialize as empty cells.
func Marshal(records []Record) (string, error) {
	var header []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, k := range rec.keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	if len(header) == 0 {
		return "", &FormatError{Msg: "no fields to serialize"}
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, k := range header {
			row[i] = rec.Get(k)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing document: %w", err)
	}
	return buf.String(), nil
}

// Unmarshal parses a CSV document into records keyed by the header row.
// It fails with a *FormatError if the document is empty or any data row
// has a different field count than the header.
func Unmarshal(document string) ([]Record, error) {
	r := csv.NewReader(strings.NewReader(document))

	header, err := r.Read()
	if err == io.EOF {
		return nil, &FormatError{Msg: "empty document"}
	}
	if err != nil {
		return nil, formatErr(err)
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, formatErr(err)
		}
		var rec Record
		for i, k := range header {
			rec.Set(k, row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

// formatErr converts a csv parse error into a *FormatError with line info.
func formatErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		msg := pe.Err.Error()
		if errors.Is(pe.Err, csv.ErrFieldCount) {
			msg = "row field count differs from header"
		}
		return &FormatError{Line: pe.Line, Msg: msg}
	}
	return &FormatError{Msg: err.Error()}
}
