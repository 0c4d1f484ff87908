package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rasgroup/appfolio-recon-backend/internal/domain/catalog"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/normalize"
)

// csvRows reads a CSV file into a header-index map plus its data rows.
func csvRows(r io.Reader, source string) (map[string]int, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s header: %w", source, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(stripBOM(name)))] = i
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", source, err)
		}
		rows = append(rows, record)
	}
	return cols, rows, nil
}

// requireColumn rejects a reference file whose header lacks every
// accepted name for a required column. A directory missing its display
// name would load empty and send every statement row through
// unresolved, so the batch must abort before any row is processed.
func requireColumn(cols map[string]int, source string, names ...string) error {
	for _, name := range names {
		if _, ok := cols[name]; ok {
			return nil
		}
	}
	return fmt.Errorf("%s is missing a %s column", source, strings.Join(names, " or "))
}

func cell(record []string, cols map[string]int, names ...string) string {
	for _, name := range names {
		if idx, ok := cols[name]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
	}
	return ""
}

// LoadVendorDirectory reads the vendor directory CSV
// (raw_name, normalized_name columns; name as fallback).
func LoadVendorDirectory(path string) (*catalog.Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cols, rows, err := csvRows(f, "vendor directory")
	if err != nil {
		return nil, err
	}
	if err := requireColumn(cols, "vendor directory", "raw_name", "name"); err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	for _, record := range rows {
		display := cell(record, cols, "raw_name", "name")
		if display == "" {
			continue
		}
		key := cell(record, cols, "normalized_name")
		if key == "" {
			key = normalize.Normalize(display)
		}
		entries = append(entries, catalog.Entry{Display: display, Key: key})
	}
	return catalog.Load(entries), nil
}

// LoadPropertyDirectory reads the property directory CSV
// (raw_property, normalized_property columns).
func LoadPropertyDirectory(path string) (*catalog.Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cols, rows, err := csvRows(f, "property directory")
	if err != nil {
		return nil, err
	}
	if err := requireColumn(cols, "property directory", "raw_property", "property"); err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	for _, record := range rows {
		display := cell(record, cols, "raw_property", "property")
		if display == "" {
			continue
		}
		key := cell(record, cols, "normalized_property")
		if key == "" {
			key = normalize.Normalize(display)
		}
		entries = append(entries, catalog.Entry{Display: display, Key: key})
	}
	return catalog.Load(entries), nil
}

// LoadGLAccounts reads the GL account chart CSV
// (gl_code, raw_name, normalized_name columns).
func LoadGLAccounts(path string) (*catalog.Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cols, rows, err := csvRows(f, "gl accounts")
	if err != nil {
		return nil, err
	}
	if err := requireColumn(cols, "gl accounts", "raw_name", "gl_account"); err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	for _, record := range rows {
		name := cell(record, cols, "raw_name", "gl_account")
		if name == "" {
			continue
		}
		code := cell(record, cols, "gl_code")
		key := cell(record, cols, "normalized_name")
		if key == "" {
			key = normalize.Normalize(name)
		}
		entries = append(entries, catalog.Entry{Display: name, Key: key, Code: code})
	}
	return catalog.Load(entries), nil
}

// LoadVendorGLMap reads the curated vendor→GL mapping CSV
// (vendor, gl_account columns). Keys are the vendor display names as
// resolved, matched exactly.
func LoadVendorGLMap(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cols, rows, err := csvRows(f, "vendor gl map")
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]string)
	for _, record := range rows {
		vendor := cell(record, cols, "vendor")
		gl := cell(record, cols, "gl_account", "gl account", "gl")
		if vendor == "" || gl == "" {
			continue
		}
		if _, seen := mapping[vendor]; !seen {
			mapping[vendor] = gl
		}
	}
	return mapping, nil
}
