// Package catalog holds the in-memory reference directories the
// resolver matches against: vendors, properties, and GL accounts.
//
// Directories are loaded once per run and read-only afterwards. Source
// rows are not required to have unique normalized keys; exact lookup
// deterministically returns the first row loaded for a key, and the
// candidate order for fuzzy search preserves load order.
package catalog

// Entry is one row of a reference directory.
type Entry struct {
	// Display is the raw value as it appears in the accounting system
	// (e.g. "Ace Hardware", "6435: General Repairs").
	Display string

	// Key is the normalized comparable form.
	Key string

	// Code is an optional secondary identifier (GL code, property code).
	Code string
}

// Directory is one loaded reference table.
type Directory struct {
	entries []Entry
	byKey   map[string]int
	keys    []string
}

// Load builds a directory from rows, keeping the first row for each
// duplicated key and preserving row order for fuzzy candidates.
func Load(rows []Entry) *Directory {
	d := &Directory{
		entries: make([]Entry, 0, len(rows)),
		byKey:   make(map[string]int, len(rows)),
		keys:    make([]string, 0, len(rows)),
	}
	for _, row := range rows {
		if row.Key == "" {
			continue
		}
		d.entries = append(d.entries, row)
		if _, seen := d.byKey[row.Key]; !seen {
			d.byKey[row.Key] = len(d.entries) - 1
			d.keys = append(d.keys, row.Key)
		}
	}
	return d
}

// LookupExact returns the first-loaded entry for a normalized key.
func (d *Directory) LookupExact(key string) (Entry, bool) {
	idx, ok := d.byKey[key]
	if !ok {
		return Entry{}, false
	}
	return d.entries[idx], true
}

// Candidates returns the normalized keys in load order, for fuzzy search.
func (d *Directory) Candidates() []string {
	return d.keys
}

// Len reports the number of loaded rows.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Set bundles the directories one reconcile run resolves against,
// plus the exact-only vendor→GL mapping table.
type Set struct {
	Vendors    *Directory
	Properties *Directory
	GLAccounts *Directory

	// VendorGL maps a resolved vendor display name to a GL account
	// value. Exact match only, no fuzzy fallback.
	VendorGL map[string]string
}
