package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadVendorDirectory(t *testing.T) {
	path := writeTempCSV(t, "vendors.csv",
		"company_name,normalized_company,raw_name,normalized_name\n"+
			"RAS,ras,Ace Hardware,ace hardware\n"+
			"RAS,ras,The Home Depot,the home depot\n")

	dir, err := LoadVendorDirectory(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	entry, ok := dir.LookupExact("ace hardware")
	require.True(t, ok)
	assert.Equal(t, "Ace Hardware", entry.Display)
}

func TestLoadVendorDirectory_NormalizesWhenKeyMissing(t *testing.T) {
	path := writeTempCSV(t, "vendors.csv",
		"name\nAce Hardware\n")

	dir, err := LoadVendorDirectory(path)
	require.NoError(t, err)

	_, ok := dir.LookupExact("ace hardware")
	assert.True(t, ok)
}

func TestLoadCatalogs_MissingNameColumnAborts(t *testing.T) {
	// A reference file without its display-name column must fail the
	// load, not feed an empty directory into the resolver.
	broken := writeTempCSV(t, "broken.csv", "foo,bar\na,b\n")

	t.Run("vendor directory", func(t *testing.T) {
		_, err := LoadVendorDirectory(broken)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "raw_name")
	})

	t.Run("property directory", func(t *testing.T) {
		_, err := LoadPropertyDirectory(broken)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "raw_property")
	})

	t.Run("gl accounts", func(t *testing.T) {
		_, err := LoadGLAccounts(broken)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "raw_name")
	})
}

func TestLoadPropertyDirectory(t *testing.T) {
	path := writeTempCSV(t, "properties.csv",
		"raw_property,normalized_property\n"+
			"RAS,ras\n"+
			"143 NW 30th St,143 nw 30th st\n")

	dir, err := LoadPropertyDirectory(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	entry, ok := dir.LookupExact("143 nw 30th st")
	require.True(t, ok)
	assert.Equal(t, "143 NW 30th St", entry.Display)
}

func TestLoadGLAccounts(t *testing.T) {
	path := writeTempCSV(t, "gl.csv",
		"gl_code,raw_name,normalized_name,gl_type,parent_code\n"+
			"6435,General Repairs,general repairs,Expense,6400\n"+
			"6120,Postage,postage,Expense,6100\n")

	dir, err := LoadGLAccounts(path)
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	entry, ok := dir.LookupExact("general repairs")
	require.True(t, ok)
	assert.Equal(t, "6435", entry.Code)
	assert.Equal(t, "General Repairs", entry.Display)
}

func TestLoadVendorGLMap(t *testing.T) {
	path := writeTempCSV(t, "vendor_gl.csv",
		"vendor,gl_account\n"+
			"USPS,6120: Postage\n"+
			"Ace Hardware,6435: General Repairs\n"+
			"USPS,9999: Wrong\n") // duplicate: first wins

	mapping, err := LoadVendorGLMap(path)
	require.NoError(t, err)
	assert.Len(t, mapping, 2)
	assert.Equal(t, "6120: Postage", mapping["USPS"])
}

func TestLoadLedger(t *testing.T) {
	path := writeTempCSV(t, "ledger.csv",
		"Bill Date,Vendor,Description,GL Account,Amount,Unpaid\n"+
			"12/01/2025,ACE HARDWARE,supplies,6435: General Repairs,\"$1,250.00\",120.00\n"+
			"12/05/2025,PAINT CO,paint,,45.50,0\n")

	entries, err := LoadLedger(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "2025-12-01", entries[0].BillDate)
	assert.Equal(t, "ACE HARDWARE", entries[0].Vendor)
	assert.Equal(t, 1250.00, entries[0].Amount)
	assert.Equal(t, 120.00, entries[0].Unpaid)
	assert.Equal(t, 0.00, entries[1].Unpaid)
}

func TestLoadLedger_VendorFallback(t *testing.T) {
	path := writeTempCSV(t, "ledger.csv",
		"Bill Date,Payee,Description,Unpaid\n"+
			"12/01/2025,ACE HARDWARE,supplies,30.00\n")

	entries, err := LoadLedger(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ACE HARDWARE", entries[0].Vendor)
}

func TestLoadLedger_JunkCurrency(t *testing.T) {
	path := writeTempCSV(t, "ledger.csv",
		"Vendor,Amount,Unpaid\n"+
			"ACE,Total,n/a\n")

	entries, err := LoadLedger(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.0, entries[0].Amount)
	assert.Equal(t, 0.0, entries[0].Unpaid)
}

func TestLoadRules(t *testing.T) {
	path := writeTempCSV(t, "rules.yaml", `
rules:
  - pattern: "ace hdwe"
    mapped: "Ace Hardware"
    category: "Vendor"
    gl_hint: "6435: General Repairs"
    priority: 20
  - pattern: "happy trailers"
    mapped: "HTR"
    category: "Property"
  - pattern: ""
    mapped: "dropped"
`)

	table, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	mapped, ok := table.Apply("sykes ace hdwe 0miami", "Vendor")
	require.True(t, ok)
	assert.Equal(t, "Ace Hardware", mapped)

	mapped, ok = table.Apply("happy trailers storage llc", "Property")
	require.True(t, ok)
	assert.Equal(t, "HTR", mapped)
}

func TestLoadRules_DefaultCategoryIsVendor(t *testing.T) {
	path := writeTempCSV(t, "rules.yaml", `
rules:
  - pattern: "usps"
    mapped: "USPS"
`)

	table, err := LoadRules(path)
	require.NoError(t, err)

	_, ok := table.Apply("usps po 0miami", "Vendor")
	assert.True(t, ok)
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
