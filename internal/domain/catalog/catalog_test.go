package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DuplicateKeysKeepFirstRow(t *testing.T) {
	d := Load([]Entry{
		{Display: "Ace Hardware", Key: "ace hardware"},
		{Display: "Ace Hardware (Opa Locka)", Key: "ace hardware"},
		{Display: "The Home Depot", Key: "the home depot"},
	})

	entry, ok := d.LookupExact("ace hardware")

	require.True(t, ok)
	assert.Equal(t, "Ace Hardware", entry.Display)
	// Duplicate key contributes only one fuzzy candidate.
	assert.Equal(t, []string{"ace hardware", "the home depot"}, d.Candidates())
	assert.Equal(t, 3, d.Len())
}

func TestLoad_SkipsEmptyKeys(t *testing.T) {
	d := Load([]Entry{
		{Display: "Broken Row", Key: ""},
		{Display: "Ace Hardware", Key: "ace hardware"},
	})

	assert.Equal(t, 1, d.Len())
	assert.Equal(t, []string{"ace hardware"}, d.Candidates())
}

func TestLookupExact_Miss(t *testing.T) {
	d := Load([]Entry{{Display: "Ace Hardware", Key: "ace hardware"}})

	_, ok := d.LookupExact("home depot")

	assert.False(t, ok)
}

func TestCandidates_PreserveLoadOrder(t *testing.T) {
	d := Load([]Entry{
		{Display: "Zeta", Key: "zeta"},
		{Display: "Alpha", Key: "alpha"},
		{Display: "Mid", Key: "mid"},
	})

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, d.Candidates())
}
