package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Basic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase and trim", "  General Repairs  ", "general repairs"},
		{"punctuation removed", "Repairs & Maintenance!", "repairs maintenance"},
		{"whitespace collapsed", "utilities   -  electric", "utilities electric"},
		{"accents folded", "Café Olé", "cafe ole"},
		{"empty input", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestVendorNormalizer_StripsReferencesAndLocation(t *testing.T) {
	n := NewVendorNormalizer(DefaultVendorConfig())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"card reference stripped", "USPS PO 1158810115 0MIAMI FL", "usps po 0miami"},
		{"city and state stripped", "SYKES ACE HARDWARE MIAMI FL", "sykes ace hardware"},
		{"abbreviation expanded", "ACE HDWE OF OPA LOCKA FL", "ace hardware of"},
		{"hyphen as separator", "7-ELEVEN 38192", "7 eleven"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestVendorNormalizer_Overrides(t *testing.T) {
	n := NewVendorNormalizer(DefaultVendorConfig())

	assert.Equal(t, "amazon", n.Normalize("AMZN Mktp US*Z12AB34"))
	assert.Equal(t, "amazon", n.Normalize("Amazon.com"))
	assert.Equal(t, "sherwin williams", n.Normalize("THE SHERWIN-WILLIAMSCLEVELAND OH"))
	assert.Equal(t, "the home depot", n.Normalize("THE HOME DEPOT      MIAMI               FL"))
}

func TestVendorNormalizer_LeadingThe(t *testing.T) {
	n := NewVendorNormalizer(DefaultVendorConfig())

	// Generic "the" is stripped...
	assert.Equal(t, "right corner cafe", n.Normalize("The Right Corner Cafe"))
	// ...but brand names on the keep-list retain it.
	assert.Equal(t, "the home depot", n.Normalize("The Home Depot"))
}

func TestVendorNormalizer_LongestCityFirst(t *testing.T) {
	n := NewVendorNormalizer(DefaultVendorConfig())

	// "NORTH MIAMI" must be removed as a unit, not leave "north" behind
	// after a shorter "MIAMI" match.
	assert.Equal(t, "windows doors", n.Normalize("WINDOWS & DOORS 0000NORTH MIAMI FL"))
}

func TestVendorNormalizer_AbbreviationBeforeLocation(t *testing.T) {
	cfg := DefaultVendorConfig()
	n := NewVendorNormalizer(cfg)

	// "hdwe" expands to "hardware" before any location stripping runs,
	// so the expansion can never be clipped by a city/state rule.
	got := n.Normalize("ACE HDWE MIAMI FL")
	assert.Equal(t, "ace hardware", got)
}
