// Package normalize canonicalizes free-text strings from bank statements
// and accounting directories into a comparable form.
//
// Normalize is the general-purpose cleaner used for catalog keys (GL
// account names, property labels). NormalizeVendor layers the
// merchant-specific cleanup on top: card reference numbers, city/state
// suffixes, abbreviation expansion, and canonical overrides for a few
// chronically noisy vendors.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	punctRe      = regexp.MustCompile(`[^\w\s]`)
	spaceRe      = regexp.MustCompile(`\s+`)
	longDigitsRe = regexp.MustCompile(`\d{3,}`)
)

// accentFold maps the accented characters seen in source data to ASCII.
// A full transliteration table is not needed for this corpus.
var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ä': 'a', 'ã': 'a', 'å': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ñ': 'n', 'ç': 'c',
}

// foldASCII transliterates accented characters to their ASCII
// equivalents and drops anything else outside the printable ASCII range.
func foldASCII(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		lower := unicode.ToLower(r)
		if folded, ok := accentFold[lower]; ok {
			if unicode.IsUpper(r) {
				b.WriteRune(unicode.ToUpper(folded))
			} else {
				b.WriteRune(folded)
			}
			continue
		}
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize converts text to the canonical comparable form used for
// catalog keys: ASCII-folded, lowercased, stripped of punctuation, with
// whitespace collapsed. It is total: any input, including empty, yields
// a (possibly empty) string and never fails.
func Normalize(text string) string {
	text = foldASCII(text)
	text = strings.ToLower(strings.TrimSpace(text))
	text = punctRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// VendorConfig controls the merchant-specific normalization steps.
// The zero value is unusable; start from DefaultVendorConfig.
type VendorConfig struct {
	// Cities stripped from merchant text. Matching is longest-first so
	// "NORTH MIAMI" is removed before "MIAMI" can partially match.
	Cities []string

	// StateCodes stripped when they trail the merchant text.
	StateCodes []string

	// Abbreviations expanded before city/state stripping.
	Abbreviations map[string]string

	// Overrides map a contained fragment to a canonical form; the first
	// matching fragment short-circuits all later steps.
	Overrides []Override

	// KeepThe lists normalized names whose leading "the " is part of the
	// brand and must survive article stripping.
	KeepThe []string
}

// Override canonicalizes any text containing one of its fragments.
type Override struct {
	Contains []string
	Value    string
}

// DefaultVendorConfig returns the curated production set: South-Florida
// cities, common state codes, and the recurring noisy vendors.
func DefaultVendorConfig() VendorConfig {
	return VendorConfig{
		Cities: []string{
			"miami", "hialeah", "opa locka", "north miami", "coral gables",
			"sunrise", "davie", "fort lauderdale", "hollywood", "miami beach",
			"weston", "pompano beach", "lauderdale", "kendall", "doral",
			"cleveland",
		},
		StateCodes: []string{
			"fl", "oh", "ca", "wa", "tx", "ny", "pa", "il", "ga", "nc",
			"az", "ma", "mi",
		},
		Abbreviations: map[string]string{
			"hdwe": "hardware",
		},
		Overrides: []Override{
			{Contains: []string{"amazon", "amzn"}, Value: "amazon"},
			{Contains: []string{"sherwin williams", "sherwinwilliams"}, Value: "sherwin williams"},
			{Contains: []string{"home depot"}, Value: "the home depot"},
		},
		KeepThe: []string{"the home depot", "the right fix"},
	}
}

// VendorNormalizer applies merchant-specific normalization.
type VendorNormalizer struct {
	cfg        VendorConfig
	cityRes    []*regexp.Regexp
	stateRe    *regexp.Regexp
	keepThe    map[string]bool
	abbrevKeys []string
}

// NewVendorNormalizer builds a normalizer from cfg, pre-compiling the
// city patterns in longest-first order.
func NewVendorNormalizer(cfg VendorConfig) *VendorNormalizer {
	cities := make([]string, len(cfg.Cities))
	copy(cities, cfg.Cities)
	sort.Slice(cities, func(i, j int) bool { return len(cities[i]) > len(cities[j]) })

	cityRes := make([]*regexp.Regexp, 0, len(cities))
	for _, c := range cities {
		cityRes = append(cityRes, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(c))+`\b`))
	}

	var stateRe *regexp.Regexp
	if len(cfg.StateCodes) > 0 {
		quoted := make([]string, len(cfg.StateCodes))
		for i, s := range cfg.StateCodes {
			quoted[i] = regexp.QuoteMeta(strings.ToLower(s))
		}
		stateRe = regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)$`)
	}

	keepThe := make(map[string]bool, len(cfg.KeepThe))
	for _, k := range cfg.KeepThe {
		keepThe[strings.ToLower(k)] = true
	}

	abbrevKeys := make([]string, 0, len(cfg.Abbreviations))
	for k := range cfg.Abbreviations {
		abbrevKeys = append(abbrevKeys, k)
	}
	sort.Strings(abbrevKeys)

	return &VendorNormalizer{
		cfg:        cfg,
		cityRes:    cityRes,
		stateRe:    stateRe,
		keepThe:    keepThe,
		abbrevKeys: abbrevKeys,
	}
}

// Normalize canonicalizes a raw merchant string. Like Normalize it is
// total and never fails; empty or whitespace-only input maps to "".
func (n *VendorNormalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	text = foldASCII(text)
	text = strings.ToLower(strings.TrimSpace(text))

	// Hyphens and * act as separators in bank descriptors.
	text = strings.ReplaceAll(text, "-", " ")
	text = strings.ReplaceAll(text, "*", " ")

	// Card reference numbers and store IDs.
	text = longDigitsRe.ReplaceAllString(text, " ")
	text = punctRe.ReplaceAllString(text, " ")

	// Abbreviations must expand before city/state stripping so the
	// expanded word can't be mistaken for a location suffix.
	for _, abbr := range n.abbrevKeys {
		text = strings.ReplaceAll(text, abbr, n.cfg.Abbreviations[abbr])
	}

	text = spaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "the ") && !n.keepThe[text] {
		text = text[4:]
	}

	for _, o := range n.cfg.Overrides {
		for _, frag := range o.Contains {
			if strings.Contains(text, frag) {
				return o.Value
			}
		}
	}

	// Cities are pre-sorted longest-first; "north miami" must go before
	// "miami" or the residue would corrupt the name.
	for _, re := range n.cityRes {
		text = re.ReplaceAllString(text, "")
	}
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	if n.stateRe != nil {
		text = strings.TrimSpace(n.stateRe.ReplaceAllString(text, ""))
	}

	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}
