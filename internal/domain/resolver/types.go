package resolver

import "fmt"

// Source tags how a resolution result was produced. Callers branch on
// the tag instead of inspecting the value's shape.
type Source string

const (
	// SourceManualRule means a curated mapping rule matched. Score 100.
	SourceManualRule Source = "manual_rule"

	// SourceExactMatch means the normalized input hit a catalog key
	// exactly. Score 100.
	SourceExactMatch Source = "exact_match"

	// SourceFuzzy means a token-set candidate cleared the cutoff.
	SourceFuzzy Source = "fuzzy"

	// SourceUnresolved means nothing matched; the value is a passthrough
	// of the input (or a review sentinel), never a fabricated identity.
	SourceUnresolved Source = "unresolved"

	// SourceAmbiguous means the input was empty or carried an "unknown"
	// token and was never scored.
	SourceAmbiguous Source = "ambiguous"
)

// Result is a tagged resolution outcome.
//
// Invariants: ManualRule and ExactMatch always carry Score 100;
// Unresolved and Ambiguous carry Score 0 and preserve the caller's
// input in Value (possibly empty), so rejection never destroys
// information.
type Result struct {
	Value  string
	Score  float64
	Source Source

	// GLHint is the GL account named by a matched vendor rule, carried
	// forward so GL resolution can honor the curator's choice. Set only
	// on ManualRule vendor results whose rule declares a hint.
	GLHint string
}

// Resolved reports whether the result carries a usable identity.
func (r Result) Resolved() bool {
	return r.Source == SourceManualRule || r.Source == SourceExactMatch || r.Source == SourceFuzzy
}

func (r Result) String() string {
	return fmt.Sprintf("%s (%s %.0f)", r.Value, r.Source, r.Score)
}

// Config holds resolver thresholds and defaults.
type Config struct {
	// VendorCutoff gates fuzzy vendor matches.
	VendorCutoff float64

	// PropertyCutoff is higher than the vendor cutoff: a mis-assigned
	// property corrupts the books harder than a mislabeled vendor.
	PropertyCutoff float64

	// GLCutoff gates fuzzy vendor-name-to-GL-name matches.
	GLCutoff float64

	// DefaultGLAccount is substituted for unresolved GL results so the
	// export field is never empty.
	DefaultGLAccount string

	// NeedsReviewPrefix marks unresolved properties in the export. The
	// unresolved hint is appended so nothing is silently dropped.
	NeedsReviewPrefix string
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		VendorCutoff:      67,
		PropertyCutoff:    75,
		GLCutoff:          70,
		DefaultGLAccount:  "6435: General Repairs",
		NeedsReviewPrefix: "needs review: ",
	}
}
