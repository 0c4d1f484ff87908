// Package validator applies account-holder and company eligibility
// rules to statement transactions.
//
// Each transaction runs through a small state machine with three
// terminal states (OK, ALERT, EXCEPTION) plus SKIP, which only exists
// during ingestion filtering and never leaves that stage. Rules fire in
// fixed priority order and never roll back: an EXCEPTION can never be
// downgraded by a later rule.
package validator

import "strings"

// Status is a validation outcome.
type Status string

const (
	// StatusOK is the default when no rule fires.
	StatusOK Status = "OK"

	// StatusAlert marks rows that proceed to export but need review;
	// the triggering note is retained for the audit trail.
	StatusAlert Status = "ALERT"

	// StatusException marks rows blocked from netting and export.
	StatusException Status = "EXCEPTION"

	// StatusSkip marks rows filtered out during ingestion (ineligible
	// account holder / company combinations). Not a terminal state.
	StatusSkip Status = "SKIP"
)

// Verdict is the result of validating one transaction.
type Verdict struct {
	Status Status
	// Note explains why a non-OK status was assigned.
	Note string
}

// Blocked reports whether the row must be excluded from netting/export.
func (v Verdict) Blocked() bool {
	return v.Status == StatusException
}

// IncompatiblePair declares that an account holder never legitimately
// files under a company. Matching is uppercase-contains on both fields.
type IncompatiblePair struct {
	AccountHolder string `yaml:"account_holder"`
	Company       string `yaml:"company"`
	Note          string `yaml:"note"`
}

// MarkerRequirement declares that a company must co-occur with a marker
// token in either the company field or the GL hint.
type MarkerRequirement struct {
	Company string `yaml:"company"`
	Marker  string `yaml:"marker"`
	Note    string `yaml:"note"`
}

// EligibilityRule declares which account holders may submit at all. An
// empty RequireMarker means the holder is always eligible; otherwise
// the marker must appear in the company field or GL hint.
type EligibilityRule struct {
	AccountHolder string `yaml:"account_holder"`
	RequireMarker string `yaml:"require_marker"`
}

// Config is the full rule set for one run.
type Config struct {
	Incompatible []IncompatiblePair  `yaml:"incompatible"`
	Markers      []MarkerRequirement `yaml:"markers"`
	Eligibility  []EligibilityRule   `yaml:"eligibility"`

	// MarkerToken also grants eligibility when present in the company
	// or GL hint, regardless of the account holder.
	MarkerToken string `yaml:"marker_token"`
}

// DefaultConfig returns the production rule set.
func DefaultConfig() Config {
	return Config{
		Incompatible: []IncompatiblePair{
			{
				AccountHolder: "RICHARD LIBUTTI",
				Company:       "HAPPY TRAILERS",
				Note:          "Richard Libutti does not operate Happy Trailers",
			},
		},
		Markers: []MarkerRequirement{
			{
				Company: "RR REITER REALTY",
				Marker:  "RAS",
				Note:    "validation required: RR Reiter paid without RAS",
			},
		},
		Eligibility: []EligibilityRule{
			{AccountHolder: "ARMANDO ARMAS"},
			{AccountHolder: "RICHARD LIBUTTI", RequireMarker: "RAS"},
			{AccountHolder: "CORY S REITER", RequireMarker: "RAS"},
			{AccountHolder: "LINDSAY REITER", RequireMarker: "RAS"},
		},
		MarkerToken: "RAS",
	}
}

// Input is the slice of a transaction the validator inspects.
type Input struct {
	AccountHolder string
	Company       string
	GLHint        string
}

// Validator evaluates the configured rules.
type Validator struct {
	cfg Config
}

// New builds a Validator from cfg.
func New(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate runs the terminal-state rules in priority order:
// incompatible pairs (EXCEPTION), then marker requirements (ALERT,
// skipped once EXCEPTION), then OK.
func (v *Validator) Validate(in Input) Verdict {
	holder := strings.ToUpper(in.AccountHolder)
	company := strings.ToUpper(in.Company)
	glHint := strings.ToUpper(in.GLHint)

	for _, pair := range v.cfg.Incompatible {
		if strings.Contains(holder, strings.ToUpper(pair.AccountHolder)) &&
			strings.Contains(company, strings.ToUpper(pair.Company)) {
			return Verdict{Status: StatusException, Note: pair.Note}
		}
	}

	for _, req := range v.cfg.Markers {
		if !strings.Contains(company, strings.ToUpper(req.Company)) {
			continue
		}
		marker := strings.ToUpper(req.Marker)
		if !strings.Contains(company, marker) && !strings.Contains(glHint, marker) {
			return Verdict{Status: StatusAlert, Note: req.Note}
		}
	}

	return Verdict{Status: StatusOK}
}

// Eligible decides the ingestion-time SKIP filter: whether this holder
// and company combination may enter the pipeline at all. It never
// produces a terminal status; rows failing it are dropped before
// validation.
func (v *Validator) Eligible(in Input) bool {
	holder := strings.ToUpper(in.AccountHolder)
	company := strings.ToUpper(in.Company)
	glHint := strings.ToUpper(in.GLHint)

	marker := strings.ToUpper(v.cfg.MarkerToken)
	hasMarker := marker != "" &&
		(strings.Contains(company, marker) || strings.Contains(glHint, marker))

	for _, rule := range v.cfg.Eligibility {
		if !strings.Contains(holder, strings.ToUpper(rule.AccountHolder)) {
			continue
		}
		if rule.RequireMarker == "" {
			return true
		}
		req := strings.ToUpper(rule.RequireMarker)
		if strings.Contains(company, req) || strings.Contains(glHint, req) {
			return true
		}
		return false
	}

	return hasMarker
}
