// Package resolver maps noisy statement text to canonical vendor,
// property, and GL-account identities.
//
// Every operation shares the same two-tier strategy: curated rules
// first, fuzzy catalog lookup as fallback. A rule or exact-catalog hit
// always outranks a fuzzy candidate, even one scoring 100, and a fuzzy
// candidate below its cutoff is discarded rather than substituted.
package resolver

import (
	"strings"

	"github.com/rasgroup/appfolio-recon-backend/internal/domain/catalog"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/fuzzy"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/normalize"
	"github.com/rasgroup/appfolio-recon-backend/internal/domain/rules"
)

// Resolver resolves transaction identities against pre-loaded catalogs
// and rules. All state is set at construction and read-only afterwards,
// so a single Resolver is safe for concurrent per-row use.
type Resolver struct {
	cfg      Config
	rules    *rules.Table
	catalogs catalog.Set
	vendor   *normalize.VendorNormalizer
}

// New builds a Resolver. The rule table and catalogs must already be
// fully loaded; the resolver performs no I/O.
func New(cfg Config, table *rules.Table, catalogs catalog.Set, vendorNorm *normalize.VendorNormalizer) *Resolver {
	return &Resolver{
		cfg:      cfg,
		rules:    table,
		catalogs: catalogs,
		vendor:   vendorNorm,
	}
}

// IsAmbiguous reports whether a value is unusable as a match query:
// empty, whitespace, or carrying the literal token "unknown". Ambiguous
// inputs are never scored.
func IsAmbiguous(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true
	}
	return strings.Contains(strings.ToLower(trimmed), "unknown")
}

// ResolveVendor resolves a raw merchant descriptor to a canonical
// vendor display name.
func (r *Resolver) ResolveVendor(merchant string) Result {
	if IsAmbiguous(merchant) {
		return Result{Value: merchant, Score: 0, Source: SourceAmbiguous}
	}

	if rule, ok := r.rules.ApplyFull(merchant, rules.CategoryVendor); ok {
		return Result{Value: rule.Mapped, Score: 100, Source: SourceManualRule, GLHint: rule.GLHint}
	}

	norm := r.vendor.Normalize(merchant)
	if entry, ok := r.catalogs.Vendors.LookupExact(norm); ok {
		return Result{Value: entry.Display, Score: 100, Source: SourceExactMatch}
	}

	if match, ok := fuzzy.ExtractOne(norm, r.catalogs.Vendors.Candidates(), r.cfg.VendorCutoff); ok {
		entry, _ := r.catalogs.Vendors.LookupExact(match.Value)
		return Result{Value: entry.Display, Score: match.Score, Source: SourceFuzzy}
	}

	// Below-cutoff candidates are rejected, not substituted; the
	// normalized input survives into the output row.
	return Result{Value: norm, Score: 0, Source: SourceUnresolved}
}

// ResolveProperty resolves a property identity from an extracted
// leading code token (e.g. "RAS") and the free-text company/merchant
// field. The code token is the stronger signal and is tried first.
func (r *Resolver) ResolveProperty(codeToken, freeText string) Result {
	hint := codeToken
	if strings.TrimSpace(hint) == "" {
		hint = freeText
	}
	if IsAmbiguous(hint) {
		return Result{Value: hint, Score: 0, Source: SourceAmbiguous}
	}

	if codeToken != "" {
		if mapped, ok := r.rules.Apply(codeToken, rules.CategoryProperty); ok {
			return Result{Value: mapped, Score: 100, Source: SourceManualRule}
		}
	}
	if freeText != "" {
		if mapped, ok := r.rules.Apply(freeText, rules.CategoryProperty); ok {
			return Result{Value: mapped, Score: 100, Source: SourceManualRule}
		}
	}

	norm := normalize.Normalize(hint)
	if entry, ok := r.catalogs.Properties.LookupExact(norm); ok {
		return Result{Value: entry.Display, Score: 100, Source: SourceExactMatch}
	}

	if match, ok := fuzzy.ExtractOne(norm, r.catalogs.Properties.Candidates(), r.cfg.PropertyCutoff); ok {
		entry, _ := r.catalogs.Properties.LookupExact(match.Value)
		return Result{Value: entry.Display, Score: match.Score, Source: SourceFuzzy}
	}

	// Unresolved properties surface loudly instead of being dropped.
	return Result{Value: r.cfg.NeedsReviewPrefix + hint, Score: 0, Source: SourceUnresolved}
}

// ResolveGL maps a transaction to a GL account. A hint declared on the
// matched vendor rule wins outright; then GL-hint rules against the raw
// merchant text, then the exact vendor→GL table, then fuzzy matching
// against GL display names. An unresolved result carries an empty
// value; the caller substitutes the configured default so the export
// field is never blank.
func (r *Resolver) ResolveGL(merchant string, vendor Result) Result {
	if vendor.GLHint != "" {
		return Result{Value: vendor.GLHint, Score: 100, Source: SourceManualRule}
	}

	if merchant != "" {
		if gl, ok := r.rules.Apply(merchant, rules.CategoryGLHint); ok {
			return Result{Value: gl, Score: 100, Source: SourceManualRule}
		}
	}

	if IsAmbiguous(vendor.Value) {
		return Result{Value: "", Score: 0, Source: SourceAmbiguous}
	}

	if gl, ok := r.catalogs.VendorGL[vendor.Value]; ok {
		return Result{Value: gl, Score: 100, Source: SourceManualRule}
	}

	norm := normalize.Normalize(vendor.Value)
	if entry, ok := r.catalogs.GLAccounts.LookupExact(norm); ok {
		return Result{Value: glDisplay(entry), Score: 100, Source: SourceExactMatch}
	}

	if match, ok := fuzzy.ExtractOne(norm, r.catalogs.GLAccounts.Candidates(), r.cfg.GLCutoff); ok {
		entry, _ := r.catalogs.GLAccounts.LookupExact(match.Value)
		return Result{Value: glDisplay(entry), Score: match.Score, Source: SourceFuzzy}
	}

	return Result{Value: "", Score: 0, Source: SourceUnresolved}
}

// GLOrDefault collapses an unresolved GL result to the configured
// default account. Unresolved GL must always degrade to a safe default
// rather than block or blank the output row.
func (r *Resolver) GLOrDefault(res Result) string {
	if res.Resolved() && res.Value != "" {
		return res.Value
	}
	return r.cfg.DefaultGLAccount
}

// NormalizeMerchant exposes the resolver's vendor normalization for
// callers that record the normalized form alongside the raw merchant.
func (r *Resolver) NormalizeMerchant(merchant string) string {
	return r.vendor.Normalize(merchant)
}

// ResolveCashAccount maps a statement identifier (filename, card label)
// to the cash account via the Cash rule category. This is the one
// operation allowed to return "": an empty cash account means the batch
// is misconfigured and must be rejected upstream.
func (r *Resolver) ResolveCashAccount(statementID string) string {
	mapped, ok := r.rules.Apply(statementID, rules.CategoryCash)
	if !ok {
		return ""
	}
	return mapped
}

// glDisplay renders a GL entry as "code: name" when a code is present.
func glDisplay(entry catalog.Entry) string {
	if entry.Code != "" && !strings.HasPrefix(entry.Display, entry.Code) {
		return entry.Code + ": " + entry.Display
	}
	return entry.Display
}
