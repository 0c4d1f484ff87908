// Package rules implements the manually curated mapping-rule table
// applied ahead of any fuzzy matching.
//
// A rule matches when its pattern occurs inside the normalized
// candidate text (substring, not full-string equality), so a short
// brand fragment like "ace hdwe" catches the many bank-descriptor
// variants of the same merchant. Rules are scanned in descending
// priority; ties keep original table order. A linear scan is fine at
// the table sizes involved (hundreds of rules).
package rules

import (
	"regexp"
	"sort"
	"strings"
)

// Category partitions the rule table by what a rule maps to.
type Category string

const (
	CategoryVendor   Category = "Vendor"
	CategoryProperty Category = "Property"
	CategoryCash     Category = "Cash"
	CategoryGLHint   Category = "GL-hint"
)

// DefaultPriority is assigned when the source omits a priority.
const DefaultPriority = 10

// Rule is one curated mapping entry.
type Rule struct {
	Category Category
	Pattern  string
	Mapped   string
	GLHint   string
	Priority int
}

type compiledRule struct {
	Rule
	pattern string         // lowercased literal form
	re      *regexp.Regexp // nil when the pattern is treated literally
	order   int
}

// Table is a loaded, priority-sorted rule set.
type Table struct {
	byCategory map[Category][]compiledRule
}

// NewTable compiles and orders rules. Zero priorities get
// DefaultPriority. Patterns containing regex metacharacters are
// compiled for containment matching; patterns that fail to compile fall
// back to literal substring matching.
func NewTable(ruleList []Rule) *Table {
	t := &Table{byCategory: make(map[Category][]compiledRule)}

	for i, r := range ruleList {
		pattern := strings.ToLower(strings.TrimSpace(r.Pattern))
		if pattern == "" {
			continue
		}
		if r.Priority == 0 {
			r.Priority = DefaultPriority
		}

		cr := compiledRule{Rule: r, pattern: pattern, order: i}
		if pattern != regexp.QuoteMeta(pattern) {
			if re, err := regexp.Compile(pattern); err == nil {
				cr.re = re
			}
		}
		t.byCategory[r.Category] = append(t.byCategory[r.Category], cr)
	}

	for cat := range t.byCategory {
		list := t.byCategory[cat]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Priority != list[j].Priority {
				return list[i].Priority > list[j].Priority
			}
			return list[i].order < list[j].order
		})
	}

	return t
}

// Apply returns the mapped value of the first rule in category whose
// pattern is contained in text. It fails open: no match returns
// ok=false, never an error.
func (t *Table) Apply(text string, category Category) (string, bool) {
	r, ok := t.match(text, category)
	if !ok {
		return "", false
	}
	return r.Mapped, true
}

// ApplyFull is Apply plus the rule's GL hint, for callers that seed GL
// resolution from the vendor rule.
func (t *Table) ApplyFull(text string, category Category) (Rule, bool) {
	r, ok := t.match(text, category)
	if !ok {
		return Rule{}, false
	}
	return r.Rule, true
}

func (t *Table) match(text string, category Category) (compiledRule, bool) {
	norm := strings.ToLower(text)
	for _, r := range t.byCategory[category] {
		if r.re != nil {
			if r.re.MatchString(norm) {
				return r, true
			}
			continue
		}
		if strings.Contains(norm, r.pattern) {
			return r, true
		}
	}
	return compiledRule{}, false
}

// Len reports the number of compiled rules across all categories.
func (t *Table) Len() int {
	n := 0
	for _, list := range t.byCategory {
		n += len(list)
	}
	return n
}
