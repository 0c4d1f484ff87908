package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rasgroup/appfolio-recon-backend/internal/domain/rules"
)

// ruleFile is the on-disk shape of the curated mapping-rule table.
type ruleFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Pattern  string `yaml:"pattern"`
	Mapped   string `yaml:"mapped"`
	Category string `yaml:"category"`
	GLHint   string `yaml:"gl_hint"`
	Priority int    `yaml:"priority"`
}

// LoadRules reads the mapping-rule YAML file into a compiled table.
// Rules without a pattern are dropped; a rule without a category
// defaults to Vendor, matching how the table is mostly used.
func LoadRules(path string) (*rules.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	ruleList := make([]rules.Rule, 0, len(file.Rules))
	for _, entry := range file.Rules {
		if entry.Pattern == "" {
			continue
		}
		category := rules.Category(entry.Category)
		if category == "" {
			category = rules.CategoryVendor
		}
		ruleList = append(ruleList, rules.Rule{
			Category: category,
			Pattern:  entry.Pattern,
			Mapped:   entry.Mapped,
			GLHint:   entry.GLHint,
			Priority: entry.Priority,
		})
	}

	return rules.NewTable(ruleList), nil
}
