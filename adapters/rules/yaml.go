// Package rules - YAML rule files
package rules

import (
	"context"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
)

// YAMLSource loads rules from a YAML file
type YAMLSource struct {
	path string
}

// NewYAMLSource creates a YAML rule source
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

// yamlFile is the document shape
type yamlFile struct {
	Rules []yamlRule `yaml:"rules"`
}

// yamlRule mirrors rule.Rule with YAML-friendly scalar types
type yamlRule struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	Value      float64         `yaml:"value"`
	Percentage bool            `yaml:"percentage"`
	Category   string          `yaml:"category"`
	Priority   int             `yaml:"priority"`
	Scope      string          `yaml:"scope"`
	Expression string          `yaml:"expression"`
	Condition  *rule.Condition `yaml:"condition"`
}

// Load implements Source
func (s *YAMLSource) Load(_ context.Context) ([]*rule.Rule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Store("reading rule file", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes rule definitions from YAML bytes
func ParseYAML(data []byte) ([]*rule.Rule, error) {
	var doc yamlFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.TypeRule, "parsing YAML rules", err)
	}

	out := make([]*rule.Rule, 0, len(doc.Rules))
	for _, y := range doc.Rules {
		r := &rule.Rule{
			ID:         y.ID,
			Name:       y.Name,
			Value:      decimal.NewFromFloat(y.Value),
			Percentage: y.Percentage,
			Category:   rule.Category(y.Category),
			Priority:   y.Priority,
			Scope:      y.Scope,
			Expression: y.Expression,
			Condition:  y.Condition,
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
