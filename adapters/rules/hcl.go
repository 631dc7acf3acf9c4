// Package rules - HCL rule files
package rules

import (
	"context"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
)

// HCLSource loads rules from an HCL file of rule blocks:
//
//	rule "high_floor_surcharge" {
//	  name     = "High floor at pickup"
//	  value    = 10
//	  percentage = true
//	  priority = 20
//	  condition {
//	    kind      = "building"
//	    side      = "pickup"
//	    min_floor = 4
//	  }
//	}
type HCLSource struct {
	path string
}

// NewHCLSource creates an HCL rule source
func NewHCLSource(path string) *HCLSource {
	return &HCLSource{path: path}
}

// hclFile is the top-level document shape
type hclFile struct {
	Rules []hclRule `hcl:"rule,block"`
}

// hclRule mirrors rule.Rule with HCL-friendly scalar types
type hclRule struct {
	ID         string          `hcl:"id,label"`
	Name       string          `hcl:"name"`
	Value      float64         `hcl:"value"`
	Percentage bool            `hcl:"percentage,optional"`
	Category   string          `hcl:"category,optional"`
	Priority   int             `hcl:"priority,optional"`
	Scope      string          `hcl:"scope,optional"`
	Expression string          `hcl:"expression,optional"`
	Condition  *rule.Condition `hcl:"condition,block"`
}

// Load implements Source
func (s *HCLSource) Load(_ context.Context) ([]*rule.Rule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Store("reading rule file", err)
	}
	return ParseHCL(data, s.path)
}

// ParseHCL decodes rule definitions from HCL bytes
func ParseHCL(data []byte, filename string) ([]*rule.Rule, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeRule, "parsing HCL rules", diags)
	}

	var doc hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeRule, "decoding HCL rules", diags)
	}

	out := make([]*rule.Rule, 0, len(doc.Rules))
	for _, h := range doc.Rules {
		r := &rule.Rule{
			ID:         h.ID,
			Name:       h.Name,
			Value:      decimal.NewFromFloat(h.Value),
			Percentage: h.Percentage,
			Category:   rule.Category(h.Category),
			Priority:   h.Priority,
			Scope:      h.Scope,
			Expression: h.Expression,
			Condition:  h.Condition,
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// ensure diagnostics satisfy error for wrapping
var _ error = hcl.Diagnostics{}
