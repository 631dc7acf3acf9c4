// Package rules loads rule definitions from external sources: YAML and
// HCL files here, SQLite in adapters/store. The engine itself only ever
// sees validated, already-loaded rules.
package rules

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/S-COULIBALY/express-quote-sub008/core/rule"
	"github.com/S-COULIBALY/express-quote-sub008/internal/errors"
)

// Source supplies rule definitions from an external collaborator
type Source interface {
	// Load returns the rule records. Order is not significant; the
	// engine sorts by priority.
	Load(ctx context.Context) ([]*rule.Rule, error)
}

// FromFile picks a file loader by extension and returns a compiled set
func FromFile(ctx context.Context, path string) (*rule.Set, error) {
	var src Source
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		src = NewYAMLSource(path)
	case ".hcl":
		src = NewHCLSource(path)
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported rule file extension: %s", path)
	}

	loaded, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return rule.NewSet(loaded)
}
