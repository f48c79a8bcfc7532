package detect

import (
	"encoding/json"

	"github.com/yuvraj20122008-del/autofix-my-code/internal/classify"
)

// FrameworkDetector maps package.json dependencies to framework labels.
type FrameworkDetector struct {
	rules []classify.FrameworkRule
}

// NewFrameworkDetector creates a detector over the framework rules in tables.
func NewFrameworkDetector(tables *classify.Tables) *FrameworkDetector {
	return &FrameworkDetector{rules: tables.Frameworks}
}

// Detect parses manifest as a JSON object and returns the frameworks whose
// indicator dependencies appear in either dependencies or devDependencies.
// Malformed manifests yield nothing; detection is best-effort.
func (d *FrameworkDetector) Detect(manifest string) []classify.Framework {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(manifest), &doc); err != nil {
		return nil
	}

	deps := make(map[string]bool)
	for _, field := range []string{"dependencies", "devDependencies"} {
		raw, ok := doc[field]
		if !ok {
			continue
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		for name := range m {
			deps[name] = true
		}
	}
	if len(deps) == 0 {
		return nil
	}

	var found []classify.Framework
	for _, rule := range d.rules {
		for _, dep := range rule.Indicators {
			if deps[dep] {
				found = append(found, rule.Framework)
				break
			}
		}
	}
	return found
}
