package config

import (
	"fmt"
	"os"

	"github.com/kubeperf/k8s-latency-analyzer/pkg/comparator"
	"gopkg.in/yaml.v3"
)

// PolicyFile mirrors an optional thresholds YAML file, letting a workshop
// override the built-in classification cut points without rebuilding.
//
//	policies:
//	  - name: improvement
//	    cuts:
//	      - {above: 20, label: excellent}
//	      - {above: 5, label: better}
//	      - {above: -5, label: similar}
//	    fallback: worse
type PolicyFile struct {
	Policies []comparator.ThresholdPolicy `yaml:"policies"`
}

// LoadPolicies reads a thresholds file and returns the policies by name.
func LoadPolicies(path string) (map[string]comparator.ThresholdPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var file PolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	policies := make(map[string]comparator.ThresholdPolicy, len(file.Policies))
	for _, p := range file.Policies {
		if err := validatePolicy(p); err != nil {
			return nil, fmt.Errorf("policy %q: %w", p.Name, err)
		}
		policies[p.Name] = p
	}
	return policies, nil
}

// validatePolicy enforces the shape Classify depends on: a catch-all
// fallback and cut points ordered from most positive to least positive.
func validatePolicy(p comparator.ThresholdPolicy) error {
	if p.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if p.Fallback == "" {
		return fmt.Errorf("fallback label must not be empty")
	}
	for i, cut := range p.Cuts {
		if cut.Label == "" {
			return fmt.Errorf("cut %d: label must not be empty", i)
		}
		if i > 0 && cut.Above >= p.Cuts[i-1].Above {
			return fmt.Errorf("cut %d: bounds must be strictly descending", i)
		}
	}
	return nil
}
