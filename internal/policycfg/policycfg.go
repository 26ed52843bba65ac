// Package policycfg loads the YAML policy bundle that selects the
// task-ordering and placement policies, and their tunables.
package policycfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ValidOrderingPolicies is the set of recognized task-ordering policy
// names. Shared by Validate so the CLI and the config loader agree on
// what's legal.
var ValidOrderingPolicies = map[string]bool{"": true, "fcfs": true, "sjf": true, "ewf": true}

// ValidPlacementPolicies is the set of recognized placement policy names.
var ValidPlacementPolicies = map[string]bool{"": true, "best-fit": true}

// Bundle holds unified policy configuration, loadable from a YAML file.
// A zero-value Bundle (Ordering/Placement both "") means "use the
// registries' defaults" — CLI flags always override file values, and file
// values override built-in defaults.
type Bundle struct {
	Ordering  string    `yaml:"ordering"`
	Placement string    `yaml:"placement"`
	EWF       EWFConfig `yaml:"ewf"`
}

// EWFConfig holds EWF-specific tunables.
type EWFConfig struct {
	// DeadlineSlackFactor scales a workflow's critical-path length before
	// it is added to the earliest submission time to form the deadline.
	// A nil value means "use 1.0" (no slack).
	DeadlineSlackFactor *float64 `yaml:"deadline_slack_factor"`
}

// Load reads and parses a YAML policy bundle file.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Validate checks that all policy names and parameter values in the
// bundle are recognized.
func (b *Bundle) Validate() error {
	if !ValidOrderingPolicies[b.Ordering] {
		return fmt.Errorf("unknown ordering policy %q", b.Ordering)
	}
	if !ValidPlacementPolicies[b.Placement] {
		return fmt.Errorf("unknown placement policy %q", b.Placement)
	}
	if b.EWF.DeadlineSlackFactor != nil && *b.EWF.DeadlineSlackFactor < 0 {
		return fmt.Errorf("deadline_slack_factor must be non-negative, got %f", *b.EWF.DeadlineSlackFactor)
	}
	return nil
}
