package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a YAML-defined story: a world definition, an event
// script, an optional history-augmentation step, and expectations
// evaluated against the final snapshot.
type Scenario struct {
	// Name identifies the scenario in results and golden files.
	Name string `yaml:"name"`

	// Description is shown in verbose output.
	Description string `yaml:"description,omitempty"`

	// World is the directory of CUE world files, resolved relative
	// to the scenario file when not absolute.
	World string `yaml:"world"`

	// Script is the ordered event clauses of the story.
	Script []ScriptStep `yaml:"script"`

	// Augment optionally materializes value-history records on the
	// final snapshot before expectations run.
	Augment *AugmentStep `yaml:"augment,omitempty"`

	// Expect is evaluated against the final snapshot.
	Expect []Expectation `yaml:"expect,omitempty"`
}

// ScriptStep is one event clause in wire form.
type ScriptStep struct {
	Actor  string   `yaml:"actor"`
	Action string   `yaml:"action"`
	Args   []string `yaml:"args,omitempty"`

	// Truth defaults to true; set false for negated clauses.
	Truth *bool `yaml:"truth,omitempty"`
}

// AugmentStep materializes linked value-history records.
type AugmentStep struct {
	Entities       []string `yaml:"entities"`
	Property       string   `yaml:"property"`
	ResolveCarrier bool     `yaml:"resolve_carrier,omitempty"`
}

// Expectation asserts one query result on the final snapshot.
//
// Forms, by populated fields:
//   - History set: the deduplicated value history must match exactly.
//   - Truth set: the (property, value) truth query must resolve to
//     "true", "false", or "unknown".
//   - Value set, Truth empty: the singular true value must match.
//
// SupportMin additionally requires the supporting-fact set of the
// queried fact to have at least that many entries.
type Expectation struct {
	Entity         string   `yaml:"entity"`
	Property       string   `yaml:"property"`
	Value          string   `yaml:"value,omitempty"`
	Truth          string   `yaml:"truth,omitempty"`
	History        []string `yaml:"history,omitempty"`
	ResolveCarrier bool     `yaml:"resolve_carrier,omitempty"`
	SupportMin     *int     `yaml:"support_min,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. The world path
// is resolved relative to the scenario file. Unknown fields are
// rejected to catch typos.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if scenario.World != "" && !filepath.IsAbs(scenario.World) {
		scenario.World = filepath.Join(filepath.Dir(path), scenario.World)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.World == "" {
		return fmt.Errorf("world is required")
	}
	if len(s.Script) == 0 {
		return fmt.Errorf("script must have at least one step")
	}
	for i, step := range s.Script {
		if step.Actor == "" {
			return fmt.Errorf("script[%d]: actor is required", i)
		}
		if step.Action == "" {
			return fmt.Errorf("script[%d]: action is required", i)
		}
	}
	if s.Augment != nil {
		if len(s.Augment.Entities) == 0 {
			return fmt.Errorf("augment: entities is required")
		}
		if s.Augment.Property == "" {
			return fmt.Errorf("augment: property is required")
		}
	}
	for i, exp := range s.Expect {
		if exp.Entity == "" {
			return fmt.Errorf("expect[%d]: entity is required", i)
		}
		if exp.Property == "" {
			return fmt.Errorf("expect[%d]: property is required", i)
		}
		if exp.Truth != "" && exp.Truth != "true" && exp.Truth != "false" && exp.Truth != "unknown" {
			return fmt.Errorf("expect[%d]: truth must be true, false, or unknown", i)
		}
		if exp.Truth == "" && exp.Value == "" && exp.History == nil {
			return fmt.Errorf("expect[%d]: one of truth, value, or history is required", i)
		}
	}
	return nil
}
