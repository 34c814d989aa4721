// Package harness runs YAML story scenarios against a fresh timeline
// and verifies them two ways: explicit expectations on the final
// snapshot, and golden-file comparison of the canonical trace.
package harness

import (
	"fmt"

	"fabula/internal/actions"
	"fabula/internal/compiler"
	"fabula/internal/knowledge"
	"fabula/internal/world"
)

// TraceEvent is one script step as executed, for golden comparison.
type TraceEvent struct {
	Seq    int64
	Truth  bool
	Actor  string
	Action string
	Args   []string
}

// Result holds the outcome of one scenario run.
type Result struct {
	ScenarioName string
	Trace        []TraceEvent
	Errors       []string

	// World and the timeline's final snapshot stay accessible for
	// follow-up queries and export.
	World *actions.World
}

// Pass reports whether every expectation held.
func (r *Result) Pass() bool {
	return len(r.Errors) == 0
}

// AddError records an expectation failure.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Run executes a scenario: compile the world, feed the script into a
// fresh timeline, optionally augment value histories, then evaluate
// expectations. A scenario error (bad world, unknown entity) aborts
// with an error; expectation failures land in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	spec, err := compiler.LoadWorldDir(scenario.World)
	if err != nil {
		return nil, fmt.Errorf("load world: %w", err)
	}

	w, err := actions.BuildWorld(spec)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}

	result := &Result{ScenarioName: scenario.Name, World: w}

	for i, step := range scenario.Script {
		truth := true
		if step.Truth != nil {
			truth = *step.Truth
		}
		clause, err := w.Clause(truth, step.Actor, step.Action, step.Args)
		if err != nil {
			return nil, fmt.Errorf("script[%d]: %w", i, err)
		}
		w.Timeline.Update(clause)

		result.Trace = append(result.Trace, TraceEvent{
			Seq:    clause.Seq,
			Truth:  clause.Truth,
			Actor:  step.Actor,
			Action: step.Action,
			Args:   step.Args,
		})
	}

	if scenario.Augment != nil {
		if err := runAugment(w, scenario.Augment); err != nil {
			return nil, err
		}
	}

	EvaluateExpectations(result, scenario.Expect, w)

	return result, nil
}

func runAugment(w *actions.World, step *AugmentStep) error {
	resolved, err := resolveEntities(w, step.Entities)
	if err != nil {
		return fmt.Errorf("augment: %w", err)
	}
	_, err = w.Timeline.AugmentValueHistories(resolved, knowledge.Property(step.Property), step.ResolveCarrier)
	if err != nil {
		return fmt.Errorf("augment: %w", err)
	}
	return nil
}

func resolveEntities(w *actions.World, names []string) ([]*world.Entity, error) {
	out := make([]*world.Entity, len(names))
	for i, name := range names {
		e, ok := w.Entity(name)
		if !ok {
			return nil, fmt.Errorf("unknown entity %q", name)
		}
		out[i] = e
	}
	return out, nil
}
