package harness

import (
	"fmt"
	"strings"

	"fabula/internal/actions"
	"fabula/internal/knowledge"
	"fabula/internal/world"
)

// EvaluateExpectations checks every expectation against the final
// snapshot and records failures on the result. Evaluation continues
// past failures so one run reports every broken expectation.
func EvaluateExpectations(result *Result, expect []Expectation, w *actions.World) {
	table := w.Timeline.Current()

	for i, exp := range expect {
		entity, ok := w.Entity(exp.Entity)
		if !ok {
			// Augmentation records are reachable too.
			entity = findRecordEntity(table, exp.Entity)
		}
		if entity == nil {
			result.AddError(fmt.Sprintf("expect[%d]: unknown entity %q", i, exp.Entity))
			continue
		}

		if exp.History != nil {
			evaluateHistory(result, i, exp, w, entity)
			continue
		}
		evaluateTruth(result, i, exp, w, entity)
	}
}

// findRecordEntity looks up an entity present in the snapshot but not
// in the declared roster, such as history records.
func findRecordEntity(t *knowledge.Table, name string) *world.Entity {
	for _, e := range t.Entities() {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func evaluateHistory(result *Result, i int, exp Expectation, w *actions.World, entity *world.Entity) {
	vals, _, err := w.Timeline.ValueHistory(entity, knowledge.Property(exp.Property), exp.ResolveCarrier)
	if err != nil {
		result.AddError(fmt.Sprintf("expect[%d]: %v", i, err))
		return
	}
	got := make([]string, len(vals))
	for j, v := range vals {
		got[j] = world.Label(v)
	}
	if len(got) != len(exp.History) {
		result.AddError(fmt.Sprintf("expect[%d]: %s.%s history = [%s], want [%s]",
			i, exp.Entity, exp.Property, strings.Join(got, ", "), strings.Join(exp.History, ", ")))
		return
	}
	for j := range got {
		if got[j] != exp.History[j] {
			result.AddError(fmt.Sprintf("expect[%d]: %s.%s history = [%s], want [%s]",
				i, exp.Entity, exp.Property, strings.Join(got, ", "), strings.Join(exp.History, ", ")))
			return
		}
	}
}

func evaluateTruth(result *Result, i int, exp Expectation, w *actions.World, entity *world.Entity) {
	table := w.Timeline.Current()
	ledger, ok := table.Peek(entity)
	if !ok {
		// No knowledge recorded: only "unknown" can hold.
		if exp.Truth != "unknown" {
			result.AddError(fmt.Sprintf("expect[%d]: no knowledge recorded for %q", i, exp.Entity))
		}
		return
	}
	prop := knowledge.Property(exp.Property)

	// A value-only expectation asserts the singular true value.
	if exp.Truth == "" {
		v, sup, err := ledger.Value(prop)
		if err != nil {
			result.AddError(fmt.Sprintf("expect[%d]: %v", i, err))
			return
		}
		if v == nil {
			result.AddError(fmt.Sprintf("expect[%d]: %s.%s has no true value, want %q",
				i, exp.Entity, exp.Property, exp.Value))
			return
		}
		if world.Label(v) != exp.Value {
			result.AddError(fmt.Sprintf("expect[%d]: %s.%s = %q, want %q",
				i, exp.Entity, exp.Property, world.Label(v), exp.Value))
			return
		}
		checkSupport(result, i, exp, sup)
		return
	}

	// Truth-valued expectation with no value: unknown means the
	// property has no true value at all.
	if exp.Value == "" {
		v, _, err := ledger.Value(prop)
		if err != nil {
			result.AddError(fmt.Sprintf("expect[%d]: %v", i, err))
			return
		}
		if exp.Truth == "unknown" && v != nil {
			result.AddError(fmt.Sprintf("expect[%d]: %s.%s = %q, want unknown",
				i, exp.Entity, exp.Property, world.Label(v)))
		}
		if exp.Truth != "unknown" && v == nil {
			result.AddError(fmt.Sprintf("expect[%d]: %s.%s is unknown, want %s",
				i, exp.Entity, exp.Property, exp.Truth))
		}
		return
	}

	value := resolveValue(w, table, exp.Value)
	truth, sup := ledger.TruthValue(prop, value)
	if truth.String() != exp.Truth {
		result.AddError(fmt.Sprintf("expect[%d]: %s.%s[%s] = %s, want %s",
			i, exp.Entity, exp.Property, exp.Value, truth, exp.Truth))
		return
	}
	checkSupport(result, i, exp, sup)
}

func checkSupport(result *Result, i int, exp Expectation, sup knowledge.Support) {
	if exp.SupportMin == nil {
		return
	}
	if len(sup) < *exp.SupportMin {
		result.AddError(fmt.Sprintf("expect[%d]: %s.%s support has %d facts, want at least %d",
			i, exp.Entity, exp.Property, len(sup), *exp.SupportMin))
	}
}

// resolveValue maps an expectation value string to a fact value: an
// entity reference when the name is known, a literal string otherwise.
func resolveValue(w *actions.World, t *knowledge.Table, s string) world.Value {
	if e, ok := w.Entity(s); ok {
		return world.Ref(e)
	}
	if e := findRecordEntity(t, s); e != nil {
		return world.Ref(e)
	}
	return world.StringValue(s)
}
