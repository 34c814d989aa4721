package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"fabula/internal/export"
	"fabula/internal/world"
)

// snapshotCanonicalMap converts a result to the canonical-JSON shape
// compared against golden files: the executed trace plus the graph
// document of the final snapshot.
func snapshotCanonicalMap(result *Result) map[string]any {
	trace := make([]any, len(result.Trace))
	for i, ev := range result.Trace {
		args := make([]any, len(ev.Args))
		for j, a := range ev.Args {
			args[j] = a
		}
		trace[i] = map[string]any{
			"seq":    ev.Seq,
			"truth":  ev.Truth,
			"actor":  ev.Actor,
			"action": ev.Action,
			"args":   args,
		}
	}

	graph := export.Graph(result.World.Timeline.Current())
	nodes := make([]any, len(graph.Nodes))
	for i, n := range graph.Nodes {
		nodes[i] = n
	}
	edges := make([]any, len(graph.Edges))
	for i, e := range graph.Edges {
		edges[i] = map[string]any{
			"type": e.Type,
			"from": e.From,
			"to":   e.To,
		}
	}

	return map[string]any{
		"scenario": result.ScenarioName,
		"trace":    trace,
		"graph":    map[string]any{"nodes": nodes, "edges": edges},
	}
}

// RunWithGolden executes a scenario and compares its canonical trace
// and final graph against testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, msg)
	}

	data, err := world.MarshalCanonical(snapshotCanonicalMap(result))
	if err != nil {
		t.Fatalf("marshal trace for %s: %v", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result
}
