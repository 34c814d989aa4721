// Package export serializes knowledge snapshots: a plain-text
// description for debugging and a node/edge graph document for
// downstream tooling.
package export

import (
	"fmt"
	"strings"

	"fabula/internal/knowledge"
	"fabula/internal/world"
)

// Describe renders one snapshot as text, one block per entity listing
// each relation with its current fact values and truth flags.
// Inspection output only; the graph document is the stable format.
func Describe(t *knowledge.Table) string {
	var b strings.Builder
	for _, e := range t.Entities() {
		ledger, ok := t.Peek(e)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s\n", e.Name)
		for _, p := range ledger.Properties() {
			facts := ledger.Facts(p)
			if len(facts) == 0 {
				continue
			}
			parts := make([]string, len(facts))
			for i, f := range facts {
				parts[i] = fmt.Sprintf("%s (%t)", world.Label(f.Value), f.Truth)
			}
			fmt.Fprintf(&b, "  %s: %s\n", p, strings.Join(parts, ", "))
		}
	}
	return b.String()
}
