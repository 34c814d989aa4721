package export

import (
	"fmt"

	"fabula/internal/knowledge"
	"fabula/internal/world"
)

// Edge is one relation fact rendered as a typed, directed edge.
// Type packs the truth flag, the endpoint capability tags, and the
// relation name: [not_]<fromTags>_<relation>_<toTags>, where tags are
// hyphen-joined, e.g. "actor_is_in_location" or
// "not_actor-animal_has_gettable".
type Edge struct {
	Type string `json:"type"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Document is the graph form of one snapshot: every entity as a node,
// every entity-valued fact as an edge.
type Document struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// flippedDirections maps directional relations to their canonical
// counterpart. A south edge is emitted as a north edge with reversed
// endpoints, so symmetric pairs collapse to one orientation.
var flippedDirections = map[knowledge.Property]knowledge.Property{
	"south": "north",
	"east":  "west",
}

// Graph serializes a snapshot into a node/edge document. Nodes and
// edges follow the snapshot's deterministic entity and property
// order, so identical snapshots yield identical documents.
func Graph(t *knowledge.Table) Document {
	doc := Document{
		Nodes: make([]string, 0, t.Len()),
		Edges: []Edge{},
	}

	for _, e := range t.Entities() {
		doc.Nodes = append(doc.Nodes, e.Name)
	}

	for _, e := range t.Entities() {
		ledger, ok := t.Peek(e)
		if !ok {
			continue
		}
		for _, p := range ledger.Properties() {
			for _, f := range ledger.Facts(p) {
				ev, isEntity := f.Value.(world.EntityValue)
				if !isEntity {
					continue
				}

				from, to, relation := e, ev.Entity, p
				if flipped, ok := flippedDirections[p]; ok {
					from, to, relation = to, from, flipped
				}

				edgeType := fmt.Sprintf("%s_%s_%s",
					from.TagString(), relation, to.TagString())
				if !f.Truth {
					edgeType = "not_" + edgeType
				}

				doc.Edges = append(doc.Edges, Edge{
					Type: edgeType,
					From: from.Name,
					To:   to.Name,
				})
			}
		}
	}

	return doc
}

// canonicalMap converts the document for canonical JSON marshaling.
func (d Document) canonicalMap() map[string]any {
	nodes := make([]any, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = n
	}
	edges := make([]any, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = map[string]any{
			"type": e.Type,
			"from": e.From,
			"to":   e.To,
		}
	}
	return map[string]any{"nodes": nodes, "edges": edges}
}

// MarshalGraph emits the document as RFC 8785 canonical JSON.
func MarshalGraph(d Document) ([]byte, error) {
	return world.MarshalCanonical(d.canonicalMap())
}

// GraphHash computes the content-addressed hash of a snapshot's graph
// document. The replay audit compares this against the hash recorded
// when the story was generated.
func GraphHash(t *knowledge.Table) (string, error) {
	return world.CanonicalHash(world.DomainGraph, Graph(t).canonicalMap())
}
