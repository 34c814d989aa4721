package store

import (
	"context"
	"fmt"

	"fabula/internal/export"
	"fabula/internal/knowledge"
	"fabula/internal/world"
)

// ReplayReport summarizes a determinism audit: a persisted story
// re-run event-for-event into a fresh timeline, with the recomputed
// final graph hash compared against the recorded one.
type ReplayReport struct {
	Token        string
	Events       int
	RecordedHash string
	ComputedHash string
	Match        bool
}

// Replay feeds a story's event log into the given fresh timeline and
// audits the final snapshot against the recorded graph hash. The
// timeline must be built from the same world definition the story was
// generated with (the caller checks the world hash).
func (s *Store) Replay(
	ctx context.Context,
	token string,
	tl *knowledge.Timeline,
	entity func(string) (*world.Entity, bool),
	action func(string) (knowledge.Action, bool),
) (*ReplayReport, error) {
	story, err := s.ReadStory(ctx, token)
	if err != nil {
		return nil, err
	}

	events, err := s.ReadEvents(ctx, token)
	if err != nil {
		return nil, err
	}

	for _, rec := range events {
		clause, err := DecodeClause(rec, entity, action)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", token, err)
		}
		tl.Update(clause)
	}

	computed, err := export.GraphHash(tl.Current())
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", token, err)
	}

	return &ReplayReport{
		Token:        token,
		Events:       len(events),
		RecordedHash: story.GraphHash,
		ComputedHash: computed,
		Match:        story.GraphHash == computed,
	}, nil
}
