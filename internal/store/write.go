package store

import (
	"context"
	"fmt"
)

// CreateStory registers a story and the hash of the world definition
// it runs against. Idempotent: re-creating an existing token is a
// silent no-op.
func (s *Store) CreateStory(ctx context.Context, token, worldHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stories (token, world_hash)
		VALUES (?, ?)
		ON CONFLICT(token) DO NOTHING
	`, token, worldHash)
	if err != nil {
		return fmt.Errorf("create story %s: %w", token, err)
	}
	return nil
}

// WriteEvent appends one event record to a story's log. Idempotent on
// (story, seq): a duplicate write is silently ignored.
func (s *Store) WriteEvent(ctx context.Context, token string, rec EventRecord) error {
	argsJSON, err := marshalArgs(rec.Args)
	if err != nil {
		return fmt.Errorf("write event %d: %w", rec.Seq, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (story_token, seq, truth, actor, action, args)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(story_token, seq) DO NOTHING
	`, token, rec.Seq, rec.Truth, rec.Actor, rec.Action, argsJSON)
	if err != nil {
		return fmt.Errorf("write event %d: %w", rec.Seq, err)
	}
	return nil
}

// FinalizeStory records the graph hash of the story's final snapshot.
// Replay recomputes this hash to audit determinism.
func (s *Store) FinalizeStory(ctx context.Context, token, graphHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE stories SET graph_hash = ? WHERE token = ?
	`, graphHash, token)
	if err != nil {
		return fmt.Errorf("finalize story %s: %w", token, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finalize story %s: %w", token, err)
	}
	if n == 0 {
		return fmt.Errorf("finalize story %s: not found", token)
	}
	return nil
}
