package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// StoryRecord is one row of the stories table.
type StoryRecord struct {
	Token     string
	WorldHash string
	GraphHash string
	CreatedAt string
}

// ErrStoryNotFound is returned when a story token is unknown.
var ErrStoryNotFound = errors.New("story not found")

// ReadStory fetches a story's metadata.
func (s *Store) ReadStory(ctx context.Context, token string) (StoryRecord, error) {
	var rec StoryRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT token, world_hash, graph_hash, created_at
		FROM stories WHERE token = ?
	`, token).Scan(&rec.Token, &rec.WorldHash, &rec.GraphHash, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("read story %s: %w", token, ErrStoryNotFound)
	}
	if err != nil {
		return rec, fmt.Errorf("read story %s: %w", token, err)
	}
	return rec, nil
}

// ListStories returns every story, oldest first.
func (s *Store) ListStories(ctx context.Context) ([]StoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, world_hash, graph_hash, created_at
		FROM stories ORDER BY created_at, token
	`)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var out []StoryRecord
	for rows.Next() {
		var rec StoryRecord
		if err := rows.Scan(&rec.Token, &rec.WorldHash, &rec.GraphHash, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("list stories: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return out, nil
}

// ReadEvents returns a story's event records ordered by sequence.
func (s *Store) ReadEvents(ctx context.Context, token string) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, truth, actor, action, args
		FROM events WHERE story_token = ?
		ORDER BY seq
	`, token)
	if err != nil {
		return nil, fmt.Errorf("read events for %s: %w", token, err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var rec EventRecord
		var argsJSON string
		if err := rows.Scan(&rec.Seq, &rec.Truth, &rec.Actor, &rec.Action, &argsJSON); err != nil {
			return nil, fmt.Errorf("read events for %s: %w", token, err)
		}
		rec.Args, err = unmarshalArgs(argsJSON)
		if err != nil {
			return nil, fmt.Errorf("read events for %s: %w", token, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events for %s: %w", token, err)
	}
	return out, nil
}
