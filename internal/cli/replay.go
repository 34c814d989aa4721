package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fabula/internal/actions"
	"fabula/internal/compiler"
	"fabula/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database   string
	StoryToken string // optional - specific story only
}

// ReplayStoryResult holds the replay audit for a single story.
type ReplayStoryResult struct {
	StoryToken    string `json:"story_token"`
	Events        int    `json:"events"`
	RecordedHash  string `json:"recorded_hash"`
	ComputedHash  string `json:"computed_hash"`
	Deterministic bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay audit.
type ReplayResult struct {
	Stories          []ReplayStoryResult `json:"stories"`
	TotalStories     int                 `json:"total_stories"`
	AllDeterministic bool                `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <world-dir>",
		Short: "Replay persisted stories and verify determinism",
		Long: `Replay persisted story logs against a fresh timeline.

Each story's event clauses are re-applied in order to a fresh timeline
built from the world definition, and the recomputed snapshot graph
hash is compared against the hash recorded when the story was run.

Exit codes:
  0 - All stories replay to their recorded hash
  1 - Determinism audit failed (hash mismatch or world changed)
  2 - Command error (database not found, etc.)

Examples:
  fabula replay --db ./fabula.db ./worlds/house
  fabula replay --db ./fabula.db --story 0192a3b4 ./worlds/house`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.StoryToken, "story", "", "replay specific story only")

	return cmd
}

func runReplay(opts *ReplayOptions, worldDir string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	spec, err := compiler.LoadWorldDir(worldDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load world", err)
	}
	worldHash, err := spec.Hash()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash world", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	tokens, err := storyTokens(ctx, st, opts.StoryToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list stories", err)
	}

	if len(tokens) == 0 {
		if formatter.Format == "json" {
			return formatter.Success(ReplayResult{
				Stories:          []ReplayStoryResult{},
				AllDeterministic: true,
			})
		}
		fmt.Fprintln(formatter.Writer, "No stories found in database.")
		return nil
	}

	result := ReplayResult{
		Stories:          make([]ReplayStoryResult, 0, len(tokens)),
		TotalStories:     len(tokens),
		AllDeterministic: true,
	}

	for _, token := range tokens {
		story, err := st.ReadStory(ctx, token)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read story %s", token), err)
		}
		if story.WorldHash != worldHash {
			return NewExitError(ExitFailure, fmt.Sprintf(
				"story %s was generated against world %s, not %s", token, story.WorldHash, worldHash))
		}

		// Each story replays into its own fresh timeline.
		w, err := actions.BuildWorld(spec)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to build world", err)
		}

		report, err := st.Replay(ctx, token, w.Timeline, w.Entity, w.Actions.Get)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay story %s", token), err)
		}

		formatter.VerboseLog("replayed %s: %d event(s), match=%t", token, report.Events, report.Match)

		result.Stories = append(result.Stories, ReplayStoryResult{
			StoryToken:    report.Token,
			Events:        report.Events,
			RecordedHash:  report.RecordedHash,
			ComputedHash:  report.ComputedHash,
			Deterministic: report.Match,
		})
		if !report.Match {
			result.AllDeterministic = false
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printReplayResult(formatter, result)
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism audit failed")
	}
	return nil
}

func storyTokens(ctx context.Context, st *store.Store, only string) ([]string, error) {
	if only != "" {
		return []string{only}, nil
	}
	stories, err := st.ListStories(ctx)
	if err != nil {
		return nil, err
	}
	tokens := make([]string, len(stories))
	for i, s := range stories {
		tokens[i] = s.Token
	}
	return tokens, nil
}

func printReplayResult(formatter *OutputFormatter, result ReplayResult) {
	for _, s := range result.Stories {
		mark := "✓"
		if !s.Deterministic {
			mark = "✗"
		}
		fmt.Fprintf(formatter.Writer, "%s %s: %d event(s)\n", mark, s.StoryToken, s.Events)
		if !s.Deterministic {
			fmt.Fprintf(formatter.Writer, "  recorded: %s\n", s.RecordedHash)
			fmt.Fprintf(formatter.Writer, "  computed: %s\n", s.ComputedHash)
		}
	}
	if result.AllDeterministic {
		fmt.Fprintf(formatter.Writer, "All %d story(ies) deterministic.\n", result.TotalStories)
	}
}
