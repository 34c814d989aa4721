package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fabula/internal/compiler"
	"fabula/internal/export"
	"fabula/internal/harness"
	"fabula/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// TokenGenerator allows overriding the story token generator
	// (for testing). If nil, defaults to UUIDv7Generator.
	TokenGenerator store.TokenGenerator
}

// RunResult summarizes one executed scenario.
type RunResult struct {
	Scenario   string   `json:"scenario"`
	StoryToken string   `json:"story_token,omitempty"`
	Events     int      `json:"events"`
	Pass       bool     `json:"pass"`
	Failures   []string `json:"failures,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a story scenario",
		Long: `Run a YAML story scenario against a fresh timeline.

The scenario names a world directory, a script of event clauses, and
expectations over the final snapshot. With --db the executed story is
persisted to SQLite for later replay audits.

Exit codes:
  0 - All expectations held
  1 - One or more expectations failed
  2 - Command error (bad scenario, unknown entity, database error)

Examples:
  fabula run ./scenarios/two_rooms.yaml
  fabula run --db ./fabula.db ./scenarios/two_rooms.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (optional)")

	return cmd
}

func runScenario(opts *RunOptions, scenarioPath string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenario(scenarioPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	runRes := RunResult{
		Scenario: result.ScenarioName,
		Events:   len(result.Trace),
		Pass:     result.Pass(),
		Failures: result.Errors,
	}

	if opts.Database != "" {
		token, err := persistStory(cmd.Context(), opts, scenario, result)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to persist story", err)
		}
		runRes.StoryToken = token
		slog.Info("story persisted", "token", token, "events", runRes.Events)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(runRes); err != nil {
			return err
		}
	} else {
		printRunResult(formatter, runRes, result)
	}

	if !runRes.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("%d expectation(s) failed", len(runRes.Failures)))
	}
	return nil
}

func printRunResult(formatter *OutputFormatter, runRes RunResult, result *harness.Result) {
	if runRes.Pass {
		fmt.Fprintf(formatter.Writer, "✓ %s: %d event(s)\n", runRes.Scenario, runRes.Events)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s: %d event(s), %d failure(s)\n",
			runRes.Scenario, runRes.Events, len(runRes.Failures))
		for _, f := range runRes.Failures {
			fmt.Fprintf(formatter.Writer, "  %s\n", f)
		}
	}
	if runRes.StoryToken != "" {
		fmt.Fprintf(formatter.Writer, "  story: %s\n", runRes.StoryToken)
	}
	if formatter.Verbose {
		for _, ev := range result.Trace {
			fmt.Fprintf(formatter.Writer, "  [%d] truth=%t %s %s %v\n",
				ev.Seq, ev.Truth, ev.Actor, ev.Action, ev.Args)
		}
	}
}

// persistStory writes the executed story and its final graph hash to
// the SQLite log. Writes are idempotent, so re-running a scenario
// with a fixed token generator leaves the log unchanged.
func persistStory(ctx context.Context, opts *RunOptions, scenario *harness.Scenario, result *harness.Result) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	spec, err := compiler.LoadWorldDir(scenario.World)
	if err != nil {
		return "", err
	}
	worldHash, err := spec.Hash()
	if err != nil {
		return "", err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	tokenGen := opts.TokenGenerator
	if tokenGen == nil {
		tokenGen = store.UUIDv7Generator{}
	}
	token := tokenGen.Generate()

	if err := st.CreateStory(ctx, token, worldHash); err != nil {
		return "", err
	}
	for _, ev := range result.Trace {
		rec := store.EventRecord{
			Seq:    ev.Seq,
			Truth:  ev.Truth,
			Actor:  ev.Actor,
			Action: ev.Action,
			Args:   ev.Args,
		}
		if err := st.WriteEvent(ctx, token, rec); err != nil {
			return "", err
		}
	}

	graphHash, err := export.GraphHash(result.World.Timeline.Current())
	if err != nil {
		return "", err
	}
	if err := st.FinalizeStory(ctx, token, graphHash); err != nil {
		return "", err
	}

	return token, nil
}
