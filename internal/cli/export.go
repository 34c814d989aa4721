package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fabula/internal/export"
	"fabula/internal/harness"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Describe bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <scenario.yaml>",
		Short: "Run a scenario and export the final snapshot graph",
		Long: `Run a story scenario and export its final snapshot.

By default emits the canonical graph JSON used for hashing. With
--describe, prints a human-readable listing of every entity's facts
instead.

Examples:
  fabula export ./scenarios/two_rooms.yaml
  fabula export --describe ./scenarios/two_rooms.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Describe, "describe", false, "print entity facts instead of graph JSON")

	return cmd
}

func runExport(opts *ExportOptions, scenarioPath string, cmd *cobra.Command) error {
	scenario, err := harness.LoadScenario(scenarioPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	table := result.World.Timeline.Current()

	if opts.Describe {
		fmt.Fprint(cmd.OutOrStdout(), export.Describe(table))
		return nil
	}

	doc := export.Graph(table)
	data, err := export.MarshalGraph(doc)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to marshal graph", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
