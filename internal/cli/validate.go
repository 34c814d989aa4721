package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fabula/internal/compiler"
)

// ValidationResult holds the outcome of validating a world directory.
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	WorldHash string   `json:"world_hash,omitempty"`
	Entities  int      `json:"entities"`
	Exclusive []string `json:"exclusive,omitempty"`
	Rules     []string `json:"rules,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <world-dir>",
		Short: "Validate a world definition",
		Long: `Validate the CUE world definition in a directory.

Compiles the entity roster, exclusive relations and rule list, and
reports the canonical world hash on success.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, worldDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	spec, err := compiler.LoadWorldDir(worldDir)
	if err != nil {
		var cerr *compiler.CompileError
		if errors.As(err, &cerr) {
			result := ValidationResult{
				Valid:  false,
				Errors: []string{cerr.Error()},
			}
			if formatter.Format == "json" {
				_ = formatter.Success(result)
			} else {
				fmt.Fprintln(formatter.Writer, "✗ World invalid")
				fmt.Fprintf(formatter.Writer, "  %s\n", cerr.Error())
			}
			return NewExitError(ExitFailure, "world validation failed")
		}
		return WrapExitError(ExitCommandError, "failed to load world", err)
	}

	hash, err := spec.Hash()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash world", err)
	}

	formatter.VerboseLog("compiled %d entities from %s", len(spec.Entities), worldDir)

	result := ValidationResult{
		Valid:     true,
		WorldHash: hash,
		Entities:  len(spec.Entities),
		Exclusive: spec.Exclusive,
		Rules:     spec.Rules,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ World valid")
	fmt.Fprintf(formatter.Writer, "  entities:  %d\n", result.Entities)
	fmt.Fprintf(formatter.Writer, "  exclusive: %v\n", result.Exclusive)
	fmt.Fprintf(formatter.Writer, "  rules:     %v\n", result.Rules)
	fmt.Fprintf(formatter.Writer, "  hash:      %s\n", result.WorldHash)
	return nil
}
