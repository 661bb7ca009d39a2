package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fleabitdev/synthbuild/internal/logging"
	"github.com/fleabitdev/synthbuild/internal/toolchain"
)

func newDoctorCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the required external tools are installed",
		Long: `Doctor resolves each external program synthbuild shells out to (sass,
tsc, r.js, google-closure-compiler) against PATH, reads its version,
and compares it to the minimum supported version where one applies.

Exits non-zero when a tool is missing or too old.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd.Context(), cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output results as JSON")

	return cmd
}

func runDoctor(ctx context.Context, cmd *cobra.Command, jsonOutput bool) error {
	runner := toolchain.NewExecRunner(logging.FromContext(ctx))
	results := toolchain.Check(ctx, runner, toolchain.Requirements())
	out := cmd.OutOrStdout()

	if jsonOutput {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling results: %w", err)
		}

		fmt.Fprintln(out, string(data))
	} else {
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOOL\tSTATUS\tVERSION\tDETAIL")

		for _, r := range results {
			version := r.Version
			if version == "" {
				version = "-"
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Status, version, r.Detail)
		}

		if err := w.Flush(); err != nil {
			return fmt.Errorf("writing table: %w", err)
		}
	}

	if !toolchain.Healthy(results) {
		return &ExitError{Code: 1, Err: fmt.Errorf("required tools are missing or outdated")}
	}

	return nil
}
