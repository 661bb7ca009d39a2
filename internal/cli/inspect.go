package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type inspectOptions struct {
	buildOptions

	format string
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [root-dir]",
		Short: "Show the resolved build plan without building",
		Long: `Inspect resolves the project layout and prints the build steps that
would run, including the external tools each step invokes and the
artifacts it produces. Nothing is executed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd, resolveRoot(args), opts)
		},
	}

	registerBuildFlags(cmd, &opts.buildOptions)
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table, json, yaml")

	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, root string, opts *inspectOptions) error {
	pipeline, err := newPipeline(ctx, cmd, root, opts.release)
	if err != nil {
		return err
	}

	plan := pipeline.Plan()
	out := cmd.OutOrStdout()

	switch opts.format {
	case "json":
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling plan: %w", err)
		}

		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(plan)
		if err != nil {
			return fmt.Errorf("marshaling plan: %w", err)
		}

		fmt.Fprint(out, string(data))

	case "table":
		mode := "debug"
		if plan.Release {
			mode = "release"
		}

		fmt.Fprintf(out, "root: %s (%s build)\n\n", plan.RootDir, mode)

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tTOOLS\tOUTPUTS")

		for _, step := range plan.Steps {
			tools := strings.Join(step.Tools, ", ")
			if tools == "" {
				tools = "-"
			}

			fmt.Fprintf(w, "%s\t%s\t%s\n", step.Name, tools, strings.Join(step.Outputs, ", "))
		}

		if err := w.Flush(); err != nil {
			return fmt.Errorf("writing table: %w", err)
		}

	default:
		return &ExitError{Code: 2, Err: fmt.Errorf("invalid format %q: must be one of table, json, yaml", opts.format)}
	}

	return nil
}
