package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/workflows"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var source string
	var wait bool

	cmd := &cobra.Command{
		Use:   "submit <description...>",
		Short: "Record an identification through the workflow worker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := submitInput(args, source)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			c, err := client.Dial(client.Options{
				HostPort:  cfg.Temporal.HostPort,
				Namespace: cfg.Temporal.Namespace,
				Logger:    slog.Default(),
			})
			if err != nil {
				return fmt.Errorf("temporal client: %w", err)
			}
			defer c.Close()

			run, err := c.ExecuteWorkflow(cmd.Context(), client.StartWorkflowOptions{
				TaskQueue: cfg.Temporal.TaskQueue,
			}, workflows.IdentificationWorkflow, input)
			if err != nil {
				return fmt.Errorf("start workflow: %w", err)
			}

			if !wait {
				if ctx.json() {
					return writeJSON(cmd, map[string]string{"workflow_id": run.GetID(), "run_id": run.GetRunID()})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Started workflow %s (run %s)\n", run.GetID(), run.GetRunID())
				return nil
			}

			var res workflows.IdentificationResult
			if err := run.Get(cmd.Context(), &res); err != nil {
				return fmt.Errorf("workflow %s: %w", run.GetID(), err)
			}
			return printSubmitResult(cmd, ctx.json(), res)
		},
	}

	cmd.Flags().StringVar(&source, "source", "text", "Input source (text or voice)")
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait for the workflow result")
	return cmd
}

// submitInput builds the workflow input. Uploads go through the HTTP API only.
func submitInput(args []string, source string) (workflows.IdentificationInput, error) {
	src, err := domain.ParseInputSource(source)
	if err != nil {
		return workflows.IdentificationInput{}, err
	}
	if src == domain.SourceUpload {
		return workflows.IdentificationInput{}, fmt.Errorf("source %q is not accepted for typed descriptions", src)
	}
	return workflows.IdentificationInput{Text: strings.Join(args, " "), Source: src}, nil
}

func printSubmitResult(cmd *cobra.Command, asJSON bool, res workflows.IdentificationResult) error {
	if asJSON {
		return writeJSON(cmd, map[string]any{
			"identified":     res.Identified,
			"identification": res.Identification,
		})
	}
	ident := res.Identification
	if !res.Identified || ident == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to identify.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s as %s (%s, score %d)\n", ident.ID, ident.Species, ident.Outcome, ident.Score)
	return nil
}
