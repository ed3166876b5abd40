package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Enumerate known workflow ids with their most recent node",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	runner, _, err := newRunner(ctx)
	if err != nil {
		return err
	}

	runs, err := runner.List(ctx)
	if err != nil {
		return fmt.Errorf("listing workflows: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(c.OutOrStdout(), "no workflows recorded")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(c.OutOrStdout(), "%s\t%s\n", run.WorkflowID, run.LastNode)
	}
	return nil
}
