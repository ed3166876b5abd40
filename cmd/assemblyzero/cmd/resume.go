package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martymcenroe/assemblyzero/graph"
)

var (
	resumeWorkflowID     string
	resumeModelProvider  string
	resumeModelName      string
	resumeHasE2E         bool
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a workflow from its last committed checkpoint",
	RunE:  runResume,
}

func init() {
	rootCmd.AddCommand(resumeCmd)

	resumeCmd.Flags().StringVar(&resumeWorkflowID, "workflow-id", "", "workflow id to resume (required)")
	resumeCmd.Flags().StringVar(&resumeModelProvider, "model-provider", "anthropic", "collaborator model provider: anthropic, openai, or google")
	resumeCmd.Flags().StringVar(&resumeModelName, "model", "", "model name passed to the chosen provider")
	resumeCmd.Flags().BoolVar(&resumeHasE2E, "has-e2e", false, "run N6 end-to-end validation after N5 passes")

	_ = resumeCmd.MarkFlagRequired("workflow-id")
}

func runResume(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	runner, checkpointPath, err := newRunner(ctx)
	if err != nil {
		return err
	}

	tracker := graph.NewCostTracker(resumeWorkflowID, "USD")
	repoRoot, err := runner.Resolver.RepoRoot(ctx)
	if err != nil {
		return fmt.Errorf("resolving repository root: %w", err)
	}

	applyResumeConfigDefaults(c, repoRoot)

	collabs, err := newCollaborators(resumeModelProvider, resumeModelName, repoRoot, resumeHasE2E, tracker)
	if err != nil {
		return err
	}

	final, err := runner.Resume(ctx, resumeWorkflowID, collabs)
	if err != nil {
		return err
	}

	if final.ErrorMessage != "" {
		lastNode, _, _, _, _ := runner.Store.GetLatest(ctx, resumeWorkflowID)
		fmt.Fprintf(c.OutOrStdout(), "workflow %s ended with error at %s: %s (checkpoint: %s)\n", resumeWorkflowID, lastNode, final.ErrorMessage, checkpointPath)
		return fmt.Errorf("%s", final.ErrorMessage)
	}

	fmt.Fprintf(c.OutOrStdout(), "workflow %s completed (verdict=%s, iterations=%d)\n", resumeWorkflowID, final.CompletenessVerdict, final.IterationCount)
	return nil
}
