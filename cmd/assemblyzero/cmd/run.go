package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/internal/checkpointstore"
	"github.com/martymcenroe/assemblyzero/internal/workflow"
)

var (
	runIssue         int
	runLLD           string
	runAuto          bool
	runScaffoldOnly  bool
	runSkipDocs      bool
	runMaxIterations int
	runModelProvider string
	runModelName     string
	runHasE2E        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a new workflow run for an issue",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runIssue, "issue", 0, "issue number (required)")
	runCmd.Flags().StringVar(&runLLD, "lld", "", "path to the Low-Level Design markdown file (required)")
	runCmd.Flags().BoolVar(&runAuto, "auto", false, "bypass human confirmation gates")
	runCmd.Flags().BoolVar(&runScaffoldOnly, "scaffold-only", false, "terminate after test scaffolding")
	runCmd.Flags().BoolVar(&runSkipDocs, "skip-docs", false, "skip the documentation node")
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", 10, "cap on the N4↔N5 implement/verify loop")
	runCmd.Flags().StringVar(&runModelProvider, "model-provider", "anthropic", "collaborator model provider: anthropic, openai, or google")
	runCmd.Flags().StringVar(&runModelName, "model", "", "model name passed to the chosen provider")
	runCmd.Flags().BoolVar(&runHasE2E, "has-e2e", false, "run N6 end-to-end validation after N5 passes")

	_ = runCmd.MarkFlagRequired("issue")
	_ = runCmd.MarkFlagRequired("lld")
}

func runRun(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	runner, checkpointPath, err := newRunner(ctx)
	if err != nil {
		return err
	}

	tracker := graph.NewCostTracker(checkpointstore.NewWorkflowID(runIssue), "USD")
	repoRoot, err := runner.Resolver.RepoRoot(ctx)
	if err != nil {
		return fmt.Errorf("resolving repository root: %w", err)
	}

	applyConfigDefaults(c, repoRoot)

	collabs, err := newCollaborators(runModelProvider, runModelName, repoRoot, runHasE2E, tracker)
	if err != nil {
		return err
	}

	cfg := workflow.Config{
		IssueNumber:   runIssue,
		LLDPath:       runLLD,
		AutoMode:      runAuto,
		ScaffoldOnly:  runScaffoldOnly,
		SkipDocs:      runSkipDocs,
		MaxIterations: runMaxIterations,
	}

	final, workflowID, err := runner.Run(ctx, cfg, collabs)
	if err != nil {
		fmt.Fprintf(c.OutOrStdout(), "workflow %s failed: %v (checkpoint: %s)\n", workflowID, err, checkpointPath)
		return err
	}

	if final.ErrorMessage != "" {
		lastNode, _, _, _, _ := runner.Store.GetLatest(ctx, workflowID)
		fmt.Fprintf(c.OutOrStdout(), "workflow %s ended with error at %s: %s (checkpoint: %s)\n", workflowID, lastNode, final.ErrorMessage, checkpointPath)
		return fmt.Errorf("%s", final.ErrorMessage)
	}

	fmt.Fprintf(c.OutOrStdout(), "workflow %s completed (verdict=%s, iterations=%d)\n", workflowID, final.CompletenessVerdict, final.IterationCount)
	return nil
}
