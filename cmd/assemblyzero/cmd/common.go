package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/graph/emit"
	"github.com/martymcenroe/assemblyzero/graph/model"
	"github.com/martymcenroe/assemblyzero/graph/model/anthropic"
	"github.com/martymcenroe/assemblyzero/graph/model/google"
	"github.com/martymcenroe/assemblyzero/graph/model/openai"
	"github.com/martymcenroe/assemblyzero/internal/collaborators"
	"github.com/martymcenroe/assemblyzero/internal/config"
	"github.com/martymcenroe/assemblyzero/internal/location"
	"github.com/martymcenroe/assemblyzero/internal/workflow"
)

// newChatModel constructs the model.ChatModel backing the provider flag.
// Each provider package exposes the same NewChatModel(apiKey, modelName)
// constructor shape; the CLI only picks which one to call and which
// environment variable to read the key from.
func newChatModel(provider, modelName string) (model.ChatModel, error) {
	switch provider {
	case "anthropic":
		return anthropic.NewChatModel(os.Getenv("ANTHROPIC_API_KEY"), modelName), nil
	case "openai":
		return openai.NewChatModel(os.Getenv("OPENAI_API_KEY"), modelName), nil
	case "google":
		return google.NewChatModel(os.Getenv("GOOGLE_API_KEY"), modelName), nil
	default:
		return nil, fmt.Errorf("unknown --model-provider %q (want anthropic, openai, or google)", provider)
	}
}

// newCollaborators wires one LLMCollaborator per LLM-backed node role (so
// cost attribution in the tracker is per-role) and a single ExecTestRunner
// scoped to the repository root, which must already be resolved before
// any node that depends on it can run.
func newCollaborators(provider, modelName, repoRoot string, hasE2E bool, tracker *graph.CostTracker) (workflow.Collaborators, error) {
	chatModel, err := newChatModel(provider, modelName)
	if err != nil {
		return workflow.Collaborators{}, err
	}

	testPlan := collaborators.NewLLMCollaborator(chatModel, modelName, workflow.NodeReviewTestPlan, tracker)
	scaffold := collaborators.NewLLMCollaborator(chatModel, modelName, workflow.NodeScaffoldTests, tracker)
	implement := collaborators.NewLLMCollaborator(chatModel, modelName, workflow.NodeImplementCode, tracker)
	runner := collaborators.NewGoTestRunner(repoRoot)

	return workflow.Collaborators{
		TestPlanReviewer: testPlan,
		TestScaffolder:   scaffold,
		TestRunner:       runner,
		CodeImplementer:  implement,
		HasE2E:           hasE2E,
	}, nil
}

// loadConfigDefaults reads {repoRoot}/.agentos/config.yaml, logging and
// ignoring a parse failure rather than failing the run: the file only
// ever supplies fallbacks for flags the caller left at their zero value.
func loadConfigDefaults(c *cobra.Command, repoRoot string) config.Defaults {
	defaults, err := config.Load(repoRoot)
	if err != nil {
		fmt.Fprintf(c.ErrOrStderr(), "warning: ignoring .agentos/config.yaml: %v\n", err)
		return config.Defaults{}
	}
	return defaults
}

// applyConfigDefaults fills run flags from defaults for any flag the
// caller did not pass explicitly on the command line.
func applyConfigDefaults(c *cobra.Command, repoRoot string) {
	defaults := loadConfigDefaults(c, repoRoot)

	flags := c.Flags()
	if !flags.Changed("model-provider") && defaults.ModelProvider != "" {
		runModelProvider = defaults.ModelProvider
	}
	if !flags.Changed("model") && defaults.Model != "" {
		runModelName = defaults.Model
	}
	if !flags.Changed("max-iterations") && defaults.MaxIterations != 0 {
		runMaxIterations = defaults.MaxIterations
	}
	if !flags.Changed("skip-docs") && defaults.SkipDocs {
		runSkipDocs = defaults.SkipDocs
	}
	if !flags.Changed("has-e2e") && defaults.HasE2E {
		runHasE2E = defaults.HasE2E
	}
}

// applyResumeConfigDefaults mirrors applyConfigDefaults for the resume
// command's independent flag variables.
func applyResumeConfigDefaults(c *cobra.Command, repoRoot string) {
	defaults := loadConfigDefaults(c, repoRoot)

	flags := c.Flags()
	if !flags.Changed("model-provider") && defaults.ModelProvider != "" {
		resumeModelProvider = defaults.ModelProvider
	}
	if !flags.Changed("model") && defaults.Model != "" {
		resumeModelName = defaults.Model
	}
	if !flags.Changed("has-e2e") && defaults.HasE2E {
		resumeHasE2E = defaults.HasE2E
	}
}

// newRunner resolves the checkpoint location and returns a Runner bound to
// it, or location.ErrUnresolvable (mapped to exit code 2 by Execute).
func newRunner(ctx context.Context) (*workflow.Runner, string, error) {
	resolver := location.NewResolver()
	checkpointPath, err := resolver.ResolveCheckpointPath(ctx)
	if err != nil {
		return nil, "", err
	}

	logEmitter := emit.NewLogEmitter(os.Stderr, false)
	runner, err := workflow.NewRunner(checkpointPath, logEmitter)
	if err != nil {
		return nil, checkpointPath, fmt.Errorf("opening checkpoint store at %s: %w", checkpointPath, err)
	}
	return runner, checkpointPath, nil
}
