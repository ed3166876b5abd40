package collaborators

import (
	"context"
	"fmt"
	"strings"

	"github.com/martymcenroe/assemblyzero/graph"
	"github.com/martymcenroe/assemblyzero/graph/model"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// LLMCollaborator implements every LLM-backed collaborator interface
// (TestPlanReviewer, TestScaffolder, CodeImplementer, SemanticReviewer) on
// top of a single model.ChatModel, so one Anthropic, OpenAI, or Google
// ChatModel adapter can back any combination of node roles. Each method
// sends a role-specific prompt and parses the expected response shape.
type LLMCollaborator struct {
	Model  model.ChatModel
	Tracker *graph.CostTracker
	NodeID  string

	// ModelName is recorded alongside cost, since ChatModel itself does not
	// expose it; callers set this to match whatever model the underlying
	// adapter was constructed with.
	ModelName string
}

// NewLLMCollaborator wires a ChatModel into all collaborator roles.
func NewLLMCollaborator(chatModel model.ChatModel, modelName, nodeID string, tracker *graph.CostTracker) *LLMCollaborator {
	return &LLMCollaborator{Model: chatModel, Tracker: tracker, NodeID: nodeID, ModelName: modelName}
}

func (c *LLMCollaborator) chat(ctx context.Context, system, user string) (string, error) {
	out, err := c.Model.Chat(ctx, []model.Message{
		{Role: model.RoleSystem, Content: system},
		{Role: model.RoleUser, Content: user},
	}, nil)
	if err != nil {
		return "", err
	}
	if c.Tracker != nil {
		// The ChatModel interface does not surface token counts, so cost
		// tracking here is a rough estimate from text length rather than
		// provider-reported usage. Good enough for the cost-spiral
		// visibility the orchestrator wants, not for billing reconciliation.
		estimatedIn := len(system)+len(user)
		estimatedOut := len(out.Text)
		_ = c.Tracker.RecordLLMCall(c.ModelName, estimatedIn/4, estimatedOut/4, c.NodeID)
	}
	return out.Text, nil
}

const testPlanReviewSystemPrompt = `You review a Low-Level Design document's test plan for completeness.
Respond with exactly one line: "APPROVED" or "BLOCKED: <reason>".`

// ReviewTestPlan implements TestPlanReviewer.
func (c *LLMCollaborator) ReviewTestPlan(ctx context.Context, lldContents string) (TestPlanReview, error) {
	reply, err := c.chat(ctx, testPlanReviewSystemPrompt, lldContents)
	if err != nil {
		return TestPlanReview{}, fmt.Errorf("test plan review: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(strings.ToUpper(reply), "APPROVED") {
		return TestPlanReview{Status: workflowstate.TestPlanApproved, Details: reply}, nil
	}
	return TestPlanReview{Status: workflowstate.TestPlanBlocked, Details: reply}, nil
}

const scaffoldSystemPrompt = `Given a Low-Level Design document, emit one or more failing test file paths,
one per line, that exercise its numbered requirements. Respond with only the
file paths, one per line, no commentary.`

// ScaffoldTests implements TestScaffolder.
func (c *LLMCollaborator) ScaffoldTests(ctx context.Context, lldContents string) ([]string, error) {
	reply, err := c.chat(ctx, scaffoldSystemPrompt, lldContents)
	if err != nil {
		return nil, fmt.Errorf("test scaffolding: %w", err)
	}
	return nonEmptyLines(reply), nil
}

const implementSystemPrompt = `Given a Low-Level Design document, its scaffolded test files, and any
failures from a prior implementation attempt, write the implementation
files needed to make the tests pass. Respond with only the file paths
written, one per line, no commentary.`

// ImplementCode implements CodeImplementer.
func (c *LLMCollaborator) ImplementCode(ctx context.Context, lldContents string, testFiles []string, priorFailures []string) ([]string, error) {
	var b strings.Builder
	b.WriteString(lldContents)
	b.WriteString("\n\nTest files:\n")
	for _, f := range testFiles {
		b.WriteString(f)
		b.WriteString("\n")
	}
	if len(priorFailures) > 0 {
		b.WriteString("\nPrior failures:\n")
		for _, f := range priorFailures {
			b.WriteString(f)
			b.WriteString("\n")
		}
	}
	reply, err := c.chat(ctx, implementSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("code implementation: %w", err)
	}
	return nonEmptyLines(reply), nil
}

const semanticReviewSystemPrompt = `Given numbered LLD requirements and the implementation's source, respond
with one line per requirement: "<id>: SATISFIED" or "<id>: UNSATISFIED <reason>",
followed by a final line "VERDICT: PASS", "VERDICT: WARN", or "VERDICT: BLOCK".`

// ReviewSemantics implements SemanticReviewer.
func (c *LLMCollaborator) ReviewSemantics(ctx context.Context, materials workflowstate.ReviewMaterials) (SemanticReview, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Issue #%d\n\nRequirements:\n", materials.IssueNumber)
	for _, r := range materials.LLDRequirements {
		fmt.Fprintf(&b, "%s. %s\n", r.ID, r.Text)
	}
	b.WriteString("\nSource files:\n")
	for path, src := range materials.CodeSnippets {
		fmt.Fprintf(&b, "--- %s ---\n%s\n", path, src)
	}

	reply, err := c.chat(ctx, semanticReviewSystemPrompt, b.String())
	if err != nil {
		return SemanticReview{}, fmt.Errorf("semantic review: %w", err)
	}

	review := SemanticReview{Verdict: workflowstate.VerdictWarn}
	for _, line := range nonEmptyLines(reply) {
		if strings.HasPrefix(strings.ToUpper(line), "VERDICT:") {
			v := strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
			review.Verdict = workflowstate.Verdict(strings.ToUpper(v))
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		review.Findings = append(review.Findings, SemanticFinding{
			RequirementID: strings.TrimSpace(parts[0]),
			Status:        strings.TrimSpace(parts[1]),
		})
	}
	return review, nil
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
