package collaborators

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GHIssueFiler files an issue with the gh CLI and returns the created
// issue's URL. Invoking it is entirely outside the workflow core — the
// core only ever consumes the IssueFiler interface.
type GHIssueFiler struct {
	Repo string // "owner/repo", passed to gh's --repo flag when non-empty.
}

// FileIssue implements IssueFiler.
func (f *GHIssueFiler) FileIssue(ctx context.Context, draft string) (string, error) {
	title, body := splitDraft(draft)

	args := []string{"issue", "create", "--title", title, "--body", body}
	if f.Repo != "" {
		args = append(args, "--repo", f.Repo)
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("gh issue create: %w: %s", err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

// splitDraft separates a draft's first line (the title) from the rest
// (the body). A draft with no newline is treated as a title-only issue.
func splitDraft(draft string) (title, body string) {
	parts := strings.SplitN(draft, "\n", 2)
	title = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		body = strings.TrimSpace(parts[1])
	}
	return title, body
}
