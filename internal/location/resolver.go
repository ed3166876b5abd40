// Package location determines, per process, where the checkpoint store for
// the issue workflow lives.
package location

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// EnvWorkflowDB is the environment variable that overrides repository-root
// resolution when set to a non-empty value.
const EnvWorkflowDB = "AGENTOS_WORKFLOW_DB"

const gitRootTimeout = 5 * time.Second

// ErrUnresolvable is returned when neither AGENTOS_WORKFLOW_DB nor a git
// working tree root can be determined.
var ErrUnresolvable = errors.New("cannot resolve a checkpoint location: set AGENTOS_WORKFLOW_DB or run inside a git repository")

// Resolver picks the checkpoint database path for the current process and
// memoizes the result: resolution stays stable for the life of the
// process and is never held in a package global.
type Resolver struct {
	mu       sync.Mutex
	resolved bool
	path     string
	err      error

	// runGit is overridable in tests to avoid invoking a real subprocess.
	runGit func(ctx context.Context) (string, error)
}

// NewResolver returns a Resolver bound to the real git subprocess.
func NewResolver() *Resolver {
	r := &Resolver{}
	r.runGit = r.gitTopLevel
	return r
}

// ResolveCheckpointPath returns the absolute path to the checkpoint
// database, creating the enclosing directory as a side effect.
//
// Priority:
//  1. AGENTOS_WORKFLOW_DB, expanded and made absolute.
//  2. {git root}/.agentos/issue_workflow.db, writing a .agentos/.gitignore
//     containing "*" if one is not already present.
//  3. ErrUnresolvable.
func (r *Resolver) ResolveCheckpointPath(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		return r.path, r.err
	}
	r.path, r.err = r.resolve(ctx)
	r.resolved = true
	return r.path, r.err
}

func (r *Resolver) resolve(ctx context.Context) (string, error) {
	if envPath := os.Getenv(EnvWorkflowDB); envPath != "" {
		expanded := os.ExpandEnv(envPath)
		if strings.HasPrefix(expanded, "~") {
			home, err := os.UserHomeDir()
			if err == nil {
				expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
			}
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", EnvWorkflowDB, err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return "", fmt.Errorf("creating checkpoint directory: %w", err)
		}
		return abs, nil
	}

	root, err := r.runGit(ctx)
	if err != nil {
		return "", ErrUnresolvable
	}

	agentosDir := filepath.Join(root, ".agentos")
	if err := os.MkdirAll(agentosDir, 0o755); err != nil {
		return "", fmt.Errorf("creating .agentos directory: %w", err)
	}

	gitignorePath := filepath.Join(agentosDir, ".gitignore")
	if _, err := os.Stat(gitignorePath); errors.Is(err, os.ErrNotExist) {
		if writeErr := os.WriteFile(gitignorePath, []byte("*\n"), 0o644); writeErr != nil {
			return "", fmt.Errorf("writing .agentos/.gitignore: %w", writeErr)
		}
	}

	return filepath.Join(agentosDir, "issue_workflow.db"), nil
}

// RepoRoot returns the git working-tree root for the current process. It is
// independent of ResolveCheckpointPath's memoized result and is used by
// nodes (N0) that need the root itself rather than the checkpoint path
// derived from it.
func (r *Resolver) RepoRoot(ctx context.Context) (string, error) {
	return r.runGit(ctx)
}

func (r *Resolver) gitTopLevel(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, gitRootTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not in a git repository or git command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
