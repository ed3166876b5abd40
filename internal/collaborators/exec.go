package collaborators

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// ExecTestRunner runs the target project's test suite as a subprocess and
// classifies the result as all-red, all-green, or a list of failures.
type ExecTestRunner struct {
	// Command and Args run the test suite, e.g. "go" ["test", "./..."].
	// TestFiles passed to RunTests are appended as additional args when
	// non-empty, so the runner can scope execution to the files N2
	// scaffolded or N4 touched.
	Command string
	Args    []string
	Dir     string
}

// NewGoTestRunner returns an ExecTestRunner that invokes `go test ./...`
// inside dir.
func NewGoTestRunner(dir string) *ExecTestRunner {
	return &ExecTestRunner{Command: "go", Args: []string{"test", "./..."}, Dir: dir}
}

// RunTests implements TestRunner.
func (r *ExecTestRunner) RunTests(ctx context.Context, testFiles []string) (TestRunResult, error) {
	args := append([]string{}, r.Args...)
	args = append(args, testFiles...)

	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := stdout.String() + stderr.String()

	if err == nil {
		return TestRunResult{AllGreen: true}, nil
	}

	var exitErr *exec.ExitError
	if !isExitError(err, &exitErr) {
		return TestRunResult{}, err
	}

	failures := parseFailures(output)
	allRed := len(failures) > 0 && strings.Contains(output, "FAIL")
	return TestRunResult{AllRed: allRed, Failures: failures}, nil
}

func isExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

// parseFailures extracts "--- FAIL: TestName" lines from go test output.
func parseFailures(output string) []string {
	var failures []string
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--- FAIL:") {
			failures = append(failures, strings.TrimSpace(strings.TrimPrefix(trimmed, "--- FAIL:")))
		}
	}
	return failures
}
