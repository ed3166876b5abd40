package completeness

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// ReportPath returns the path the gate writes its implementation report to:
// {repo_root}/docs/reports/active/{issue_number}-implementation-report.md.
func ReportPath(repoRoot string, issueNumber int) string {
	return filepath.Join(repoRoot, "docs", "reports", "active", fmt.Sprintf("%d-implementation-report.md", issueNumber))
}

// WriteReport renders and writes the implementation report. Failures here
// are the caller's to log and swallow — report generation never blocks the
// gate's routing verdict, so this function's error return exists only so
// the caller can log it, not so it can change behavior.
func WriteReport(path string, issueNumber int, result workflowstate.CompletenessResult, requirements []workflowstate.LLDRequirement, analyzedFiles []string, generatedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	return os.WriteFile(path, []byte(renderReport(issueNumber, result, requirements, analyzedFiles, generatedAt)), 0o644)
}

func renderReport(issueNumber int, result workflowstate.CompletenessResult, requirements []workflowstate.LLDRequirement, analyzedFiles []string, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Implementation Report: Issue #%d\n\n", issueNumber)
	fmt.Fprintf(&b, "- Generated: %s\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Verdict: %s\n\n", result.Verdict)

	errCount, warnCount := 0, 0
	for _, issue := range result.Issues {
		if issue.Severity == workflowstate.SeverityError {
			errCount++
		} else {
			warnCount++
		}
	}
	fmt.Fprintf(&b, "## Completeness Summary\n\n")
	fmt.Fprintf(&b, "- Errors: %d\n", errCount)
	fmt.Fprintf(&b, "- Warnings: %d\n", warnCount)
	fmt.Fprintf(&b, "- AST analysis time: %dms\n\n", result.ASTAnalysisMs)

	fmt.Fprintf(&b, "## Issues\n\n")
	if len(result.Issues) == 0 {
		b.WriteString("No issues detected.\n\n")
	} else {
		b.WriteString("| Category | File | Line | Severity | Description |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, issue := range result.Issues {
			fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n", issue.Category, issue.FilePath, issue.LineNumber, issue.Severity, issue.Description)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Requirement Verification\n\n")
	if len(requirements) == 0 {
		b.WriteString("No numbered requirements were found in the LLD.\n\n")
	} else {
		b.WriteString("| Requirement | Status |\n")
		b.WriteString("|---|---|\n")
		for _, req := range requirements {
			fmt.Fprintf(&b, "| %s. %s | PENDING |\n", req.ID, req.Text)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Analyzed Files\n\n")
	for _, f := range analyzedFiles {
		fmt.Fprintf(&b, "- %s\n", f)
	}

	return b.String()
}

var auditFilePattern = regexp.MustCompile(`^(\d+)-`)

// NextAuditIndex scans auditDir for existing zero-padded "NN-name.ext"
// files and returns the next free index. It returns 1 if the directory
// does not yet exist or contains no matching files: the index advances by
// an explicit, deterministic scan rather than an in-memory counter that
// would not survive a resumed workflow.
func NextAuditIndex(auditDir string) (int, error) {
	entries, err := os.ReadDir(auditDir)
	if os.IsNotExist(err) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading audit directory: %w", err)
	}

	max := 0
	for _, entry := range entries {
		m := auditFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1, nil
}

// AuditFileName builds a zero-padded audit artifact name, e.g.
// "03-scaffold-notes.md".
func AuditFileName(index int, name, ext string) string {
	return fmt.Sprintf("%02d-%s.%s", index, name, strings.TrimPrefix(ext, "."))
}

// sortIssues orders issues for stable, deterministic report output
// (file path, line number, category, then description), since map
// iteration elsewhere in the gate is not ordered.
func sortIssues(issues []workflowstate.CompletenessIssue) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].FilePath != issues[j].FilePath {
			return issues[i].FilePath < issues[j].FilePath
		}
		if issues[i].LineNumber != issues[j].LineNumber {
			return issues[i].LineNumber < issues[j].LineNumber
		}
		if issues[i].Category != issues[j].Category {
			return issues[i].Category < issues[j].Category
		}
		return issues[i].Description < issues[j].Description
	})
}
