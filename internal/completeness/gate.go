// Package completeness implements the two-layer completeness gate: a
// deterministic AST pass over generated source (Layer 1) and preparation of
// materials for an externally invoked semantic reviewer (Layer 2). The gate
// never performs the semantic review itself — only the orchestrator that
// owns budget and timeout does that.
package completeness

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/martymcenroe/assemblyzero/internal/lld"
	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// DefaultMaxFileSize is the file-size guard default: files larger than this
// are skipped with a logged warning rather than parsed.
const DefaultMaxFileSize = 1 << 20 // 1 MiB

// Warner receives a human-readable warning when the gate skips a file or
// recovers from an internal analysis crash. Nodes wire this to the
// configured emit.Emitter; tests may pass nil to discard warnings.
type Warner func(msg string)

// Gate runs Layer 1 syntactic analysis and Layer 2 materials preparation.
type Gate struct {
	MaxFileSizeBytes int64
	Warn             Warner
}

// NewGate returns a Gate configured with the default file-size guard.
func NewGate() *Gate {
	return &Gate{MaxFileSizeBytes: DefaultMaxFileSize}
}

func (g *Gate) warn(format string, args ...interface{}) {
	if g.Warn != nil {
		g.Warn(fmt.Sprintf(format, args...))
	}
}

// AnalyzeFiles runs the five Layer-1 detectors across every implementation
// and test file given, aggregates the verdict, and fails open: a crash
// inside analysis itself (as opposed to a detected issue) is recovered and
// reported as a WARN verdict with no issues. Detected issues are never
// swallowed; only internal exceptions are.
func (g *Gate) AnalyzeFiles(paths []string) (result workflowstate.CompletenessResult) {
	start := time.Now()
	defer func() {
		result.ASTAnalysisMs = time.Since(start).Milliseconds()
		if r := recover(); r != nil {
			g.warn("completeness gate Layer 1 analysis panicked, failing open: %v", r)
			result = workflowstate.CompletenessResult{
				Verdict:       workflowstate.VerdictWarn,
				Issues:        nil,
				ASTAnalysisMs: time.Since(start).Milliseconds(),
			}
		}
	}()

	maxSize := g.MaxFileSizeBytes
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	fset := token.NewFileSet()
	files := make(map[string]*ast.File)

	for _, path := range paths {
		if !strings.HasSuffix(path, ".go") {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			g.warn("completeness gate: skipping unreadable file %s: %v", path, err)
			continue
		}
		if info.Size() > maxSize {
			g.warn("completeness gate: skipping %s (%d bytes exceeds %d byte limit)", path, info.Size(), maxSize)
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			g.warn("completeness gate: skipping unparseable file %s: %v", path, err)
			continue
		}
		files[path] = file
	}

	var issues []workflowstate.CompletenessIssue
	for path, file := range files {
		issues = append(issues, detectEmptyBranch(fset, file, path)...)
		issues = append(issues, detectDocstringOnly(fset, file, path)...)
		issues = append(issues, detectTrivialAssertion(fset, file, path)...)
		issues = append(issues, detectUnusedImport(fset, file, path)...)
	}
	issues = append(issues, detectDeadCLIFlags(fset, files)...)
	sortIssues(issues)

	return workflowstate.CompletenessResult{
		Verdict: aggregateVerdict(issues),
		Issues:  issues,
	}
}

// aggregateVerdict implements the verdict rule: BLOCK if any issue is
// ERROR severity, WARN if only WARNING issues exist, PASS otherwise.
func aggregateVerdict(issues []workflowstate.CompletenessIssue) workflowstate.Verdict {
	sawWarning := false
	for _, issue := range issues {
		if issue.Severity == workflowstate.SeverityError {
			return workflowstate.VerdictBlock
		}
		sawWarning = true
	}
	if sawWarning {
		return workflowstate.VerdictWarn
	}
	return workflowstate.VerdictPass
}

// sourceSuffixes lists the file extensions Layer 2 treats as source when
// collecting code snippets for review materials.
var sourceSuffixes = []string{".go", ".py", ".js", ".ts", ".rb", ".java"}

// PrepareReviewMaterials assembles the Layer 2 payload: the LLD's numbered
// requirements plus the source of every implementation file with a
// recognized source suffix. It runs only when the caller has already
// confirmed Layer 1's verdict is not BLOCK.
func PrepareReviewMaterials(lldPath string, implementationFiles []string, issueNumber int) (workflowstate.ReviewMaterials, error) {
	doc, err := lld.Load(lldPath)
	if err != nil {
		return workflowstate.ReviewMaterials{}, fmt.Errorf("loading LLD for review materials: %w", err)
	}

	snippets := make(map[string]string)
	for _, path := range implementationFiles {
		if !hasSourceSuffix(path) {
			continue
		}
		contents, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		snippets[path] = string(contents)
	}

	return workflowstate.ReviewMaterials{
		LLDRequirements: doc.Requirements,
		CodeSnippets:    snippets,
		IssueNumber:     issueNumber,
	}, nil
}

func hasSourceSuffix(path string) bool {
	ext := filepath.Ext(path)
	for _, suffix := range sourceSuffixes {
		if ext == suffix {
			return true
		}
	}
	return false
}
