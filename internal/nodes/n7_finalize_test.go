package nodes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

func TestFinalize_NoAuditDirIsANoop(t *testing.T) {
	n := NewFinalize()

	result := n.Run(context.Background(), workflowstate.State{})

	if result.Delta.ErrorMessage != "" {
		t.Fatalf("unexpected error_message: %q", result.Delta.ErrorMessage)
	}
}

func TestFinalize_WritesSummaryToAuditDir(t *testing.T) {
	dir := t.TempDir()
	n := &Finalize{Now: fixedClock(time.Unix(0, 0))}

	n.Run(context.Background(), workflowstate.State{
		AuditDir:            dir,
		IssueNumber:         7,
		CompletenessVerdict: workflowstate.VerdictPass,
		ImplementationFiles: []string{"a.go"},
		TestFiles:           []string{"a_test.go"},
		IterationCount:      2,
	})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading audit dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one audit file, got %d", len(entries))
	}

	contents, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("reading audit file: %v", err)
	}
	if len(contents) == 0 {
		t.Fatal("expected non-empty finalize summary")
	}
}
