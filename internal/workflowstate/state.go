// Package workflowstate declares the typed record threaded through every
// node of the issue workflow graph, and the reducer that merges a node's
// partial update back into accumulated state.
package workflowstate

// CompletenessCategory tags the kind of issue a completeness-gate detector found.
type CompletenessCategory string

const (
	CategoryDeadCLIFlag     CompletenessCategory = "DEAD_CLI_FLAG"
	CategoryEmptyBranch     CompletenessCategory = "EMPTY_BRANCH"
	CategoryDocstringOnly   CompletenessCategory = "DOCSTRING_ONLY"
	CategoryTrivialAssertion CompletenessCategory = "TRIVIAL_ASSERTION"
	CategoryUnusedImport    CompletenessCategory = "UNUSED_IMPORT"
)

// Severity is the severity of a CompletenessIssue.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Verdict is the outcome of the completeness gate's layer-1 analysis.
type Verdict string

const (
	VerdictPass  Verdict = "PASS"
	VerdictWarn  Verdict = "WARN"
	VerdictBlock Verdict = "BLOCK"
)

// TestPlanStatus is set by N1 after consulting the test-plan reviewer.
type TestPlanStatus string

const (
	TestPlanApproved TestPlanStatus = "APPROVED"
	TestPlanBlocked  TestPlanStatus = "BLOCKED"
)

// CompletenessIssue is a single finding from a completeness-gate detector.
type CompletenessIssue struct {
	Category    CompletenessCategory `json:"category"`
	FilePath    string                `json:"file_path"`
	LineNumber  int                   `json:"line_number"`
	Description string                `json:"description"`
	Severity    Severity              `json:"severity"`
}

// CompletenessResult is the full outcome of running the completeness gate.
type CompletenessResult struct {
	Verdict       Verdict             `json:"verdict"`
	Issues        []CompletenessIssue `json:"issues"`
	ASTAnalysisMs int64               `json:"ast_analysis_ms"`
	GeminiReviewMs int64              `json:"gemini_review_ms,omitempty"`
}

// LLDRequirement is one numbered item extracted from an LLD's Requirements section.
type LLDRequirement struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ReviewMaterials is the payload the completeness gate's layer 2 prepares for
// the (externally invoked) semantic reviewer. The gate never submits this
// itself; it only assembles it.
type ReviewMaterials struct {
	LLDRequirements []LLDRequirement  `json:"lld_requirements"`
	CodeSnippets    map[string]string `json:"code_snippets"`
	IssueNumber     int               `json:"issue_number"`
}

// State is the single typed record threaded through every node in the
// workflow graph. Nodes read it and return a partial update that the
// reducer (ReduceState) merges back in.
type State struct {
	// Identity and inputs.
	IssueNumber  int    `json:"issue_number"`
	LLDPath      string `json:"lld_path"`
	RepoRoot     string `json:"repo_root"`
	AutoMode     bool   `json:"auto_mode"`
	ScaffoldOnly bool   `json:"scaffold_only"`
	SkipDocs     bool   `json:"skip_docs"`

	// Progress.
	IterationCount             int `json:"iteration_count"`
	MaxIterations              int `json:"max_iterations"`
	CompletenessIterationCount int `json:"completeness_iteration_count"`

	// Work products.
	ImplementationFiles       []string            `json:"implementation_files"`
	TestFiles                 []string            `json:"test_files"`
	AuditDir                  string              `json:"audit_dir"`
	ImplementationReportPath  string              `json:"implementation_report_path"`
	CompletenessVerdict       Verdict             `json:"completeness_verdict"`
	CompletenessIssues        []CompletenessIssue `json:"completeness_issues"`
	ReviewMaterials           *ReviewMaterials    `json:"review_materials,omitempty"`
	TestPlanStatus            TestPlanStatus      `json:"test_plan_status"`

	// Control.
	NextNode           string   `json:"next_node"`
	ErrorMessage       string   `json:"error_message"`
	ValidationAttempts int      `json:"validation_attempts"`

	// MechanicalValidationPassed is the pass/fail signal produced by N2.5 on
	// its most recent run. Unlike NextNode it is not a hint the router is
	// free to ignore elsewhere — N2.5's own edges are the only readers, and
	// N2.5 sets it fresh on every invocation, so a stale value never
	// survives to affect a later routing decision.
	MechanicalValidationPassed bool `json:"mechanical_validation_passed"`

	// LastTestFailures carries the most recent TestRunner failure list
	// (from N3, N5, or N6) forward to N4 as the "prior_failures" argument
	// to CodeImplementer. Supplemental bookkeeping the implementer needs to
	// make a loop-back attempt useful.
	LastTestFailures []string `json:"last_test_failures"`

	// EstimatedCostUSD is additive bookkeeping: the reducer sums it across
	// deltas. No node in internal/nodes sets it. It never participates in
	// routing.
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
}

// isSet reports whether a node returned a non-zero value for a field that
// has no natural "unset" sentinel distinct from its zero value. Per the
// merge rule, only fields the node actually populated should overwrite the
// accumulated state; the reducer relies on each field's zero value meaning
// "the node left this unchanged" except where explicitly noted below.
func isSet(s string) bool { return s != "" }

// ReduceState merges a node's partial-state return (delta) into the
// accumulated state (prev).
//
// For each field, the delta's value replaces prev's if the delta's value is
// non-zero (the node "set" it). List fields are replaced in full, never
// appended — a node that wants to accumulate a list must read prev's list
// itself and return prior-plus-new. Integer progress counters are an
// exception: they are monotonic, so the reducer takes the larger of the two
// values rather than blindly overwriting, which protects invariant 1 even if
// a node forgets to thread the counter through. NextNode and
// MechanicalValidationPassed are always overwritten, and EstimatedCostUSD is
// summed, as noted at each below.
func ReduceState(prev, delta State) State {
	next := prev

	if isSet(delta.LLDPath) {
		next.LLDPath = delta.LLDPath
	}
	if isSet(delta.RepoRoot) {
		next.RepoRoot = delta.RepoRoot
	}
	if delta.IssueNumber != 0 {
		next.IssueNumber = delta.IssueNumber
	}
	// Booleans are inputs fixed at N0 and never flipped by later nodes, so
	// they are carried through untouched rather than merged field-by-field.
	next.AutoMode = prev.AutoMode
	next.ScaffoldOnly = prev.ScaffoldOnly
	next.SkipDocs = prev.SkipDocs

	if delta.IterationCount > next.IterationCount {
		next.IterationCount = delta.IterationCount
	}
	if delta.MaxIterations != 0 {
		next.MaxIterations = delta.MaxIterations
	}
	if delta.CompletenessIterationCount > next.CompletenessIterationCount {
		next.CompletenessIterationCount = delta.CompletenessIterationCount
	}
	if delta.ValidationAttempts > next.ValidationAttempts {
		next.ValidationAttempts = delta.ValidationAttempts
	}

	if delta.ImplementationFiles != nil {
		next.ImplementationFiles = delta.ImplementationFiles
	}
	if delta.TestFiles != nil {
		next.TestFiles = delta.TestFiles
	}
	if isSet(delta.AuditDir) {
		next.AuditDir = delta.AuditDir
	}
	if isSet(delta.ImplementationReportPath) {
		next.ImplementationReportPath = delta.ImplementationReportPath
	}
	if isSet(string(delta.CompletenessVerdict)) {
		next.CompletenessVerdict = delta.CompletenessVerdict
	}
	if delta.CompletenessIssues != nil {
		next.CompletenessIssues = delta.CompletenessIssues
	}
	if delta.ReviewMaterials != nil {
		next.ReviewMaterials = delta.ReviewMaterials
	}
	if isSet(string(delta.TestPlanStatus)) {
		next.TestPlanStatus = delta.TestPlanStatus
	}

	// NextNode is a one-shot hint: a node sets it to influence the very next
	// routing decision. Unlike other fields it is always overwritten by
	// delta, including back to empty, so the next delta that does not set it
	// clears it.
	next.NextNode = delta.NextNode

	// MechanicalValidationPassed has no meaningful "unchanged" zero value of
	// its own; only N2.5 writes it, and it does so every time it runs, so it
	// is always overwritten rather than merged.
	next.MechanicalValidationPassed = delta.MechanicalValidationPassed

	if delta.LastTestFailures != nil {
		next.LastTestFailures = delta.LastTestFailures
	}

	if isSet(delta.ErrorMessage) {
		next.ErrorMessage = delta.ErrorMessage
	}

	if delta.EstimatedCostUSD != 0 {
		next.EstimatedCostUSD += delta.EstimatedCostUSD
	}

	return next
}
