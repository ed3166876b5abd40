package completeness

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// flagRegistrationMethods names the selector methods that register a named
// CLI flag across the standard flag package, pflag, and cobra's Flags()
// accessor — the three conventions the retrieved corpus uses.
var flagRegistrationMethods = map[string]bool{
	"String": true, "StringP": true, "StringVar": true, "StringVarP": true,
	"Bool": true, "BoolP": true, "BoolVar": true, "BoolVarP": true,
	"Int": true, "IntP": true, "IntVar": true, "IntVarP": true,
}

// detectDeadCLIFlags finds flag registrations whose name never appears as
// any other string literal in the module. This spans every
// parsed file because a flag can be registered in one file and consumed
// (or missed) in another.
func detectDeadCLIFlags(fset *token.FileSet, files map[string]*ast.File) []workflowstate.CompletenessIssue {
	type registration struct {
		name string
		path string
		pos  token.Position
		lit  *ast.BasicLit
	}

	var registrations []registration
	occurrences := make(map[string]int)

	astFiles := make([]*ast.File, 0, len(files))
	pathOf := make(map[*ast.File]string, len(files))
	for path, f := range files {
		astFiles = append(astFiles, f)
		pathOf[f] = path
	}

	insp := inspector.New(astFiles)

	// First pass: count every string-literal occurrence in the module,
	// whatever syntactic position it appears in (call argument, binary
	// comparison, map key, ...). This lets a flag be "used" anywhere, not
	// just passed back into another function call.
	litFilter := []ast.Node{(*ast.BasicLit)(nil)}
	insp.Preorder(litFilter, func(n ast.Node) {
		lit := n.(*ast.BasicLit)
		if lit.Kind != token.STRING {
			return
		}
		name, err := strconv.Unquote(lit.Value)
		if err != nil || name == "" {
			return
		}
		occurrences[name]++
	})

	// Second pass: find flag registrations (the name argument of a
	// flag/pflag/cobra registration method call).
	callFilter := []ast.Node{(*ast.CallExpr)(nil)}
	insp.Preorder(callFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !flagRegistrationMethods[sel.Sel.Name] {
			return
		}
		// The *Var forms take the destination pointer first and the flag
		// name second.
		nameArg := 0
		if strings.Contains(sel.Sel.Name, "Var") {
			nameArg = 1
		}
		if len(call.Args) <= nameArg {
			return
		}
		lit, ok := call.Args[nameArg].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return
		}
		name, err := strconv.Unquote(lit.Value)
		if err != nil || name == "" {
			return
		}
		pos := fset.Position(call.Pos())
		var path string
		for f, p := range pathOf {
			if f.Pos() <= call.Pos() && call.Pos() <= f.End() {
				path = p
				break
			}
		}
		registrations = append(registrations, registration{name: name, path: path, pos: pos, lit: lit})
	})

	var issues []workflowstate.CompletenessIssue
	for _, r := range registrations {
		// occurrences[r.name] counts the registration literal itself plus
		// any other occurrence; a count of exactly 1 means nothing else in
		// the module mentions this flag name.
		if occurrences[r.name] > 1 {
			continue
		}
		issues = append(issues, workflowstate.CompletenessIssue{
			Category:    workflowstate.CategoryDeadCLIFlag,
			FilePath:    r.path,
			LineNumber:  r.pos.Line,
			Description: "flag \"" + r.name + "\" is registered but never referenced elsewhere in the module",
			Severity:    workflowstate.SeverityError,
		})
	}
	return issues
}

// isTrivialStmt reports whether a statement is one of the recognized
// placeholder bodies: a return with no results or only nil results, or an
// empty statement.
func isTrivialStmt(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		for _, result := range s.Results {
			if ident, ok := result.(*ast.Ident); ok && ident.Name == "nil" {
				continue
			}
			return false
		}
		return true
	case *ast.EmptyStmt:
		return true
	}
	return false
}

// detectEmptyBranch flags if/case branches whose body is only a placeholder
// return.
func detectEmptyBranch(fset *token.FileSet, file *ast.File, path string) []workflowstate.CompletenessIssue {
	var issues []workflowstate.CompletenessIssue

	ast.Inspect(file, func(n ast.Node) bool {
		var body *ast.BlockStmt
		switch s := n.(type) {
		case *ast.IfStmt:
			body = s.Body
		case *ast.CaseClause:
			if len(s.Body) == 0 {
				return true
			}
			if len(s.Body) == 1 && isTrivialStmt(s.Body[0]) {
				pos := fset.Position(s.Pos())
				issues = append(issues, workflowstate.CompletenessIssue{
					Category:    workflowstate.CategoryEmptyBranch,
					FilePath:    path,
					LineNumber:  pos.Line,
					Description: "case branch body is only a placeholder return",
					Severity:    workflowstate.SeverityWarning,
				})
			}
			return true
		}
		if body == nil {
			return true
		}
		if len(body.List) == 1 && isTrivialStmt(body.List[0]) {
			pos := fset.Position(body.Pos())
			issues = append(issues, workflowstate.CompletenessIssue{
				Category:    workflowstate.CategoryEmptyBranch,
				FilePath:    path,
				LineNumber:  pos.Line,
				Description: "conditional branch body is only a placeholder return",
				Severity:    workflowstate.SeverityWarning,
			})
		}
		return true
	})

	return issues
}

// isDunderOrTestName reports whether a function name is exempt from the
// docstring-only check: init, generated accessors starting with "_", and
// test/benchmark/example functions (which have their own detector).
func isDunderOrTestName(name string) bool {
	if strings.HasPrefix(name, "_") || name == "init" {
		return true
	}
	for _, prefix := range []string{"Test", "Benchmark", "Example"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// detectDocstringOnly flags user-defined functions with a doc comment
// whose entire body is a placeholder return — documented intent with no
// implementation.
func detectDocstringOnly(fset *token.FileSet, file *ast.File, path string) []workflowstate.CompletenessIssue {
	var issues []workflowstate.CompletenessIssue

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		if isDunderOrTestName(fn.Name.Name) {
			continue
		}
		if fn.Doc == nil || len(fn.Doc.List) == 0 {
			continue
		}
		if len(fn.Body.List) != 1 || !isTrivialStmt(fn.Body.List[0]) {
			continue
		}
		pos := fset.Position(fn.Pos())
		issues = append(issues, workflowstate.CompletenessIssue{
			Category:    workflowstate.CategoryDocstringOnly,
			FilePath:    path,
			LineNumber:  pos.Line,
			Description: "function \"" + fn.Name.Name + "\" has a doc comment but no implementation",
			Severity:    workflowstate.SeverityError,
		})
	}

	return issues
}

// isNonNullnessOnlyCall reports whether call is a testify-style nullness
// check such as assert.NotNil(t, x) or require.Nil(t, x). The stdlib form
// `if x == nil { t.Fatal(...) }` is recognized inside detectTrivialAssertion.
func isNonNullnessOnlyCall(call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	return sel.Sel.Name == "NotNil" || sel.Sel.Name == "Nil"
}

// detectTrivialAssertion flags test functions whose only assertion is a
// nullness check (or a Go equivalent of `assert True`: an always-true
// boolean literal condition) with no further structural assertion.
func detectTrivialAssertion(fset *token.FileSet, file *ast.File, path string) []workflowstate.CompletenessIssue {
	var issues []workflowstate.CompletenessIssue

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil || !strings.HasPrefix(fn.Name.Name, "Test") {
			continue
		}

		var assertionCalls int
		var onlyTrivial = true

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			// `if x == nil { t.Fatal(...) }` is one nullness check; the calls
			// in its body are not counted again.
			if ifs, ok := n.(*ast.IfStmt); ok {
				if bin, ok := ifs.Cond.(*ast.BinaryExpr); ok && bin.Op == token.EQL {
					if id, ok := bin.Y.(*ast.Ident); ok && id.Name == "nil" {
						assertionCalls++
						return false
					}
				}
			}
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			switch sel.Sel.Name {
			case "NotNil", "Nil":
				assertionCalls++
			case "True":
				assertionCalls++
				// assert.True(t, true) is a tautology, not a structural check.
				tautology := false
				if len(call.Args) == 2 {
					id, ok := call.Args[1].(*ast.Ident)
					tautology = ok && id.Name == "true"
				}
				if !tautology {
					onlyTrivial = false
				}
			case "Equal", "False", "Error", "Errorf", "Fatal", "Fatalf", "NoError", "Contains", "Len", "ErrorIs", "ErrorAs":
				assertionCalls++
				onlyTrivial = false
			}
			return true
		})

		if assertionCalls == 1 && onlyTrivial {
			pos := fset.Position(fn.Pos())
			issues = append(issues, workflowstate.CompletenessIssue{
				Category:    workflowstate.CategoryTrivialAssertion,
				FilePath:    path,
				LineNumber:  pos.Line,
				Description: "test \"" + fn.Name.Name + "\" has only a trivial assertion (non-nullness or tautology) with no further structural check",
				Severity:    workflowstate.SeverityWarning,
			})
		}
	}

	return issues
}

// detectUnusedImport flags a symbol imported at top level that is never
// referenced as a selector prefix anywhere in the file's function bodies.
func detectUnusedImport(fset *token.FileSet, file *ast.File, path string) []workflowstate.CompletenessIssue {
	used := make(map[string]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if ident, ok := sel.X.(*ast.Ident); ok {
			used[ident.Name] = true
		}
		return true
	})

	var issues []workflowstate.CompletenessIssue
	for _, imp := range file.Imports {
		name := importedName(imp)
		if name == "_" || name == "." {
			continue
		}
		if !used[name] {
			pos := fset.Position(imp.Pos())
			issues = append(issues, workflowstate.CompletenessIssue{
				Category:    workflowstate.CategoryUnusedImport,
				FilePath:    path,
				LineNumber:  pos.Line,
				Description: "import " + imp.Path.Value + " is never referenced in the file",
				Severity:    workflowstate.SeverityWarning,
			})
		}
	}
	return issues
}

func importedName(imp *ast.ImportSpec) string {
	if imp.Name != nil {
		return imp.Name.Name
	}
	path, err := strconv.Unquote(imp.Path.Value)
	if err != nil {
		return ""
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}
