// Package lld parses Low-Level Design markdown documents, extracting the
// numbered requirements from their "Requirements" section.
package lld

import (
	"os"
	"regexp"
	"strings"

	"github.com/martymcenroe/assemblyzero/internal/workflowstate"
)

// requirementsHeading matches a level-2 heading numbered 3 and titled
// (case-insensitively) "Requirements", with or without the trailing period
// after the number: "## 3. Requirements" or "## 3 Requirements".
var requirementsHeading = regexp.MustCompile(`(?im)^##\s*3\.?\s+Requirements\s*$`)

// nextHeading matches the next numbered level-2 heading, which closes the
// Requirements section.
var nextHeading = regexp.MustCompile(`(?im)^##\s*\d+`)

// numberedItem matches a numbered list item: "1. text" possibly with
// leading whitespace.
var numberedItem = regexp.MustCompile(`(?m)^\s*(\d+)\.\s+(.*)$`)

// Document holds the parsed contents of an LLD file.
type Document struct {
	Path         string
	Contents     string
	Requirements []workflowstate.LLDRequirement
}

// Load reads the LLD markdown file at path and extracts its requirements.
// A document with no "## 3 Requirements" section yields an empty
// Requirements slice rather than an error — this is an explicit boundary
// behavior, not a malformed-document failure.
func Load(path string) (Document, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Path:         path,
		Contents:     string(contents),
		Requirements: ExtractRequirements(string(contents)),
	}, nil
}

// ExtractRequirements finds the Requirements section in markdown and
// returns each numbered item, with internal whitespace (including
// newlines, for requirements that wrap across lines) collapsed to single
// spaces.
func ExtractRequirements(markdown string) []workflowstate.LLDRequirement {
	loc := requirementsHeading.FindStringIndex(markdown)
	if loc == nil {
		return nil
	}

	body := markdown[loc[1]:]
	if end := nextHeading.FindStringIndex(body); end != nil {
		body = body[:end[0]]
	}

	matches := numberedItem.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return nil
	}

	var reqs []workflowstate.LLDRequirement
	for i, m := range matches {
		id := body[m[2]:m[3]]
		textStart := m[4]
		var textEnd int
		if i+1 < len(matches) {
			textEnd = matches[i+1][0]
		} else {
			textEnd = len(body)
		}
		raw := body[textStart:textEnd]
		reqs = append(reqs, workflowstate.LLDRequirement{
			ID:   id,
			Text: collapseWhitespace(raw),
		})
	}
	return reqs
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
