// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dreamawakener/ai-homework/pkg/types"
)

const (
	outlineSuffix    = "_outline.md"
	referencesSuffix = "_references.md"
	timestampLayout  = "2006-01-02 15:04:05"
)

// now is the clock stamped into generated files. Tests replace it.
var now = time.Now

// References is everything the references file reports.
type References struct {
	Theme   string
	Subject string

	// Query is the search text sent to arXiv.
	Query string

	// Found is the number of papers the search returned before ranking.
	Found int

	Papers []types.ScoredPaperRecord

	// Fallback marks papers ordered by date because assessment failed.
	Fallback bool
}

// OutlinePath returns <dir>/<theme>_<subject>_outline.md.
func OutlinePath(dir, theme, subject string) string {
	return filepath.Join(dir, baseName(theme, subject)+outlineSuffix)
}

// ReferencesPath returns <dir>/<theme>_<subject>_references.md.
func ReferencesPath(dir, theme, subject string) string {
	return filepath.Join(dir, baseName(theme, subject)+referencesSuffix)
}

// WriteOutline saves outline under dir and returns the file path.
func WriteOutline(dir string, brief types.Brief, outline string) (string, error) {
	path := OutlinePath(dir, brief.Theme, brief.Subject)
	if err := writeFile(path, RenderOutline(brief, outline)); err != nil {
		return "", err
	}
	return path, nil
}

// RenderOutline formats the outline file content.
func RenderOutline(brief types.Brief, outline string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - %s Paper Outline\n\n", brief.Theme, brief.Subject)
	fmt.Fprintf(&b, "**Generated**: %s\n\n", now().Format(timestampLayout))
	b.WriteString("## Final outline\n\n")
	b.WriteString(outline)
	if !strings.HasSuffix(outline, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// WriteReferences saves refs under dir and returns the file path. With no
// papers nothing is written and the path is empty.
func WriteReferences(dir string, refs References) (string, error) {
	if len(refs.Papers) == 0 {
		return "", nil
	}
	path := ReferencesPath(dir, refs.Theme, refs.Subject)
	if err := writeFile(path, RenderReferences(refs)); err != nil {
		return "", err
	}
	return path, nil
}

// RenderReferences formats the references file content: a header block and
// one section per paper.
func RenderReferences(refs References) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - %s References\n\n", refs.Theme, refs.Subject)
	fmt.Fprintf(&b, "**Generated**: %s\n", now().Format(timestampLayout))
	fmt.Fprintf(&b, "**Search query**: %s\n", refs.Query)
	fmt.Fprintf(&b, "**Total found**: %d papers\n", refs.Found)
	fmt.Fprintf(&b, "**Recommended**: top %d papers\n", len(refs.Papers))
	if refs.Fallback {
		b.WriteString("**Ordering**: by submission date (assessment unavailable)\n")
	}
	b.WriteString("\n## Recommended papers\n\n")

	for i, p := range refs.Papers {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, p.Title)
		fmt.Fprintf(&b, "**Authors**: %s\n\n", p.AuthorsSummary())
		fmt.Fprintf(&b, "**Published**: %s\n\n", p.PublishedDate)
		fmt.Fprintf(&b, "**arXiv ID**: %s\n\n", p.ExternalID)
		fmt.Fprintf(&b, "**Categories**: %s\n\n", strings.Join(p.TopCategories(3), ", "))
		b.WriteString("**Links**:\n")
		fmt.Fprintf(&b, "- [Abstract](%s)\n", p.DetailLink)
		fmt.Fprintf(&b, "- [PDF](%s)\n\n", p.ArtifactLink)
		fmt.Fprintf(&b, "**Abstract**: %s\n\n", p.Abstract)
		if p.Assessment != nil {
			fmt.Fprintf(&b, "**Score**: %s/10\n\n", strconv.FormatFloat(p.Assessment.Score, 'f', -1, 64))
			if p.Assessment.Reasoning != "" {
				fmt.Fprintf(&b, "**Reasoning**: %s\n\n", p.Assessment.Reasoning)
			}
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

// baseName joins theme and subject into a file name stem that cannot leave
// the output directory.
func baseName(theme, subject string) string {
	return sanitize(theme) + "_" + sanitize(subject)
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("/", "-", "\\", "-", "\x00", "").Replace(s)
	s = strings.Trim(s, ".")
	if s == "" {
		return "untitled"
	}
	return s
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
