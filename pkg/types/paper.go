// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ai-homework pipeline:
// paper records discovered on arXiv, their model assessments, the writing
// brief, and stage configuration.
package types

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Sentinel values substituted for fields that could not be parsed, so that
// downstream consumers never branch on absence.
const (
	UnknownTitle = "unknown title"
	NoAbstract   = "no abstract"
	UnknownDate  = "unknown date"
	UnknownID    = "unknown id"
	NoLink       = "#"
)

// MaxAbstractRunes is the abstract length kept before the ellipsis marker.
const MaxAbstractRunes = 500

// ellipsis is appended to abstracts longer than MaxAbstractRunes.
const ellipsis = "..."

// pdfBaseURL prefixes the arXiv identifier to form the PDF link.
const pdfBaseURL = "https://arxiv.org/pdf/"

// PaperRecord is one paper discovered on the arXiv search listing. Every
// field carries a sentinel when the source markup lacked it.
type PaperRecord struct {
	// Title is the paper title, or UnknownTitle.
	Title string `json:"title" yaml:"title"`

	// Authors lists the author names in listing order. May be empty.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is at most MaxAbstractRunes runes plus "...", or NoAbstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PublishedDate is the raw date text rendered by the site
	// (e.g. "Submitted 3 March, 2024; originally announced March 2024."), or UnknownDate.
	PublishedDate string `json:"published_date" yaml:"published_date"`

	// ExternalID is the arXiv identifier (e.g. "2403.01234"), or UnknownID.
	ExternalID string `json:"external_id" yaml:"external_id"`

	// DetailLink is the abstract page URL, or NoLink.
	DetailLink string `json:"detail_link" yaml:"detail_link"`

	// ArtifactLink is the PDF URL derived from ExternalID, or NoLink.
	ArtifactLink string `json:"artifact_link" yaml:"artifact_link"`

	// Categories lists subject tags (e.g. "cs.LG") in listing order. May be empty.
	Categories []string `json:"categories" yaml:"categories"`
}

// AuthorsSummary joins the first three authors and appends " et al." when
// more exist.
func (p PaperRecord) AuthorsSummary() string {
	return SummarizeAuthors(p.Authors)
}

// TopCategories returns at most n leading categories.
func (p PaperRecord) TopCategories(n int) []string {
	if len(p.Categories) <= n {
		return p.Categories
	}
	return p.Categories[:n]
}

// SummarizeAuthors renders an author list as "A, B, C et al.".
func SummarizeAuthors(authors []string) string {
	if len(authors) <= 3 {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:3], ", ") + " et al."
}

// TruncateAbstract cuts s to MaxAbstractRunes runes and appends "..." when
// it was longer.
func TruncateAbstract(s string) string {
	if utf8.RuneCountInString(s) <= MaxAbstractRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxAbstractRunes]) + ellipsis
}

// ArtifactLinkFor derives the PDF URL for an arXiv identifier.
func ArtifactLinkFor(id string) string {
	if id == "" || id == UnknownID {
		return NoLink
	}
	return pdfBaseURL + id
}

// Date patterns in arXiv listing text, e.g. "Submitted 3 March, 2024;
// originally announced March 2024."
var (
	submittedDayPattern   = regexp.MustCompile(`(\d{1,2}) ([A-Z][a-z]+),? (\d{4})`)
	submittedMonthPattern = regexp.MustCompile(`([A-Z][a-z]+) (\d{4})`)
)

// SubmittedDate parses the date out of PublishedDate. It reports false for
// the sentinel and for text without a recognisable date.
func (p PaperRecord) SubmittedDate() (time.Time, bool) {
	if m := submittedDayPattern.FindStringSubmatch(p.PublishedDate); m != nil {
		if t, err := time.Parse("2 January 2006", m[1]+" "+m[2]+" "+m[3]); err == nil {
			return t, true
		}
	}
	for _, m := range submittedMonthPattern.FindAllStringSubmatch(p.PublishedDate, -1) {
		if t, err := time.Parse("January 2006", m[1]+" "+m[2]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Assessment is the model's verdict on one paper.
type Assessment struct {
	// Score is the model-supplied value, nominally 1-10. Not clamped.
	Score float64 `json:"score" yaml:"score"`

	// Reasoning explains the score in free text.
	Reasoning string `json:"reasoning" yaml:"reasoning"`
}

// ScoredPaperRecord is a copy of a PaperRecord produced by ranking. A nil
// Assessment marks a record returned by the date-ordered fallback.
type ScoredPaperRecord struct {
	PaperRecord `yaml:",inline"`

	Assessment *Assessment `json:"assessment,omitempty" yaml:"assessment,omitempty"`
}
