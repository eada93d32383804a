// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dreamawakener/ai-homework/pkg/types"
)

// Selectors for the arxiv.org/search result listing. The markup is not a
// stable API; every lookup below degrades to a sentinel when it misses.
const (
	resultSelector    = "li.arxiv-result"
	titleSelector     = "p.title"
	listTitleSelector = "p.list-title a"
	authorsSelector   = "p.authors a"
	abstractSelector  = "p.abstract"
	abstractFull      = "span.abstract-full"
	dateSelector      = "p.is-size-7:not(.comments)"
	tagSelector       = "div.tags .tag"
)

const abstractPrefix = "Abstract:"

// ParsePage parses one search listing document and returns the records it
// yields, in listing order, plus the number of result fragments skipped.
func ParsePage(r io.Reader) ([]types.PaperRecord, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("parsing listing HTML: %w", err)
	}

	var records []types.PaperRecord
	skipped := 0
	doc.Find(resultSelector).Each(func(_ int, item *goquery.Selection) {
		rec, ok := ParseResult(item)
		if !ok {
			skipped++
			return
		}
		records = append(records, rec)
	})
	return records, skipped, nil
}

// ParseResult extracts one PaperRecord from a single result fragment. Missing
// fields take their sentinel values. It reports false when the fragment is
// empty or carries neither a title nor an arXiv identifier.
func ParseResult(item *goquery.Selection) (rec types.PaperRecord, ok bool) {
	if item == nil || item.Length() == 0 {
		return types.PaperRecord{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			rec, ok = types.PaperRecord{}, false
		}
	}()

	title := cleanText(item.Find(titleSelector).First().Text())
	link, id := parseListTitle(item.Find(listTitleSelector).First())
	if title == "" && id == "" {
		return types.PaperRecord{}, false
	}

	rec = types.PaperRecord{
		Title:         orSentinel(title, types.UnknownTitle),
		Authors:       parseAuthors(item),
		Abstract:      parseAbstract(item.Find(abstractSelector).First()),
		PublishedDate: orSentinel(cleanText(item.Find(dateSelector).First().Text()), types.UnknownDate),
		ExternalID:    orSentinel(id, types.UnknownID),
		DetailLink:    orSentinel(link, types.NoLink),
		Categories:    parseCategories(item),
	}
	rec.ArtifactLink = types.ArtifactLinkFor(rec.ExternalID)
	return rec, true
}

// parseListTitle returns the abstract link and the identifier from the
// "arXiv:2403.01234" anchor.
func parseListTitle(a *goquery.Selection) (link, id string) {
	if a.Length() == 0 {
		return "", ""
	}
	link = strings.TrimSpace(a.AttrOr("href", ""))
	text := cleanText(a.Text())
	if _, after, found := strings.Cut(text, ":"); found {
		id = strings.TrimSpace(after)
	}
	return link, id
}

func parseAuthors(item *goquery.Selection) []string {
	authors := []string{}
	item.Find(authorsSelector).Each(func(_ int, a *goquery.Selection) {
		if name := cleanText(a.Text()); name != "" {
			authors = append(authors, name)
		}
	})
	return authors
}

// parseAbstract prefers the expanded abstract span, drops its "Less" toggle,
// strips the "Abstract:" label, and truncates.
func parseAbstract(p *goquery.Selection) string {
	if p.Length() == 0 {
		return types.NoAbstract
	}

	var text string
	if full := p.Find(abstractFull).First(); full.Length() > 0 {
		full = full.Clone()
		full.Find("a").Remove()
		text = cleanText(full.Text())
	} else {
		text = cleanText(p.Text())
	}

	text = strings.TrimSpace(strings.TrimPrefix(text, abstractPrefix))
	text = strings.TrimSpace(strings.TrimSuffix(text, "△ Less"))
	if text == "" {
		return types.NoAbstract
	}
	return types.TruncateAbstract(text)
}

func parseCategories(item *goquery.Selection) []string {
	categories := []string{}
	item.Find(tagSelector).Each(func(_ int, tag *goquery.Selection) {
		if c := cleanText(tag.Text()); c != "" {
			categories = append(categories, c)
		}
	})
	return categories
}

// cleanText collapses runs of whitespace into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orSentinel(s, sentinel string) string {
	if s == "" {
		return sentinel
	}
	return s
}
