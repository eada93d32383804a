// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"strings"
	"testing"
)

// fixture renders one li.arxiv-result the way arxiv.org/search does.
type fixture struct {
	ID         string
	Title      string
	Authors    []string
	Abstract   string
	Date       string
	Categories []string

	// omit lists parts to leave out: "id", "title", "authors", "abstract",
	// "date", "categories".
	omit []string
}

func (f fixture) without(parts ...string) fixture {
	f.omit = append(append([]string{}, f.omit...), parts...)
	return f
}

func (f fixture) omitted(part string) bool {
	for _, p := range f.omit {
		if p == part {
			return true
		}
	}
	return false
}

func (f fixture) html() string {
	var b strings.Builder
	b.WriteString(`<li class="arxiv-result">` + "\n")
	b.WriteString(`  <div class="is-marginless">` + "\n")
	if !f.omitted("id") {
		fmt.Fprintf(&b, `    <p class="list-title is-inline-block"><a href="https://arxiv.org/abs/%s">arXiv:%s</a>
      <span>&nbsp;[<a href="https://arxiv.org/pdf/%s">pdf</a>, <a href="https://arxiv.org/format/%s">other</a>]</span>
    </p>`+"\n", f.ID, f.ID, f.ID, f.ID)
	}
	if !f.omitted("categories") {
		b.WriteString(`    <div class="tags is-inline-block">` + "\n")
		for _, c := range f.Categories {
			fmt.Fprintf(&b, `      <span class="tag is-small is-link tooltip is-tooltip-top" data-tooltip="%s">%s</span>`+"\n", c, c)
		}
		b.WriteString("    </div>\n")
	}
	b.WriteString("  </div>\n")
	if !f.omitted("title") {
		fmt.Fprintf(&b, `  <p class="title is-5 mathjax">
      %s
  </p>`+"\n", f.Title)
	}
	if !f.omitted("authors") {
		b.WriteString(`  <p class="authors">
    <span class="has-text-black-bis has-text-weight-semibold">Authors:</span>` + "\n")
		links := make([]string, len(f.Authors))
		for i, a := range f.Authors {
			links[i] = fmt.Sprintf(`<a href="/a/%d">%s</a>`, i, a)
		}
		b.WriteString("    " + strings.Join(links, ",\n    ") + "\n  </p>\n")
	}
	if !f.omitted("abstract") {
		short := f.Abstract
		if len(short) > 40 {
			short = short[:40]
		}
		fmt.Fprintf(&b, `  <p class="abstract mathjax">
    <span class="has-text-black-bis has-text-weight-semibold">Abstract</span>:
    <span class="abstract-short has-text-grey-dark mathjax" style="display: inline;">
      %s&hellip; <a class="is-size-7" style="white-space: nowrap;">&#9661; More</a>
    </span>
    <span class="abstract-full has-text-grey-dark mathjax" style="display: none;">
      %s
      <a class="is-size-7" style="white-space: nowrap;">&#9651; Less</a>
    </span>
  </p>`+"\n", short, f.Abstract)
	}
	if !f.omitted("date") {
		fmt.Fprintf(&b, `  <p class="is-size-7"><span class="has-text-black-bis has-text-weight-semibold">Submitted</span>
    %s
  </p>`+"\n", f.Date)
	}
	b.WriteString(`  <p class="comments is-size-7"><span class="has-text-black-bis">Comments:</span> 12 pages, 4 figures</p>` + "\n")
	b.WriteString("</li>\n")
	return b.String()
}

func samplePaper(n int) fixture {
	return fixture{
		ID:         fmt.Sprintf("2403.%05d", n),
		Title:      fmt.Sprintf("Graph Networks Part %d", n),
		Authors:    []string{"Ada Lovelace", "Alan Turing"},
		Abstract:   fmt.Sprintf("We study graph networks, instance %d.", n),
		Date:       "3 March, 2024; originally announced March 2024.",
		Categories: []string{"cs.LG", "cs.AI"},
	}
}

// listingPage wraps result fragments in a minimal search results document.
func listingPage(items ...string) string {
	return `<!DOCTYPE html><html><head><title>Search | arXiv e-print repository</title></head><body>
<main><div class="content"><ol class="breathe-horizontal" start="1">
` + strings.Join(items, "") + `</ol></div></main></body></html>`
}

// pageOf renders n sample results numbered from offset.
func pageOf(offset, n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = samplePaper(offset + i).html()
	}
	return listingPage(items...)
}

func setSearchURL(t *testing.T, u string) {
	t.Helper()
	old := arxivSearchURL
	arxivSearchURL = u
	t.Cleanup(func() { arxivSearchURL = old })
}
