// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/dreamawakener/ai-homework/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Author   []CSLName `yaml:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty"`
	URL      string    `yaml:"URL,omitempty"`
	Number   string    `yaml:"number,omitempty"`
	Keyword  string    `yaml:"keyword,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes papers as a CSL-YAML list to w.
func FormatCSL(papers []types.PaperRecord, w io.Writer) error {
	items := make([]CSLItem, len(papers))
	for i, p := range papers {
		items[i] = toCSLItem(p)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts an arXiv preprint record to a CSLItem. Sentinel fields
// are left out.
func toCSLItem(p types.PaperRecord) CSLItem {
	item := CSLItem{
		ID:      p.ExternalID,
		Type:    "article",
		Title:   p.Title,
		Keyword: strings.Join(p.Categories, ", "),
	}
	if p.ExternalID == types.UnknownID {
		item.ID = ""
	} else {
		item.Number = "arXiv:" + p.ExternalID
	}
	if p.Abstract != types.NoAbstract {
		item.Abstract = p.Abstract
	}
	if p.DetailLink != types.NoLink {
		item.URL = p.DetailLink
	}

	for _, a := range p.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if t, ok := p.SubmittedDate(); ok {
		item.Issued = &CSLDate{
			DateParts: [][]int{{t.Year(), int(t.Month()), t.Day()}},
		}
	}

	return item
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
