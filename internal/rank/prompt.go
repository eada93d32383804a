// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/dreamawakener/ai-homework/pkg/types"
)

// systemPrompt frames the model as a reviewer scoring candidate references.
const systemPrompt = "You are an academic assessment expert. Score and rank papers by their relevance to the given topic, their citation value, and their research quality."

// fence opens and closes the reply block the model is asked to produce.
const fence = "```"

// rankPromptTmpl lists the candidate papers (numbered from 1), the rubric,
// and the reply format.
var rankPromptTmpl = template.Must(template.New("rank").Parse(`Assess how useful each of the following papers is as a reference for research on "{{.Subject}}" in the field of "{{.Theme}}".

Research outline:
{{if .Outline}}{{.Outline}}{{else}}(no outline provided){{end}}

Papers to assess:
{{range .Papers}}
Paper {{.Index}}:
- Title: {{.Title}}
- Authors: {{.Authors}}
- Abstract: {{.Abstract}}
- Published: {{.Date}}
- Categories: {{.Categories}}
---
{{end}}
Assessment criteria:
1. Relevance to the research topic (40%)
2. Novelty and rigor of the research method (25%)
3. Recency of publication (20%)
4. Authority of the authors and quality of the venue (15%)

Reply with the assessment in the following JSON format, giving every paper a score from 1 to 10:
` + fence + `json
{
  "rankings": [
    {
      "paper_index": 1,
      "score": 8.5,
      "reasoning": "Highly relevant, novel method..."
    }
  ]
}
` + fence + `

Make sure the JSON is valid and the rankings are ordered from highest to lowest score.
`))

type promptPaper struct {
	Index      int
	Title      string
	Authors    string
	Abstract   string
	Date       string
	Categories string
}

type promptData struct {
	Theme   string
	Subject string
	Outline string
	Papers  []promptPaper
}

// renderPrompt executes the ranking template for papers and brief.
func renderPrompt(papers []types.PaperRecord, brief types.Brief) (string, error) {
	data := promptData{
		Theme:   brief.Theme,
		Subject: brief.Subject,
		Outline: strings.TrimSpace(brief.Outline),
		Papers:  make([]promptPaper, len(papers)),
	}
	for i, p := range papers {
		data.Papers[i] = promptPaper{
			Index:      i + 1,
			Title:      p.Title,
			Authors:    p.AuthorsSummary(),
			Abstract:   p.Abstract,
			Date:       p.PublishedDate,
			Categories: strings.Join(p.TopCategories(3), ", "),
		}
	}

	var buf bytes.Buffer
	if err := rankPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
