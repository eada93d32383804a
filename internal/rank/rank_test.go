// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamawakener/ai-homework/internal/llm"
	"github.com/dreamawakener/ai-homework/pkg/types"
)

// fakeCompleter returns a canned reply and records every request.
type fakeCompleter struct {
	reply string
	err   error
	calls []llm.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func paper(id, title, date string) types.PaperRecord {
	return types.PaperRecord{
		Title:         title,
		Authors:       []string{"Ada Lovelace"},
		Abstract:      "About " + title + ".",
		PublishedDate: date,
		ExternalID:    id,
		DetailLink:    "https://arxiv.org/abs/" + id,
		ArtifactLink:  types.ArtifactLinkFor(id),
		Categories:    []string{"cs.LG"},
	}
}

func threePapers() []types.PaperRecord {
	return []types.PaperRecord{
		paper("2401.00001", "Alpha", "Submitted 5 January, 2024; originally announced January 2024."),
		paper("2403.00002", "Beta", "Submitted 3 March, 2024; originally announced March 2024."),
		paper("2312.00003", "Gamma", "Submitted 20 December, 2023; originally announced December 2023."),
	}
}

func fenced(body string) string {
	return "Here is my assessment.\n```json\n" + body + "\n```\nLet me know if you need more."
}

func ids(rs []types.ScoredPaperRecord) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ExternalID
	}
	return out
}

func newTestScorer(fc llm.Completer, log *bytes.Buffer) *Scorer {
	s := NewScorer(fc, "test-model", types.RankConfig{}, nil)
	if log != nil {
		s.Log = log
	}
	return s
}

func TestRankAppliesModelOrder(t *testing.T) {
	fc := &fakeCompleter{reply: fenced(`{"rankings": [
		{"paper_index": 2, "score": 9.1, "reasoning": "closest to the outline"},
		{"paper_index": 1, "score": 7.5, "reasoning": "useful background"},
		{"paper_index": 3, "score": 4, "reasoning": "tangential"}
	]}`)}

	res := newTestScorer(fc, nil).Rank(context.Background(), threePapers(), types.Brief{Theme: "cs", Subject: "graphs"})

	assert.False(t, res.Fallback)
	assert.Empty(t, res.Reason)
	assert.Equal(t, []string{"2403.00002", "2401.00001", "2312.00003"}, ids(res.Papers))
	require.NotNil(t, res.Papers[0].Assessment)
	assert.Equal(t, 9.1, res.Papers[0].Assessment.Score)
	assert.Equal(t, "closest to the outline", res.Papers[0].Assessment.Reasoning)
	assert.Equal(t, "Beta", res.Papers[0].Title)
	assert.Len(t, fc.calls, 1)
}

func TestRankDropsOutOfRangeIndices(t *testing.T) {
	fc := &fakeCompleter{reply: fenced(`{"rankings": [
		{"paper_index": 5, "score": 10, "reasoning": "does not exist"},
		{"paper_index": 0, "score": 9, "reasoning": "zero is not 1-based"},
		{"paper_index": 1.5, "score": 8, "reasoning": "not an integer"},
		{"paper_index": 3, "score": 6, "reasoning": "ok"}
	]}`)}

	res := newTestScorer(fc, nil).Rank(context.Background(), threePapers(), types.Brief{})

	assert.False(t, res.Fallback)
	assert.Equal(t, []string{"2312.00003"}, ids(res.Papers))
}

func TestRankTrustsModelOrder(t *testing.T) {
	fc := &fakeCompleter{reply: fenced(`{"rankings": [
		{"paper_index": 3, "score": 2, "reasoning": "low but listed first"},
		{"paper_index": 1, "score": 9, "reasoning": "high"}
	]}`)}

	res := newTestScorer(fc, nil).Rank(context.Background(), threePapers(), types.Brief{})
	assert.Equal(t, []string{"2312.00003", "2401.00001"}, ids(res.Papers))
}

func TestRankFallsBackWithoutFencedBlock(t *testing.T) {
	fc := &fakeCompleter{reply: `{"rankings": [{"paper_index": 1, "score": 9}]}`}
	var log bytes.Buffer

	res := newTestScorer(fc, &log).Rank(context.Background(), threePapers(), types.Brief{})

	assert.True(t, res.Fallback)
	assert.Contains(t, res.Reason, "no fenced json block")
	assert.Equal(t, []string{"2403.00002", "2401.00001", "2312.00003"}, ids(res.Papers))
	for _, p := range res.Papers {
		assert.Nil(t, p.Assessment)
	}
	assert.Contains(t, log.String(), "warning:")
	assert.Contains(t, log.String(), "ordering by submission date")
}

func TestRankFallbackReasons(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		err    error
		reason string
	}{
		{"transport", "", &llm.Error{Kind: llm.KindTransport, Err: errors.New("connection refused")}, "assessment service unavailable"},
		{"status", "", &llm.Error{Kind: llm.KindStatus, StatusCode: 500, Err: errors.New("boom")}, "assessment service unavailable"},
		{"empty", "", &llm.Error{Kind: llm.KindEmpty, Err: errors.New("no choices")}, "assessment failed"},
		{"bad json", fenced(`{"rankings": [ {"paper_index": } ]}`), nil, "decoding json"},
		{"missing rankings", fenced(`{"ranks": []}`), nil, "rankings is required"},
		{"missing index", fenced(`{"rankings": [{"score": 9}]}`), nil, "rankings[0].paper_index is required"},
		{"string score", fenced(`{"rankings": [{"paper_index": 1, "score": "high"}]}`), nil, "decoding json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCompleter{reply: tt.reply, err: tt.err}
			res := newTestScorer(fc, nil).Rank(context.Background(), threePapers(), types.Brief{})
			assert.True(t, res.Fallback)
			assert.Contains(t, res.Reason, tt.reason)
			assert.Equal(t, []string{"2403.00002", "2401.00001", "2312.00003"}, ids(res.Papers))
			assert.Len(t, fc.calls, 1)
		})
	}
}

func TestRankMissingAbstractScenario(t *testing.T) {
	papers := threePapers()
	papers[1].Abstract = types.NoAbstract
	fc := &fakeCompleter{reply: fenced(`{"rankings": [
		{"paper_index": 1, "score": 8, "reasoning": "a"},
		{"paper_index": 2, "score": 7, "reasoning": "b"},
		{"paper_index": 3, "score": 6, "reasoning": "c"}
	]}`)}

	res := newTestScorer(fc, nil).Rank(context.Background(), papers,
		types.Brief{Theme: "computer science", Subject: "graph learning", Outline: "## Introduction"})

	require.Len(t, fc.calls, 1)
	req := fc.calls[0]
	assert.Equal(t, "test-model", req.Model)
	assert.InDelta(t, 0.3, req.Temperature, 1e-9)
	assert.Equal(t, 4096, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)

	prompt := req.Messages[1].Content
	assert.Contains(t, prompt, "Paper 1:")
	assert.Contains(t, prompt, "Paper 3:")
	assert.Contains(t, prompt, "- Abstract: "+types.NoAbstract)
	assert.Contains(t, prompt, `"graph learning" in the field of "computer science"`)
	assert.Contains(t, prompt, "## Introduction")

	require.Len(t, res.Papers, 3)
	assert.Equal(t, types.NoAbstract, res.Papers[1].Abstract)
}

func TestRankEmptyInput(t *testing.T) {
	fc := &fakeCompleter{}
	res := newTestScorer(fc, nil).Rank(context.Background(), nil, types.Brief{})
	assert.Empty(t, res.Papers)
	assert.NotNil(t, res.Papers)
	assert.False(t, res.Fallback)
	assert.Empty(t, fc.calls)
}

func TestRankTruncatesToTopN(t *testing.T) {
	var papers []types.PaperRecord
	var entries []string
	for i := 1; i <= 15; i++ {
		papers = append(papers, paper(fmt.Sprintf("2401.%05d", i), fmt.Sprintf("P%d", i),
			fmt.Sprintf("Submitted %d January, 2024;", i)))
		entries = append(entries, fmt.Sprintf(`{"paper_index": %d, "score": 5}`, i))
	}

	t.Run("model", func(t *testing.T) {
		fc := &fakeCompleter{reply: fenced(`{"rankings": [` + joinComma(entries) + `]}`)}
		res := newTestScorer(fc, nil).Rank(context.Background(), papers, types.Brief{})
		assert.False(t, res.Fallback)
		assert.Len(t, res.Papers, DefaultTopN)
	})

	t.Run("fallback", func(t *testing.T) {
		fc := &fakeCompleter{reply: "no json here"}
		res := newTestScorer(fc, nil).Rank(context.Background(), papers, types.Brief{})
		assert.True(t, res.Fallback)
		require.Len(t, res.Papers, DefaultTopN)
		assert.Equal(t, "2401.00015", res.Papers[0].ExternalID)
	})
}

func TestRankWithoutCompleter(t *testing.T) {
	s := &Scorer{}
	res := s.Rank(context.Background(), threePapers(), types.Brief{})
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Reason, "no completion service")
}

func TestByDate(t *testing.T) {
	papers := []types.PaperRecord{
		paper("a", "undated one", types.UnknownDate),
		paper("b", "old", "Submitted 1 June, 2019; originally announced June 2019."),
		paper("c", "undated two", "no date here"),
		paper("d", "new", "Submitted 12 February, 2025; originally announced February 2025."),
		paper("e", "month only", "originally announced March 2022."),
	}
	assert.Equal(t, []string{"d", "e", "b", "a", "c"}, ids(ByDate(papers)))
}

func TestNewScorerDefaults(t *testing.T) {
	s := NewScorer(nil, "m", types.RankConfig{}, nil)
	assert.Equal(t, DefaultTopN, s.TopN)
	assert.Equal(t, DefaultTemperature, s.Temperature)
	assert.Equal(t, DefaultMaxTokens, s.MaxTokens)

	s = NewScorer(nil, "m", types.RankConfig{TopN: 3, Temperature: 0.7, MaxTokens: 100}, nil)
	assert.Equal(t, 3, s.TopN)
	assert.Equal(t, 0.7, s.Temperature)
	assert.Equal(t, 100, s.MaxTokens)
}

func joinComma(parts []string) string {
	var b bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p)
	}
	return b.String()
}
