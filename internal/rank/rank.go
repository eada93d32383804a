// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank asks a language model to score candidate papers against a
// writing brief and orders them by the model's verdict. When the model is
// unreachable or its reply cannot be used, papers are ordered by submission
// date instead.
package rank

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/dreamawakener/ai-homework/internal/llm"
	"github.com/dreamawakener/ai-homework/pkg/types"
)

// Defaults for the ranking call.
const (
	DefaultTopN        = 10
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4096
)

// Scorer ranks papers with one completion call.
type Scorer struct {
	Completer   llm.Completer
	Model       string
	Temperature float64
	MaxTokens   int
	TopN        int

	// Log receives progress and warning lines. Nil discards them.
	Log io.Writer
}

// NewScorer builds a Scorer from the rank configuration, filling defaults.
func NewScorer(c llm.Completer, model string, cfg types.RankConfig, log io.Writer) *Scorer {
	s := &Scorer{
		Completer:   c,
		Model:       model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		TopN:        cfg.TopN,
		Log:         log,
	}
	if s.Temperature <= 0 {
		s.Temperature = DefaultTemperature
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.TopN <= 0 {
		s.TopN = DefaultTopN
	}
	return s
}

// Result is the outcome of Rank.
type Result struct {
	// Papers holds at most TopN records. On the model path each carries an
	// Assessment; on the fallback path none do.
	Papers []types.ScoredPaperRecord `json:"papers" yaml:"papers"`

	// Fallback is true when Papers were ordered by submission date.
	Fallback bool `json:"fallback" yaml:"fallback"`

	// Reason explains why the fallback was taken. Empty otherwise.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Rank scores papers against brief and returns the top of the model's
// ordering. It never fails: a completion or decode error yields the date
// ordered fallback. Empty input returns an empty result without a call.
func (s *Scorer) Rank(ctx context.Context, papers []types.PaperRecord, brief types.Brief) Result {
	w := s.log()
	if len(papers) == 0 {
		return Result{Papers: []types.ScoredPaperRecord{}}
	}
	if s.Completer == nil {
		return s.fallback(papers, "no completion service configured")
	}

	prompt, err := renderPrompt(papers, brief)
	if err != nil {
		return s.fallback(papers, fmt.Sprintf("rendering prompt: %v", err))
	}

	fmt.Fprintf(w, "assessing %d papers\n", len(papers))
	reply, err := s.Completer.Complete(ctx, llm.Request{
		Model: s.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		Temperature: s.temperature(),
		MaxTokens:   s.maxTokens(),
	})
	if err != nil {
		switch llm.KindOf(err) {
		case llm.KindTransport, llm.KindStatus:
			return s.fallback(papers, fmt.Sprintf("assessment service unavailable: %v", err))
		default:
			return s.fallback(papers, fmt.Sprintf("assessment failed: %v", err))
		}
	}

	decoded, err := DecodeReply(reply)
	if err != nil {
		return s.fallback(papers, err.Error())
	}

	ranked := apply(papers, decoded.Rankings)
	ranked = truncate(ranked, s.topN())
	fmt.Fprintf(w, "assessment complete, recommending %d of %d papers\n", len(ranked), len(papers))
	return Result{Papers: ranked}
}

// apply maps rankings onto copies of papers in the model's order. Entries
// pointing outside papers are dropped.
func apply(papers []types.PaperRecord, rankings []Ranking) []types.ScoredPaperRecord {
	out := make([]types.ScoredPaperRecord, 0, len(rankings))
	for _, r := range rankings {
		pos, ok := r.Position(len(papers))
		if !ok {
			continue
		}
		out = append(out, types.ScoredPaperRecord{
			PaperRecord: papers[pos],
			Assessment:  &types.Assessment{Score: r.Score, Reasoning: r.Reasoning},
		})
	}
	return out
}

func (s *Scorer) fallback(papers []types.PaperRecord, reason string) Result {
	fmt.Fprintf(s.log(), "warning: %s, ordering by submission date\n", reason)
	sorted := ByDate(papers)
	return Result{
		Papers:   truncate(sorted, s.topN()),
		Fallback: true,
		Reason:   reason,
	}
}

// ByDate returns copies of papers ordered by submission date, newest first.
// Records whose date cannot be parsed keep their relative order at the end.
func ByDate(papers []types.PaperRecord) []types.ScoredPaperRecord {
	type dated struct {
		rec types.ScoredPaperRecord
		key int64
		ok  bool
	}
	items := make([]dated, len(papers))
	for i, p := range papers {
		t, ok := p.SubmittedDate()
		items[i] = dated{rec: types.ScoredPaperRecord{PaperRecord: p}, key: t.Unix(), ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		return a.key > b.key
	})

	out := make([]types.ScoredPaperRecord, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}

func truncate(papers []types.ScoredPaperRecord, n int) []types.ScoredPaperRecord {
	if len(papers) > n {
		return papers[:n]
	}
	return papers
}

func (s *Scorer) topN() int {
	if s.TopN <= 0 {
		return DefaultTopN
	}
	return s.TopN
}

func (s *Scorer) temperature() float64 {
	if s.Temperature <= 0 {
		return DefaultTemperature
	}
	return s.Temperature
}

func (s *Scorer) maxTokens() int {
	if s.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return s.MaxTokens
}

func (s *Scorer) log() io.Writer {
	if s.Log == nil {
		return io.Discard
	}
	return s.Log
}
