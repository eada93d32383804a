// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dreamawakener/ai-homework/internal/draft"
	"github.com/dreamawakener/ai-homework/internal/llm"
	"github.com/dreamawakener/ai-homework/internal/rank"
	"github.com/dreamawakener/ai-homework/internal/search"
	"github.com/dreamawakener/ai-homework/pkg/types"
)

// newCrawler wires a Crawler. Translation is skipped with a warning when the
// completion service is not configured.
func newCrawler(cfg types.PipelineConfig, client *llm.Client, log io.Writer) *search.Crawler {
	tr := &search.Translator{Model: cfg.AI.Model, Log: log}
	if client != nil {
		tr.Completer = client
	}
	return &search.Crawler{
		Translator: tr,
		Fetcher:    search.NewFetcher(cfg.Search, log),
		Log:        log,
	}
}

// briefFromFlags builds a Brief from --brief, or from --theme, --subject
// and --outline-file.
func briefFromFlags(cmd *cobra.Command) (types.Brief, error) {
	if path, _ := cmd.Flags().GetString("brief"); path != "" {
		return draft.LoadBrief(path)
	}

	theme, _ := cmd.Flags().GetString("theme")
	subject, _ := cmd.Flags().GetString("subject")
	brief := types.Brief{Theme: theme, Subject: subject}
	if theme == "" && subject == "" {
		return brief, fmt.Errorf("provide --theme and --subject, or --brief")
	}

	if f := cmd.Flags().Lookup("outline-file"); f != nil && f.Value.String() != "" {
		outline, err := draft.ReadOutline(f.Value.String())
		if err != nil {
			return brief, err
		}
		brief.Outline = outline
		brief.OutlineFile = f.Value.String()
	}
	return brief, nil
}

// findReferences searches arXiv for the brief, ranks the results, and writes
// the references file. It returns the file path, or "" when nothing was found.
func findReferences(ctx context.Context, cfg types.PipelineConfig, brief types.Brief, log io.Writer) (string, error) {
	client, err := completionClient(cfg.AI)
	if err != nil {
		fmt.Fprintf(log, "warning: completion service not configured (%v); ranking falls back to date order\n", err)
	}

	maxResults := cfg.Search.MaxResults
	if brief.MaxResults > 0 {
		maxResults = brief.MaxResults
	}

	query := brief.SearchQuery()
	out, err := newCrawler(cfg, client, log).Search(ctx, query, maxResults)
	if err != nil {
		return "", err
	}
	if len(out.Papers) == 0 {
		fmt.Fprintln(log, "no papers found, skipping references file")
		return "", nil
	}

	scorer := rank.NewScorer(nil, cfg.AI.Model, cfg.Rank, log)
	if client != nil {
		scorer.Completer = client
	}
	result := scorer.Rank(ctx, out.Papers, brief)

	path, err := draft.WriteReferences(cfg.Writing.OutputDir, draft.References{
		Theme:    brief.Theme,
		Subject:  brief.Subject,
		Query:    out.Query,
		Found:    len(out.Papers),
		Papers:   result.Papers,
		Fallback: result.Fallback,
	})
	if err != nil {
		return "", err
	}
	fmt.Fprintf(log, "saved %d recommended papers to %s\n", len(result.Papers), path)
	return path, nil
}

// draftOutline generates an outline for the brief, revises it for the
// configured number of rounds, and writes the outline file. Model text is
// streamed to out.
func draftOutline(ctx context.Context, cfg types.PipelineConfig, brief types.Brief, out, log io.Writer) (string, string, error) {
	client, err := completionClient(cfg.AI)
	if err != nil {
		return "", "", fmt.Errorf("outline needs a completion service: %w", err)
	}
	w := &draft.Writer{Streamer: client, Model: cfg.AI.Model, Out: out}

	outline, err := w.GenerateOutline(ctx, brief)
	if err != nil {
		return "", "", err
	}
	final, err := w.Revise(ctx, brief, outline, cfg.Writing.Rounds)
	if err != nil {
		return "", "", err
	}

	path, err := draft.WriteOutline(cfg.Writing.OutputDir, brief, final)
	if err != nil {
		return "", "", err
	}
	fmt.Fprintf(log, "saved outline to %s\n", path)
	return final, path, nil
}
