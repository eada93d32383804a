// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dreamawakener/ai-homework/internal/llm"
)

const (
	translateSystemPrompt = "You are a professional academic translator. Translate the user's query accurately into English academic keywords. Reply with the keywords only."
	translateUserPrompt   = "Translate the following query into English for an academic literature search:\n"
	translateTemperature  = 0.2
	translateMaxTokens    = 100
)

// Translator rewrites CJK queries into English search keywords. Translation
// is best effort: any failure yields the original query.
type Translator struct {
	Completer llm.Completer
	Model     string

	// Log receives progress and warning lines. Nil discards them.
	Log io.Writer
}

// Translate returns query unchanged when it holds no CJK ideographs, without
// calling the completion service. Otherwise it asks the service once.
func (t *Translator) Translate(ctx context.Context, query string) string {
	if !ContainsCJK(query) {
		return query
	}
	w := t.Log
	if w == nil {
		w = io.Discard
	}
	if t.Completer == nil {
		fmt.Fprintf(w, "warning: no completion service configured, searching untranslated %q\n", query)
		return query
	}

	fmt.Fprintf(w, "translating query %q\n", query)
	reply, err := t.Completer.Complete(ctx, llm.Request{
		Model: t.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: translateSystemPrompt},
			{Role: llm.RoleUser, Content: translateUserPrompt + query},
		},
		Temperature: translateTemperature,
		MaxTokens:   translateMaxTokens,
	})

	switch kind := llm.KindOf(err); {
	case err == nil:
	case kind == llm.KindTransport || kind == llm.KindStatus:
		fmt.Fprintf(w, "warning: translation service unavailable (%v), searching untranslated query\n", err)
		return query
	default:
		fmt.Fprintf(w, "warning: translation failed (%v), searching untranslated query\n", err)
		return query
	}

	translated := strings.TrimSuffix(strings.TrimSpace(reply), ".")
	if translated == "" {
		fmt.Fprintln(w, "warning: translation was empty, searching untranslated query")
		return query
	}
	fmt.Fprintf(w, "translated to %q\n", translated)
	return translated
}

// ContainsCJK reports whether s holds a rune in the CJK Unified Ideographs
// block (U+4E00..U+9FFF).
func ContainsCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}
