// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"fmt"
	"io"

	"github.com/dreamawakener/ai-homework/internal/llm"
	"github.com/dreamawakener/ai-homework/pkg/types"
)

// Sampling settings for every outline turn.
const (
	outlineTemperature = 0.8
	outlineMaxTokens   = 8192
)

const outlineSystemPrompt = `You are an academic writing expert. Produce a paper outline that meets these requirements:
1. Strictly follow the IMRaD structure (Introduction, Methods, Results, Discussion)
2. Give every chapter at least two subsections
3. Use Markdown headings for the hierarchy`

const mentorSystemPrompt = `You are a demanding mentor reviewing a student's paper outline. Follow these rules:
1. Point out flaws in the form "Logic problem N: ..."
2. Raise exactly one core problem each time
3. Do not give the answer directly
4. Focus on issues specific to %s within %s`

const studentSystemPrompt = `You are a student writing a paper on %s within %s. Your task is to:
1. Revise the outline according to the mentor's comments
2. Produce the revised outline`

const (
	outlineRequest  = "Write a paper outline on %s within %s."
	critiqueRequest = "Here is my paper outline. Please critique it:\n\n%s"
	finalDemand     = "\n\nNote: after this revision, output the complete outline directly in Markdown, ready to copy. Otherwise it will not be accepted."
)

// Conversation is one agent's message history. Each Step sends the whole
// history and streams the reply to Out.
type Conversation struct {
	Streamer llm.Streamer
	Model    string
	Out      io.Writer

	history []llm.Message
}

// NewConversation starts a history with an optional system message.
func NewConversation(s llm.Streamer, model, system string, out io.Writer) *Conversation {
	c := &Conversation{Streamer: s, Model: model, Out: out}
	if system != "" {
		c.history = append(c.history, llm.Message{Role: llm.RoleSystem, Content: system})
	}
	return c
}

// Step appends message as a user turn, streams the reply, and records it.
// A failed turn leaves the history as it was.
func (c *Conversation) Step(ctx context.Context, message string) (string, error) {
	out := c.Out
	if out == nil {
		out = io.Discard
	}
	msgs := append(append([]llm.Message{}, c.history...), llm.Message{Role: llm.RoleUser, Content: message})

	reply, err := c.Streamer.Stream(ctx, llm.Request{
		Model:       c.Model,
		Messages:    msgs,
		Temperature: outlineTemperature,
		MaxTokens:   outlineMaxTokens,
	}, func(delta string) {
		fmt.Fprint(out, delta)
	})
	if err != nil {
		return "", fmt.Errorf("streaming reply: %w", err)
	}
	fmt.Fprintln(out)

	c.history = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: reply})
	return reply, nil
}

// History returns a copy of the messages exchanged so far.
func (c *Conversation) History() []llm.Message {
	return append([]llm.Message{}, c.history...)
}

// Writer drafts and revises outlines.
type Writer struct {
	Streamer llm.Streamer
	Model    string

	// Out receives the streamed model text and round headers. Nil discards them.
	Out io.Writer
}

// GenerateOutline streams an IMRaD outline for brief.
func (w *Writer) GenerateOutline(ctx context.Context, brief types.Brief) (string, error) {
	if w.Streamer == nil {
		return "", fmt.Errorf("no completion service configured")
	}
	fmt.Fprintln(w.out(), "generating outline")
	agent := NewConversation(w.Streamer, w.Model, outlineSystemPrompt, w.out())
	outline, err := agent.Step(ctx, fmt.Sprintf(outlineRequest, brief.Subject, brief.Theme))
	if err != nil {
		return "", fmt.Errorf("generating outline: %w", err)
	}
	return outline, nil
}

// Revise runs rounds of mentor critique and student revision over outline
// and returns the student's last reply. The last critique demands the full
// Markdown outline. With rounds below one the outline is returned as is.
func (w *Writer) Revise(ctx context.Context, brief types.Brief, outline string, rounds int) (string, error) {
	if rounds < 1 {
		return outline, nil
	}
	if w.Streamer == nil {
		return "", fmt.Errorf("no completion service configured")
	}
	out := w.out()
	mentor := NewConversation(w.Streamer, w.Model, fmt.Sprintf(mentorSystemPrompt, brief.Subject, brief.Theme), out)
	student := NewConversation(w.Streamer, w.Model, fmt.Sprintf(studentSystemPrompt, brief.Subject, brief.Theme), out)

	fmt.Fprintf(out, "revising outline (%d rounds)\n", rounds)
	studentMsg := fmt.Sprintf(critiqueRequest, outline)
	for i := 1; i <= rounds; i++ {
		fmt.Fprintf(out, "\nmentor, round %d:\n", i)
		critique, err := mentor.Step(ctx, studentMsg)
		if err != nil {
			return "", fmt.Errorf("mentor round %d: %w", i, err)
		}
		if i == rounds {
			critique += finalDemand
		}

		fmt.Fprintf(out, "\nstudent, round %d:\n", i)
		studentMsg, err = student.Step(ctx, critique)
		if err != nil {
			return "", fmt.Errorf("student round %d: %w", i, err)
		}
	}
	return studentMsg, nil
}

func (w *Writer) out() io.Writer {
	if w.Out == nil {
		return io.Discard
	}
	return w.Out
}
