// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm calls an OpenAI-compatible chat completion endpoint, either
// for a single block of text or as a stream of token deltas. Failures are
// classified so that callers can choose a fallback per failure kind.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dreamawakener/ai-homework/pkg/types"
)

// Roles used in message lists.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	completionsPath = "/chat/completions"
	defaultTimeout  = 120 * time.Second
	maxErrorBody    = 4 << 10
)

// Message is one entry of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call. An empty Model uses the client's model.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Completer returns a whole completion in one block.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Streamer delivers a completion as token deltas and returns the full text.
type Streamer interface {
	Stream(ctx context.Context, req Request, onDelta func(string)) (string, error)
}

// Client talks to {BaseURL}/chat/completions with bearer authentication.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

// NewClient builds a Client from an explicit configuration value.
func NewClient(cfg types.AIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

type apiError struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

// Complete sends req with streaming off and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.post(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &Error{Kind: KindDecode, Err: fmt.Errorf("decoding completion: %w", err)}
	}
	if payload.Error != nil {
		return "", &Error{Kind: KindStatus, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", payload.Error.Message)}
	}
	if len(payload.Choices) == 0 {
		return "", &Error{Kind: KindEmpty, Err: fmt.Errorf("completion has no choices")}
	}
	return payload.Choices[0].Message.Content, nil
}

// Stream sends req with streaming on, calls onDelta for every content delta
// in arrival order, and returns the concatenated text.
func (c *Client) Stream(ctx context.Context, req Request, onDelta func(string)) (string, error) {
	resp, err := c.post(ctx, req, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return full.String(), &Error{Kind: KindDecode, Err: fmt.Errorf("decoding stream chunk: %w", err)}
		}
		if chunk.Error != nil {
			return full.String(), &Error{Kind: KindStatus, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", chunk.Error.Message)}
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == nil {
			continue
		}
		delta := *chunk.Choices[0].Delta.Content
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), &Error{Kind: KindTransport, Err: fmt.Errorf("reading stream: %w", err)}
	}
	if full.Len() == 0 {
		return "", &Error{Kind: KindEmpty, Err: fmt.Errorf("stream carried no content")}
	}
	return full.String(), nil
}

// post sends the request and returns a response with a 200 status.
func (c *Client) post(ctx context.Context, req Request, stream bool) (*http.Response, error) {
	model := req.Model
	if model == "" {
		model = c.Model
	}
	if c.BaseURL == "" || model == "" {
		return nil, &Error{Kind: KindConfig, Err: fmt.Errorf("base URL and model required")}
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	})
	if err != nil {
		return nil, &Error{Kind: KindConfig, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	endpoint := strings.TrimRight(c.BaseURL, "/") + completionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindConfig, Err: fmt.Errorf("creating request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &Error{Kind: KindStatus, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(msg)))}
	}
	return resp, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultTimeout}
}
