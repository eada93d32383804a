// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig identifies the OpenAI-compatible completion service. It is built
// once by the caller and passed into each component; core packages never
// look credentials up on their own.
type AIConfig struct {
	// BaseURL is the API root (e.g. "https://api.openai.com/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the bearer token for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the model identifier sent with every request.
	Model string `json:"model" yaml:"model"`

	// Timeout bounds a single completion request.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Validate reports configuration that would make every completion call fail.
func (c AIConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("ai.model is not set")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("ai.base_url must start with http:// or https://, got %q", c.BaseURL)
	}
	return nil
}

// SearchConfig holds settings for the arXiv crawl.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the default number of papers to collect (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PageSize is the number of results requested per listing page (default 50,
	// the largest page arXiv serves).
	PageSize int `json:"page_size" yaml:"page_size"`

	// PageDelay is the fixed pause after each successful page (default 1s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`
}

// RankConfig holds settings for the relevance scoring call.
type RankConfig struct {
	// TopN bounds the ranked output (default 10).
	TopN int `json:"top_n" yaml:"top_n"`

	// Temperature is the sampling temperature (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens caps the model reply (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// WritingConfig holds settings for the outline workflow and Markdown output.
type WritingConfig struct {
	// OutputDir receives the outline and references files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Rounds is the number of mentor/student revision rounds (default 1).
	Rounds int `json:"rounds" yaml:"rounds"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Rank    RankConfig    `json:"rank" yaml:"rank"`
	Writing WritingConfig `json:"writing" yaml:"writing"`
}
