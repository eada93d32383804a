// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/dreamawakener/ai-homework/internal/llm"
	"github.com/dreamawakener/ai-homework/internal/rank"
	"github.com/dreamawakener/ai-homework/internal/search"
	"github.com/dreamawakener/ai-homework/internal/secrets"
	"github.com/dreamawakener/ai-homework/pkg/types"
)

const defaultBaseURL = "https://api.openai.com/v1"

// envAliases binds config keys to the unprefixed variable names used by
// existing OpenAI tooling. The prefixed AI_HOMEWORK_* name still works.
var envAliases = map[string]string{
	"ai.api_key":         "OPENAI_API_KEY",
	"ai.base_url":        "OPENAI_BASE_URL",
	"ai.model":           "OPENAI_MODEL_NAME",
	"search.max_results": "MAX_RESULTS",
}

func bindEnvAliases() {
	for key, alias := range envAliases {
		viper.BindEnv(key, "AI_HOMEWORK_"+envKey(key), alias)
	}
}

func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func setDefaults() {
	viper.SetDefault("ai.timeout", "120s")
	viper.SetDefault("search.max_results", search.DefaultMaxResults)
	viper.SetDefault("search.page_size", search.DefaultPageSize)
	viper.SetDefault("search.page_delay", search.DefaultPageDelay)
	viper.SetDefault("search.timeout", search.DefaultTimeout)
	viper.SetDefault("search.user_agent", search.DefaultUserAgent)
	viper.SetDefault("rank.top_n", rank.DefaultTopN)
	viper.SetDefault("rank.temperature", rank.DefaultTemperature)
	viper.SetDefault("rank.max_tokens", rank.DefaultMaxTokens)
	viper.SetDefault("writing.output_dir", ".")
	viper.SetDefault("writing.rounds", 1)
}

// loadConfig assembles the pipeline configuration from viper, falling back
// to loaded secrets for the completion service settings.
func loadConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		AI: types.AIConfig{
			BaseURL: secretDefault(secrets.OpenAIBaseURL, viper.GetString("ai.base_url")),
			APIKey:  secretDefault(secrets.OpenAIAPIKey, viper.GetString("ai.api_key")),
			Model:   secretDefault(secrets.OpenAIModelName, viper.GetString("ai.model")),
			Timeout: viper.GetDuration("ai.timeout"),
		},
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			MaxResults: viper.GetInt("search.max_results"),
			PageSize:   viper.GetInt("search.page_size"),
			PageDelay:  viper.GetDuration("search.page_delay"),
		},
		Rank: types.RankConfig{
			TopN:        viper.GetInt("rank.top_n"),
			Temperature: viper.GetFloat64("rank.temperature"),
			MaxTokens:   viper.GetInt("rank.max_tokens"),
		},
		Writing: types.WritingConfig{
			OutputDir: viper.GetString("writing.output_dir"),
			Rounds:    viper.GetInt("writing.rounds"),
		},
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = defaultBaseURL
	}
	return cfg
}

// completionClient returns a client for cfg, or nil and the validation
// error when the service is not configured.
func completionClient(cfg types.AIConfig) (*llm.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return llm.NewClient(cfg), nil
}

// logWriter is where progress lines go: stderr, or nowhere with --quiet.
func logWriter() io.Writer {
	if viper.GetBool("quiet") {
		return io.Discard
	}
	return os.Stderr
}
