// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ai-homework CLI. It finds papers
// on arXiv for a writing topic, ranks them with a language model, and drafts
// and revises a paper outline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dreamawakener/ai-homework/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ and .env at startup.
var loadedSecrets map[string]string

// secretDefault returns configured unless it is empty, then the secret value for key.
func secretDefault(key, configured string) string {
	if configured != "" {
		return configured
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the ai-homework CLI.
var rootCmd = &cobra.Command{
	Use:   "ai-homework",
	Short: "Find, rank, and outline academic literature from arXiv",
	Long: `ai-homework assists with writing an academic paper. It searches arXiv for
papers on a topic (translating Chinese topics to English first), asks a
language model to rank them against your outline, and saves the top
recommendations as a Markdown reference list.

It can also draft an IMRaD outline and refine it through rounds of mentor
critique and student revision.

The completion service is any OpenAI-compatible endpoint. Configure it with
ai-homework.yaml, AI_HOMEWORK_* variables, the OPENAI_API_KEY,
OPENAI_BASE_URL and OPENAI_MODEL_NAME variables, a .env file, or key files
in .secrets/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.LoadAll(".secrets/", ".env")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(logWriter(), "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./ai-homework.yaml or ~/.config/ai-homework/ai-homework.yaml)")
	flags.Bool("quiet", false, "suppress progress output on stderr")
	flags.String("base-url", "", "OpenAI-compatible API root (e.g. https://api.openai.com/v1)")
	flags.String("model", "", "model name for translation, ranking, and outlines")
	flags.String("output-dir", "", "directory for generated Markdown files (default .)")

	viper.BindPFlag("quiet", flags.Lookup("quiet"))
	viper.BindPFlag("ai.base_url", flags.Lookup("base-url"))
	viper.BindPFlag("ai.model", flags.Lookup("model"))
	viper.BindPFlag("writing.output_dir", flags.Lookup("output-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ai-homework")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ai-homework"))
		}
	}

	viper.SetEnvPrefix("AI_HOMEWORK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnvAliases()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(logWriter(), "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
