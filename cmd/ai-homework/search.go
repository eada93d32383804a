// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dreamawakener/ai-homework/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [topic...]",
	Short: "Search arXiv for papers on a topic",
	Long: `Search pages through the arXiv search listing for papers matching a topic.
Topics written in Chinese are translated to English keywords first when a
completion service is configured. Results are printed as a table, JSON, YAML,
or a CSL-YAML bibliography.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "search topic (alternative to positional arguments)")
	searchCmd.Flags().Int("max-results", 0, "maximum number of papers to collect (default 50, at most 10000)")
	searchCmd.Flags().String("format", search.FormatTableName, "output format: table, json, yaml, or csl")

	viper.BindPFlag("search.max_results", searchCmd.Flags().Lookup("max-results"))

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("query")
	if topic == "" {
		topic = strings.Join(args, " ")
	}
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("provide a topic with --query or as arguments")
	}
	format, _ := cmd.Flags().GetString("format")

	cfg := loadConfig()
	log := logWriter()

	client, err := completionClient(cfg.AI)
	if err != nil && search.ContainsCJK(topic) {
		fmt.Fprintf(log, "warning: completion service not configured (%v)\n", err)
	}

	out, err := newCrawler(cfg, client, log).Search(cmd.Context(), topic, cfg.Search.MaxResults)
	if err != nil {
		return err
	}
	return search.Format(out, format, os.Stdout)
}
