// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var referencesCmd = &cobra.Command{
	Use:   "references",
	Short: "Find, rank, and save references for a paper",
	Long: `References searches arXiv for "<subject> <theme>", asks the model to score
each paper against the outline, and writes the top recommendations to
<theme>_<subject>_references.md. When the model cannot be reached or its
reply cannot be read, papers are ordered by submission date instead.`,
	RunE: runReferences,
}

func init() {
	referencesCmd.Flags().String("theme", "", "broad field of the paper (e.g. medicine)")
	referencesCmd.Flags().String("subject", "", "specific topic of the paper (e.g. cardiovascular disease)")
	referencesCmd.Flags().String("outline-file", "", "Markdown outline used to judge relevance")
	referencesCmd.Flags().String("brief", "", "YAML brief file with theme, subject, and outline_file")

	rootCmd.AddCommand(referencesCmd)
}

func runReferences(cmd *cobra.Command, args []string) error {
	brief, err := briefFromFlags(cmd)
	if err != nil {
		return err
	}

	path, err := findReferences(cmd.Context(), loadConfig(), brief, logWriter())
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Println(path)
	}
	return nil
}
