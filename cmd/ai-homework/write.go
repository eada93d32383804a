// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Draft an outline, then find and rank references for it",
	Long: `Write runs the whole workflow: it drafts an outline, revises it with the
mentor and student agents, saves it, then searches arXiv and saves the
ranked references judged against the final outline.`,
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().String("theme", "", "broad field of the paper (e.g. medicine)")
	writeCmd.Flags().String("subject", "", "specific topic of the paper (e.g. cardiovascular disease)")
	writeCmd.Flags().String("brief", "", "YAML brief file with theme and subject")
	writeCmd.Flags().Int("rounds", 0, "mentor/student revision rounds (default 1)")

	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("rounds") {
		rounds, _ := cmd.Flags().GetInt("rounds")
		viper.Set("writing.rounds", rounds)
	}
	brief, err := briefFromFlags(cmd)
	if err != nil {
		return err
	}
	cfg := loadConfig()
	log := logWriter()

	outline, outlinePath, err := draftOutline(cmd.Context(), cfg, brief, os.Stdout, log)
	if err != nil {
		return err
	}
	brief.Outline = outline

	refsPath, err := findReferences(cmd.Context(), cfg, brief, log)
	if err != nil {
		return err
	}

	fmt.Println(outlinePath)
	if refsPath != "" {
		fmt.Println(refsPath)
	}
	return nil
}
