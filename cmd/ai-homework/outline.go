// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Draft and revise a paper outline",
	Long: `Outline asks the model for an IMRaD outline on the subject, then runs rounds
of mentor critique and student revision. The model's replies stream to
stdout; the final outline is saved to <theme>_<subject>_outline.md.`,
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().String("theme", "", "broad field of the paper (e.g. medicine)")
	outlineCmd.Flags().String("subject", "", "specific topic of the paper (e.g. cardiovascular disease)")
	outlineCmd.Flags().String("brief", "", "YAML brief file with theme and subject")
	outlineCmd.Flags().Int("rounds", 0, "mentor/student revision rounds (default 1)")

	viper.BindPFlag("writing.rounds", outlineCmd.Flags().Lookup("rounds"))

	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	brief, err := briefFromFlags(cmd)
	if err != nil {
		return err
	}
	_, _, err = draftOutline(cmd.Context(), loadConfig(), brief, os.Stdout, logWriter())
	return err
}
