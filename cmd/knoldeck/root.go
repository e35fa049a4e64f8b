package main

import (
	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/config"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "knoldeck",
		Short:   "Study Anki deck packages in the terminal",
		Long:    "knoldeck imports .apkg deck packages and runs self-graded review sessions over their cards.",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStudy(cmd, "")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newCardsCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newStudyCmd())

	return rootCmd
}
