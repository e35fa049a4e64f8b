package main

import (
	"fmt"

	"github.com/spf13/cobra"

	decksync "github.com/conorfennell/knoldeck/internal/sync"
)

func newSyncCmd() *cobra.Command {
	var fromGit bool

	cmd := &cobra.Command{
		Use:   "sync <dir>",
		Short: "Import every deck package found under a directory or git repository",
		Long: "Walk <dir> and import every .apkg file below it. With --git, <dir> is a local " +
			"git repository and only packages committed at HEAD are imported.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			syncer := decksync.New(a.catalog, a.logger)

			var report decksync.Report
			if fromGit {
				report, err = syncer.ImportGit(cmd.Context(), args[0])
			} else {
				report, err = syncer.ImportDir(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d packages, %d errors.\n", len(report.Imported), len(report.Errors))
			if report.Failed() {
				fmt.Fprintln(out, "\nErrors:")
				for _, e := range report.Errors {
					fmt.Fprintf(out, "- %s\n", e)
				}
				return fmt.Errorf("%d packages failed to import", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromGit, "git", false, "Treat <dir> as a local git repository and read packages from HEAD")

	return cmd
}
