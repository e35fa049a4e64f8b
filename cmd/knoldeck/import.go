package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.apkg>...",
		Short: "Import deck packages",
		Long:  "Extract each .apkg package into its own deck directory under the decks root, then list every deck.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				dir, err := a.catalog.ImportFile(path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "Failed to import %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "Imported %s into %s\n", path, dir)
			}

			decks, err := a.catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			outputDecksTable(out, decks)

			if failed > 0 {
				return fmt.Errorf("%d of %d packages failed to import", failed, len(args))
			}
			return nil
		},
	}
}
