package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <deck-ref>",
		Short: "Delete an imported deck",
		Long:  "Delete the deck directory holding <deck-ref>. Every deck imported from the same package goes with it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			deck, err := a.catalog.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !force {
				fmt.Fprintf(cmd.ErrOrStderr(), "Delete '%s' and every deck imported with it? (y/N) ", deck.Name)
				answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && answer == "" {
					return err
				}
				if strings.TrimSpace(strings.ToLower(answer)) != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
					return nil
				}
			}

			if err := a.catalog.Erase(deck); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted '%s'\n", deck.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
