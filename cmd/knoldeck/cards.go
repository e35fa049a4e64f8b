package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/parser"
)

func newCardsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "cards <deck-ref>",
		Short: "Print the cards of a deck",
		Long:  "Print front, back and tags of a deck's cards in card id order. <deck-ref> is <dir>/<id> as shown by list, or a bare deck id when it is unique.",
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
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.CardLimit
			}

			cards, err := a.catalog.LoadCards(cmd.Context(), deck, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(cards) == 0 {
				fmt.Fprintf(out, "%s has no cards\n", deck.Name)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.SetTitle(fmt.Sprintf("%s (%d of %d cards)", deck.Name, len(cards), deck.CardCount))
			t.AppendHeader(table.Row{"ID", "Front", "Back", "Tags"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 2, WidthMax: 40},
				{Number: 3, WidthMax: 40},
			})
			for _, c := range cards {
				t.AppendRow(table.Row{c.ID, c.Front, c.Back, strings.Join(parser.ParseTags(c.Tags()), " ")})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum cards to print, 0 for no limit (default from card_limit)")

	return cmd
}
