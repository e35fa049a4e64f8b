package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/catalog"
	"github.com/conorfennell/knoldeck/internal/domain"
)

func newListCmd() *cobra.Command {
	var (
		filter string
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List imported decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}

			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			decks, err := a.catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			decks = catalog.Filter(decks, filter)

			if format == "json" {
				return outputDecksJSON(cmd.OutOrStdout(), decks)
			}
			outputDecksTable(cmd.OutOrStdout(), decks)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only show decks whose name contains this text")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

type deckOutput struct {
	Ref   string `json:"ref"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Cards int    `json:"cards"`
	Path  string `json:"path"`
}

func outputDecksJSON(w io.Writer, decks []domain.Deck) error {
	out := make([]deckOutput, 0, len(decks))
	for _, d := range decks {
		out = append(out, deckOutput{
			Ref:   catalog.Ref(d),
			ID:    d.ID,
			Name:  d.Name,
			Cards: d.CardCount,
			Path:  d.DBPath,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputDecksTable(w io.Writer, decks []domain.Deck) {
	if len(decks) == 0 {
		fmt.Fprintln(w, "No decks found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Ref", "Name", "Cards"})
	for _, d := range decks {
		t.AppendRow(table.Row{catalog.Ref(d), d.Name, d.CardCount})
	}

	stats := catalog.Stats(decks)
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d decks", stats.Decks), stats.Cards})
	t.Render()
}
