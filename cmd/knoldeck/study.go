package main

import (
	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/tui"
)

func newStudyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "study [deck-ref]",
		Short: "Browse decks and study interactively",
		Long:  "Open the deck browser. With a deck reference, start studying that deck straight away.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return runStudy(cmd, ref)
		},
	}
}

func runStudy(cmd *cobra.Command, ref string) error {
	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if ref != "" {
		// Fail before taking over the terminal.
		if _, err := a.catalog.Find(cmd.Context(), ref); err != nil {
			return err
		}
	}

	return tui.Run(cmd.Context(), tui.Options{
		Store:     a.catalog,
		Scheduler: a.scheduler(),
		CardLimit: a.cfg.CardLimit,
		Shuffle:   a.cfg.Shuffle,
		Deck:      ref,
		Logger:    a.logger,
	})
}
