package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// Message types for async operations
type (
	// decksLoadedMsg carries a fresh catalog listing
	decksLoadedMsg struct {
		decks []domain.Deck
		err   error
	}

	// cardsLoadedMsg carries the cards of the deck about to be studied
	cardsLoadedMsg struct {
		deck  domain.Deck
		cards []domain.Card
		err   error
	}

	// deckErasedMsg reports the outcome of a delete
	deckErasedMsg struct {
		deck domain.Deck
		err  error
	}

	// watchStartedMsg hands over the decks root change feed
	watchStartedMsg struct {
		changes <-chan struct{}
		err     error
	}

	// rootChangedMsg is sent when something was added to or removed from the decks root
	rootChangedMsg struct{}

	// watchClosedMsg is sent once the change feed ends
	watchClosedMsg struct{}
)

func loadDecksCmd(ctx context.Context, store Store) tea.Cmd {
	return func() tea.Msg {
		decks, err := store.List(ctx)
		return decksLoadedMsg{decks: decks, err: err}
	}
}

func loadCardsCmd(ctx context.Context, store Store, deck domain.Deck, limit int) tea.Cmd {
	return func() tea.Msg {
		cards, err := store.LoadCards(ctx, deck, limit)
		return cardsLoadedMsg{deck: deck, cards: cards, err: err}
	}
}

func eraseDeckCmd(store Store, deck domain.Deck) tea.Cmd {
	return func() tea.Msg {
		return deckErasedMsg{deck: deck, err: store.Erase(deck)}
	}
}

func startWatchCmd(ctx context.Context, store Store) tea.Cmd {
	return func() tea.Msg {
		changes, err := store.Watch(ctx)
		return watchStartedMsg{changes: changes, err: err}
	}
}

// waitForChangeCmd blocks until the next change notification.
func waitForChangeCmd(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return watchClosedMsg{}
		}
		return rootChangedMsg{}
	}
}
