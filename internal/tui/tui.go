// Package tui is the interactive deck browser and study loop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/conorfennell/knoldeck/internal/catalog"
	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/parser"
	"github.com/conorfennell/knoldeck/internal/scheduler"
)

// Store is the deck catalog browsed by the TUI.
type Store interface {
	List(ctx context.Context) ([]domain.Deck, error)
	LoadCards(ctx context.Context, deck domain.Deck, limit int) ([]domain.Card, error)
	Erase(deck domain.Deck) error
	Watch(ctx context.Context) (<-chan struct{}, error)
}

type screen int

const (
	listScreen screen = iota
	studyScreen
)

const sessionComplete = "Session complete"

// Options configures a Model.
type Options struct {
	Store     Store
	Scheduler *scheduler.Scheduler
	CardLimit int
	Shuffle   bool
	// Deck is a deck reference to study as soon as the first listing loads.
	Deck   string
	Logger *slog.Logger
}

// Model holds the state of both screens. Catalog I/O runs in commands and
// lands back in Update as messages; a failed command leaves the prior state
// in place and sets the message line.
type Model struct {
	ctx    context.Context
	opts   Options
	logger *slog.Logger

	screen  screen
	decks   []domain.Deck
	visible []domain.Deck
	cursor  int
	filter  textinput.Model
	spinner spinner.Model
	loading bool
	message string

	pendingDelete *domain.Deck
	pendingDeck   string

	deck    domain.Deck
	session *scheduler.Session

	changes <-chan struct{}
	width   int
	height  int
}

// New creates the initial model. The first listing is requested by Init.
func New(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.New(scheduler.DefaultParams())
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "Filter decks…"
	filter.CharLimit = 64

	return Model{
		ctx:         ctx,
		opts:        opts,
		logger:      opts.Logger,
		screen:      listScreen,
		filter:      filter,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading:     true,
		pendingDeck: opts.Deck,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadDecksCmd(m.ctx, m.opts.Store),
		startWatchCmd(m.ctx, m.opts.Store),
		m.spinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case decksLoadedMsg:
		return m.decksLoaded(msg)

	case cardsLoadedMsg:
		return m.cardsLoaded(msg)

	case deckErasedMsg:
		if msg.err != nil {
			m.loading = false
			m.message = fmt.Sprintf("Deck removal failed: %v", msg.err)
			m.logger.Error("failed to erase deck", "deck", msg.deck.Name, "error", msg.err)
			return m, nil
		}
		m.message = fmt.Sprintf("Deleted %s", msg.deck.Name)
		return m, loadDecksCmd(m.ctx, m.opts.Store)

	case watchStartedMsg:
		if msg.err != nil {
			m.logger.Warn("decks root watch unavailable, press r to refresh", "error", msg.err)
			return m, nil
		}
		m.changes = msg.changes
		return m, waitForChangeCmd(m.changes)

	case rootChangedMsg:
		m.logger.Debug("decks root changed, refreshing")
		return m, tea.Batch(loadDecksCmd(m.ctx, m.opts.Store), waitForChangeCmd(m.changes))

	case watchClosedMsg:
		m.changes = nil
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == studyScreen {
			return m.updateStudy(msg)
		}
		return m.updateList(msg)
	}

	// Cursor blink and other input internals.
	if m.filter.Focused() {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) decksLoaded(msg decksLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.message = fmt.Sprintf("Failed to load decks: %v", msg.err)
		m.logger.Error("failed to list decks", "error", msg.err)
		return m, nil
	}

	m.decks = msg.decks
	m.applyFilter()

	if m.pendingDeck != "" {
		ref := m.pendingDeck
		m.pendingDeck = ""
		deck, err := catalog.Resolve(m.decks, ref)
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		return m.startStudy(deck)
	}
	return m, nil
}

func (m Model) cardsLoaded(msg cardsLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.message = fmt.Sprintf("Unable to load cards: %v", msg.err)
		m.logger.Error("failed to load cards", "deck", msg.deck.Name, "error", msg.err)
		return m, nil
	}

	m.deck = msg.deck
	m.session = m.opts.Scheduler.Start(msg.cards, m.opts.Shuffle)
	m.screen = studyScreen
	m.message = ""
	m.logger.Info("study session started", "deck", msg.deck.Name, "cards", m.session.Len())
	return m, nil
}

func (m Model) startStudy(deck domain.Deck) (tea.Model, tea.Cmd) {
	m.loading = true
	m.message = ""
	return m, loadCardsCmd(m.ctx, m.opts.Store, deck, m.opts.CardLimit)
}

func (m *Model) applyFilter() {
	m.visible = catalog.Filter(m.decks, m.filter.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m Model) selected() (domain.Deck, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return domain.Deck{}, false
	}
	return m.visible[m.cursor], true
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filter.Focused() {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	if m.pendingDelete != nil {
		deck := *m.pendingDelete
		m.pendingDelete = nil
		if msg.String() == "y" {
			m.loading = true
			m.message = ""
			return m, eraseDeckCmd(m.opts.Store, deck)
		}
		m.message = "Delete cancelled"
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case "/":
		m.message = ""
		return m, m.filter.Focus()

	case "esc":
		m.filter.SetValue("")
		m.applyFilter()

	case "r":
		m.loading = true
		m.message = ""
		return m, loadDecksCmd(m.ctx, m.opts.Store)

	case "enter":
		if deck, ok := m.selected(); ok {
			return m.startStudy(deck)
		}

	case "d":
		if deck, ok := m.selected(); ok {
			m.pendingDelete = &deck
			m.message = fmt.Sprintf("Delete %s and every deck imported with it? (y/n)", deck.Name)
		}
	}
	return m, nil
}

func (m Model) updateStudy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit

	case "esc":
		m.session.Reset()
		m.session = nil
		m.deck = domain.Deck{}
		m.screen = listScreen
		m.message = ""

	case "enter":
		if m.session.Done() {
			return m.updateStudy(tea.KeyMsg{Type: tea.KeyEsc})
		}

	case " ":
		if !m.session.Done() {
			m.session.Flip()
		}

	case "1", "2", "3", "4":
		grade := domain.Grade(key[0] - '0')
		if err := m.session.Grade(grade); err != nil {
			if errors.Is(err, scheduler.ErrSessionDone) {
				m.message = sessionComplete
			}
			return m, nil
		}
		if m.session.Done() {
			m.message = sessionComplete
			m.logger.Info("study session complete",
				"deck", m.deck.Name,
				"reviewed", m.session.Reviewed(),
				"again", m.session.Tallies()[domain.Again],
			)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.screen == studyScreen && m.session != nil {
		return m.studyView()
	}
	return m.listView()
}

func (m Model) listView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("knoldeck") + "\n")
	stats := catalog.Stats(m.decks)
	b.WriteString(statsStyle.Render(fmt.Sprintf("%d decks • %d cards", stats.Decks, stats.Cards)) + "\n\n")
	b.WriteString(m.filter.View() + "\n\n")

	switch {
	case len(m.decks) == 0 && !m.loading:
		b.WriteString(dimStyle.Render("No decks yet. Import one with: knoldeck import <file.apkg>") + "\n")
	case len(m.visible) == 0 && !m.loading:
		b.WriteString(dimStyle.Render("No decks match the filter") + "\n")
	default:
		start, end := m.window()
		for i := start; i < end; i++ {
			d := m.visible[i]
			line := fmt.Sprintf("%s (%d cards)", d.Name, d.CardCount)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> "+line) + "\n")
			} else {
				b.WriteString(deckStyle.Render("  "+line) + "\n")
			}
		}
	}

	b.WriteString("\n" + m.statusLine() + "\n")
	b.WriteString(dimStyle.Render("↑/↓: navigate • enter: study • /: filter • d: delete • r: refresh • q: quit"))
	return b.String()
}

// window returns the slice of visible decks that fits the terminal.
func (m Model) window() (int, int) {
	rows := len(m.visible)
	if m.height > 0 {
		rows = max(m.height-9, 1)
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	return start, min(start+rows, len(m.visible))
}

func (m Model) statusLine() string {
	if m.loading {
		return m.spinner.View() + dimStyle.Render("Loading…")
	}
	if m.message != "" {
		return messageStyle.Render(m.message)
	}
	return ""
}

func (m Model) studyView() string {
	var b strings.Builder
	s := m.session

	b.WriteString(titleStyle.Render(m.deck.Name) + "\n\n")

	if s.Done() {
		if s.Len() == 0 {
			b.WriteString(frontStyle.Render("No cards ready yet.") + "\n")
			b.WriteString(dimStyle.Render("Import a deck or pick another one to study.") + "\n\n")
		} else {
			b.WriteString(doneStyle.Render(sessionComplete) + "\n")
			b.WriteString(fmt.Sprintf("Reviewed %d cards\n", s.Reviewed()))
			b.WriteString(m.tallyLine() + "\n\n")
		}
		b.WriteString(dimStyle.Render("enter/esc: back to decks • q: quit"))
		return b.String()
	}

	progress := min(s.Cursor()+1, s.Len())
	b.WriteString(statsStyle.Render(fmt.Sprintf("%d / %d", progress, s.Len())) + "\n")

	card, _ := s.Current()
	b.WriteString(m.cardBox(card, s.Revealed()) + "\n")
	b.WriteString(m.tallyLine() + "\n")
	if m.message != "" {
		b.WriteString(messageStyle.Render(m.message) + "\n")
	}
	b.WriteString(dimStyle.Render("space: flip • 1: again • 2: hard • 3: good • 4: easy • esc: decks"))
	return b.String()
}

func (m Model) cardBox(card domain.Card, revealed bool) string {
	var b strings.Builder

	front := card.Front
	if strings.TrimSpace(front) == "" {
		front = "(Empty front)"
	}
	b.WriteString(frontStyle.Render(front))

	if revealed {
		back := card.Back
		if strings.TrimSpace(back) == "" {
			back = "(Empty back)"
		}
		b.WriteString("\n\n" + answerLabelStyle.Render("Answer") + "\n" + back)
		for _, extra := range card.Extra {
			if extra != "" {
				b.WriteString("\n" + dimStyle.Render(extra))
			}
		}
		if tags := parser.ParseTags(card.Tags()); len(tags) > 0 {
			b.WriteString("\n\n" + dimStyle.Render("tags: "+strings.Join(tags, ", ")))
		}
	}

	style := cardStyle
	if m.width > 0 {
		style = style.Width(min(m.width-4, 80))
	}
	return style.Render(b.String())
}

func (m Model) tallyLine() string {
	tallies := m.session.Tallies()
	parts := make([]string, 0, len(domain.Grades))
	for _, g := range domain.Grades {
		parts = append(parts, gradeStyles[g.String()].Render(fmt.Sprintf("%s %d", g, tallies[g])))
	}
	return strings.Join(parts, "  ")
}

// Run starts the TUI on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
