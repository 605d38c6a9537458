// Package tui is a terminal client that drives a Dispatcher from the
// bubbletea event loop. The loop is the only goroutine touching the
// Dispatcher; generation and mark expiry come back to it as messages.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/bodul/xwplay/internal/dispatch"
	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/render"
	"github.com/bodul/xwplay/internal/session"
)

// --- Messages ---

// eventMsg carries a dispatcher event through the tea loop.
type eventMsg struct {
	ev dispatch.Event
}

// --- Effects ---

// effects turns dispatcher requests into tea commands. Commands are
// collected while Handle runs and returned from Update.
type effects struct {
	gen     session.Generator
	timeout time.Duration
	cmds    []tea.Cmd
}

func (e *effects) StartGeneration(seq uint64, size int) {
	gen, timeout := e.gen, e.timeout
	e.cmds = append(e.cmds, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		p, err := gen.Generate(ctx, size)
		if err != nil {
			log.Warn().Err(err).Int("size", size).Msg("puzzle generation failed")
		}
		return eventMsg{dispatch.GenerationFinished{Seq: seq, Puzzle: p, Err: err}}
	})
}

func (e *effects) Schedule(d time.Duration, ev dispatch.Event) {
	e.cmds = append(e.cmds, tea.Tick(d, func(time.Time) tea.Msg { return eventMsg{ev} }))
}

func (e *effects) drain() tea.Cmd {
	cmds := e.cmds
	e.cmds = nil
	return tea.Batch(cmds...)
}

// --- Model ---

// Options configure the terminal client.
type Options struct {
	Size            int
	Dispatch        dispatch.Options
	GenerateTimeout time.Duration
}

// Model is the bubbletea model of one puzzle session.
type Model struct {
	d     *dispatch.Dispatcher
	frame *render.Frame
	fx    *effects

	size int
	keys keyMap
	help help.Model

	width    int
	height   int
	quitting bool
}

// New returns a model that requests its first puzzle on start.
func New(gen session.Generator, opts Options) Model {
	if opts.Size == 0 {
		opts.Size = puzzle.DefaultSize
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = session.DefaultGenerateTimeout
	}
	frame := render.NewFrame()
	fx := &effects{gen: gen, timeout: opts.GenerateTimeout}
	return Model{
		d:     dispatch.New(fx, dispatch.SinkFunc(frame.Apply), opts.Dispatch),
		frame: frame,
		fx:    fx,
		size:  opts.Size,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	size := m.size
	return func() tea.Msg { return eventMsg{dispatch.GenerateRequested{Size: size}} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		return m, m.handle(msg.ev)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if row, col, ok := cellAt(msg.X, msg.Y, m.frame.Size()); ok {
			return m, m.handle(dispatch.CellActivated{Row: row, Col: col})
		}
		return m, nil

	case tea.KeyMsg:
		// A pending confirm gate takes every key.
		if g, ok := m.frame.Gate(); ok {
			switch {
			case key.Matches(msg, m.keys.Yes):
				return m, m.handle(dispatch.ConfirmAnswered{Token: g.Token, Accept: true})
			case key.Matches(msg, m.keys.No):
				return m, m.handle(dispatch.ConfirmAnswered{Token: g.Token, Accept: false})
			case msg.String() == "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up):
		return m, m.handle(dispatch.ArrowPressed{Direction: dispatch.Up})
	case key.Matches(msg, m.keys.Down):
		return m, m.handle(dispatch.ArrowPressed{Direction: dispatch.Down})
	case key.Matches(msg, m.keys.Left):
		return m, m.handle(dispatch.ArrowPressed{Direction: dispatch.Left})
	case key.Matches(msg, m.keys.Right):
		return m, m.handle(dispatch.ArrowPressed{Direction: dispatch.Right})
	case key.Matches(msg, m.keys.Toggle):
		return m, m.handle(dispatch.TogglePressed{})
	case key.Matches(msg, m.keys.NextClue):
		return m, m.stepClue(1)
	case key.Matches(msg, m.keys.PrevClue):
		return m, m.stepClue(-1)
	case key.Matches(msg, m.keys.Delete):
		return m, m.handle(dispatch.DeletePressed{})
	case key.Matches(msg, m.keys.New):
		return m, m.handle(dispatch.GenerateRequested{Size: m.size})
	case key.Matches(msg, m.keys.Check):
		return m, m.handle(dispatch.CheckRequested{})
	case key.Matches(msg, m.keys.Reveal):
		return m, m.handle(dispatch.RevealRequested{})
	case key.Matches(msg, m.keys.Clear):
		return m, m.handle(dispatch.ClearRequested{})
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		return m, m.handle(dispatch.CharTyped{Char: string(msg.Runes)})
	}
	return m, nil
}

// handle runs one event through the dispatcher and returns the commands it
// asked for.
func (m Model) handle(ev dispatch.Event) tea.Cmd {
	m.d.Handle(ev)
	if a, ok := ev.(dispatch.ConfirmAnswered); ok {
		m.frame.ResolveGate(a.Token)
	}
	return m.fx.drain()
}

// stepClue activates the clue after (or before) the active one, across
// clues first, wrapping at either end.
func (m Model) stepClue(delta int) tea.Cmd {
	var all []puzzle.Clue
	all = append(all, m.frame.Clues(puzzle.Across)...)
	all = append(all, m.frame.Clues(puzzle.Down)...)
	if len(all) == 0 {
		return nil
	}
	next := 0
	if delta < 0 {
		next = len(all) - 1
	}
	if n, o, ok := m.frame.ActiveClue(); ok {
		for i, c := range all {
			if c.Number == n && c.Orientation == o {
				next = (i + delta + len(all)) % len(all)
				break
			}
		}
	}
	c := all[next]
	return m.handle(dispatch.ClueActivated{Number: c.Number, Orientation: c.Orientation, Row: c.Row, Col: c.Col})
}
