// Package dispatch turns input events into selection changes, content
// changes and render directives for one puzzle session.
//
// A Dispatcher is not safe for concurrent use. It is owned by exactly one
// goroutine (a session actor or a bubbletea loop) and reaches the outside
// world only through its Effects and Sink.
package dispatch

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bodul/xwplay/internal/nav"
	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/verify"
)

const (
	msgGenerating    = "Generating puzzle..."
	msgGenerated     = "New puzzle generated!"
	msgGenerateError = "Error generating puzzle. Please try again."
	msgAllCorrect    = "Congratulations! All answers are correct!"
	msgSomeWrong     = "Some answers are incorrect. Keep trying!"
	msgRevealed      = "Solution revealed."
	msgCleared       = "Grid cleared."

	promptReveal = "Are you sure you want to reveal the solution?"
	promptClear  = "Are you sure you want to clear all your answers?"

	// DefaultMarkTimeout is how long check marks stay visible.
	DefaultMarkTimeout = 2 * time.Second
)

// Effects are the asynchronous actions a Dispatcher asks its owner to run.
// Both must return without blocking and deliver their result later through
// Handle on the owning goroutine.
type Effects interface {
	// StartGeneration requests a puzzle of the given size and must
	// eventually deliver GenerationFinished{Seq: seq}.
	StartGeneration(seq uint64, size int)
	// Schedule delivers ev after d. Scheduled events are never cancelled.
	Schedule(d time.Duration, ev Event)
}

// Sink receives directives in the order they are produced.
type Sink interface {
	Emit(Directive)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Directive)

func (f SinkFunc) Emit(d Directive) { f(d) }

// Options tune a Dispatcher. Zero values select defaults.
type Options struct {
	MarkTimeout time.Duration
	DefaultSize int
	// NewToken issues confirm gate tokens. Defaults to random UUIDs.
	NewToken func() string
}

type action int

const (
	actionReveal action = iota + 1
	actionClear
)

type gate struct {
	token  string
	prompt string
	action action
}

// Dispatcher holds the active puzzle, its contents and the selection.
type Dispatcher struct {
	effects Effects
	sink    Sink
	opts    Options

	puzzle   *puzzle.Puzzle
	index    *puzzle.Index
	contents puzzle.Contents
	sel      nav.State
	marked   bool
	pending  *gate
	seq      uint64
	awaiting bool
}

// New returns a Dispatcher with no puzzle loaded.
func New(effects Effects, sink Sink, opts Options) *Dispatcher {
	if opts.MarkTimeout <= 0 {
		opts.MarkTimeout = DefaultMarkTimeout
	}
	if opts.DefaultSize == 0 {
		opts.DefaultSize = puzzle.DefaultSize
	}
	if opts.NewToken == nil {
		opts.NewToken = uuid.NewString
	}
	return &Dispatcher{effects: effects, sink: sink, opts: opts, sel: nav.Empty()}
}

// Puzzle returns the active puzzle, or nil before the first load.
func (d *Dispatcher) Puzzle() *puzzle.Puzzle { return d.puzzle }

// Selection returns the current selection.
func (d *Dispatcher) Selection() nav.State { return d.sel }

// Contents returns a copy of the player's letters.
func (d *Dispatcher) Contents() puzzle.Contents { return d.contents.Clone() }

// Pending returns the open confirm gate, if any.
func (d *Dispatcher) Pending() (ConfirmGate, bool) {
	if d.pending == nil {
		return ConfirmGate{}, false
	}
	return ConfirmGate{Token: d.pending.token, Prompt: d.pending.prompt}, true
}

// Generating reports whether a generation result is still awaited.
func (d *Dispatcher) Generating() bool { return d.awaiting }

// Handle processes one event to completion. Events that do not apply to the
// current state are ignored.
func (d *Dispatcher) Handle(ev Event) {
	switch e := ev.(type) {
	case CellActivated:
		if d.index != nil {
			d.selectState(nav.SelectCell(d.index, d.sel, e.Row, e.Col, d.sel.Orientation))
		}
	case ClueActivated:
		if d.index != nil && e.Orientation.Valid() {
			d.selectState(nav.SelectWordByLocator(d.index, d.sel, e.Row, e.Col, e.Orientation))
		}
	case CharTyped:
		d.typeChar(e.Char)
	case DeletePressed:
		d.deleteChar()
	case ArrowPressed:
		if dr, dc, ok := e.Direction.Delta(); ok && d.sel.HasCursor {
			d.selectState(nav.MoveInDirection(d.index, d.sel, dr, dc))
		}
	case TogglePressed:
		if d.sel.HasCursor {
			d.selectState(nav.ToggleOrientation(d.index, d.sel))
		}
	case GenerateRequested:
		d.requestGeneration(e.Size)
	case GenerationFinished:
		d.finishGeneration(e)
	case CheckRequested:
		d.check()
	case RevealRequested:
		d.openGate(actionReveal, promptReveal)
	case ClearRequested:
		d.openGate(actionClear, promptClear)
	case ConfirmAnswered:
		d.answerGate(e)
	case MarksExpired:
		if d.marked {
			d.marked = false
			d.sink.Emit(ClearMarks{})
		}
	}
}

// Load installs p as if a generation had just succeeded.
func (d *Dispatcher) Load(p *puzzle.Puzzle) {
	d.install(p)
}

func (d *Dispatcher) selectState(next nav.State) {
	if next == d.sel {
		return
	}
	d.sel = next
	d.emitSelection()
}

func (d *Dispatcher) emitSelection() {
	hl := SetHighlight{Cells: d.sel.Highlighted()}
	if d.sel.HasCursor {
		c := d.sel.Cursor
		hl.Selected = &c
	}
	d.sink.Emit(hl)
	if d.sel.HasWord {
		d.sink.Emit(SetClueActive{Number: d.sel.Word.Number, Orientation: d.sel.Word.Orientation})
	} else {
		d.sink.Emit(SetClueActive{})
	}
}

func (d *Dispatcher) typeChar(s string) {
	if !d.sel.HasCursor || utf8.RuneCountInString(s) != 1 {
		return
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch {
	case r >= 'a' && r <= 'z':
		r -= 'a' - 'A'
	case r >= 'A' && r <= 'Z':
	default:
		return
	}
	d.setContent(d.sel.Cursor, string(r))
	d.selectState(nav.AdvanceAfterInput(d.index, d.sel))
}

func (d *Dispatcher) deleteChar() {
	if !d.sel.HasCursor {
		return
	}
	d.setContent(d.sel.Cursor, "")
	d.selectState(nav.RetreatAfterDelete(d.index, d.sel))
}

func (d *Dispatcher) setContent(c puzzle.Coord, text string) {
	d.contents.Set(c.Row, c.Col, text)
	d.sink.Emit(SetCellContent{Row: c.Row, Col: c.Col, Text: text})
}

func (d *Dispatcher) requestGeneration(size int) {
	if size == 0 {
		size = d.opts.DefaultSize
	}
	if size < puzzle.MinSize || size > puzzle.MaxSize {
		d.sink.Emit(ShowMessage{Text: fmt.Sprintf("Grid size must be between %d and %d.", puzzle.MinSize, puzzle.MaxSize)})
		return
	}
	d.seq++
	d.awaiting = true
	d.sink.Emit(ShowMessage{Text: msgGenerating})
	d.effects.StartGeneration(d.seq, size)
}

func (d *Dispatcher) finishGeneration(e GenerationFinished) {
	if e.Seq != d.seq || !d.awaiting {
		return
	}
	d.awaiting = false
	if e.Err != nil || e.Puzzle == nil {
		d.sink.Emit(ShowMessage{Text: msgGenerateError})
		return
	}
	d.install(e.Puzzle)
}

func (d *Dispatcher) install(p *puzzle.Puzzle) {
	d.puzzle = p
	d.index = puzzle.BuildIndex(p)
	d.contents = puzzle.NewContents(p.Size())
	d.pending = nil
	d.marked = false
	d.sel = nav.Empty()

	d.sink.Emit(DrawGrid{Size: p.Size(), Blocked: p.Blocked(), Numbered: p.Numbered()})
	d.sink.Emit(DrawClues{Across: p.Clues(puzzle.Across), Down: p.Clues(puzzle.Down)})
	d.sel = nav.SelectFirstWord(d.index)
	d.emitSelection()
	d.sink.Emit(ShowMessage{Text: msgGenerated})
}

func (d *Dispatcher) check() {
	if d.puzzle == nil {
		return
	}
	res := verify.Check(d.puzzle, d.contents)
	marks := make([]CellMark, 0, len(res.Marks))
	for c, m := range res.Marks {
		marks = append(marks, CellMark{Row: c.Row, Col: c.Col, Mark: m})
	}
	sort.Slice(marks, func(i, j int) bool {
		if marks[i].Row != marks[j].Row {
			return marks[i].Row < marks[j].Row
		}
		return marks[i].Col < marks[j].Col
	})

	d.marked = true
	d.sink.Emit(SetMarks{Marks: marks, ClearAfterMS: d.opts.MarkTimeout.Milliseconds()})
	if res.AllCorrect {
		d.sink.Emit(ShowMessage{Text: msgAllCorrect})
	} else {
		d.sink.Emit(ShowMessage{Text: msgSomeWrong})
	}
	d.effects.Schedule(d.opts.MarkTimeout, MarksExpired{})
}

func (d *Dispatcher) openGate(a action, prompt string) {
	if d.puzzle == nil {
		return
	}
	d.pending = &gate{token: d.opts.NewToken(), prompt: prompt, action: a}
	d.sink.Emit(ConfirmGate{Token: d.pending.token, Prompt: prompt})
}

func (d *Dispatcher) answerGate(e ConfirmAnswered) {
	g := d.pending
	if g == nil || g.token != e.Token {
		return
	}
	d.pending = nil
	if !e.Accept {
		return
	}
	switch g.action {
	case actionReveal:
		d.replaceContents(verify.Reveal(d.puzzle, d.contents))
		d.sink.Emit(ShowMessage{Text: msgRevealed})
	case actionClear:
		d.replaceContents(verify.Clear(d.puzzle))
		d.sink.Emit(ShowMessage{Text: msgCleared})
	}
}

func (d *Dispatcher) replaceContents(next puzzle.Contents) {
	n := d.puzzle.Size()
	for r := range n {
		for c := range n {
			if v := next.Get(r, c); v != d.contents.Get(r, c) {
				d.sink.Emit(SetCellContent{Row: r, Col: c, Text: v})
			}
		}
	}
	d.contents = next
}
