package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Toggle   key.Binding
	NextClue key.Binding
	PrevClue key.Binding
	Delete   key.Binding
	New      key.Binding
	Check    key.Binding
	Reveal   key.Binding
	Clear    key.Binding
	Yes      key.Binding
	No       key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Toggle:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "across/down")),
		NextClue: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next clue")),
		PrevClue: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev clue")),
		Delete:   key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("⌫", "delete")),
		New:      key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new puzzle")),
		Check:    key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "check")),
		Reveal:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reveal")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Yes:      key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "yes")),
		No:       key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.New, k.Check, k.Reveal, k.Clear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.NextClue, k.PrevClue, k.Delete},
		{k.New, k.Check, k.Reveal, k.Clear},
		{k.Help, k.Quit},
	}
}

// confirmHelp is shown while a confirm gate is open.
type confirmHelp struct{ keys keyMap }

func (c confirmHelp) ShortHelp() []key.Binding { return []key.Binding{c.keys.Yes, c.keys.No} }

func (c confirmHelp) FullHelp() [][]key.Binding { return [][]key.Binding{c.ShortHelp()} }
