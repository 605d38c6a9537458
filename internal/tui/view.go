package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bodul/xwplay/internal/puzzle"
	"github.com/bodul/xwplay/internal/verify"
)

const (
	// gridTop is the screen line of the first grid row.
	gridTop = 2
	// cellWidth is the number of columns one cell takes.
	cellWidth = 4
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	cellStyle      = lipgloss.NewStyle().Background(lipgloss.Color("255")).Foreground(lipgloss.Color("232"))
	blockedStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	highlightStyle = cellStyle.Background(lipgloss.Color("153"))
	selectedStyle  = cellStyle.Background(lipgloss.Color("221")).Bold(true)
	numberStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	correctColor   = lipgloss.Color("28")
	incorrectColor = lipgloss.Color("160")

	clueHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	activeClueStyle = lipgloss.NewStyle().Reverse(true)
	messageStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	confirmStyle    = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// cellAt maps a screen position to a grid cell.
func cellAt(x, y, size int) (row, col int, ok bool) {
	if x < 0 || y < gridTop {
		return 0, 0, false
	}
	row, col = y-gridTop, x/cellWidth
	if row >= size || col >= size {
		return 0, 0, false
	}
	return row, col, true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("xwplay"))
	b.WriteString("\n\n")

	if m.frame.Size() == 0 {
		b.WriteString("Generating puzzle...\n\n")
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderGrid(), "   ", m.renderClues()))
		b.WriteString("\n\n")
	}

	if msg := m.frame.Message(); msg != "" {
		b.WriteString(messageStyle.Render(msg))
		b.WriteString("\n")
	}

	if g, ok := m.frame.Gate(); ok {
		b.WriteString(confirmStyle.Render(g.Prompt))
		b.WriteString("\n")
		b.WriteString(m.help.View(confirmHelp{m.keys}))
		return b.String()
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderGrid() string {
	size := m.frame.Size()
	rows := make([]string, size)
	for r := range size {
		var line strings.Builder
		for c := range size {
			line.WriteString(m.renderCell(r, c))
		}
		rows[r] = line.String()
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderCell(r, c int) string {
	if m.frame.Blocked(r, c) {
		return blockedStyle.Render(strings.Repeat(" ", cellWidth))
	}

	style := cellStyle
	switch {
	case m.frame.Selected(r, c):
		style = selectedStyle
	case m.frame.Highlighted(r, c):
		style = highlightStyle
	}
	letter := style
	switch m.frame.Mark(r, c) {
	case verify.Correct:
		letter = style.Foreground(correctColor).Bold(true)
	case verify.Incorrect:
		letter = style.Foreground(incorrectColor).Bold(true)
	}

	num := "  "
	if n := m.frame.Number(r, c); n > 0 && n < 100 {
		num = fmt.Sprintf("%-2d", n)
	}
	text := m.frame.Content(r, c)
	if text == "" {
		text = " "
	}
	return style.Inherit(numberStyle).Render(num) + letter.Render(strings.ToUpper(text)) + style.Render(" ")
}

func (m Model) renderClues() string {
	n, o, active := m.frame.ActiveClue()
	var b strings.Builder
	for i, orient := range []puzzle.Orientation{puzzle.Across, puzzle.Down} {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(clueHeaderStyle.Render(strings.ToUpper(string(orient))))
		b.WriteString("\n")
		for _, c := range m.frame.Clues(orient) {
			line := fmt.Sprintf("%2d. %s", c.Number, c.Text)
			if active && c.Number == n && c.Orientation == o {
				line = activeClueStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
