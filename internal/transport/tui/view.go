package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)

	cellStyle   = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	cursorStyle = cellStyle.Reverse(true)
	xStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	oStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 2).
			MarginTop(1).
			Bold(true)
)

func (that *Model) View() string {
	if that.screen == screenTitle {
		return that.viewTitle()
	}

	return that.viewGame()
}

func (that *Model) viewTitle() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tic-tac-toe"))
	b.WriteString("\n")

	labels := [2]string{"Player 1 (X)", "Player 2 (O)"}
	for i, label := range labels {
		name := that.names[i]
		line := fmt.Sprintf("%-14s %s", label, name)

		if i == that.focus {
			b.WriteString(focusedStyle.Render("> " + line + "_"))
		} else {
			b.WriteString(labelStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: two players  ctrl+a: play the computer  tab: switch name  esc: quit"))
	b.WriteString("\n")

	return b.String()
}

func (that *Model) viewGame() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s vs %s", that.players[0].Name, that.players[1].Name)))
	b.WriteString("\n")
	b.WriteString(boardStyle.Render(that.viewBoard()))
	b.WriteString("\n")

	switch {
	case that.popup != "":
		b.WriteString(popupStyle.Render(that.popup))
	case that.active.IsComputer:
		fmt.Fprintf(&b, "%s (%s) is thinking...", that.active.Name, that.active.Mark)
	default:
		fmt.Fprintf(&b, "%s (%s) to move", that.active.Name, that.active.Mark)
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("arrows/1-9: pick  enter: play  r: restart  t: title  q: quit"))
	b.WriteString("\n")

	return b.String()
}

func (that *Model) viewBoard() string {
	rows := make([]string, 0, 3)

	for row := 0; row < 3; row++ {
		cells := make([]string, 0, 3)

		for col := 0; col < 3; col++ {
			index := row*3 + col

			style := cellStyle
			if index == that.cursor && that.popup == "" {
				style = cursorStyle
			}

			cells = append(cells, style.Render(renderMark(that.board[index], index)))
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderMark(mark entity.Mark, index int) string {
	switch mark {
	case entity.X:
		return xStyle.Render(string(mark))
	case entity.O:
		return oStyle.Render(string(mark))
	default:
		return emptyStyle.Render(fmt.Sprintf("%d", index+1))
	}
}
