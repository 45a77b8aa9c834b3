// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package calc

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gauss-tui/internal/matrix"
	"github.com/jeranaias/gauss-tui/internal/session"
	"github.com/jeranaias/gauss-tui/internal/ui/styles"
	"github.com/jeranaias/gauss-tui/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	var help []key.Binding
	if m.sess.CurrentState() == session.StateSizingInput {
		body = m.viewSizing()
		help = m.keys.sizingHelp()
	} else {
		body = m.viewGrid()
		help = m.keys.gridHelp()
	}

	parts := []string{m.theme.Title.Render("Gauss · linear system solver"), body}
	if line := m.viewStatus(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, m.viewHelp(help))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// SIZING
// =============================================================================

func (m Model) viewSizing() string {
	label := m.theme.Label
	field := func(i int) string {
		style := m.theme.Cell
		if i == m.sizeFocus {
			style = m.theme.CellFocused
		}
		return style.Render(m.size[i].View())
	}

	rows := lipgloss.JoinHorizontal(lipgloss.Center, label.Render("Rows"), field(0))
	cols := lipgloss.JoinHorizontal(lipgloss.Center, label.Render("Columns"), field(1))
	hint := m.theme.Subtitle.Render(fmt.Sprintf("Square systems from 1 to %d unknowns", m.sess.MaxSize()))
	return lipgloss.JoinVertical(lipgloss.Left, rows, cols, hint)
}

// =============================================================================
// GRID
// =============================================================================

func (m Model) viewGrid() string {
	n := m.sess.Size()

	rows := make([]string, 0, n+1)
	rows = append(rows, m.viewHeader(n))
	for i := 0; i < n; i++ {
		row := make([]string, 0, n+2)
		for j := 0; j <= n; j++ {
			if j == n {
				row = append(row, m.theme.Separator.Render(matrix.Separator))
			}
			row = append(row, m.viewCell(i, j, n))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)

	if errText := m.fieldErr[m.row][m.col]; errText != "" {
		grid = lipgloss.JoinVertical(lipgloss.Left, grid, m.theme.Error.Render(errText))
	}

	panel := m.viewResult()
	if panel == "" {
		return grid
	}
	if m.theme.GetLayoutMode() == styles.LayoutWide {
		return lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", panel)
	}
	return lipgloss.JoinVertical(lipgloss.Left, grid, panel)
}

func (m Model) viewHeader(n int) string {
	// Cell border plus padding adds four columns.
	width := cellWidth + 4
	heads := make([]string, 0, n+2)
	for j := 0; j < n; j++ {
		heads = append(heads, util.PadRight(fmt.Sprintf(" x%d", j), width))
	}
	heads = append(heads, " ", util.PadRight(" b", width))
	return m.theme.Help.Render(strings.Join(heads, ""))
}

func (m Model) viewCell(i, j, n int) string {
	style := m.theme.Cell
	switch {
	case i == m.row && j == m.col:
		style = m.theme.CellFocused
	case m.fieldErr[i][j] != "":
		style = m.theme.CellInvalid
	case j == n:
		style = m.theme.RHSCell
	}
	if m.fieldErr[i][j] != "" && i == m.row && j == m.col {
		style = style.BorderForeground(styles.Rose)
	}
	return style.Render(m.cells[i][j].View())
}

// =============================================================================
// RESULT PANEL
// =============================================================================

func (m Model) viewResult() string {
	res := m.result
	if res == nil {
		return ""
	}

	var lines []string
	if res.OK() {
		for _, l := range res.Lines(m.opts.Decimals) {
			lines = append(lines, m.theme.Solution.Render(l))
		}
		lines = append(lines, m.theme.Help.Render(fmt.Sprintf("residual %.3g", res.Residual)))
	} else {
		lines = append(lines, m.theme.Error.Render(session.Message(res.Err)))
	}

	if m.showTrace && len(res.Trace) > 0 {
		lines = append(lines, "", m.theme.Subtitle.Render("Steps"), m.theme.Trace.Render(m.trace.View()))
	}
	return m.theme.Panel.Render(strings.Join(lines, "\n"))
}

// =============================================================================
// FOOTER
// =============================================================================

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.theme.Error.Render(m.status)
	}
	return m.theme.Status.Render(m.status)
}

func (m Model) viewHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	line := strings.Join(parts, " • ")
	if m.width > 0 {
		line = util.TruncateWidth(line, m.width)
	}
	return m.theme.Help.Render(line)
}
