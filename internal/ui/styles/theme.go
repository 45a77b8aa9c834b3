// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components of the calculator.
type Theme struct {
	// Terminal capabilities
	Name         string
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// FRAME
	// ==========================================================================

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Status   lipgloss.Style

	// ==========================================================================
	// GRID
	// ==========================================================================

	Cell        lipgloss.Style
	CellFocused lipgloss.Style
	CellInvalid lipgloss.Style
	RHSCell     lipgloss.Style
	Separator   lipgloss.Style
	Label       lipgloss.Style

	// ==========================================================================
	// RESULT PANEL
	// ==========================================================================

	Panel    lipgloss.Style
	Solution lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Trace    lipgloss.Style
}

// NewTheme creates a theme. name is "auto", "dark" or "light"; anything
// else is treated as "auto".
func NewTheme(name string) *Theme {
	r := lipgloss.DefaultRenderer()
	isDark := r.HasDarkBackground()
	switch name {
	case "dark":
		isDark = true
		r.SetHasDarkBackground(true)
	case "light":
		isDark = false
		r.SetHasDarkBackground(false)
	default:
		name = "auto"
	}

	t := &Theme{
		Name:         name,
		IsDark:       isDark,
		ColorProfile: r.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		MarginBottom(1)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Status = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	cell := lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.Cell = cell
	t.CellFocused = cell.BorderForeground(Cyan).Bold(true)
	t.CellInvalid = cell.BorderForeground(Rose).Foreground(Rose)
	t.RHSCell = cell.Foreground(Purple).BorderForeground(Purple)

	t.Separator = lipgloss.NewStyle().
		Foreground(Overlay).
		Padding(1, 0)

	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(12)

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.Solution = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.Error = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Warning = lipgloss.NewStyle().
		Foreground(Amber)

	t.Trace = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns: result panel below the grid
	LayoutWide                     // result panel beside the grid
)
