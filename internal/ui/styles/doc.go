// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the colours and lipgloss styles of the gauss TUI.

# Color System (colors.go)

All colours are lipgloss.AdaptiveColor values so they follow the terminal
background:

	Cyan     - brand, titles, focused cell border
	Purple   - right-hand side column
	Emerald  - solutions
	Amber    - warnings, residual notices
	Rose     - errors, invalid cells

# Theme System (theme.go)

	theme := styles.NewTheme("auto")
	cell := theme.Cell.Render("2")

NewTheme accepts "auto", "dark" or "light"; the latter two override
background detection.
*/
package styles
