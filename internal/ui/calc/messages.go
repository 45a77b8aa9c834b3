// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package calc

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gauss-tui/internal/config"
)

// SavedMsg reports the outcome of the OnSolve hook.
type SavedMsg struct {
	Err error
}

// ConfigMsg carries a reloaded configuration, or the reload error.
type ConfigMsg struct {
	Config *config.Config
	Err    error
}

// WaitForConfig returns a command that delivers the next value from ch.
// The model re-issues it after each ConfigMsg.
func WaitForConfig(ch <-chan ConfigMsg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
