// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package calc

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/gauss-tui/internal/config"
	"github.com/jeranaias/gauss-tui/internal/session"
	"github.com/jeranaias/gauss-tui/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

func newModel(opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme("dark")
	}
	if opts.Decimals == 0 {
		opts.Decimals = 2
	}
	return New(session.New(), opts)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: k})
	return m
}

// sized submits an n×n size.
func sized(t *testing.T, m Model, n string) Model {
	t.Helper()
	m = typeText(t, m, n)
	m = press(t, m, tea.KeyTab)
	m = typeText(t, m, n)
	m = press(t, m, tea.KeyEnter)
	require.Equal(t, session.StateMatrixInput, m.Session().CurrentState())
	return m
}

// fill types values into the grid in Tab order.
func fill(t *testing.T, m Model, values ...string) Model {
	t.Helper()
	for i, v := range values {
		if i > 0 {
			m = press(t, m, tea.KeyTab)
		}
		m = typeText(t, m, v)
	}
	return m
}

// =============================================================================
// SIZING TESTS
// =============================================================================

func TestSizing_Accepts(t *testing.T) {
	m := sized(t, newModel(Options{}), "3")
	assert.Equal(t, 3, m.Session().Size())
	assert.Empty(t, m.Status())
	assert.Contains(t, m.View(), "x2")
}

func TestSizing_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols string
		want       string
	}{
		{"not square", "2", "3", "Matrix must be square and non-zero!"},
		{"zero", "0", "0", "Matrix must be square and non-zero!"},
		{"empty", "", "2", "Invalid matrix size input!"},
		{"too large", "99", "99", "Matrix is too large!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(Options{})
			m = typeText(t, m, tt.rows)
			m = press(t, m, tea.KeyTab)
			m = typeText(t, m, tt.cols)
			m = press(t, m, tea.KeyEnter)

			assert.Equal(t, session.StateSizingInput, m.Session().CurrentState())
			assert.Equal(t, tt.want, m.Status())
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestSizing_DigitsOnly(t *testing.T) {
	m := newModel(Options{})
	m = typeText(t, m, "a-2x")
	assert.Equal(t, "2", m.size[0].Value())
}

func TestSizing_EscQuits(t *testing.T) {
	m := newModel(Options{})
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

// =============================================================================
// GRID TESTS
// =============================================================================

func TestGrid_Navigation(t *testing.T) {
	m := sized(t, newModel(Options{}), "2")

	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyTab)
	r, c := m.Focus()
	assert.Equal(t, [2]int{0, 2}, [2]int{r, c})

	m = press(t, m, tea.KeyTab)
	r, c = m.Focus()
	assert.Equal(t, [2]int{1, 0}, [2]int{r, c})

	m = press(t, m, tea.KeyShiftTab)
	r, c = m.Focus()
	assert.Equal(t, [2]int{0, 2}, [2]int{r, c})

	m = press(t, m, tea.KeyDown)
	r, c = m.Focus()
	assert.Equal(t, [2]int{1, 2}, [2]int{r, c})

	m = press(t, m, tea.KeyDown)
	r, _ = m.Focus()
	assert.Equal(t, 0, r)

	m = press(t, m, tea.KeyUp)
	r, _ = m.Focus()
	assert.Equal(t, 1, r)
}

func TestGrid_FiltersAndValidates(t *testing.T) {
	m := sized(t, newModel(Options{}), "1")

	m = typeText(t, m, "1a/")
	text, err := m.Session().Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "1/", text)
	assert.Equal(t, "Not a number", m.fieldErr[0][0])
	assert.Contains(t, m.View(), "Not a number")

	m = typeText(t, m, "0")
	assert.Equal(t, "Denominator cannot be zero", m.fieldErr[0][0])

	m = press(t, m, tea.KeyBackspace)
	m = typeText(t, m, "2")
	assert.Empty(t, m.fieldErr[0][0])
	text, _ = m.Session().Cell(0, 0)
	assert.Equal(t, "1/2", text)
}

func TestGrid_SolveEndToEnd(t *testing.T) {
	var savedID string
	var saved *session.Result
	m := newModel(Options{
		OnSolve: func(id string, res *session.Result) error {
			savedID, saved = id, res
			return nil
		},
	})
	m = sized(t, m, "2")
	m = fill(t, m, "2", "1", "5", "1", "-1", "1")

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.Result())
	require.True(t, m.Result().OK())
	assert.InDeltaSlice(t, []float64{2, 1}, []float64(m.Result().Solution), 1e-12)
	assert.Equal(t, "Solved", m.Status())
	assert.Contains(t, m.View(), "x[0] = 2.00")
	assert.Contains(t, m.View(), "x[1] = 1.00")

	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, SavedMsg{}, msg)
	assert.Equal(t, m.Session().ID(), savedID)
	assert.Same(t, m.Result(), saved)

	m, _ = send(t, m, msg)
	assert.Equal(t, "Solved", m.Status())
}

func TestGrid_SolveFailures(t *testing.T) {
	m := sized(t, newModel(Options{}), "2")
	m = fill(t, m, "1", "1", "2", "1", "1", "2")
	m = press(t, m, tea.KeyEnter)
	assert.Equal(t, "System is singular and cannot be solved", m.Status())
	assert.False(t, m.Result().OK())
	assert.Equal(t, session.StateMatrixInput, m.Session().CurrentState())

	m = sized(t, newModel(Options{}), "1")
	m = press(t, m, tea.KeyEnter)
	assert.Equal(t, "Matrix input is invalid (row 1, column 1)", m.Status())
}

func TestGrid_SaveErrorShown(t *testing.T) {
	m := newModel(Options{
		OnSolve: func(string, *session.Result) error { return errors.New("disk full") },
	})
	m = sized(t, m, "1")
	m = fill(t, m, "2", "4")
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = send(t, m, cmd())
	assert.Equal(t, "History not saved: disk full", m.Status())
}

func TestGrid_TraceToggle(t *testing.T) {
	m := sized(t, newModel(Options{}), "1")
	m = fill(t, m, "2", "4")
	m = press(t, m, tea.KeyEnter)
	assert.NotContains(t, m.View(), "Steps")

	m = press(t, m, tea.KeyCtrlT)
	view := m.View()
	assert.Contains(t, view, "Steps")
	assert.Contains(t, view, "Normalized row 0")

	m = press(t, m, tea.KeyCtrlT)
	assert.NotContains(t, m.View(), "Steps")
}

func TestGrid_Copy(t *testing.T) {
	var copied string
	m := newModel(Options{
		Decimals: 3,
		Copy:     func(s string) error { copied = s; return nil },
	})
	m = sized(t, m, "2")

	m = typeText(t, m, "y")
	assert.Equal(t, "Nothing to copy", m.Status())

	m = fill(t, m, "2", "1", "5", "1", "-1", "1")
	m = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "y")
	assert.Equal(t, "x[0] = 2.000\nx[1] = 1.000", copied)
	assert.Equal(t, "Copied solution to clipboard", m.Status())
}

func TestGrid_ResetReturnsToSizing(t *testing.T) {
	m := sized(t, newModel(Options{}), "2")
	id := m.Session().ID()
	m = fill(t, m, "1")

	m = press(t, m, tea.KeyEsc)
	assert.Equal(t, session.StateSizingInput, m.Session().CurrentState())
	assert.NotEqual(t, id, m.Session().ID())
	assert.Nil(t, m.Result())
	assert.Contains(t, m.View(), "Rows")

	m = sized(t, m, "1")
	text, err := m.Session().Cell(0, 0)
	require.NoError(t, err)
	assert.Empty(t, text)
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestConfigReload(t *testing.T) {
	ch := make(chan ConfigMsg, 1)
	m := newModel(Options{ConfigUpdates: ch})
	m = sized(t, m, "1")
	m = fill(t, m, "2", "1")
	m = press(t, m, tea.KeyEnter)

	cfg := config.Default()
	cfg.Display.Decimals = 4
	cfg.Display.ShowTrace = true
	ch <- ConfigMsg{Config: cfg}

	msg := m.Init()()
	m, cmd := send(t, m, msg)
	assert.NotNil(t, cmd)
	assert.Equal(t, "Config reloaded", m.Status())
	view := m.View()
	assert.Contains(t, view, "x[0] = 0.5000")
	assert.Contains(t, view, "Steps")

	m, _ = send(t, m, ConfigMsg{Err: errors.New("bad toml")})
	assert.Equal(t, "Config not reloaded: bad toml", m.Status())
}

func TestWaitForConfig_Nil(t *testing.T) {
	assert.Nil(t, WaitForConfig(nil))

	ch := make(chan ConfigMsg)
	close(ch)
	assert.Nil(t, WaitForConfig(ch)())
}

func TestWindowSize(t *testing.T) {
	m := newModel(Options{})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
	assert.Equal(t, styles.LayoutNarrow, m.theme.GetLayoutMode())
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, styles.LayoutWide, m.theme.GetLayoutMode())
}

func TestQuit(t *testing.T) {
	m := sized(t, newModel(Options{}), "2")
	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
