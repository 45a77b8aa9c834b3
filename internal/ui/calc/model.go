// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package calc

import (
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gauss-tui/internal/scalar"
	"github.com/jeranaias/gauss-tui/internal/session"
	"github.com/jeranaias/gauss-tui/internal/ui/styles"
)

const (
	cellWidth   = 7
	traceHeight = 8
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the model.
type Options struct {
	// Decimals used for the solution.
	Decimals int

	// ShowTrace opens the trace panel after each solve.
	ShowTrace bool

	Theme *styles.Theme

	// OnSolve runs after every solve, off the update loop. Its error is
	// reported in the status line.
	OnSolve func(sessionID string, res *session.Result) error

	// Copy writes text to the clipboard. Default: atotto/clipboard.
	Copy func(string) error

	// ConfigUpdates delivers hot-reloaded configuration.
	ConfigUpdates <-chan ConfigMsg
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the calculator screen.
type Model struct {
	sess  *session.Session
	opts  Options
	theme *styles.Theme
	keys  KeyMap

	// sizing screen
	size      [2]textinput.Model
	sizeFocus int

	// grid screen
	cells    [][]textinput.Model
	fieldErr [][]string
	row, col int

	// result panel
	result    *session.Result
	trace     viewport.Model
	showTrace bool

	status    string
	statusErr bool

	width, height int
	quitting      bool
}

// New returns a model driving sess, which should be in the sizing state.
func New(sess *session.Session, opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme("auto")
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	m := Model{
		sess:      sess,
		opts:      opts,
		theme:     opts.Theme,
		keys:      DefaultKeyMap(),
		trace:     viewport.New(60, traceHeight),
		showTrace: opts.ShowTrace,
	}
	m.resetSizing()
	return m
}

// Session returns the driven session.
func (m Model) Session() *session.Session { return m.sess }

// Result returns the last solve result shown, or nil.
func (m Model) Result() *session.Result { return m.result }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// Focus returns the focused cell.
func (m Model) Focus() (row, col int) { return m.row, m.col }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return WaitForConfig(m.opts.ConfigUpdates)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.trace.Width = max(20, msg.Width-4)
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.setStatus("History not saved: "+msg.Err.Error(), true)
		}
		return m, nil

	case ConfigMsg:
		return m.handleConfig(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.sess.CurrentState() == session.StateSizingInput {
			return m.updateSizing(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

// =============================================================================
// SIZING SCREEN
// =============================================================================

func (m *Model) resetSizing() {
	for i := range m.size {
		ti := newInput(4)
		ti.Placeholder = "n"
		m.size[i] = ti
	}
	m.sizeFocus = 0
	m.size[0].Focus()
	m.cells = nil
	m.fieldErr = nil
	m.row, m.col = 0, 0
	m.result = nil
	m.trace.SetContent("")
}

func (m Model) updateSizing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Reset):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		m.size[m.sizeFocus].Blur()
		m.sizeFocus = 1 - m.sizeFocus
		return m, m.size[m.sizeFocus].Focus()

	case key.Matches(msg, m.keys.Submit):
		rows, cols := m.size[0].Value(), m.size[1].Value()
		if err := m.sess.SubmitSize(rows, cols); err != nil {
			m.setStatus(session.Message(err), true)
			return m, nil
		}
		m.buildGrid()
		m.setStatus("", false)
		return m, m.cells[0][0].Focus()
	}

	if msg.Type == tea.KeyRunes {
		msg.Runes = keepRunes(msg.Runes, unicode.IsDigit)
		if len(msg.Runes) == 0 {
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.size[m.sizeFocus], cmd = m.size[m.sizeFocus].Update(msg)
	return m, cmd
}

// =============================================================================
// GRID SCREEN
// =============================================================================

func (m *Model) buildGrid() {
	n := m.sess.Size()
	m.cells = make([][]textinput.Model, n)
	m.fieldErr = make([][]string, n)
	for i := range m.cells {
		m.cells[i] = make([]textinput.Model, n+1)
		m.fieldErr[i] = make([]string, n+1)
		for j := range m.cells[i] {
			m.cells[i][j] = newInput(cellWidth)
		}
	}
	m.row, m.col = 0, 0
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.sess.Size()

	switch {
	case key.Matches(msg, m.keys.Reset):
		m.sess.Reset()
		m.resetSizing()
		m.setStatus("", false)
		return m, m.size[0].Focus()

	case key.Matches(msg, m.keys.Submit):
		return m.solve()

	case key.Matches(msg, m.keys.Trace):
		m.showTrace = !m.showTrace
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m.copySolution()

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.trace, cmd = m.trace.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Next):
		r, c := m.row, m.col+1
		if c > n {
			r, c = (r+1)%n, 0
		}
		return m.moveTo(r, c)

	case key.Matches(msg, m.keys.Prev):
		r, c := m.row, m.col-1
		if c < 0 {
			r, c = (r-1+n)%n, n
		}
		return m.moveTo(r, c)

	case key.Matches(msg, m.keys.Up):
		return m.moveTo((m.row-1+n)%n, m.col)

	case key.Matches(msg, m.keys.Down):
		return m.moveTo((m.row+1)%n, m.col)
	}

	if msg.Type == tea.KeyRunes {
		msg.Runes = []rune(scalar.Filter(string(msg.Runes)))
		if len(msg.Runes) == 0 {
			return m, nil
		}
	}

	var cmd tea.Cmd
	cell := m.cells[m.row][m.col]
	before := cell.Value()
	cell, cmd = cell.Update(msg)
	m.cells[m.row][m.col] = cell
	if v := cell.Value(); v != before {
		err := m.sess.SetCell(m.row, m.col, v)
		m.fieldErr[m.row][m.col] = session.FieldMessage(err)
	}
	return m, cmd
}

func (m Model) moveTo(row, col int) (tea.Model, tea.Cmd) {
	m.cells[m.row][m.col].Blur()
	m.row, m.col = row, col
	return m, m.cells[row][col].Focus()
}

func (m Model) solve() (tea.Model, tea.Cmd) {
	res, err := m.sess.TriggerSolve()
	m.result = res
	if err != nil {
		m.setStatus(session.Message(err), true)
	} else {
		m.setStatus("Solved", false)
	}
	if res != nil {
		m.trace.SetContent(strings.Join(res.Trace.Lines(), "\n"))
		m.trace.GotoTop()
	}

	if m.opts.OnSolve == nil || res == nil {
		return m, nil
	}
	id, hook := m.sess.ID(), m.opts.OnSolve
	return m, func() tea.Msg {
		return SavedMsg{Err: hook(id, res)}
	}
}

func (m Model) copySolution() (tea.Model, tea.Cmd) {
	if !m.result.OK() {
		m.setStatus("Nothing to copy", true)
		return m, nil
	}
	text := strings.Join(m.result.Lines(m.opts.Decimals), "\n")
	if err := m.opts.Copy(text); err != nil {
		m.setStatus("Copy failed: "+err.Error(), true)
		return m, nil
	}
	m.setStatus("Copied solution to clipboard", false)
	return m, nil
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func (m Model) handleConfig(msg ConfigMsg) (tea.Model, tea.Cmd) {
	next := WaitForConfig(m.opts.ConfigUpdates)
	if msg.Err != nil {
		m.setStatus("Config not reloaded: "+msg.Err.Error(), true)
		return m, next
	}
	if msg.Config != nil {
		m.opts.Decimals = msg.Config.Display.Decimals
		m.showTrace = msg.Config.Display.ShowTrace
		m.setStatus("Config reloaded", false)
	}
	return m, next
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func newInput(width int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Width = width
	ti.CharLimit = 32
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Cyan)
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func keepRunes(rs []rune, ok func(rune) bool) []rune {
	out := rs[:0:0]
	for _, r := range rs {
		if ok(r) {
			out = append(out, r)
		}
	}
	return out
}
