// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/gauss-tui/internal/config"
	"github.com/jeranaias/gauss-tui/internal/matrix"
	"github.com/jeranaias/gauss-tui/internal/scalar"
	"github.com/jeranaias/gauss-tui/internal/session"
	"github.com/jeranaias/gauss-tui/internal/storage"
)

const replHelp = `Commands:
  N or N N          set the size (sizing only)
  <row>             fill the next row: coefficients, optional |, rhs
  set R C VALUE     change one cell (1-based; column N+1 is the rhs)
  row R <row>       replace row R
  show              print the grid
  solve             solve the system
  trace             toggle printing of elimination steps
  reset             start over with a new size
  help              show this help
  quit, exit        leave`

// =============================================================================
// LINE EDITING
// =============================================================================

// lineReader wraps liner with a history file in the config directory.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{line: line, historyFile: filepath.Join(dir, "repl_history")}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

// ReadInput reads one line, adding non-blank input to the history.
func (r *lineReader) ReadInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the history with 0600 permissions and restores the terminal.
func (r *lineReader) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// =============================================================================
// REPL STATE
// =============================================================================

// repl interprets REPL lines against one session.
type repl struct {
	sess     *session.Session
	out      io.Writer
	logger   *slog.Logger
	saver    recordSaver
	decimals int
	trace    bool
	nextRow  int
}

func newREPL(cfg *config.Config, out io.Writer, logger *slog.Logger, saver recordSaver) *repl {
	return &repl{
		sess:     session.New(cfg.SessionOptions(logger)...),
		out:      out,
		logger:   logger,
		saver:    saver,
		decimals: cfg.Display.Decimals,
		trace:    cfg.Display.ShowTrace,
	}
}

// prompt describes what the next line is expected to be.
func (r *repl) prompt() string {
	if r.sess.CurrentState() == session.StateSizingInput {
		return "size> "
	}
	if r.nextRow < r.sess.Size() {
		return fmt.Sprintf("row %d> ", r.nextRow+1)
	}
	return "gauss> "
}

// handleLine runs one line. It returns true when the REPL should exit.
// Errors are for display; the session stays usable.
func (r *repl) handleLine(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
		return false, nil
	case "reset":
		r.sess.Reset()
		r.nextRow = 0
		fmt.Fprintln(r.out, DimStyle.Render("Session reset"))
		return false, nil
	case "trace":
		r.trace = !r.trace
		fmt.Fprintf(r.out, "%s %v\n", DimStyle.Render("trace:"), r.trace)
		return false, nil
	}

	if r.sess.CurrentState() == session.StateSizingInput {
		return false, r.submitSize(fields)
	}

	switch strings.ToLower(fields[0]) {
	case "show":
		fmt.Fprintln(r.out, formatGrid(r.sess.Cells()))
		return false, nil
	case "solve":
		return false, r.solve(ctx)
	case "set":
		return false, r.setCell(fields[1:])
	case "row":
		if len(fields) < 2 {
			return false, NewUsageErrorWithExample("row", "", "missing row number", "row 2 1 -1 | 1")
		}
		i, err := r.index(fields[1], r.sess.Size())
		if err != nil {
			return false, err
		}
		return false, r.setRow(i, strings.Join(fields[2:], " "))
	}

	if r.nextRow >= r.sess.Size() {
		return false, NewUsageError("command", fields[0], "unknown; type help")
	}
	if err := r.setRow(r.nextRow, line); err != nil {
		return false, err
	}
	r.nextRow++
	if r.nextRow == r.sess.Size() {
		fmt.Fprintln(r.out, DimStyle.Render("All rows entered; type solve"))
	}
	return false, nil
}

func (r *repl) submitSize(fields []string) error {
	rows, cols := fields[0], fields[0]
	switch len(fields) {
	case 1:
	case 2:
		cols = fields[1]
	default:
		return explain(session.ErrInvalidSize)
	}
	if err := r.sess.SubmitSize(rows, cols); err != nil {
		return explain(err)
	}
	r.nextRow = 0
	n := r.sess.Size()
	fmt.Fprintf(r.out, "%s\n", DimStyle.Render(fmt.Sprintf("%dx%d system: enter %d rows of %d coefficients | rhs", n, n, n, n)))
	return nil
}

func (r *repl) setRow(i int, text string) error {
	err := r.sess.SetRow(i, matrix.SplitRow(text))
	var pe *scalar.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("row %d: %q: %s", i+1, pe.Text, session.FieldMessage(err))
	}
	return explain(err)
}

func (r *repl) setCell(args []string) error {
	if len(args) != 3 {
		return NewUsageErrorWithExample("set", strings.Join(args, " "), "expected row, column and value", "set 1 3 5")
	}
	n := r.sess.Size()
	i, err := r.index(args[0], n)
	if err != nil {
		return err
	}
	j, err := r.index(args[1], n+1)
	if err != nil {
		return err
	}
	if err := r.sess.SetCell(i, j, args[2]); err != nil {
		if msg := session.FieldMessage(err); msg != "" {
			return fmt.Errorf("cell (%d, %d): %s", i+1, j+1, msg)
		}
		return explain(err)
	}
	return nil
}

// index converts a 1-based argument to a 0-based index below limit.
func (r *repl) index(s string, limit int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > limit {
		return 0, NewUsageError("index", s, fmt.Sprintf("must be between 1 and %d", limit))
	}
	return v - 1, nil
}

func (r *repl) solve(ctx context.Context) error {
	res, err := r.sess.TriggerSolve()
	if r.saver != nil {
		if serr := r.saver.Save(ctx, storage.FromResult(r.sess.ID(), res)); serr != nil {
			r.logger.Warn("solve not saved to history", "error", serr)
		}
	}
	if r.trace && len(res.Trace) > 0 {
		printTrace(r.out, res.Trace.Lines())
	}
	if err != nil {
		return explain(err)
	}
	for _, line := range res.Solution.Lines(r.decimals) {
		fmt.Fprintln(r.out, SuccessStyle.Render(line))
	}
	return nil
}

// =============================================================================
// COMMAND
// =============================================================================

// HandleREPL handles "gauss repl".
func HandleREPL(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	logger := NewLogger(args, cfg, os.Stderr)

	var saver recordSaver
	if cfg.History.Enabled {
		if store, err := openHistory(cfg); err != nil {
			logger.Warn("history unavailable", "error", err)
		} else {
			defer store.Close()
			saver = store
		}
	}

	r := newREPL(cfg, os.Stdout, logger, saver)
	if !args.Quiet {
		fmt.Println(TitleStyle.Render("gauss repl"), DimStyle.Render("- type help for commands"))
	}

	in := newLineReader()
	defer in.Close()

	ctx := context.Background()
	for {
		line, err := in.ReadInput(r.prompt())
		if err != nil {
			// Ctrl-C, Ctrl-D or a closed stdin all end the session.
			fmt.Println()
			return nil
		}
		quit, err := r.handleLine(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		}
		if quit {
			return nil
		}
	}
}
