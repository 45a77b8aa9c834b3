// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/gauss-tui/internal/config"
	"github.com/jeranaias/gauss-tui/internal/logging"
	"github.com/jeranaias/gauss-tui/internal/matrix"
	"github.com/jeranaias/gauss-tui/internal/session"
	"github.com/jeranaias/gauss-tui/internal/solver"
	"github.com/jeranaias/gauss-tui/internal/storage"
)

const twoByTwo = "2 1 | 5\n1 -1 | 1\n"

type fakeSaver struct {
	recs []*storage.Record
	err  error
}

func (f *fakeSaver) Save(_ context.Context, rec *storage.Record) error {
	if f.err != nil {
		return f.err
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("rec-%d", len(f.recs)+1)
	}
	f.recs = append(f.recs, rec)
	return nil
}

func solveText(t *testing.T, input string, opts SolveOptions, saver recordSaver) (string, error) {
	t.Helper()
	if opts.Decimals == 0 {
		opts.Decimals = 2
	}
	var out bytes.Buffer
	err := runSolve(context.Background(), strings.NewReader(input), &out,
		config.Default(), logging.Discard(), saver, opts)
	return out.String(), err
}

// isolate points HOME at a temp dir and clears GAUSS_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"GAUSS_TOLERANCE", "GAUSS_PIVOTING", "GAUSS_MAX_SIZE", "GAUSS_DECIMALS",
		"GAUSS_HISTORY_PATH", "GAUSS_NO_HISTORY", "GAUSS_LOG_LEVEL", "GAUSS_LOG_PATH",
	} {
		t.Setenv(k, "")
	}
	return home
}

// =============================================================================
// SOLVE
// =============================================================================

func TestRunSolve_Text(t *testing.T) {
	out, err := solveText(t, twoByTwo, SolveOptions{}, nil)
	require.NoError(t, err)

	assert.Contains(t, out, "x[0] = 2.00")
	assert.Contains(t, out, "x[1] = 1.00")
	assert.Contains(t, out, "residual")
	assert.Contains(t, out, "|", "grid echoed before the solution")
	assert.NotContains(t, out, "Steps")
}

func TestRunSolve_QuietAndTrace(t *testing.T) {
	out, err := solveText(t, twoByTwo, SolveOptions{Quiet: true, Trace: true, Decimals: 3}, nil)
	require.NoError(t, err)

	assert.Contains(t, out, "Steps")
	assert.Contains(t, out, "1. Normalized row 0 by 2")
	assert.Contains(t, out, "x[0] = 2.000")
	assert.NotContains(t, out, "residual")
}

func TestRunSolve_CommaSeparatedWithoutBar(t *testing.T) {
	out, err := solveText(t, "# comment\n1, 0, 3\n\n0, 1, 1/2\n", SolveOptions{Quiet: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "x[0] = 3.00\nx[1] = 0.50\n", out)
}

func TestRunSolve_Pivoting(t *testing.T) {
	input := "1 1 | 2\n3 1 | 4\n"

	out, err := solveText(t, input, SolveOptions{Quiet: true, Trace: true}, nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "Swapped")

	out, err = solveText(t, input, SolveOptions{Quiet: true, Trace: true, Pivoting: "largest"}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Swapped row 0 with row 1")
	assert.Contains(t, out, "x[0] = 1.00")
	assert.Contains(t, out, "x[1] = 1.00")
}

func TestRunSolve_Failures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		is    error
	}{
		{"singular", "1 1 | 2\n1 1 | 2\n", "System is singular and cannot be solved", solver.ErrSingular},
		{"bad cell", "2 x | 5\n1 -1 | 1\n", "Matrix input is invalid (row 1, column 2)", matrix.ErrInvalidEntry},
		{"ragged row", "1 2 3 4\n1 2\n", "Matrix input is invalid", matrix.ErrShapeMismatch},
		{"too large", strings.Repeat("1\n", 13), "Matrix is too large!", session.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := solveText(t, tt.input, SolveOptions{}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.ErrorIs(t, err, tt.is)
			assert.Equal(t, ExitGeneralError, GetExitCode(err))
		})
	}
}

func TestRunSolve_NoRows(t *testing.T) {
	_, err := solveText(t, "\n# nothing\n", SolveOptions{}, nil)
	require.Error(t, err)

	var usage *UsageError
	assert.ErrorAs(t, err, &usage)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

type solveJSON struct {
	Success bool      `json:"success"`
	Error   *string   `json:"error"`
	Data    SolveData `json:"data"`
	Command string    `json:"command"`
}

func TestRunSolve_JSON(t *testing.T) {
	saver := &fakeSaver{}
	out, err := solveText(t, twoByTwo, SolveOptions{JSON: true, Trace: true}, saver)
	require.NoError(t, err)

	var resp solveJSON
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "solve", resp.Command)
	assert.Equal(t, 2, resp.Data.Size)
	assert.InDeltaSlice(t, []float64{2, 1}, resp.Data.Solution, 1e-12)
	require.NotNil(t, resp.Data.Residual)
	assert.InDelta(t, 0, *resp.Data.Residual, 1e-9)
	assert.NotEmpty(t, resp.Data.Trace)

	require.Len(t, saver.recs, 1)
	assert.Equal(t, saver.recs[0].ID, resp.Data.ID)
	assert.Equal(t, resp.Data.SessionID, saver.recs[0].SessionID)
}

func TestRunSolve_JSONFailure(t *testing.T) {
	out, err := solveText(t, "1 1 | 2\n1 1 | 2\n", SolveOptions{JSON: true}, nil)
	require.Error(t, err)

	var resp solveJSON
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "System is singular and cannot be solved", *resp.Error)
	assert.Equal(t, 2, resp.Data.Size)
	assert.Empty(t, resp.Data.Solution)
}

func TestRunSolve_HistoryFailureIsNotFatal(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	out, err := solveText(t, twoByTwo, SolveOptions{Quiet: true}, saver)
	require.NoError(t, err)
	assert.Contains(t, out, "x[0] = 2.00")
}

func TestRunSolve_SavesFailures(t *testing.T) {
	saver := &fakeSaver{}
	_, err := solveText(t, "1 1 | 2\n1 1 | 2\n", SolveOptions{}, saver)
	require.Error(t, err)
	require.Len(t, saver.recs, 1)
	assert.False(t, saver.recs[0].OK())
}

func TestParseSolveOptions(t *testing.T) {
	cfg := config.Default()

	opts, err := parseSolveOptions(Args{Raw: []string{"--trace", "sys.txt", "--decimals", "4", "--pivot", "largest"}}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "sys.txt", opts.File)
	assert.True(t, opts.Trace)
	assert.Equal(t, 4, opts.Decimals)
	assert.Equal(t, "largest", opts.Pivoting)
	assert.False(t, opts.NoHistory)

	opts, err = parseSolveOptions(Args{JSON: true, Raw: []string{"--no-history"}}, cfg)
	require.NoError(t, err)
	assert.Empty(t, opts.File)
	assert.True(t, opts.JSON)
	assert.True(t, opts.NoHistory)
	assert.Equal(t, cfg.Display.Decimals, opts.Decimals)

	bad := [][]string{
		{"a.txt", "b.txt"},
		{"--decimals", "16"},
		{"--decimals", "-1"},
		{"--pivot", "random"},
	}
	for _, raw := range bad {
		_, err := parseSolveOptions(Args{Raw: raw}, cfg)
		assert.Equal(t, ExitUsageError, GetExitCode(err), "args %v", raw)
	}
}

// =============================================================================
// REPL
// =============================================================================

func newTestREPL(t *testing.T, saver recordSaver) (*repl, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return newREPL(config.Default(), &out, logging.Discard(), saver), &out
}

func run(t *testing.T, r *repl, line string) error {
	t.Helper()
	quit, err := r.handleLine(context.Background(), line)
	require.False(t, quit, "line %q should not quit", line)
	return err
}

func TestREPL_Flow(t *testing.T) {
	saver := &fakeSaver{}
	r, out := newTestREPL(t, saver)

	assert.Equal(t, "size> ", r.prompt())
	require.NoError(t, run(t, r, "2"))
	assert.Contains(t, out.String(), "2x2 system")
	assert.Equal(t, "row 1> ", r.prompt())

	require.NoError(t, run(t, r, "2 1 | 5"))
	assert.Equal(t, "row 2> ", r.prompt())
	require.NoError(t, run(t, r, "1 -1 1"))
	assert.Equal(t, "gauss> ", r.prompt())
	assert.Contains(t, out.String(), "All rows entered")

	out.Reset()
	require.NoError(t, run(t, r, "solve"))
	assert.Equal(t, "x[0] = 2.00\nx[1] = 1.00\n", out.String())
	require.Len(t, saver.recs, 1)

	out.Reset()
	require.NoError(t, run(t, r, "set 1 3 7"))
	require.NoError(t, run(t, r, "solve"))
	assert.Equal(t, "x[0] = 2.67\nx[1] = 1.67\n", out.String())

	out.Reset()
	require.NoError(t, run(t, r, "show"))
	assert.Contains(t, out.String(), "7")
	assert.Contains(t, out.String(), "|")

	require.NoError(t, run(t, r, "row 2 1 1 | 4"))
	v, err := r.sess.Cell(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "4", v)

	require.NoError(t, run(t, r, "reset"))
	assert.Equal(t, "size> ", r.prompt())

	quit, err := r.handleLine(context.Background(), "quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestREPL_Errors(t *testing.T) {
	r, _ := newTestREPL(t, nil)

	err := run(t, r, "2 3")
	require.Error(t, err)
	assert.Equal(t, "Matrix must be square and non-zero!", err.Error())

	err = run(t, r, "two")
	require.Error(t, err)
	assert.Equal(t, "Invalid matrix size input!", err.Error())

	require.NoError(t, run(t, r, "2"))

	err = run(t, r, "2 abc 5")
	require.Error(t, err)
	assert.Equal(t, `row 1: "abc": Use digits, '-', '.' or '/'`, err.Error())
	assert.Equal(t, "row 1> ", r.prompt(), "failed row is not consumed")

	err = run(t, r, "set 3 1 1")
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = run(t, r, "set 1 4 1")
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = run(t, r, "set 1 1 1/0")
	require.Error(t, err)
	assert.Equal(t, "cell (1, 1): Denominator cannot be zero", err.Error())

	err = run(t, r, "solve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Matrix input is invalid")
}

func TestREPL_Trace(t *testing.T) {
	r, out := newTestREPL(t, nil)

	require.NoError(t, run(t, r, "trace"))
	require.NoError(t, run(t, r, "1"))
	require.NoError(t, run(t, r, "4 | 2"))
	out.Reset()
	require.NoError(t, run(t, r, "solve"))

	assert.Contains(t, out.String(), "Steps")
	assert.Contains(t, out.String(), "Normalized row 0 by 4")
	assert.Contains(t, out.String(), "x[0] = 0.50")
}

func TestREPL_HelpAndComments(t *testing.T) {
	r, out := newTestREPL(t, nil)
	require.NoError(t, run(t, r, "# ignored"))
	require.NoError(t, run(t, r, "   "))
	assert.Empty(t, out.String())

	require.NoError(t, run(t, r, "help"))
	assert.Contains(t, out.String(), "set R C VALUE")
}

// =============================================================================
// HISTORY
// =============================================================================

func openTestStore(t *testing.T) *storage.HistoryStore {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func saveSolve(t *testing.T, store *storage.HistoryStore, input string) *storage.Record {
	t.Helper()
	saver := &fakeSaver{}
	_, _ = solveText(t, input, SolveOptions{Quiet: true}, saver)
	require.Len(t, saver.recs, 1)
	rec := saver.recs[0]
	rec.ID = ""
	require.NoError(t, store.Save(context.Background(), rec))
	return rec
}

func history(t *testing.T, store *storage.HistoryStore, args Args) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := runHistory(context.Background(), store, &out, args, config.Default())
	return out.String(), err
}

func TestHistory_ListEmpty(t *testing.T) {
	store := openTestStore(t)
	out, err := history(t, store, Args{})
	require.NoError(t, err)
	assert.Contains(t, out, "No saved solves")

	out, err = history(t, store, Args{JSON: true, Raw: []string{"list"}})
	require.NoError(t, err)
	assert.Contains(t, out, `"data": []`)
}

func TestHistory_ListAndShow(t *testing.T) {
	store := openTestStore(t)
	ok := saveSolve(t, store, twoByTwo)
	failed := saveSolve(t, store, "1 1 | 2\n1 1 | 2\n")

	out, err := history(t, store, Args{Raw: []string{"list"}})
	require.NoError(t, err)
	assert.Contains(t, out, ok.ShortID())
	assert.Contains(t, out, failed.ShortID())
	assert.Contains(t, out, "2x2")
	assert.Contains(t, out, "x[0] = 2.00, x[1] = 1.00")
	assert.Contains(t, out, "failed")

	out, err = history(t, store, Args{Raw: []string{"show", ok.ShortID()}})
	require.NoError(t, err)
	assert.Contains(t, out, "# Linear system 2x2")

	_, err = history(t, store, Args{Raw: []string{"list", "--limit", "x"}})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHistory_Export(t *testing.T) {
	store := openTestStore(t)
	rec := saveSolve(t, store, twoByTwo)
	dir := t.TempDir()

	out, err := history(t, store, Args{Raw: []string{"export", rec.ShortID(), "--format", "json", "--out", dir}})
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	matches, err := filepath.Glob(filepath.Join(dir, "solve_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), rec.ID)

	_, err = history(t, store, Args{Raw: []string{"export", rec.ShortID(), "--format", "pdf"}})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHistory_DeleteAndClear(t *testing.T) {
	store := openTestStore(t)
	a := saveSolve(t, store, twoByTwo)
	saveSolve(t, store, twoByTwo)

	out, err := history(t, store, Args{Raw: []string{"delete", a.ID}})
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+a.ShortID())

	_, err = history(t, store, Args{Raw: []string{"show", a.ID}})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))

	_, err = history(t, store, Args{Raw: []string{"clear"}})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	out, err = history(t, store, Args{Raw: []string{"clear", "--confirm"}})
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 solves")

	_, err = history(t, store, Args{Raw: []string{"show"}})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	out, err = history(t, store, Args{Raw: []string{"path"}})
	require.NoError(t, err)
	assert.Equal(t, store.Path()+"\n", out)
}

// =============================================================================
// CONFIG
// =============================================================================

func configCmd(t *testing.T, path string, raw ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := runConfig(&out, path, Args{Raw: raw})
	return out.String(), err
}

func TestConfig_InitGetSet(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "gauss", "config.toml")

	out, err := configCmd(t, path, "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	out, err = configCmd(t, path, "get", "display.decimals")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out, "defaults without a file")

	_, err = configCmd(t, path, "init")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = configCmd(t, path, "init")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	_, err = configCmd(t, path, "init", "--force")
	require.NoError(t, err)

	out, err = configCmd(t, path, "set", "display.decimals", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "display.decimals = 4")

	out, err = configCmd(t, path, "get", "display.decimals")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	out, err = configCmd(t, path, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "decimals = 4")
}

func TestConfig_SetDoesNotPersistEnv(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	t.Setenv("GAUSS_PIVOTING", "largest")

	_, err := configCmd(t, path, "set", "display.decimals", "3")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "largest")

	out, err := configCmd(t, path, "get", "solver.pivoting")
	require.NoError(t, err)
	assert.Equal(t, "largest\n", out)
}

func TestConfig_Errors(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")

	_, err := configCmd(t, path, "set", "display.decimals", "99")
	assert.Equal(t, ExitConfigError, GetExitCode(err))
	assert.NoFileExists(t, path)

	_, err = configCmd(t, path, "set", "display.decimals")
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, err = configCmd(t, path, "get", "no.such.key")
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, err = configCmd(t, path, "frobnicate")
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	out, err := configCmd(t, path, "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "solver.pivoting")
	assert.Contains(t, out, "display.decimals")
}

// =============================================================================
// ERRORS AND RENDERING
// =============================================================================

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitGeneralError, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitUsageError, GetExitCode(fmt.Errorf("wrapped: %w", NewUsageError("x", "", "bad"))))
	assert.Equal(t, ExitNotFoundError, GetExitCode(NewCommandError("history", "show", "lookup", storage.ErrNotFound)))
	assert.Equal(t, ExitConfigError, GetExitCode(config.ValidateErrors{{Field: "display.decimals", Message: "bad"}}))
}

func TestExplain(t *testing.T) {
	assert.NoError(t, explain(nil))

	err := explain(fmt.Errorf("solve: %w", solver.ErrSingular))
	assert.Equal(t, "System is singular and cannot be solved", err.Error())
	assert.ErrorIs(t, err, solver.ErrSingular)
}

func TestDisplayError(t *testing.T) {
	var out bytes.Buffer
	DisplayError(&out, nil, false)
	assert.Empty(t, out.String())

	DisplayError(&out, errors.New("boom"), false)
	assert.Equal(t, "Error: boom\n", out.String())

	out.Reset()
	DisplayError(&out, errors.New("boom"), true)
	var resp solveJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "boom", *resp.Error)
}

func TestUsageError_Message(t *testing.T) {
	err := NewUsageErrorWithExample("--pivot", "random", "must be first or largest", "--pivot largest")
	assert.Equal(t, "invalid --pivot: must be first or largest (got: random)\nExample: --pivot largest", err.Error())
}

func TestFormatGrid(t *testing.T) {
	got := formatGrid([][]string{
		{"2", "1", "5"},
		{"-10", "", "1/2"},
	})
	assert.Equal(t, "  2  1 |   5\n-10  _ | 1/2", got)
	assert.Empty(t, formatGrid(nil))
}

func TestPrintTrace(t *testing.T) {
	var out bytes.Buffer
	printTrace(&out, nil)
	assert.Equal(t, "Steps\n  (none)\n", strings.TrimLeft(out.String(), "\n"))
}
