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
	"strconv"

	"github.com/jeranaias/gauss-tui/internal/config"
	"github.com/jeranaias/gauss-tui/internal/matrix"
	"github.com/jeranaias/gauss-tui/internal/scalar"
	"github.com/jeranaias/gauss-tui/internal/session"
	"github.com/jeranaias/gauss-tui/internal/solver"
	"github.com/jeranaias/gauss-tui/internal/storage"
)

// maxInputBytes bounds what solve reads from a file or stdin.
const maxInputBytes = 1 << 20

// SolveOptions holds the flags of the solve command.
type SolveOptions struct {
	File      string
	Trace     bool
	JSON      bool
	Quiet     bool
	Decimals  int
	Pivoting  string
	NoHistory bool
}

// SolveData is the JSON form of a solve.
type SolveData struct {
	ID        string    `json:"id,omitempty"`
	SessionID string    `json:"session_id"`
	Size      int       `json:"size"`
	Solution  []float64 `json:"solution,omitempty"`
	Residual  *float64  `json:"residual,omitempty"`
	Trace     []string  `json:"trace,omitempty"`
}

// recordSaver is the part of storage.HistoryStore solve needs.
type recordSaver interface {
	Save(ctx context.Context, rec *storage.Record) error
}

// parseSolveOptions reads solve flags, falling back to cfg.
func parseSolveOptions(args Args, cfg *config.Config) (SolveOptions, error) {
	p := NewArgParser(args.Raw, "trace", "json", "no-history", "quiet", "q")
	opts := SolveOptions{
		File:      p.Subcommand(),
		Trace:     p.BoolFlag("trace") || cfg.Display.ShowTrace,
		JSON:      p.BoolFlag("json") || args.JSON,
		Quiet:     p.BoolFlag("quiet") || p.BoolFlag("q") || args.Quiet,
		Decimals:  cfg.Display.Decimals,
		Pivoting:  p.Flag("pivot"),
		NoHistory: p.BoolFlag("no-history") || !cfg.History.Enabled,
	}
	if p.PositionalCount() > 1 {
		return opts, NewUsageErrorWithExample("arguments", fmt.Sprint(p.PositionalFrom(1)),
			"solve takes one input file", "gauss solve system.txt")
	}

	if p.HasFlag("decimals") {
		d, err := ParseIntWithValidation(p.Flag("decimals"), "decimals")
		if err != nil || d > 15 {
			return opts, NewUsageError("--decimals", p.Flag("decimals"), "must be between 0 and 15")
		}
		opts.Decimals = d
	}
	if opts.Pivoting != "" {
		if _, err := solver.ParsePivoting(opts.Pivoting); err != nil {
			return opts, NewUsageErrorWithExample("--pivot", opts.Pivoting, "must be first or largest", "--pivot largest")
		}
	}
	return opts, nil
}

// HandleSolve handles "gauss solve".
func HandleSolve(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	logger := NewLogger(args, cfg, os.Stderr)

	opts, err := parseSolveOptions(args, cfg)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if opts.File != "" && opts.File != "-" {
		f, err := os.Open(opts.File)
		if err != nil {
			return NewCommandError("solve", "read", "cannot open input", err)
		}
		defer f.Close()
		in = f
	} else if IsTTY() && !opts.Quiet {
		fmt.Fprintln(os.Stderr, DimStyle.Render("Enter rows (coefficients | rhs), then Ctrl-D:"))
	}

	var saver recordSaver
	if !opts.NoHistory {
		store, err := openHistory(cfg)
		if err != nil {
			logger.Warn("history unavailable", "error", err)
		} else {
			defer store.Close()
			saver = store
		}
	}

	return runSolve(context.Background(), in, os.Stdout, cfg, logger, saver, opts)
}

// runSolve reads a grid from in, solves it and writes the result to out.
func runSolve(ctx context.Context, in io.Reader, out io.Writer, cfg *config.Config,
	logger *slog.Logger, saver recordSaver, opts SolveOptions) error {
	data, err := io.ReadAll(io.LimitReader(in, maxInputBytes))
	if err != nil {
		return NewCommandError("solve", "read", "cannot read input", err)
	}
	rows := matrix.ParseGrid(string(data))
	if len(rows) == 0 {
		return NewUsageErrorWithExample("input", "", "no rows to solve", "echo '2 1 | 5\\n1 -1 | 1' | gauss solve")
	}

	sessOpts := cfg.SessionOptions(logger)
	if opts.Pivoting != "" {
		p, _ := solver.ParsePivoting(opts.Pivoting)
		sessOpts = append(sessOpts, session.WithSolverOptions(solver.WithPivoting(p)))
	}
	sess := session.New(sessOpts...)

	n := strconv.Itoa(len(rows))
	if err := sess.SubmitSize(n, n); err != nil {
		return explain(err)
	}
	for i, row := range rows {
		var pe *scalar.ParseError
		if err := sess.SetRow(i, row); err != nil && !errors.As(err, &pe) {
			return explain(err)
		}
	}

	res, solveErr := sess.TriggerSolve()

	recordID := ""
	if saver != nil {
		rec := storage.FromResult(sess.ID(), res)
		if err := saver.Save(ctx, rec); err != nil {
			logger.Warn("solve not saved to history", "error", err)
		} else {
			recordID = rec.ID
		}
	}

	if opts.JSON {
		return printSolveJSON(out, sess, res, recordID, opts, solveErr)
	}
	return printSolveText(out, res, opts, solveErr)
}

func printSolveJSON(out io.Writer, sess *session.Session, res *session.Result, recordID string,
	opts SolveOptions, solveErr error) error {
	data := SolveData{
		ID:        recordID,
		SessionID: sess.ID(),
		Size:      sess.Size(),
	}
	if opts.Trace {
		data.Trace = res.Trace.Lines()
	}

	if solveErr != nil {
		resp := NewJSONErrorResponse("solve", explain(solveErr))
		resp.Data = data
		if err := resp.Print(out); err != nil {
			return err
		}
		return explain(solveErr)
	}

	data.Solution = res.Solution
	residual := res.Residual
	data.Residual = &residual
	return NewJSONResponse("solve", data).Print(out)
}

func printSolveText(out io.Writer, res *session.Result, opts SolveOptions, solveErr error) error {
	if !opts.Quiet {
		fmt.Fprintln(out, formatGrid(res.Cells))
		fmt.Fprintln(out)
	}
	if opts.Trace && len(res.Trace) > 0 {
		printTrace(out, res.Trace.Lines())
		fmt.Fprintln(out)
	}
	if solveErr != nil {
		return explain(solveErr)
	}

	for _, line := range res.Solution.Lines(opts.Decimals) {
		fmt.Fprintln(out, SuccessStyle.Render(line))
	}
	if !opts.Quiet {
		fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("residual %.3g", res.Residual)))
	}
	return nil
}

// openHistory opens the configured history database.
func openHistory(cfg *config.Config) (*storage.HistoryStore, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path, storage.WithMaxEntries(cfg.History.MaxEntries))
}
