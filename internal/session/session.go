// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/gauss-tui/internal/matrix"
	"github.com/jeranaias/gauss-tui/internal/scalar"
	"github.com/jeranaias/gauss-tui/internal/solver"
)

// DefaultMaxSize bounds n when no WithMaxSize option is given.
const DefaultMaxSize = 12

// DefaultResidualTolerance is the residual above which a solve is logged as
// inaccurate.
const DefaultResidualTolerance = 1e-9

// =============================================================================
// STATE
// =============================================================================

// State is the phase of a Session.
type State int

const (
	// StateSizingInput waits for a matrix size.
	StateSizingInput State = iota

	// StateMatrixInput holds a sized grid of cells.
	StateMatrixInput
)

func (s State) String() string {
	switch s {
	case StateSizingInput:
		return "sizing"
	case StateMatrixInput:
		return "matrix"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the outcome of one TriggerSolve.
type Result struct {
	// Cells is the raw grid text that was solved.
	Cells [][]string

	// Matrix is the collected system; nil when collection failed.
	Matrix *matrix.Augmented

	Solution solver.Solution
	Trace    solver.Trace

	// Residual is max |A·x − b|; only set on success.
	Residual float64

	// Err is the collection or solve failure, nil on success.
	Err error

	SolvedAt time.Time
}

// OK reports whether the solve produced a solution.
func (r *Result) OK() bool {
	return r != nil && r.Err == nil
}

// Lines renders the solution, or the failure message, for display.
func (r *Result) Lines(decimals int) []string {
	if r == nil {
		return nil
	}
	if r.Err != nil {
		return []string{Message(r.Err)}
	}
	return r.Solution.Lines(decimals)
}

// =============================================================================
// OPTIONS
// =============================================================================

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for session events and solver steps.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxSize bounds the accepted size. Values below 1 are ignored.
func WithMaxSize(n int) Option {
	return func(s *Session) {
		if n >= 1 {
			s.maxSize = n
		}
	}
}

// WithSolverOptions passes options through to solver.Solve.
func WithSolverOptions(opts ...solver.Option) Option {
	return func(s *Session) {
		s.solverOpts = append(s.solverOpts, opts...)
	}
}

// WithResidualTolerance sets the residual above which a solve is logged as
// inaccurate. Values <= 0 disable the check.
func WithResidualTolerance(tol float64) Option {
	return func(s *Session) { s.residualTol = tol }
}

// =============================================================================
// SESSION
// =============================================================================

// Session is one interactive solve.
type Session struct {
	id    string
	state State
	n     int
	cells [][]string
	last  *Result

	maxSize     int
	residualTol float64
	solverOpts  []solver.Option
	logger      *slog.Logger
}

// New returns a session waiting for a size.
func New(opts ...Option) *Session {
	s := &Session{
		id:          uuid.NewString(),
		maxSize:     DefaultMaxSize,
		residualTol: DefaultResidualTolerance,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID identifies the session; it changes on Reset.
func (s *Session) ID() string { return s.id }

// CurrentState returns the current phase.
func (s *Session) CurrentState() State { return s.state }

// Size returns n, or 0 before a size is accepted.
func (s *Session) Size() int { return s.n }

// MaxSize returns the largest accepted n.
func (s *Session) MaxSize() int { return s.maxSize }

// LastResult returns the most recent solve outcome, or nil.
func (s *Session) LastResult() *Result { return s.last }

// SubmitSize accepts the size fields of the sizing screen.
func (s *Session) SubmitSize(rows, cols string) error {
	if s.state != StateSizingInput {
		return ErrWrongState
	}

	r, errR := strconv.Atoi(strings.TrimSpace(rows))
	c, errC := strconv.Atoi(strings.TrimSpace(cols))
	var err error
	switch {
	case errR != nil || errC != nil:
		err = ErrInvalidSize
	case r != c:
		err = ErrNotSquare
	case r <= 0:
		err = ErrNonPositive
	case r > s.maxSize:
		err = fmt.Errorf("%w: %d exceeds %d", ErrTooLarge, r, s.maxSize)
	}
	if err != nil {
		s.logger.Warn("size rejected", "rows", rows, "cols", cols, "error", err)
		return err
	}

	s.n = r
	s.cells = make([][]string, r)
	for i := range s.cells {
		s.cells[i] = make([]string, r+1)
	}
	s.state = StateMatrixInput
	s.logger.Info("matrix size set", "session", s.id, "n", r)
	return nil
}

// SetCell stores text for cell (row, col). The text is kept even when it
// does not parse; the returned *scalar.ParseError is a hint for the field.
// Blank text is not reported until solve time.
func (s *Session) SetCell(row, col int, text string) error {
	if s.state != StateMatrixInput {
		return ErrWrongState
	}
	if row < 0 || row >= s.n || col < 0 || col > s.n {
		return ErrCellOutOfRange
	}
	s.cells[row][col] = text
	if strings.TrimSpace(text) == "" {
		return nil
	}
	_, err := scalar.Parse(text)
	return err
}

// SetRow replaces a whole row. A "|" separator cell before the right-hand
// side is accepted. On a shape error the row is left unchanged.
func (s *Session) SetRow(row int, cells []string) error {
	if s.state != StateMatrixInput {
		return ErrWrongState
	}
	if row < 0 || row >= s.n {
		return ErrCellOutOfRange
	}
	cells = matrix.DropSeparator(cells, s.n)
	if len(cells) != s.n+1 {
		return &matrix.CollectionError{Kind: matrix.ErrShapeMismatch, Row: row, Col: -1}
	}
	var first error
	for j, text := range cells {
		if err := s.SetCell(row, j, text); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Cell returns the text of one cell.
func (s *Session) Cell(row, col int) (string, error) {
	if s.state != StateMatrixInput {
		return "", ErrWrongState
	}
	if row < 0 || row >= s.n || col < 0 || col > s.n {
		return "", ErrCellOutOfRange
	}
	return s.cells[row][col], nil
}

// Cells returns a copy of the grid text.
func (s *Session) Cells() [][]string {
	out := make([][]string, len(s.cells))
	for i, row := range s.cells {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// TriggerSolve collects the grid and solves it. The returned Result also
// becomes LastResult, whether or not the solve succeeded. The state stays
// StateMatrixInput.
func (s *Session) TriggerSolve() (*Result, error) {
	if s.state != StateMatrixInput {
		return nil, ErrWrongState
	}

	res := &Result{Cells: s.Cells(), SolvedAt: time.Now()}
	s.last = res

	m, err := matrix.Collect(res.Cells, s.n)
	if err != nil {
		res.Err = err
		s.logger.Warn("matrix input is invalid", "session", s.id, "error", err)
		return res, err
	}
	res.Matrix = m

	opts := append([]solver.Option{solver.WithLogger(s.logger)}, s.solverOpts...)
	x, trace, err := solver.Solve(m, opts...)
	res.Trace = trace
	if err != nil {
		res.Err = err
		if errors.Is(err, solver.ErrSingular) {
			s.logger.Error("matrix is singular and cannot be solved", "session", s.id, "error", err)
		} else {
			s.logger.Error("solve failed", "session", s.id, "error", err)
		}
		return res, err
	}
	res.Solution = x

	if res.Residual, err = solver.Residual(m, x); err == nil && s.residualTol > 0 && res.Residual > s.residualTol {
		s.logger.Warn("solution residual above tolerance", "session", s.id,
			"residual", res.Residual, "tolerance", s.residualTol)
	}
	s.logger.Info("system solved", "session", s.id, "n", s.n, "steps", len(trace), "residual", res.Residual)
	return res, nil
}

// Reset discards the grid and result and returns to StateSizingInput under
// a new id.
func (s *Session) Reset() {
	s.id = uuid.NewString()
	s.state = StateSizingInput
	s.n = 0
	s.cells = nil
	s.last = nil
	s.logger.Debug("session reset", "session", s.id)
}
