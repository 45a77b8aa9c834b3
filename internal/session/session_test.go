// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/gauss-tui/internal/matrix"
	"github.com/jeranaias/gauss-tui/internal/scalar"
	"github.com/jeranaias/gauss-tui/internal/solver"
)

func sized(t *testing.T, n string) *Session {
	t.Helper()
	s := New()
	require.NoError(t, s.SubmitSize(n, n))
	return s
}

// =============================================================================
// SIZING TESTS
// =============================================================================

func TestSubmitSize(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols string
		want       error
	}{
		{"valid", "3", "3", nil},
		{"padded", " 2 ", "2", nil},
		{"not a number", "two", "2", ErrInvalidSize},
		{"empty", "", "", ErrInvalidSize},
		{"decimal", "2.5", "2.5", ErrInvalidSize},
		{"not square", "2", "3", ErrNotSquare},
		{"zero", "0", "0", ErrNonPositive},
		{"negative", "-2", "-2", ErrNonPositive},
		{"too large", "13", "13", ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			err := s.SubmitSize(tt.rows, tt.cols)
			if tt.want == nil {
				require.NoError(t, err)
				assert.Equal(t, StateMatrixInput, s.CurrentState())
				assert.Len(t, s.Cells(), s.Size())
				assert.Len(t, s.Cells()[0], s.Size()+1)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, StateSizingInput, s.CurrentState())
			assert.Equal(t, 0, s.Size())
		})
	}
}

func TestSubmitSize_OnlyOnce(t *testing.T) {
	s := sized(t, "2")
	assert.ErrorIs(t, s.SubmitSize("3", "3"), ErrWrongState)
	assert.Equal(t, 2, s.Size())
}

func TestSubmitSize_MaxSizeOption(t *testing.T) {
	s := New(WithMaxSize(20))
	assert.NoError(t, s.SubmitSize("13", "13"))

	s = New(WithMaxSize(0))
	assert.Equal(t, DefaultMaxSize, s.MaxSize())
}

// =============================================================================
// CELL TESTS
// =============================================================================

func TestSetCell(t *testing.T) {
	s := sized(t, "2")

	require.NoError(t, s.SetCell(0, 0, "1/2"))
	require.NoError(t, s.SetCell(1, 2, ""))

	err := s.SetCell(0, 1, "1/0")
	var pe *scalar.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Denominator cannot be zero", FieldMessage(err))

	// rejected text is still stored
	got, err := s.Cell(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "1/0", got)

	assert.ErrorIs(t, s.SetCell(2, 0, "1"), ErrCellOutOfRange)
	assert.ErrorIs(t, s.SetCell(0, 3, "1"), ErrCellOutOfRange)
	assert.ErrorIs(t, s.SetCell(-1, 0, "1"), ErrCellOutOfRange)
}

func TestSetCell_WrongState(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.SetCell(0, 0, "1"), ErrWrongState)
	_, err := s.Cell(0, 0)
	assert.ErrorIs(t, err, ErrWrongState)
	_, err = s.TriggerSolve()
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestSetRow(t *testing.T) {
	s := sized(t, "2")
	require.NoError(t, s.SetRow(0, []string{"2", "1", "|", "5"}))
	require.NoError(t, s.SetRow(1, []string{"1", "-1", "1"}))
	assert.Equal(t, [][]string{{"2", "1", "5"}, {"1", "-1", "1"}}, s.Cells())

	err := s.SetRow(1, []string{"1", "2"})
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch)
	assert.Equal(t, []string{"1", "-1", "1"}, s.Cells()[1])
}

func TestCells_ReturnsCopy(t *testing.T) {
	s := sized(t, "1")
	cells := s.Cells()
	cells[0][0] = "9"
	got, _ := s.Cell(0, 0)
	assert.Equal(t, "", got)
}

// =============================================================================
// SOLVE TESTS
// =============================================================================

func TestEndToEnd_TwoByTwo(t *testing.T) {
	s := New()
	require.NoError(t, s.SubmitSize("2", "2"))
	for _, c := range []SetCell{
		{0, 0, "2"}, {0, 1, "1"}, {0, 2, "5"},
		{1, 0, "1"}, {1, 1, "-1"}, {1, 2, "1"},
	} {
		_, err := s.Apply(c)
		require.NoError(t, err)
	}

	res, err := s.Apply(TriggerSolve{})
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.InDeltaSlice(t, []float64{2, 1}, []float64(res.Solution), 1e-12)
	assert.Equal(t, []string{"x[0] = 2.00", "x[1] = 1.00"}, res.Lines(2))
	assert.NotEmpty(t, res.Trace)
	assert.Less(t, res.Residual, 1e-12)
	assert.Same(t, res, s.LastResult())
	assert.Equal(t, StateMatrixInput, s.CurrentState())
}

func TestTriggerSolve_InvalidEntry(t *testing.T) {
	s := sized(t, "1")
	_ = s.SetCell(0, 0, "2")
	_ = s.SetCell(0, 1, "x")

	res, err := s.TriggerSolve()
	require.ErrorIs(t, err, matrix.ErrInvalidEntry)
	assert.False(t, res.OK())
	assert.Nil(t, res.Matrix)
	assert.Equal(t, "Matrix input is invalid (row 1, column 2)", Message(err))
	assert.Equal(t, []string{"Matrix input is invalid (row 1, column 2)"}, res.Lines(2))
}

func TestTriggerSolve_EmptyCell(t *testing.T) {
	s := sized(t, "1")
	_ = s.SetCell(0, 0, "2")

	_, err := s.TriggerSolve()
	assert.ErrorIs(t, err, matrix.ErrInvalidEntry)
	assert.ErrorIs(t, err, scalar.ErrEmpty)
}

func TestTriggerSolve_Singular(t *testing.T) {
	s := sized(t, "2")
	require.NoError(t, s.SetRow(0, []string{"1", "1", "2"}))
	require.NoError(t, s.SetRow(1, []string{"1", "1", "2"}))

	res, err := s.TriggerSolve()
	require.ErrorIs(t, err, solver.ErrSingular)
	assert.Equal(t, "System is singular and cannot be solved", Message(err))
	assert.NotNil(t, res.Matrix)
	assert.Equal(t, 1, res.Trace.Count(solver.StepZeroPivot))
	assert.Same(t, res, s.LastResult())
}

func TestTriggerSolve_EditAndResolve(t *testing.T) {
	s := sized(t, "1")
	_ = s.SetRow(0, []string{"2", "4"})
	first, err := s.TriggerSolve()
	require.NoError(t, err)
	assert.Equal(t, solver.Solution{2}, first.Solution)

	_ = s.SetCell(0, 1, "6")
	second, err := s.TriggerSolve()
	require.NoError(t, err)
	assert.Equal(t, solver.Solution{3}, second.Solution)
	assert.Same(t, second, s.LastResult())
}

func TestSolverOptionsPassThrough(t *testing.T) {
	s := New(WithSolverOptions(solver.WithPivoting(solver.PivotLargestMagnitude)))
	require.NoError(t, s.SubmitSize("2", "2"))
	_ = s.SetRow(0, []string{"1", "1", "2"})
	_ = s.SetRow(1, []string{"3", "1", "4"})

	res, err := s.TriggerSolve()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Trace.Count(solver.StepSwap))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(WithLogger(logger))

	_ = s.SubmitSize("2", "3")
	assert.Contains(t, buf.String(), "size rejected")

	require.NoError(t, s.SubmitSize("1", "1"))
	_ = s.SetRow(0, []string{"2", "4"})
	_, err := s.TriggerSolve()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "system solved")
	assert.Contains(t, buf.String(), "step=normalize")
}

// =============================================================================
// RESET AND COMMAND TESTS
// =============================================================================

func TestReset(t *testing.T) {
	s := sized(t, "1")
	id := s.ID()
	_ = s.SetRow(0, []string{"1", "1"})
	_, _ = s.TriggerSolve()

	_, err := s.Apply(Reset{})
	require.NoError(t, err)
	assert.Equal(t, StateSizingInput, s.CurrentState())
	assert.Equal(t, 0, s.Size())
	assert.Nil(t, s.LastResult())
	assert.Empty(t, s.Cells())
	assert.NotEqual(t, id, s.ID())

	assert.NoError(t, s.SubmitSize("3", "3"))
}

func TestApply_SubmitSize(t *testing.T) {
	s := New()
	_, err := s.Apply(SubmitSize{Rows: "2", Cols: "3"})
	assert.ErrorIs(t, err, ErrNotSquare)
	_, err = s.Apply(SubmitSize{Rows: "2", Cols: "2"})
	assert.NoError(t, err)
}

type unknownCommand struct{ Command }

func TestApply_Unknown(t *testing.T) {
	_, err := New().Apply(unknownCommand{})
	assert.Error(t, err)
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "Matrix must be square and non-zero!", Message(ErrNotSquare))
	assert.Equal(t, "Matrix must be square and non-zero!", Message(ErrNonPositive))
	assert.Equal(t, "Invalid matrix size input!", Message(ErrInvalidSize))
	assert.Equal(t, "Matrix input is invalid", Message(&matrix.CollectionError{Kind: matrix.ErrShapeMismatch, Row: -1, Col: -1}))
	assert.Equal(t, "Not a number", Message(&scalar.ParseError{Text: "1..2", Err: scalar.ErrMalformed}))
	assert.Equal(t, "boom", Message(errors.New("boom")))
	assert.Equal(t, "", FieldMessage(errors.New("boom")))
}
