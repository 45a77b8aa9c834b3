// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"

	"github.com/jeranaias/gauss-tui/internal/matrix"
	"github.com/jeranaias/gauss-tui/internal/scalar"
	"github.com/jeranaias/gauss-tui/internal/solver"
)

// Message maps an error from this package or the core packages below it to
// the text shown to the user. Unknown errors fall back to err.Error().
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotSquare), errors.Is(err, ErrNonPositive):
		return "Matrix must be square and non-zero!"
	case errors.Is(err, ErrInvalidSize):
		return "Invalid matrix size input!"
	case errors.Is(err, ErrTooLarge):
		return "Matrix is too large!"
	case errors.Is(err, ErrWrongState):
		return "Not available right now"
	case errors.Is(err, ErrCellOutOfRange):
		return "No such cell"
	case errors.Is(err, matrix.ErrShapeMismatch), errors.Is(err, matrix.ErrInvalidEntry):
		var ce *matrix.CollectionError
		if errors.As(err, &ce) && ce.Row >= 0 && ce.Col >= 0 {
			return fmt.Sprintf("Matrix input is invalid (row %d, column %d)", ce.Row+1, ce.Col+1)
		}
		return "Matrix input is invalid"
	case errors.Is(err, solver.ErrSingular):
		return "System is singular and cannot be solved"
	case errors.Is(err, solver.ErrNumerical):
		return "Solution is not a finite number"
	}
	if msg := FieldMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}

// FieldMessage returns the short validation text shown next to a single
// cell, or "" when err is not a parse error.
func FieldMessage(err error) string {
	var pe *scalar.ParseError
	if !errors.As(err, &pe) {
		return ""
	}
	switch {
	case errors.Is(err, scalar.ErrEmpty):
		return "Required"
	case errors.Is(err, scalar.ErrInvalidCharacter):
		return "Use digits, '-', '.' or '/'"
	case errors.Is(err, scalar.ErrZeroDenominator):
		return "Denominator cannot be zero"
	default:
		return "Not a number"
	}
}
