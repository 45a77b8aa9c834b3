// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package solver

import (
	"errors"
	"fmt"

	"github.com/jeranaias/gauss-tui/internal/matrix"
)

var (
	// ErrSingular is returned when a column has no pivot above tolerance at
	// or below the diagonal: the system has no unique solution.
	ErrSingular = errors.New("solver: singular system")

	// ErrShapeMismatch is the collector's sentinel, re-exported so callers
	// of the end-to-end path can match either name.
	ErrShapeMismatch = matrix.ErrShapeMismatch

	// ErrNumerical is returned when the solution holds NaN or Inf.
	ErrNumerical = errors.New("solver: non-finite result")
)

// SolveError carries where a solve failed. Column is the pivot column for
// ErrSingular; Index is the unknown for ErrNumerical. Unused fields are -1.
type SolveError struct {
	Kind   error
	Column int
	Index  int
}

func (e *SolveError) Error() string {
	switch {
	case e.Column >= 0:
		return fmt.Sprintf("%v: no usable pivot in column %d", e.Kind, e.Column)
	case e.Index >= 0:
		return fmt.Sprintf("%v: x[%d] is not finite", e.Kind, e.Index)
	default:
		return e.Kind.Error()
	}
}

// Is matches the Kind sentinel.
func (e *SolveError) Is(target error) bool {
	return target == e.Kind
}
