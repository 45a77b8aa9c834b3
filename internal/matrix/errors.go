// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when a grid is not n rows of n+1 cells,
	// or when n < 1.
	ErrShapeMismatch = errors.New("matrix: shape mismatch")

	// ErrInvalidEntry is returned when a cell cannot be parsed.
	ErrInvalidEntry = errors.New("matrix: invalid entry")

	// ErrOutOfRange is returned by indexers for a row or column outside the
	// augmented bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")
)

// CollectionError reports why a grid of cells could not become a matrix.
// Kind is ErrShapeMismatch or ErrInvalidEntry; Row and Col locate the
// offending cell (or row, for shape errors) and are -1 when not relevant.
type CollectionError struct {
	Kind error
	Row  int
	Col  int
	Err  error // underlying parse error, if any
}

func (e *CollectionError) Error() string {
	switch {
	case e.Row >= 0 && e.Col >= 0:
		if e.Err != nil {
			return fmt.Sprintf("%v at row %d, column %d: %v", e.Kind, e.Row, e.Col, e.Err)
		}
		return fmt.Sprintf("%v at row %d, column %d", e.Kind, e.Row, e.Col)
	case e.Row >= 0:
		return fmt.Sprintf("%v at row %d", e.Kind, e.Row)
	default:
		return e.Kind.Error()
	}
}

// Is matches the Kind sentinel so callers can use errors.Is(err, ErrShapeMismatch).
func (e *CollectionError) Is(target error) bool {
	return target == e.Kind
}

func (e *CollectionError) Unwrap() error { return e.Err }

func shapeError(row int) error {
	return &CollectionError{Kind: ErrShapeMismatch, Row: row, Col: -1}
}
