// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "errors"

var (
	// ErrInvalidSize means a size field is not an integer.
	ErrInvalidSize = errors.New("session: invalid size")

	// ErrNotSquare means rows != cols.
	ErrNotSquare = errors.New("session: matrix must be square")

	// ErrNonPositive means the size is zero or negative.
	ErrNonPositive = errors.New("session: size must be positive")

	// ErrTooLarge means the size exceeds the configured maximum.
	ErrTooLarge = errors.New("session: size too large")

	// ErrWrongState means the operation is not legal in the current state.
	ErrWrongState = errors.New("session: operation not allowed in this state")

	// ErrCellOutOfRange means a cell index lies outside the grid.
	ErrCellOutOfRange = errors.New("session: cell out of range")
)
