// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package matrix holds the augmented matrix of a linear system and the
// collector that builds one from a grid of cell text.
//
// # Key Types
//
//   - Augmented: n rows by n+1 columns, last column is the right-hand side
//   - CollectionError: why a grid could not be collected (shape or entry)
//
// # Usage
//
//	m, err := matrix.Collect([][]string{
//	    {"2", "1", "|", "5"},
//	    {"1", "-1", "|", "1"},
//	}, 2)
//	if errors.Is(err, matrix.ErrShapeMismatch) {
//	    // grid is not n x (n+1)
//	}
//
// A single "|" cell between the coefficients and the right-hand side is
// accepted as a visual separator and dropped.
package matrix
