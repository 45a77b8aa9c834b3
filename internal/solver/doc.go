// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package solver solves square linear systems given as an augmented matrix.
//
// Solve runs Gaussian elimination with partial pivoting followed by back
// substitution:
//
//	Stage 1 (Validate):   reject nil or malformed input.
//	Stage 2 (Copy):       all work happens on a clone of the caller's matrix.
//	Stage 3 (Eliminate):  per column, find a usable pivot (swapping rows if
//	                      the diagonal is within tolerance of zero), scale
//	                      the pivot row to a unit diagonal, and clear the
//	                      column below it.
//	Stage 4 (Substitute): compute x from the last row upwards.
//	Stage 5 (Check):      reject NaN or Inf in the result.
//
// By default the pivot search takes the first row below whose entry clears
// the tolerance, not the largest one. WithPivoting(PivotLargestMagnitude)
// switches to magnitude-based pivoting, which is better conditioned.
//
// Every step is recorded in a Trace for display; the trace never changes
// what the solver does.
//
// Complexity: O(n³) time, O(n²) memory.
package solver
