// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package solver

import (
	"math"

	"github.com/jeranaias/gauss-tui/internal/matrix"
)

// Solve returns x with A·x = b for the augmented matrix m = [A | b].
//
// m is never modified. On failure the returned trace holds the steps taken
// up to the failing column.
func Solve(m *matrix.Augmented, opts ...Option) (Solution, Trace, error) {
	o := buildOptions(opts)

	// Stage 1: Validate
	if m == nil || m.Size() < 1 {
		return nil, nil, &SolveError{Kind: ErrShapeMismatch, Column: -1, Index: -1}
	}

	// Stage 2: Copy
	n := m.Size()
	a := m.Clone()

	var trace Trace
	record := func(s Step) {
		trace = append(trace, s)
		o.Logger.Debug(s.String(), "step", s.Kind.String(), "row", s.Row)
	}

	// Stage 3: Eliminate
	var (
		i, j, k int
		pivot   float64
		factor  float64
	)
	for i = 0; i < n; i++ {
		if !choosePivot(a, i, o, record) {
			o.Logger.Warn("matrix is singular", "column", i)
			return nil, trace, &SolveError{Kind: ErrSingular, Column: i, Index: -1}
		}

		row := a.RowView(i)
		pivot = row[i]
		for j = i; j <= n; j++ {
			row[j] /= pivot
		}
		record(Step{Kind: StepNormalize, Row: i, Other: -1, Factor: pivot, Values: a.Row(i)})

		for k = i + 1; k < n; k++ {
			below := a.RowView(k)
			factor = below[i]
			for j = i; j <= n; j++ {
				below[j] -= factor * row[j]
			}
			record(Step{Kind: StepEliminate, Row: k, Other: i, Factor: factor, Values: a.Row(k)})
		}
	}

	// Stage 4: Substitute
	x := make(Solution, n)
	for i = n - 1; i >= 0; i-- {
		row := a.RowView(i)
		x[i] = row[n]
		for j = i + 1; j < n; j++ {
			x[i] -= row[j] * x[j]
		}
		// diagonal is 1 after normalization; kept to absorb drift
		x[i] /= row[i]
		record(Step{Kind: StepSubstitute, Row: i, Other: -1, Value: x[i]})
	}

	// Stage 5: Check
	for i = range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			return nil, trace, &SolveError{Kind: ErrNumerical, Column: -1, Index: i}
		}
	}
	return x, trace, nil
}

// choosePivot makes a[i][i] usable, swapping a lower row into place when
// needed. It returns false when the column has no usable pivot.
func choosePivot(a *matrix.Augmented, i int, o Options, record func(Step)) bool {
	n := a.Size()
	diag := math.Abs(a.RowView(i)[i])
	zero := diag <= o.Tolerance
	if zero {
		record(Step{Kind: StepZeroPivot, Row: i, Other: -1})
	}

	best := -1
	switch o.Pivoting {
	case PivotLargestMagnitude:
		bestAbs := o.Tolerance
		if !zero {
			best, bestAbs = i, diag
		}
		for k := i + 1; k < n; k++ {
			if v := math.Abs(a.RowView(k)[i]); v > bestAbs {
				best, bestAbs = k, v
			}
		}
	default:
		if !zero {
			return true
		}
		for k := i + 1; k < n; k++ {
			if math.Abs(a.RowView(k)[i]) > o.Tolerance {
				best = k
				break
			}
		}
	}

	if best < 0 {
		return false
	}
	if best != i {
		a.SwapRows(i, best)
		record(Step{Kind: StepSwap, Row: i, Other: best})
	}
	return true
}
