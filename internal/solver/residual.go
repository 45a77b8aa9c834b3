// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jeranaias/gauss-tui/internal/matrix"
)

// Residual returns max_i |(A·x − b)_i| for m = [A | b].
func Residual(m *matrix.Augmented, x Solution) (float64, error) {
	if m == nil || len(x) != m.Size() {
		return 0, &SolveError{Kind: ErrShapeMismatch, Column: -1, Index: -1}
	}
	n := m.Size()

	a := mat.NewDense(n, n, m.Coefficients())
	xv := mat.NewVecDense(n, append([]float64(nil), x...))
	b := mat.NewVecDense(n, m.RHS())

	var r mat.VecDense
	r.MulVec(a, xv)
	r.SubVec(&r, b)
	return mat.Norm(&r, math.Inf(1)), nil
}

// Verify reports whether x satisfies m within tol.
func Verify(m *matrix.Augmented, x Solution, tol float64) (bool, error) {
	res, err := Residual(m, x)
	if err != nil {
		return false, err
	}
	return res <= tol, nil
}
