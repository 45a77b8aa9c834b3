// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package matrix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/gauss-tui/internal/util"
)

// Separator is the cell text that marks the boundary between coefficients
// and the right-hand side.
const Separator = "|"

// =============================================================================
// AUGMENTED MATRIX
// =============================================================================

// Augmented is the matrix [A | b] of an n-unknown linear system.
type Augmented struct {
	n    int
	rows [][]float64
}

// New allocates a zero n x (n+1) matrix.
func New(n int) (*Augmented, error) {
	if n < 1 {
		return nil, fmt.Errorf("New: size %d: %w", n, ErrShapeMismatch)
	}
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n+1)
	}
	return &Augmented{n: n, rows: rows}, nil
}

// FromRows copies rows into a new matrix. Every row must have len(rows)+1
// entries.
func FromRows(rows [][]float64) (*Augmented, error) {
	n := len(rows)
	if n < 1 {
		return nil, shapeError(-1)
	}
	m, _ := New(n)
	for i, row := range rows {
		if len(row) != n+1 {
			return nil, shapeError(i)
		}
		copy(m.rows[i], row)
	}
	return m, nil
}

// MustFromRows is FromRows for literals; it panics on a bad shape.
func MustFromRows(rows [][]float64) *Augmented {
	m, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// Size returns n, the number of unknowns.
func (m *Augmented) Size() int { return m.n }

// Cols returns n+1.
func (m *Augmented) Cols() int { return m.n + 1 }

// At returns entry (i, j).
func (m *Augmented) At(i, j int) (float64, error) {
	if !m.inBounds(i, j) {
		return 0, ErrOutOfRange
	}
	return m.rows[i][j], nil
}

// Set assigns entry (i, j).
func (m *Augmented) Set(i, j int, v float64) error {
	if !m.inBounds(i, j) {
		return ErrOutOfRange
	}
	m.rows[i][j] = v
	return nil
}

// Row returns a copy of row i.
func (m *Augmented) Row(i int) []float64 {
	out := make([]float64, m.n+1)
	copy(out, m.rows[i])
	return out
}

// RowView exposes row i for in-place updates. Only the solver's working
// copy should be written through it.
func (m *Augmented) RowView(i int) []float64 {
	return m.rows[i]
}

// SwapRows exchanges rows i and k.
func (m *Augmented) SwapRows(i, k int) {
	m.rows[i], m.rows[k] = m.rows[k], m.rows[i]
}

// Clone returns a deep copy.
func (m *Augmented) Clone() *Augmented {
	c, _ := New(m.n)
	for i := range m.rows {
		copy(c.rows[i], m.rows[i])
	}
	return c
}

// Rows returns a deep copy of all rows.
func (m *Augmented) Rows() [][]float64 {
	out := make([][]float64, m.n)
	for i := range m.rows {
		out[i] = m.Row(i)
	}
	return out
}

// Coefficients returns A as a row-major slice of length n*n.
func (m *Augmented) Coefficients() []float64 {
	out := make([]float64, 0, m.n*m.n)
	for _, row := range m.rows {
		out = append(out, row[:m.n]...)
	}
	return out
}

// RHS returns a copy of b.
func (m *Augmented) RHS() []float64 {
	out := make([]float64, m.n)
	for i, row := range m.rows {
		out[i] = row[m.n]
	}
	return out
}

// String renders the matrix as right-aligned columns with a "|" before the
// right-hand side.
func (m *Augmented) String() string {
	return m.Format(-1)
}

// Format renders like String with a fixed number of decimals; decimals < 0
// uses the shortest representation.
func (m *Augmented) Format(decimals int) string {
	cells := make([][]string, m.n)
	width := 0
	for i, row := range m.rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = strconv.FormatFloat(v, 'f', decimals, 64)
			if w := util.StringWidth(cells[i][j]); w > width {
				width = w
			}
		}
	}

	var sb strings.Builder
	for i, row := range cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("[ ")
		for j, c := range row {
			if j == m.n {
				sb.WriteString("| ")
			}
			sb.WriteString(util.PadLeft(c, width))
			sb.WriteByte(' ')
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

func (m *Augmented) inBounds(i, j int) bool {
	return i >= 0 && i < m.n && j >= 0 && j <= m.n
}
