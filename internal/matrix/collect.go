// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package matrix

import (
	"strings"

	"github.com/jeranaias/gauss-tui/internal/scalar"
)

// Collect parses an n x (n+1) grid of cell text into an augmented matrix.
//
// The outer shape is checked before any cell is parsed. The first cell that
// fails to parse aborts collection; no partial matrix is returned.
func Collect(cells [][]string, n int) (*Augmented, error) {
	if n < 1 || len(cells) != n {
		return nil, shapeError(-1)
	}

	grid := make([][]string, n)
	for i, row := range cells {
		row = DropSeparator(row, n)
		if len(row) != n+1 {
			return nil, shapeError(i)
		}
		grid[i] = row
	}

	m, _ := New(n)
	for i, row := range grid {
		for j, text := range row {
			v, err := scalar.Parse(text)
			if err != nil {
				return nil, &CollectionError{Kind: ErrInvalidEntry, Row: i, Col: j, Err: err}
			}
			m.rows[i][j] = v.Float64()
		}
	}
	return m, nil
}

// DropSeparator removes a "|" cell sitting right after the n coefficients.
// Rows without one are returned unchanged.
func DropSeparator(row []string, n int) []string {
	if len(row) <= n || strings.TrimSpace(row[n]) != Separator {
		return row
	}
	out := make([]string, 0, len(row)-1)
	out = append(out, row[:n]...)
	return append(out, row[n+1:]...)
}

// SplitRow tokenizes one line of a text grid. Cells may be separated by
// whitespace or commas; a "|" is kept as its own cell even when glued to a
// neighbour ("3|5").
func SplitRow(line string) []string {
	line = strings.ReplaceAll(line, Separator, " "+Separator+" ")
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
}

// ParseGrid turns multi-line text into cell rows, skipping blank lines and
// lines starting with '#'.
func ParseGrid(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, SplitRow(line))
	}
	return rows
}
