// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package solver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/gauss-tui/internal/util"
)

// StepKind names one kind of elimination step.
type StepKind int

const (
	StepZeroPivot StepKind = iota
	StepSwap
	StepNormalize
	StepEliminate
	StepSubstitute
)

func (k StepKind) String() string {
	switch k {
	case StepZeroPivot:
		return "zero-pivot"
	case StepSwap:
		return "swap"
	case StepNormalize:
		return "normalize"
	case StepEliminate:
		return "eliminate"
	case StepSubstitute:
		return "substitute"
	default:
		return "StepKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Step is one recorded operation.
//
//	zero-pivot:  Row
//	swap:        Row <-> Other
//	normalize:   Row divided by Factor, Values is the row afterwards
//	eliminate:   Row -= Factor * Other, Values is the row afterwards
//	substitute:  x[Row] = Value
type Step struct {
	Kind   StepKind  `json:"kind"`
	Row    int       `json:"row"`
	Other  int       `json:"other"`
	Factor float64   `json:"factor,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Value  float64   `json:"value,omitempty"`
}

func (s Step) String() string {
	switch s.Kind {
	case StepZeroPivot:
		return fmt.Sprintf("Zero pivot encountered at row %d", s.Row)
	case StepSwap:
		return fmt.Sprintf("Swapped row %d with row %d", s.Row, s.Other)
	case StepNormalize:
		return fmt.Sprintf("Normalized row %d by %s: %s", s.Row, formatG(s.Factor), formatRow(s.Values))
	case StepEliminate:
		return fmt.Sprintf("Eliminated row %d using row %d (factor %s): %s", s.Row, s.Other, formatG(s.Factor), formatRow(s.Values))
	case StepSubstitute:
		return fmt.Sprintf("Back substitution at row %d: x[%d] = %s", s.Row, s.Row, formatG(s.Value))
	default:
		return s.Kind.String()
	}
}

// Trace is the ordered list of steps taken by one Solve call.
type Trace []Step

// Lines renders every step as one line of text.
func (t Trace) Lines() []string {
	out := make([]string, len(t))
	for i, s := range t {
		out[i] = s.String()
	}
	return out
}

// Count returns how many steps of kind k were recorded.
func (t Trace) Count(k StepKind) int {
	c := 0
	for _, s := range t {
		if s.Kind == k {
			c++
		}
	}
	return c
}

// Solution holds one value per unknown, in row order.
type Solution []float64

// Lines renders "x[i] = v" with the given number of decimals.
func (s Solution) Lines(decimals int) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = fmt.Sprintf("x[%d] = %s", i, util.FormatFloat(v, decimals))
	}
	return out
}

// String renders the solution with two decimals on one line.
func (s Solution) String() string {
	return strings.Join(s.Lines(2), ", ")
}

func formatG(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatRow(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatG(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
