// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package solver

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultTolerance is the magnitude at or below which a pivot counts as zero.
const DefaultTolerance = 1e-12

// Pivoting selects how a replacement pivot row is chosen.
type Pivoting int

const (
	// PivotFirstNonZero swaps only when the diagonal is within tolerance of
	// zero, taking the first row below that clears it.
	PivotFirstNonZero Pivoting = iota

	// PivotLargestMagnitude always takes the row with the largest entry in
	// the pivot column.
	PivotLargestMagnitude
)

func (p Pivoting) String() string {
	switch p {
	case PivotFirstNonZero:
		return "first-nonzero"
	case PivotLargestMagnitude:
		return "largest-magnitude"
	default:
		return fmt.Sprintf("Pivoting(%d)", int(p))
	}
}

// ParsePivoting accepts the String forms plus the short names "first" and
// "largest".
func ParsePivoting(s string) (Pivoting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first", "first-nonzero":
		return PivotFirstNonZero, nil
	case "largest", "largest-magnitude", "max":
		return PivotLargestMagnitude, nil
	default:
		return 0, fmt.Errorf("unknown pivoting strategy %q", s)
	}
}

// Options configures Solve.
type Options struct {
	Tolerance float64
	Pivoting  Pivoting
	Logger    *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithTolerance sets the near-zero pivot threshold. Non-positive values are
// ignored.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol > 0 {
			o.Tolerance = tol
		}
	}
}

// WithPivoting selects the pivot search strategy.
func WithPivoting(p Pivoting) Option {
	return func(o *Options) { o.Pivoting = p }
}

// WithLogger logs each trace step at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func buildOptions(opts []Option) Options {
	o := Options{
		Tolerance: DefaultTolerance,
		Pivoting:  PivotFirstNonZero,
		Logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
