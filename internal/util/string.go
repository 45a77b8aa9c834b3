// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"math"
	"strconv"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the number of terminal columns s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PadLeft right-aligns s in a field of the given display width.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// PadRight left-aligns s in a field of the given display width.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TruncateWidth cuts s to at most maxWidth columns, ending with "…" when
// something was removed.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// FormatFloat renders f with a fixed number of decimals. A result that would
// read "-0.00" is printed as "0.00".
func FormatFloat(f float64, decimals int) string {
	if decimals < 0 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', decimals, 64)
	if f < 0 {
		if z, err := strconv.ParseFloat(s, 64); err == nil && z == 0 {
			return strconv.FormatFloat(math.Abs(z), 'f', decimals, 64)
		}
	}
	return s
}
