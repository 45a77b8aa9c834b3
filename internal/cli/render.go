// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/gauss-tui/internal/matrix"
	"github.com/jeranaias/gauss-tui/internal/util"
)

// formatGrid renders cell text as right-aligned columns with a "|" before
// the right-hand side. Blank cells show as "_".
func formatGrid(cells [][]string) string {
	if len(cells) == 0 {
		return ""
	}
	cols := 0
	for _, row := range cells {
		cols = max(cols, len(row))
	}

	widths := make([]int, cols)
	for _, row := range cells {
		for j, c := range row {
			widths[j] = max(widths[j], util.StringWidth(display(c)))
		}
	}

	var sb strings.Builder
	for i, row := range cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j := 0; j < cols; j++ {
			text := "_"
			if j < len(row) {
				text = display(row[j])
			}
			cell := util.PadLeft(text, widths[j])
			switch {
			case j == cols-1:
				sb.WriteString(" " + SeparatorStyle.Render(matrix.Separator) + " ")
				sb.WriteString(RHSStyle.Render(cell))
			case j > 0:
				sb.WriteString("  " + ValueStyle.Render(cell))
			default:
				sb.WriteString(ValueStyle.Render(cell))
			}
		}
	}
	return sb.String()
}

func display(cell string) string {
	if strings.TrimSpace(cell) == "" {
		return "_"
	}
	return strings.TrimSpace(cell)
}

// printTrace writes numbered trace lines.
func printTrace(w io.Writer, lines []string) {
	fmt.Fprintln(w, SectionStyle.Render("Steps"))
	if len(lines) == 0 {
		fmt.Fprintln(w, DimStyle.Render("  (none)"))
		return
	}
	width := len(fmt.Sprint(len(lines)))
	for i, l := range lines {
		fmt.Fprintf(w, "  %s %s\n", DimStyle.Render(util.PadLeft(fmt.Sprint(i+1), width)+"."), l)
	}
}
