// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/gauss-tui/internal/storage"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports records to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a record to Markdown.
func (e *MarkdownExporter) Export(rec *storage.Record) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("record is nil")
	}
	if rec.Size < 1 || len(rec.Cells) != rec.Size {
		return nil, fmt.Errorf("record %s has no %dx%d system", rec.ID, rec.Size, rec.Size)
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "id: %s\n", rec.ID)
		fmt.Fprintf(&sb, "session: %s\n", rec.SessionID)
		fmt.Fprintf(&sb, "size: %d\n", rec.Size)
		fmt.Fprintf(&sb, "status: %s\n", status(rec))
		fmt.Fprintf(&sb, "date: %s\n", rec.CreatedAt.Format(time.RFC3339))
		sb.WriteString("generator: gauss\n")
		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "# Linear system %dx%d\n\n", rec.Size, rec.Size)

	sb.WriteString("## System\n\n")
	writeSystemTable(&sb, rec)
	sb.WriteString("\n")

	if rec.OK() {
		sb.WriteString("## Solution\n\n")
		for _, line := range rec.SolutionLines(e.options.Decimals) {
			fmt.Fprintf(&sb, "- `%s`\n", line)
		}
		fmt.Fprintf(&sb, "\nResidual: `%g`\n", rec.Residual)
	} else {
		sb.WriteString("## Result\n\n")
		fmt.Fprintf(&sb, "> **Failed:** %s\n", escapeMarkdown(rec.Error))
	}

	if e.options.IncludeTrace && len(rec.Trace) > 0 {
		sb.WriteString("\n## Steps\n\n")
		for i, line := range rec.Trace {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, escapeMarkdown(line))
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

func status(rec *storage.Record) string {
	if rec.OK() {
		return "solved"
	}
	return "failed"
}

// writeSystemTable renders [A | b] with an escaped "|" column before b.
func writeSystemTable(sb *strings.Builder, rec *storage.Record) {
	n := rec.Size
	sb.WriteString("|")
	for j := 0; j < n; j++ {
		fmt.Fprintf(sb, " x%d |", j)
	}
	sb.WriteString("   | b |\n|")
	for j := 0; j < n; j++ {
		sb.WriteString("---:|")
	}
	sb.WriteString(":-:|---:|\n")

	for _, row := range rec.Cells {
		sb.WriteString("|")
		for j := 0; j <= n; j++ {
			if j == n {
				sb.WriteString(` \| |`)
			}
			cell := ""
			if j < len(row) {
				cell = escapeMarkdown(strings.TrimSpace(row[j]))
			}
			fmt.Fprintf(sb, " %s |", cell)
		}
		sb.WriteString("\n")
	}
}

// escapeMarkdown escapes characters that would break tables or emphasis.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`")
	return r.Replace(s)
}
