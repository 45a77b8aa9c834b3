// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export turns stored solves into shareable reports.
//
// # Formats
//
//   - Markdown: front matter, the system as a table, solution and steps
//   - JSON: the complete storage.Record
//
// # Usage
//
//	exp, err := export.ForFormat("md", opts)
//	path, err := export.ExportToFile(rec, exp, opts)
//
// RenderTerminal and Highlight format the same reports for a terminal.
package export
