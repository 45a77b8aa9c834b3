// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the gauss packages.
//
// # Key Functions
//
// Display width (go-runewidth backed, so CJK and full-width digits line up):
//   - StringWidth, PadLeft, PadRight, TruncateWidth
//
// Number formatting:
//   - FormatFloat: fixed decimals with negative zero folded to zero
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	cell := util.PadLeft(util.FormatFloat(v, 2), 8)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
