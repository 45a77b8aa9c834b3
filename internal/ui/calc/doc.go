// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package calc is the Bubble Tea front-end for a session.Session.
//
// The model has two screens that mirror the session states: a sizing
// screen with rows/cols fields, and a grid of cells with the right-hand
// side column set apart by a "|" separator. Every edit is forwarded to the
// session; Enter solves and the result panel shows the solution, the
// failure message, and optionally the elimination trace in a scrollable
// viewport.
//
// # Keys
//
//	Tab / Shift+Tab   next / previous field
//	Up / Down         move between rows
//	Enter             submit size, or solve
//	Esc               back to sizing (reset)
//	Ctrl+T            toggle the trace panel
//	y                 copy the solution to the clipboard
//	Ctrl+C            quit
package calc
