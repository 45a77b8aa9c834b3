// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives one interactive solve: choose a size, fill in the
// cells, solve, edit, solve again.
//
// A Session has two states. In StateSizingInput only SubmitSize is legal.
// A valid square size allocates an empty n x (n+1) grid and moves the
// session to StateMatrixInput, where cells can be edited and TriggerSolve
// run any number of times. Reset is the only way back.
//
// # Key Types
//
//   - Session: the state machine
//   - Command: SubmitSize, SetCell, TriggerSolve or Reset, for hosts that
//     dispatch events through Apply
//   - Result: solution, trace and residual of the last solve, or its error
//
// # Usage
//
//	s := session.New(session.WithLogger(logger))
//	if err := s.SubmitSize("2", "2"); err != nil {
//	    fmt.Println(session.Message(err))
//	}
//	s.SetCell(0, 0, "2")
//	...
//	res, err := s.TriggerSolve()
//
// A Session is not safe for concurrent use; hosts call it from one event
// loop.
package session
