// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive commands of gauss.
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdSolve:
//	    err = cli.HandleSolve(args)
//	case cli.CmdHistory:
//	    err = cli.HandleHistory(args)
//	// ...
//	}
//
// Handlers return errors; the caller prints them and exits with
// GetExitCode. solve, history and config show accept --json.
//
// # Commands
//
//   - solve: read a grid from a file or stdin and solve it
//   - repl: line-oriented session with history and line editing
//   - history: list, show, export, delete and clear saved solves
//   - config: show, get, set and initialise the config file
package cli
