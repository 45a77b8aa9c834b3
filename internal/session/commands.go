// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "fmt"

// Command is one user intent delivered by a host.
type Command interface {
	isCommand()
}

// SubmitSize asks for an n x n system.
type SubmitSize struct {
	Rows string
	Cols string
}

// SetCell replaces the text of one cell. Col == Size() addresses the
// right-hand side.
type SetCell struct {
	Row  int
	Col  int
	Text string
}

// TriggerSolve collects the grid and solves it.
type TriggerSolve struct{}

// Reset returns to size selection.
type Reset struct{}

func (SubmitSize) isCommand()   {}
func (SetCell) isCommand()      {}
func (TriggerSolve) isCommand() {}
func (Reset) isCommand()        {}

// Apply dispatches cmd. Only TriggerSolve yields a Result.
func (s *Session) Apply(cmd Command) (*Result, error) {
	switch c := cmd.(type) {
	case SubmitSize:
		return nil, s.SubmitSize(c.Rows, c.Cols)
	case SetCell:
		return nil, s.SetCell(c.Row, c.Col, c.Text)
	case TriggerSolve:
		return s.TriggerSolve()
	case Reset:
		s.Reset()
		return nil, nil
	default:
		return nil, fmt.Errorf("session: unknown command %T", cmd)
	}
}
