// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/gauss-tui/internal/session"
	"github.com/jeranaias/gauss-tui/internal/solver"
)

// Record is one stored solve attempt.
type Record struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Size      int        `json:"size"`
	Cells     [][]string `json:"cells"`

	// Solution is nil when the attempt failed
	Solution []float64 `json:"solution,omitempty"`
	Trace    []string  `json:"trace,omitempty"`
	Residual float64   `json:"residual"`

	// Error is the user-facing failure message, empty on success
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// OK reports whether the attempt produced a solution.
func (r *Record) OK() bool {
	return r.Error == ""
}

// ShortID returns the first 8 characters of the id.
func (r *Record) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// SolutionLines renders the stored solution like solver.Solution.Lines.
func (r *Record) SolutionLines(decimals int) []string {
	return solver.Solution(r.Solution).Lines(decimals)
}

// FromResult converts a session result into a new Record.
func FromResult(sessionID string, res *session.Result) *Record {
	rec := &Record{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Size:      len(res.Cells),
		Cells:     res.Cells,
		Trace:     res.Trace.Lines(),
		CreatedAt: res.SolvedAt,
	}
	if res.OK() {
		rec.Solution = append([]float64(nil), res.Solution...)
		rec.Residual = res.Residual
	} else {
		rec.Error = session.Message(res.Err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	return rec
}
