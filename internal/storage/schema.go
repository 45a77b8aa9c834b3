// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// SchemaVersion tracks the database schema version for migrations.
const SchemaVersion = 1

// Schema is the history database layout.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- One row per solve attempt
CREATE TABLE IF NOT EXISTS solves (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    size INTEGER NOT NULL,
    input_json TEXT NOT NULL,   -- raw cell text, n rows of n+1
    solution_json TEXT,         -- NULL on failure
    trace_json TEXT,            -- rendered step lines
    residual REAL,
    error TEXT,                 -- NULL on success
    created_at INTEGER NOT NULL -- Unix nanoseconds
);

CREATE INDEX IF NOT EXISTS idx_solves_created_at ON solves(created_at);
CREATE INDEX IF NOT EXISTS idx_solves_session_id ON solves(session_id);
`

// InitMetadata records the schema version on first open.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`
