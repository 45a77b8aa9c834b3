// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps the history of solved systems in a SQLite
// database (~/.gauss/history.db by default).
//
// # Key Types
//
//   - HistoryStore: open database handle
//   - Record: one solve attempt, successful or not
//
// # Usage
//
//	store, err := storage.Open(path, storage.WithMaxEntries(500))
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := storage.FromResult(sess.ID(), res)
//	err = store.Save(ctx, rec)
//
// IDs are UUIDs; Get and Delete also accept a unique prefix.
package storage
