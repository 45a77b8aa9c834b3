// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the *slog.Logger handed to the rest of gauss.
//
// Records are written one per line as
//
//	[INFO]: system solved n=2 residual=0
//
// with the level tag coloured (blue info, yellow warning, red error) when
// the destination is a colour-capable terminal. Nothing in gauss logs
// through a package-level logger; callers construct one here and inject
// it.
package logging
