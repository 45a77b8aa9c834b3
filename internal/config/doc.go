// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for gauss.
//
// # Key Types
//
//   - Config: main configuration structure
//   - SolverConfig: tolerance, pivoting strategy, size limit, residual check
//   - DisplayConfig: decimals, trace visibility, theme
//   - HistoryConfig: sqlite history location and retention
//   - LogConfig: level and log file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (GAUSS_*)
//   - ~/.gauss/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	s := session.New(cfg.SessionOptions(logger)...)
//
// Reload on edit:
//
//	config.Watch(ctx, path, func(cfg *config.Config, err error) { ... })
package config
