// gauss - a terminal solver for square linear systems.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gauss-tui/internal/cli"
	"github.com/jeranaias/gauss-tui/internal/config"
	"github.com/jeranaias/gauss-tui/internal/logging"
	"github.com/jeranaias/gauss-tui/internal/session"
	"github.com/jeranaias/gauss-tui/internal/storage"
	"github.com/jeranaias/gauss-tui/internal/ui/calc"
	"github.com/jeranaias/gauss-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()
	cli.ApplyColorProfile(args)

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdSolve:
		err = cli.HandleSolve(args)
	case cli.CmdREPL:
		err = cli.HandleREPL(args)
	case cli.CmdHistory:
		err = cli.HandleHistory(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		err = cli.HandleHelp()
	}

	if err != nil {
		// solve --json has already written its error envelope to stdout
		cli.DisplayError(os.Stderr, err, args.JSON && cmd != cli.CmdSolve)
		os.Exit(cli.GetExitCode(err))
	}
}

// =============================================================================
// TUI
// =============================================================================

// runTUI starts the grid front-end. Logs go to a file so they do not
// corrupt the screen.
func runTUI(args cli.Args) error {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if logPath, err := cfg.LogPath(); err == nil {
		level := cfg.LogLevel()
		if args.Verbose {
			level = slog.LevelDebug
		}
		if l, closer, err := logging.OpenFile(logPath, level); err == nil {
			defer closer.Close()
			logger = l
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
		}
	}

	var store *storage.HistoryStore
	if cfg.History.Enabled {
		if path, err := cfg.HistoryPath(); err == nil {
			store, err = storage.Open(path, storage.WithMaxEntries(cfg.History.MaxEntries))
			if err != nil {
				logger.Warn("history unavailable", "error", err)
				store = nil
			}
		}
	}
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan calc.ConfigMsg, 1)
	watchPath := args.ConfigPath
	if watchPath == "" {
		watchPath, _ = config.ConfigPath()
	}
	if watchPath != "" {
		err := config.Watch(ctx, watchPath, func(next *config.Config, err error) {
			if err != nil {
				logger.Warn("config reload failed", "error", err)
			}
			select {
			case updates <- calc.ConfigMsg{Config: next, Err: err}:
			default:
				logger.Debug("config reload dropped; previous one pending")
			}
		})
		if err != nil {
			logger.Debug("config watch disabled", "error", err)
		}
	}

	sess := session.New(cfg.SessionOptions(logger)...)
	logger.Info("tui started", "session", sess.ID(), "version", Version)

	opts := calc.Options{
		Decimals:      cfg.Display.Decimals,
		ShowTrace:     cfg.Display.ShowTrace,
		Theme:         styles.NewTheme(cfg.Display.Theme),
		ConfigUpdates: updates,
	}
	if store != nil {
		opts.OnSolve = func(sessionID string, res *session.Result) error {
			return store.Save(ctx, storage.FromResult(sessionID, res))
		}
	}

	p := tea.NewProgram(calc.New(sess, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running gauss: %w", err)
	}
	return nil
}
