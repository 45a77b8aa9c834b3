// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/jeranaias/gauss-tui/internal/config"
	"github.com/jeranaias/gauss-tui/internal/logging"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdSolve
	CmdREPL
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	NoColor bool

	// ConfigPath overrides ~/.gauss/config.toml.
	ConfigPath string

	// Subcommand is the first argument after the command.
	Subcommand string

	// Raw holds the command arguments after global flags are removed.
	Raw []string
}

const usageText = `gauss - solve square linear systems by Gaussian elimination

Usage:
  gauss                          Start the interactive grid (default)
  gauss tui                      Start the interactive grid
  gauss solve [FILE|-]           Solve a system read from FILE or stdin
  gauss repl                     Line-oriented solver session
  gauss history [subcommand]     Browse saved solves
  gauss config [subcommand]      Show or change configuration
  gauss version                  Show version information
  gauss help                     Show this help

Solve options:
  --trace                        Print every elimination step
  --json                         Print the result as JSON
  --decimals N                   Decimals in the solution (default: config)
  --pivot first|largest          Pivot selection strategy
  --no-history                   Do not save the solve to history

  Input is one row per line: n coefficients, an optional "|", then the
  right-hand side. Cells are separated by spaces or commas and may be
  integers, decimals or fractions. Lines starting with # are ignored.

    2  1 | 5
    1 -1 | 1

History commands:
  gauss history list [--limit N]             List recent solves
  gauss history show ID                      Show one solve
  gauss history export ID [--format md|json] [--out DIR] [--open]
  gauss history delete ID                    Delete one solve
  gauss history clear --confirm              Delete every solve

Config commands:
  gauss config show              Print the effective configuration
  gauss config path              Print the config file path
  gauss config get KEY           Print one value (e.g. solver.pivoting)
  gauss config set KEY VALUE     Change one value and save
  gauss config keys              List every key
  gauss config init [--force]    Write a default config file

Global flags:
  -q, --quiet                    Only print results
  -v, --verbose                  Log debug output to stderr
  --no-color                     Disable colours
  --config PATH                  Use another config file

Environment:
  GAUSS_TOLERANCE, GAUSS_PIVOTING, GAUSS_MAX_SIZE, GAUSS_DECIMALS,
  GAUSS_HISTORY_PATH, GAUSS_NO_HISTORY, GAUSS_LOG_LEVEL, GAUSS_LOG_PATH
`

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the arguments after the program name.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := remaining[0]
	args.Raw = remaining[1:]
	if len(args.Raw) > 0 {
		args.Subcommand = args.Raw[0]
	}

	switch cmd {
	case "tui", "grid":
		return CmdTUI, args
	case "solve", "s":
		return CmdSolve, args
	case "repl":
		return CmdREPL, args
	case "history", "hist":
		return CmdHistory, args
	case "config", "cfg":
		return CmdConfig, args
	case "version", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		// A bare file name solves it.
		args.Raw = remaining
		args.Subcommand = cmd
		return CmdSolve, args
	}
}

// parseGlobalFlags extracts global flags and returns the rest in order.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "--no-color":
			args.NoColor = true
		case "--config":
			if i+1 < len(argv) {
				i++
				args.ConfigPath = argv[i]
			}
		default:
			if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
				args.ConfigPath = arg[len("--config="):]
				continue
			}
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// LoadConfig loads the configuration named by args, or the default one,
// and installs it as the global config.
func LoadConfig(args Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// NewLogger returns the stderr logger for non-interactive commands.
// Only warnings are shown unless --verbose is given.
func NewLogger(args Args, cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if args.Verbose {
		level = slog.LevelDebug
	} else if cfg != nil && cfg.LogLevel() > level {
		level = cfg.LogLevel()
	}
	if args.Quiet {
		level = slog.LevelError
	}
	return slog.New(logging.NewHandler(w, &logging.Options{
		Level:   level,
		NoColor: args.NoColor || !ColorsEnabled(),
	}))
}

// =============================================================================
// VERSION AND HELP
// =============================================================================

// VersionData is the JSON form of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// HandleVersion prints version information.
func HandleVersion(args Args) error {
	data := VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if args.JSON {
		return NewJSONResponse("version", data).Print(os.Stdout)
	}
	PrintVersion(os.Stdout, data)
	return nil
}

// PrintVersion writes the human-readable version block.
func PrintVersion(w io.Writer, data VersionData) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render("gauss"), data.Version)
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Commit:", 12), data.GitCommit)
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Built:", 12), data.BuildDate)
	fmt.Fprintf(w, "%s%s (%s)\n", RenderLabel("Go:", 12), data.GoVersion, data.Platform)
}

// PrintUsage prints the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// HandleHelp handles the "help" command.
func HandleHelp() error {
	PrintUsage(os.Stdout)
	return nil
}
