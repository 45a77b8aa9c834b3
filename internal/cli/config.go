// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/jeranaias/gauss-tui/internal/config"
)

// ConfigData is the JSON form of "config show".
type ConfigData struct {
	Path   string         `json:"config_path"`
	Config *config.Config `json:"config"`
}

// HandleConfig handles "gauss config".
func HandleConfig(args Args) error {
	path := args.ConfigPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	return runConfig(os.Stdout, path, args)
}

func runConfig(out io.Writer, path string, args Args) error {
	p := NewArgParser(args.Raw, "force", "json")

	switch p.Subcommand() {
	case "", "show":
		cfg, err := loadEffective(path)
		if err != nil {
			return err
		}
		if args.JSON || p.BoolFlag("json") {
			return NewJSONResponse("config show", ConfigData{Path: path, Config: cfg}).Print(out)
		}
		fmt.Fprintf(out, "%s\n", DimStyle.Render("# "+path))
		fmt.Fprint(out, cfg.String())
		return nil

	case "path":
		fmt.Fprintln(out, path)
		return nil

	case "keys":
		for _, k := range config.Keys() {
			fmt.Fprintln(out, k)
		}
		return nil

	case "get":
		key := p.Positional(1)
		if key == "" {
			return NewUsageErrorWithExample("key", "", "missing key", "gauss config get solver.pivoting")
		}
		cfg, err := loadEffective(path)
		if err != nil {
			return err
		}
		v, err := cfg.Get(key)
		if err != nil {
			return NewUsageError("key", key, err.Error())
		}
		fmt.Fprintln(out, v)
		return nil

	case "set":
		key, value := p.Positional(1), p.Positional(2)
		if key == "" || p.PositionalCount() < 3 {
			return NewUsageErrorWithExample("arguments", "", "expected KEY VALUE", "gauss config set display.decimals 4")
		}
		cfg, err := loadFile(path)
		if err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			return NewUsageError(key, value, err.Error())
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.SaveTOML(cfg, path); err != nil {
			return NewCommandError("config", "set", "cannot save", err)
		}
		fmt.Fprintf(out, "%s %s = %v\n", RenderStatus(true), key, value)
		return nil

	case "init":
		if _, err := os.Stat(path); err == nil && !p.BoolFlag("force") {
			return NewUsageErrorWithExample("config init", path, "file exists; use --force to overwrite", "gauss config init --force")
		}
		if err := config.SaveTOML(config.Default(), path); err != nil {
			return NewCommandError("config", "init", "cannot write config", err)
		}
		fmt.Fprintf(out, "%s Wrote %s\n", RenderStatus(true), path)
		return nil

	default:
		return NewUsageErrorWithExample("config subcommand", p.Subcommand(),
			"must be show, path, keys, get, set or init", "gauss config show")
	}
}

// loadEffective returns the config as the solver sees it, environment
// overrides included.
func loadEffective(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg := config.Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		return cfg, cfg.Validate()
	}
	return config.LoadFromPath(path)
}

// loadFile returns only what the file says, so saving it back does not
// persist environment overrides.
func loadFile(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err := config.LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}
