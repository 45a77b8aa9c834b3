// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/gauss-tui/internal/logging"
	"github.com/jeranaias/gauss-tui/internal/session"
	"github.com/jeranaias/gauss-tui/internal/solver"
	"github.com/jeranaias/gauss-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete gauss configuration.
type Config struct {
	// Version of the config file format
	Version string `toml:"version" json:"version"`

	Solver  SolverConfig  `toml:"solver" json:"solver"`
	Display DisplayConfig `toml:"display" json:"display"`
	History HistoryConfig `toml:"history" json:"history"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// SolverConfig controls elimination.
type SolverConfig struct {
	// Tolerance is the magnitude at or below which a pivot counts as zero
	Tolerance float64 `toml:"tolerance" json:"tolerance"`

	// Pivoting is "first-nonzero" or "largest-magnitude"
	Pivoting string `toml:"pivoting" json:"pivoting"`

	// MaxSize bounds n in interactive sessions
	MaxSize int `toml:"max_size" json:"max_size"`

	// CheckResidual logs a warning when |A·x − b| exceeds ResidualTolerance
	CheckResidual     bool    `toml:"check_residual" json:"check_residual"`
	ResidualTolerance float64 `toml:"residual_tolerance" json:"residual_tolerance"`
}

// DisplayConfig controls how results are shown.
type DisplayConfig struct {
	Decimals  int    `toml:"decimals" json:"decimals"`
	ShowTrace bool   `toml:"show_trace" json:"show_trace"`
	Theme     string `toml:"theme" json:"theme"` // auto, dark, light
}

// HistoryConfig controls the solve history database.
type HistoryConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`

	// Path of the sqlite file; empty means ~/.gauss/history.db
	Path string `toml:"path" json:"path"`

	// MaxEntries is how many solves are kept; 0 keeps everything
	MaxEntries int `toml:"max_entries" json:"max_entries"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level" json:"level"`

	// Path of the log file used by the TUI; empty means ~/.gauss/gauss.log
	Path string `toml:"path" json:"path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Version: "1",
		Solver: SolverConfig{
			Tolerance:         solver.DefaultTolerance,
			Pivoting:          solver.PivotFirstNonZero.String(),
			MaxSize:           session.DefaultMaxSize,
			CheckResidual:     true,
			ResidualTolerance: session.DefaultResidualTolerance,
		},
		Display: DisplayConfig{
			Decimals:  2,
			ShowTrace: false,
			Theme:     "auto",
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 500,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the gauss configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".gauss"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// HistoryPath resolves History.Path.
func (c *Config) HistoryPath() (string, error) {
	return c.resolve(c.History.Path, "history.db")
}

// LogPath resolves Log.Path.
func (c *Config) LogPath() (string, error) {
	return c.resolve(c.Log.Path, "gauss.log")
}

func (c *Config) resolve(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.gauss/config.toml if present, then applies environment
// overrides, defaults and validation. A missing file is not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return LoadFromPath(path)
	}
	return finish(Default())
}

// LoadFromPath loads configuration from a specific TOML file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return finish(cfg)
}

// LoadTOML decodes path over cfg. Keys missing from the file keep the
// values already in cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# gauss configuration file")
	fmt.Fprintln(&buf, "# Generated by gauss - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// MaxAllowedSize is the largest value accepted for solver.max_size.
const MaxAllowedSize = 50

// Validate checks every field and returns ValidateErrors listing all
// problems, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Solver.Tolerance <= 0 || c.Solver.Tolerance >= 1 {
		add("solver.tolerance", "must be in (0, 1), got %g", c.Solver.Tolerance)
	}
	if _, err := solver.ParsePivoting(c.Solver.Pivoting); err != nil {
		add("solver.pivoting", "must be first-nonzero or largest-magnitude, got %q", c.Solver.Pivoting)
	}
	if c.Solver.MaxSize < 1 || c.Solver.MaxSize > MaxAllowedSize {
		add("solver.max_size", "must be between 1 and %d, got %d", MaxAllowedSize, c.Solver.MaxSize)
	}
	if c.Solver.ResidualTolerance < 0 {
		add("solver.residual_tolerance", "must not be negative, got %g", c.Solver.ResidualTolerance)
	}

	if c.Display.Decimals < 0 || c.Display.Decimals > 15 {
		add("display.decimals", "must be between 0 and 15, got %d", c.Display.Decimals)
	}
	switch c.Display.Theme {
	case "auto", "dark", "light":
	default:
		add("display.theme", "must be auto, dark or light, got %q", c.Display.Theme)
	}

	if c.History.MaxEntries < 0 {
		add("history.max_entries", "must not be negative, got %d", c.History.MaxEntries)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "must be debug, info, warn or error, got %q", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills fields left empty by a hand-edited file.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Solver.Pivoting == "" {
		c.Solver.Pivoting = d.Solver.Pivoting
	}
	if c.Display.Theme == "" {
		c.Display.Theme = d.Display.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - GAUSS_TOLERANCE: overrides solver.tolerance
//   - GAUSS_PIVOTING: overrides solver.pivoting
//   - GAUSS_MAX_SIZE: overrides solver.max_size
//   - GAUSS_DECIMALS: overrides display.decimals
//   - GAUSS_HISTORY_PATH: overrides history.path
//   - GAUSS_NO_HISTORY: set to "1" or "true" to disable history
//   - GAUSS_LOG_LEVEL: overrides log.level
//   - GAUSS_LOG_PATH: overrides log.path
//
// Unparsable numbers are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("GAUSS_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Solver.Tolerance = f
		}
	}
	if v := os.Getenv("GAUSS_PIVOTING"); v != "" {
		c.Solver.Pivoting = v
	}
	if v := os.Getenv("GAUSS_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Solver.MaxSize = n
		}
	}
	if v := os.Getenv("GAUSS_DECIMALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Display.Decimals = n
		}
	}
	if v := os.Getenv("GAUSS_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("GAUSS_NO_HISTORY"); v != "" {
		if parseBool(v) {
			c.History.Enabled = false
		}
	}
	if v := os.Getenv("GAUSS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("GAUSS_LOG_PATH"); v != "" {
		c.Log.Path = v
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// =============================================================================
// DERIVED OPTIONS
// =============================================================================

// SolverOptions converts the [solver] section to solver options. Call on a
// validated config.
func (c *Config) SolverOptions() []solver.Option {
	p, _ := solver.ParsePivoting(c.Solver.Pivoting)
	return []solver.Option{
		solver.WithTolerance(c.Solver.Tolerance),
		solver.WithPivoting(p),
	}
}

// SessionOptions returns the options for a new session.Session.
func (c *Config) SessionOptions(logger *slog.Logger) []session.Option {
	residual := 0.0
	if c.Solver.CheckResidual {
		residual = c.Solver.ResidualTolerance
	}
	return []session.Option{
		session.WithLogger(logger),
		session.WithMaxSize(c.Solver.MaxSize),
		session.WithResidualTolerance(residual),
		session.WithSolverOptions(c.SolverOptions()...),
	}
}

// LogLevel returns the parsed log level, info when unparsable.
func (c *Config) LogLevel() slog.Level {
	l, _ := logging.ParseLevel(c.Log.Level)
	return l
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "solver.max_size").
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a configuration value using dot notation. String values are
// converted to the field's type. The result is not validated.
func (c *Config) Set(key string, value any) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("%s is a section, not a key", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(part[:1]))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an arbitrary value with type conversion.
func setFieldValue(field reflect.Value, value any) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns every settable key in dot notation, sorted.
func Keys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.Split(f.Tag.Get("toml"), ",")[0]
			if name == "" || name == "-" {
				continue
			}
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, prefix+name+".")
				continue
			}
			keys = append(keys, prefix+name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
// A load failure falls back to defaults with a warning on stderr.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide configuration. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
