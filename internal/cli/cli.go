// Package cli provides rustc-style terminal output for sqlzod.
// It handles colored output, error rendering, spinners and plain or JSON
// output for pipes and CI.
package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// OutputMode determines how output is formatted.
type OutputMode int

const (
	// ModeTTY enables colored output for interactive terminals.
	ModeTTY OutputMode = iota
	// ModePlain outputs plain text without colors (for pipes/CI).
	ModePlain
	// ModeJSON outputs structured JSON for programmatic consumption.
	ModeJSON
)

// String returns the mode name used by the --output flag.
func (m OutputMode) String() string {
	switch m {
	case ModeTTY:
		return "tty"
	case ModeJSON:
		return "json"
	default:
		return "plain"
	}
}

// Config holds CLI output configuration.
type Config struct {
	Mode OutputMode
	Out  io.Writer
	Err  io.Writer
}

// Detect returns the configuration for the given output stream.
// Rules:
//   - out is a terminal and NO_COLOR is unset -> ModeTTY
//   - otherwise, or when TERM=dumb -> ModePlain
//
// ModeJSON is only ever selected explicitly.
func Detect(out *os.File) *Config {
	mode := ModePlain
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		mode = ModeTTY
	}
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		mode = ModePlain
	}
	return &Config{Mode: mode, Out: out, Err: os.Stderr}
}

// WithMode returns a copy of c using mode. ModeTTY is only honored when c
// was detected as a terminal.
func (c *Config) WithMode(mode OutputMode) *Config {
	cp := *c
	if mode != ModeTTY || c.Mode == ModeTTY {
		cp.Mode = mode
	}
	return &cp
}

// IsTTY returns true if running in interactive terminal mode.
func (c *Config) IsTTY() bool { return c.Mode == ModeTTY }

// IsJSON returns true if running in JSON output mode.
func (c *Config) IsJSON() bool { return c.Mode == ModeJSON }

var defaultCfg *Config

// Default returns the process-wide configuration, detecting it from
// stdout on first use.
func Default() *Config {
	if defaultCfg == nil {
		defaultCfg = Detect(os.Stdout)
	}
	return defaultCfg
}

// SetDefault replaces the process-wide configuration.
// Used for the --output flag and tests.
func SetDefault(cfg *Config) {
	defaultCfg = cfg
}

// EnableColors returns true if colors should be used.
func EnableColors() bool {
	return Default().IsTTY()
}
