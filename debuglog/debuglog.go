// Package debuglog parses JSO_DEBUG_CONFIG and builds a charm.land/log/v2
// logger that the jso package's scanner, parser, compiler, and validator
// report through via jso.SetLogger, per spec.md §6 "Debug logging". cmd/jso
// is the one caller: it resolves a Config from RegisterFlags's collected
// flag value, builds a Logger with NewLogger when Config.Enabled, and
// installs it before driving the parser. The config shape (comma-separated
// key:value pairs, CLI flags overlaying an env var) follows the
// Flags/Config/RegisterFlags split MacroPower-x/log uses for its own
// logging configuration.
package debuglog

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	charmlog "charm.land/log/v2"
	"github.com/spf13/pflag"
)

// Component selects which subsystem a log line came from, so a config can
// restrict output to just the scanner, or the compiler, etc.
type Component string

const (
	ComponentScanner   Component = "scanner"
	ComponentParser    Component = "parser"
	ComponentCompiler  Component = "compiler"
	ComponentValidator Component = "validator"
	ComponentAll       Component = "all"
)

// Flags holds the CLI flag names debug-logging config is registered under.
type Flags struct {
	Config string
}

// NewFlags returns the default flag name set.
func NewFlags() Flags { return Flags{Config: "debug-config"} }

// Config is the parsed form of JSO_DEBUG_CONFIG (or its CLI-flag override):
// an optional destination file, a charm.land/log level name, the set of
// components to log, and whether to include timestamps.
type Config struct {
	File       string
	Mode       string
	Components map[Component]bool
	Timestamp  bool

	Flags Flags
	raw   string
}

// NewConfig returns a zero Config with default flag names.
func NewConfig() *Config {
	return &Config{Flags: NewFlags(), Components: map[Component]bool{}}
}

// RegisterFlags adds the debug-config flag to flags, pre-populated from
// JSO_DEBUG_CONFIG if set, matching the env-var-then-flag-overlay pattern
// spec.md §6 describes. Call Resolve after flags.Parse to turn the
// collected string into c's File/Mode/Components/Timestamp fields.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	c.raw = os.Getenv("JSO_DEBUG_CONFIG")
	flags.StringVar(&c.raw, c.Flags.Config, c.raw, "debug logging config (file:, mode:, component:, timestamp: comma-separated)")
}

// Enabled reports whether RegisterFlags collected a non-empty config
// string, i.e. whether the caller asked for debug logging at all.
func (c *Config) Enabled() bool { return c.raw != "" }

// Resolve parses the config string RegisterFlags collected (from
// JSO_DEBUG_CONFIG or the CLI flag override) into c's fields. Call once
// flags have been parsed.
func (c *Config) Resolve() error {
	parsed, err := ParseEnv(c.raw)
	if err != nil {
		return err
	}
	c.File = parsed.File
	c.Mode = parsed.Mode
	c.Components = parsed.Components
	c.Timestamp = parsed.Timestamp
	return nil
}

// ParseEnv parses s (the JSO_DEBUG_CONFIG syntax: comma-separated
// key:value pairs) into c.
func ParseEnv(s string) (*Config, error) {
	c := NewConfig()
	if s == "" {
		return c, nil
	}
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, val, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("debuglog: malformed field %q (expected key:value)", field)
		}
		switch strings.ToLower(key) {
		case "file":
			c.File = val
		case "mode":
			c.Mode = val
		case "component":
			c.Components[Component(val)] = true
		case "timestamp":
			ts, err := strconv.ParseBool(val)
			if err != nil && (val == "yes" || val == "1") {
				ts = true
				err = nil
			}
			if err != nil {
				return nil, fmt.Errorf("debuglog: invalid timestamp value %q", val)
			}
			c.Timestamp = ts
		default:
			return nil, fmt.Errorf("debuglog: unknown config key %q", key)
		}
	}
	return c, nil
}

// Logger wraps a charm.land/log/v2 logger plus the component filter,
// so call sites can cheaply no-op when their component isn't enabled.
type Logger struct {
	inner      *charmlog.Logger
	components map[Component]bool
	closer     io.Closer
}

// NewLogger builds a Logger from c, opening c.File if set (else writing to
// os.Stderr).
func NewLogger(c *Config) (*Logger, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer
	if c.File != "" {
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("debuglog: open %s: %w", c.File, err)
		}
		w = f
		closer = f
	}

	inner := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: c.Timestamp,
	})
	inner.SetLevel(levelFromString(c.Mode))

	comps := c.Components
	if len(comps) == 0 {
		comps = map[Component]bool{ComponentAll: true}
	}

	return &Logger{inner: inner, components: comps, closer: closer}, nil
}

func levelFromString(mode string) charmlog.Level {
	switch strings.ToLower(mode) {
	case "debug":
		return charmlog.DebugLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	case "info", "":
		return charmlog.InfoLevel
	default:
		return charmlog.InfoLevel
	}
}

// Close releases the log file, if one was opened.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func (l *Logger) enabled(c Component) bool {
	return l.components[ComponentAll] || l.components[c]
}

// Debugf logs a formatted debug-level line for component c, if enabled.
func (l *Logger) Debugf(c Component, format string, args ...any) {
	if l.enabled(c) {
		l.inner.Debug(fmt.Sprintf(format, args...), "component", string(c))
	}
}

// Errorf logs a formatted error-level line for component c, if enabled.
func (l *Logger) Errorf(c Component, format string, args ...any) {
	if l.enabled(c) {
		l.inner.Error(fmt.Sprintf(format, args...), "component", string(c))
	}
}
