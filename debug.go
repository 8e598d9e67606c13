package jso

import "github.com/jso-toolkit/jso/debuglog"

// logger is the package-wide debug-logging sink. cmd/jso installs it via
// SetLogger, built from JSO_DEBUG_CONFIG/--debug-config before driving the
// scanner, parser, compiler, and validator; nil (the default for any other
// caller of this module) means every logDebugf/logErrorf call below is a
// single nil check away from a no-op.
var logger *debuglog.Logger

// SetLogger installs l as the sink the scanner, parser, compiler, and
// validator report through. Passing nil disables logging.
func SetLogger(l *debuglog.Logger) { logger = l }

func logDebugf(c debuglog.Component, format string, args ...any) {
	if logger != nil {
		logger.Debugf(c, format, args...)
	}
}

func logErrorf(c debuglog.Component, format string, args ...any) {
	if logger != nil {
		logger.Errorf(c, format, args...)
	}
}
