package jso

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jso-toolkit/jso/debuglog"
)

// installTestLogger wires a *debuglog.Logger writing to a temp file as the
// package-wide sink for the duration of the test, restoring the previous
// (nil, in normal test runs) logger on cleanup.
func installTestLogger(t *testing.T, configStr string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "jso.log")
	cfg, err := debuglog.ParseEnv("file:" + path + "," + configStr)
	if err != nil {
		t.Fatalf("ParseEnv error: %v", err)
	}
	l, err := debuglog.NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger error: %v", err)
	}
	SetLogger(l)
	t.Cleanup(func() {
		l.Close()
		SetLogger(nil)
	})
	return path
}

func TestScannerErrorTokenLogsThroughInstalledLogger(t *testing.T) {
	path := installTestLogger(t, "mode:debug,component:scanner")
	toks := tokenize(t, "\"a\tb\"")
	if toks[0].Kind != TokError {
		t.Fatalf("expected a TokError, got %v", toks[0])
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !bytes.Contains(got, []byte("ctrl-char")) {
		t.Fatalf("log file = %q, want it to mention the scanner's ctrl-char error", got)
	}
}

func TestValidatorFailureLogsThroughInstalledLogger(t *testing.T) {
	path := installTestLogger(t, "mode:debug,component:validator")
	schema, serr := CompileBytes([]byte(`{"type": "string"}`))
	if serr != nil {
		t.Fatalf("CompileBytes error: %v", serr)
	}
	result := ValidateValue(schema, Int(42))
	if result.Valid {
		t.Fatalf("expected validation to fail for an integer against a string schema")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !bytes.Contains(got, []byte("type")) {
		t.Fatalf("log file = %q, want it to mention the failing type keyword", got)
	}
}

func TestNilLoggerIsANoOp(t *testing.T) {
	SetLogger(nil)
	// logDebugf/logErrorf must tolerate a nil logger without panicking; this
	// is the default state for any caller of this module that never touches
	// cmd/jso's debug-config flag.
	logDebugf(debuglog.ComponentScanner, "unreachable in a real run")
	logErrorf(debuglog.ComponentScanner, "unreachable in a real run")
}
