package jso

import "testing"

func TestCompileRegexMatch(t *testing.T) {
	re, err := CompileRegex(`^[a-z]+\d+$`)
	if err != nil {
		t.Fatalf("CompileRegex error: %v", err)
	}
	if !re.MatchString("abc123") {
		t.Errorf("MatchString(abc123) = false, want true")
	}
	if re.MatchString("ABC123") {
		t.Errorf("MatchString(ABC123) = true, want false")
	}
	re.Free() // no-op, must not panic
}

func TestCompileRegexInvalidPattern(t *testing.T) {
	_, err := CompileRegex(`(unterminated`)
	if err == nil {
		t.Fatalf("expected an error compiling an invalid pattern")
	}
}

func TestCompileRegexSearchAnywhere(t *testing.T) {
	re, err := CompileRegex(`foo`)
	if err != nil {
		t.Fatalf("CompileRegex error: %v", err)
	}
	if !re.MatchString("xxfooyy") {
		t.Errorf("MatchString should match \"foo\" anywhere in the subject, not just at an anchor")
	}
}
