package jso

import "regexp"

// Regex is a thin wrapper over the compiled pattern: compile, match, free
// (spec.md §4.10). Free is a deliberate no-op — the underlying *regexp.Regexp
// is garbage-collected like any other Go value once unreferenced, so there is
// nothing for Free to release; it exists only so call sites written against
// the compile/match/free contract have something to call.
type Regex struct {
	re *regexp.Regexp
}

// CompileRegex compiles pattern using RE2 syntax via the standard library's
// regexp package — the same engine the teacher's compilePattern/
// collectRegexErrors use for `pattern` and `patternProperties` keys. No
// ECMA-262 engine is substituted; nothing in the retrieval pack actually
// depends on one.
func CompileRegex(pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Regex{re: re}, nil
}

// MatchString reports whether s matches the compiled pattern anywhere.
func (r *Regex) MatchString(s string) bool { return r.re.MatchString(s) }

// Free is a no-op; see the Regex doc comment.
func (r *Regex) Free() {}
