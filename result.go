package jso

import "github.com/kaptinlin/go-i18n"

// Error is a non-fatal validation mismatch: the schema node and keyword
// responsible, the reason tag, and the JSON Pointer into the instance where
// it was detected (spec.md §4.7 "Result").
type Error struct {
	Keyword  string
	Reason   string
	Location string // JSON Pointer into the instance
	Message  string
	Params   map[string]any
}

func (e *Error) Error() string {
	return e.Location + ": " + e.Message
}

// Localize renders the error through localizer, keyed on the failing
// keyword with Params as template variables. When localizer is nil or
// Keyword is empty it returns the plain Error() text instead.
func (e *Error) Localize(localizer *i18n.Localizer) string {
	if localizer == nil || e.Keyword == "" {
		return e.Error()
	}
	return localizer.Get(e.Keyword, i18n.Vars(e.Params))
}

// Result is the outcome of one validation run. Valid is true iff no Error
// was recorded; per spec.md §5 "Validation reports the first invalidation
// it detects", First is populated on the first mismatch and later mismatches
// are not collected.
type Result struct {
	Valid bool
	First *Error
}

func valid() *Result { return &Result{Valid: true} }

func invalid(e *Error) *Result { return &Result{Valid: false, First: e} }
