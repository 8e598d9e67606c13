package jso

import "github.com/jso-toolkit/jso/debuglog"

// ValidateValue runs the offline validator: a single depth-first walk of an
// already-materialised value against schema (spec.md §4.8 "Offline
// validator"). It shares evaluate (validate.go) with Stream, so this and the
// streaming path agree by construction.
func ValidateValue(schema *Schema, v Value) *Result {
	root := schema.effective()
	if err := evaluate(root, v, "$"); err != nil {
		logErrorf(debuglog.ComponentValidator, "%s at %s: %s", err.Keyword, err.Location, err.Error())
		return invalid(err)
	}
	return valid()
}

// Validate decodes b and validates the result against schema in one call,
// for callers that already hold the whole document in memory.
func Validate(schema *Schema, b []byte) (*Result, error) {
	v, err := Decode(b)
	if err != nil {
		return nil, err
	}
	return ValidateValue(schema, v), nil
}

// ValidateBytesStreaming drives the parser with a pure ValidateHooks bundle,
// so validation happens event-by-event as the document is parsed rather than
// against a value materialised up front (spec.md §4.7 "online" mode).
func ValidateBytesStreaming(schema *Schema, b []byte, maxDepth int) (*Result, error) {
	s := NewStream(schema.effective())
	p := NewParserBytes(b, &ValidateHooks{Stream: s}, maxDepth)
	if _, err := p.Parse(); err != nil {
		return nil, err
	}
	return s.Result(), nil
}

// DecodeAndValidateBytes materialises and validates b in a single parser
// pass, returning both the decoded value and the validation result.
func DecodeAndValidateBytes(schema *Schema, b []byte, maxDepth int) (Value, *Result, error) {
	s := NewStream(schema.effective())
	p := NewParserBytes(b, NewDecodeValidateHooks(s), maxDepth)
	v, err := p.Parse()
	if err != nil {
		return Value{}, nil, err
	}
	return v, s.Result(), nil
}
