package jso

// evaluateCombinators checks the allOf/anyOf/oneOf/not keywords against v,
// each independently re-running the shared evaluate function against the
// same value (spec.md §4.6 "Combinators").
func evaluateCombinators(schema *Schema, v Value, path string) *Error {
	for _, sub := range schema.AllOf {
		if err := evaluate(sub.effective(), v, path); err != nil {
			return &Error{Keyword: "allOf", Location: path, Message: "value does not satisfy all of allOf: " + err.Error()}
		}
	}

	if len(schema.AnyOf) > 0 {
		matched := false
		for _, sub := range schema.AnyOf {
			if evaluate(sub.effective(), v, path) == nil {
				matched = true
				break
			}
		}
		if !matched {
			return &Error{Keyword: "anyOf", Location: path, Message: "value does not satisfy any of anyOf"}
		}
	}

	if len(schema.OneOf) > 0 {
		count := 0
		for _, sub := range schema.OneOf {
			if evaluate(sub.effective(), v, path) == nil {
				count++
			}
		}
		if count != 1 {
			return &Error{Keyword: "oneOf", Location: path, Message: "value must satisfy exactly one of oneOf",
				Params: map[string]any{"MatchCount": count}}
		}
	}

	if schema.Not != nil {
		if evaluate(schema.Not.effective(), v, path) == nil {
			return &Error{Keyword: "not", Location: path, Message: "value must not satisfy the not schema"}
		}
	}

	return nil
}
