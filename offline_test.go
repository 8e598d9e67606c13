package jso

import "testing"

func TestValidateValueSimpleType(t *testing.T) {
	schema := mustCompile(t, `{"type": "integer", "minimum": 0, "maximum": 10}`)

	for _, tt := range []struct {
		in    string
		valid bool
	}{
		{"5", true},
		{"0", true},
		{"10", true},
		{"-1", false},
		{"11", false},
		{`"nope"`, false},
	} {
		v, err := Decode([]byte(tt.in))
		if err != nil {
			t.Fatalf("Decode(%s) error: %v", tt.in, err)
		}
		r := ValidateValue(schema, v)
		if r.Valid != tt.valid {
			t.Errorf("ValidateValue(%s) valid = %v, want %v (first error: %v)", tt.in, r.Valid, tt.valid, r.First)
		}
	}
}

func TestValidateReportsFirstMismatchOnly(t *testing.T) {
	schema := mustCompile(t, `{
		"type": "object",
		"required": ["a", "b"],
		"properties": {
			"a": {"type": "string"},
			"b": {"type": "string"}
		}
	}`)
	v, err := Decode([]byte(`{"a": 1, "b": 2}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	r := ValidateValue(schema, v)
	if r.Valid {
		t.Fatalf("expected an invalid result")
	}
	if r.First == nil {
		t.Fatalf("First should be populated on failure")
	}
	if r.First.Location != "$/a" {
		t.Fatalf("First.Location = %q, want %q (the first property evaluated)", r.First.Location, "$/a")
	}
}

func TestValidateNestedArrayOfObjects(t *testing.T) {
	schema := mustCompile(t, `{
		"type": "array",
		"items": {
			"type": "object",
			"properties": {"id": {"type": "integer", "minimum": 1}},
			"required": ["id"]
		}
	}`)
	r := validateJSON(t, `{
		"type": "array",
		"items": {
			"type": "object",
			"properties": {"id": {"type": "integer", "minimum": 1}},
			"required": ["id"]
		}
	}`, `[{"id": 1}, {"id": 2}]`)
	if !r.Valid {
		t.Fatalf("expected a valid result, got %v", r.First)
	}

	v, err := Decode([]byte(`[{"id": 1}, {"id": 0}]`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	r = ValidateValue(schema, v)
	if r.Valid {
		t.Fatalf("expected an invalid result for the second item's id below minimum")
	}
	if r.First.Location != "$/1/id" {
		t.Fatalf("First.Location = %q, want %q", r.First.Location, "$/1/id")
	}
}

func TestValidateAdditionalPropertiesFalse(t *testing.T) {
	schema := mustCompile(t, `{
		"type": "object",
		"properties": {"a": {}},
		"additionalProperties": false
	}`)
	if r := validateJSON(t, `{"type":"object","properties":{"a":{}},"additionalProperties":false}`, `{"a": 1}`); !r.Valid {
		t.Fatalf("a declared property should be allowed, got %v", r.First)
	}

	v, err := Decode([]byte(`{"a": 1, "b": 2}`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	r := ValidateValue(schema, v)
	if r.Valid {
		t.Fatalf("an undeclared property should fail with additionalProperties:false")
	}
}

func TestValidateDependenciesPropertyForm(t *testing.T) {
	schema := mustCompile(t, `{
		"dependencies": {"credit_card": ["billing_address"]}
	}`)
	if r := validateJSON(t, `{"dependencies": {"credit_card": ["billing_address"]}}`, `{"name": "a"}`); !r.Valid {
		t.Fatalf("no credit_card present means the dependency does not apply, got %v", r.First)
	}
	if r := validateJSON(t, `{"dependencies": {"credit_card": ["billing_address"]}}`, `{"credit_card": "1234", "billing_address": "x"}`); !r.Valid {
		t.Fatalf("both properties present should satisfy the dependency, got %v", r.First)
	}
	if r := validateJSON(t, `{"dependencies": {"credit_card": ["billing_address"]}}`, `{"credit_card": "1234"}`); r.Valid {
		t.Fatalf("credit_card without billing_address should fail the dependency")
	}
}

func TestValidateUniqueItems(t *testing.T) {
	schema := mustCompile(t, `{"type": "array", "uniqueItems": true}`)
	if r := validateJSON(t, `{"type":"array","uniqueItems":true}`, `[1,2,3]`); !r.Valid {
		t.Fatalf("distinct elements should pass uniqueItems, got %v", r.First)
	}
	v, err := Decode([]byte(`[1,2,1]`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if r := ValidateValue(schema, v); r.Valid {
		t.Fatalf("duplicate elements should fail uniqueItems")
	}
}

func TestValidateBytesStreamingMatchesOffline(t *testing.T) {
	schemaSrc := `{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string", "minLength": 1}}
	}`
	schema := mustCompile(t, schemaSrc)

	for _, doc := range []string{
		`{"name": "ok"}`,
		`{"name": ""}`,
		`{}`,
	} {
		offline, err := Validate(schema, []byte(doc))
		if err != nil {
			t.Fatalf("Validate(%s) error: %v", doc, err)
		}
		streaming, err := ValidateBytesStreaming(schema, []byte(doc), 0)
		if err != nil {
			t.Fatalf("ValidateBytesStreaming(%s) error: %v", doc, err)
		}
		if offline.Valid != streaming.Valid {
			t.Errorf("doc %s: offline.Valid=%v streaming.Valid=%v, want them to agree", doc, offline.Valid, streaming.Valid)
		}
	}
}

func TestDecodeAndValidateBytesReturnsBoth(t *testing.T) {
	schema := mustCompile(t, `{"type": "integer"}`)
	v, r, err := DecodeAndValidateBytes(schema, []byte("5"), 0)
	if err != nil {
		t.Fatalf("DecodeAndValidateBytes error: %v", err)
	}
	if v.Kind() != KindInt || v.Int() != 5 {
		t.Fatalf("decoded value = %v, want integer 5", v)
	}
	if !r.Valid {
		t.Fatalf("expected a valid result, got %v", r.First)
	}
}
