package jso

// KeywordKind is the declared type of a keyword slot's payload
// (spec.md §4.5).
type KeywordKind uint8

const (
	KAny KeywordKind = iota
	KNull
	KBool
	KInt
	KUint
	KNumber
	KString
	KRegex
	KArray
	KArrayOfStrings
	KArrayOfSchemas
	KObject
	KSchema
	KObjectOfSchemas
	KObjectOfSchemaOrStrings
	KRegexObjectOfSchemas
)

// SlotFlags carries the per-slot modifier bits spec.md §4.5 describes
// (PRESENT is tracked on Slot itself; these are the rest).
type SlotFlags uint8

const (
	FlagNone     SlotFlags = 0
	FlagRequired SlotFlags = 1 << iota
	FlagNotEmpty
	FlagNotZero
)

// RegexSchema pairs a compiled key-pattern regex with the schema applied to
// matching properties (patternProperties).
type RegexSchema struct {
	Pattern string
	Regex   *Regex
	Schema  *Schema
}

// DependencySlot is one entry of the `dependencies` keyword: either a
// sub-schema (the object must validate against it when the dependency's key
// is present) or a non-empty list of required companion properties.
type DependencySlot struct {
	Schema  *Schema // non-nil when this dependency is schema-shaped
	Strings []string
}

// Slot is the generic keyword-slot payload container described by
// spec.md §4.5: a present-bit, a declared kind, flags, and one value of the
// type that kind implies. Only the field matching Kind is meaningful.
type Slot struct {
	Present bool
	Kind    KeywordKind
	Flags   SlotFlags

	Bool    bool
	Int     int64
	Uint    uint64
	Number  Number
	Str     string
	Regex   *Regex
	Strs    []string
	Schemas []*Schema
	Obj     map[string]*Schema
	RegexObj []RegexSchema
	DepObj   map[string]DependencySlot
	Schema   *Schema
}

// getSlot performs the generic lookup-and-dispatch spec.md §4.5 describes: look
// up key in obj, and if present, parse it according to kind, setting the
// PRESENT bit on the returned slot. A miss returns a zero Slot (Present
// false) and no error unless FlagRequired is set.
func getSlot(obj *Object, key string, kind KeywordKind, flags SlotFlags, loc string) (Slot, *SchemaError) {
	v, ok := obj.Get(key)
	if !ok {
		if flags&FlagRequired != 0 {
			return Slot{}, &SchemaError{Kind: ErrValueDataDeps, Keyword: key, Location: loc, Message: "required keyword missing"}
		}
		return Slot{}, nil
	}
	return parseSlot(v, kind, flags, key, loc)
}

func parseSlot(v Value, kind KeywordKind, flags SlotFlags, key, loc string) (Slot, *SchemaError) {
	s := Slot{Present: true, Kind: kind, Flags: flags}
	switch kind {
	case KAny:
		// payload carried by the caller via the raw Value; KAny slots are
		// consulted through the original Value, not through Slot fields.
		return s, nil
	case KBool:
		if v.Kind() != KindBool {
			return Slot{}, typeErr(key, loc, "boolean")
		}
		s.Bool = v.Bool()
		return s, nil
	case KInt, KUint, KNumber:
		n, ok := NumberFromValue(v)
		if !ok {
			return Slot{}, typeErr(key, loc, "number")
		}
		if kind == KUint {
			if !n.IsInt() && n.Float() != float64(int64(n.Float())) {
				return Slot{}, typeErr(key, loc, "unsigned integer")
			}
			iv := n.Float()
			if iv < 0 {
				return Slot{}, typeErr(key, loc, "unsigned integer")
			}
			if flags&FlagNotZero != 0 && iv == 0 {
				return Slot{}, typeErr(key, loc, "positive integer")
			}
			s.Uint = uint64(iv)
			return s, nil
		}
		if flags&FlagNotZero != 0 && n.Float() <= 0 {
			return Slot{}, &SchemaError{Kind: ErrValueDataDeps, Keyword: key, Location: loc, Message: "must be > 0"}
		}
		s.Number = n
		return s, nil
	case KString:
		if v.Kind() != KindString {
			return Slot{}, typeErr(key, loc, "string")
		}
		s.Str = v.StringValue().Go()
		return s, nil
	case KRegex:
		if v.Kind() != KindString {
			return Slot{}, typeErr(key, loc, "string")
		}
		pat := v.StringValue().Go()
		re, err := CompileRegex(pat)
		if err != nil {
			return Slot{}, &SchemaError{Kind: ErrKeywordPrep, Keyword: key, Location: loc, Message: err.Error()}
		}
		s.Str = pat
		s.Regex = re
		return s, nil
	case KArrayOfStrings:
		if v.Kind() != KindArray {
			return Slot{}, typeErr(key, loc, "array of strings")
		}
		var out []string
		var rerr *SchemaError
		v.Array().Each(func(i int, elem Value) bool {
			if elem.Kind() != KindString {
				rerr = typeErr(key, loc, "array of strings")
				return false
			}
			out = append(out, elem.StringValue().Go())
			return true
		})
		if rerr != nil {
			return Slot{}, rerr
		}
		if flags&FlagNotEmpty != 0 && len(out) == 0 {
			return Slot{}, &SchemaError{Kind: ErrValueDataDeps, Keyword: key, Location: loc, Message: "must be non-empty"}
		}
		s.Strs = out
		return s, nil
	case KObject:
		if v.Kind() != KindObject {
			return Slot{}, typeErr(key, loc, "object")
		}
		return s, nil
	default:
		return Slot{}, &SchemaError{Kind: ErrKeywordType, Keyword: key, Location: loc, Message: "unsupported keyword kind for direct parse"}
	}
}

func typeErr(key, loc, want string) *SchemaError {
	return &SchemaError{Kind: ErrValueDataType, Keyword: key, Location: loc, Message: "expected " + want}
}

// unionBoolOrSchemaC and unionSchemaOrStringArrayC (compiler.go) implement
// the union_of_2_types(boolean, schema) and union_of_2_types(schema,
// array-of-strings) dispatches spec.md §4.5 describes, for
// additionalItems/additionalProperties and each `dependencies` entry
// respectively; they live in compiler.go since they need the Compiler to
// recurse into compileNode.
