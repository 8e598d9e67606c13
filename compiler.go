package jso

import (
	"strconv"

	"github.com/jso-toolkit/jso/debuglog"
)

// Compiler transforms a parsed document Value into a compiled Schema tree
// (spec.md §4.4). It owns the Registry used to resolve `$ref`s in a second
// pass once every `id`-scoped node has been registered.
type Compiler struct {
	registry       *Registry
	defaultBaseURI string
	unresolved     []unresolvedRef
}

// NewCompiler returns a Compiler with a fresh, empty Registry.
func NewCompiler() *Compiler {
	return &Compiler{registry: NewRegistry()}
}

// SetDefaultBaseURI sets the base URI assumed for the root schema when it
// carries no `id` of its own.
func (c *Compiler) SetDefaultBaseURI(uri string) { c.defaultBaseURI = uri }

// Registry exposes the compiler's reference registry, e.g. so a caller can
// pre-register externally-fetched schemas before calling Compile (the
// caller-provided registry spec.md §1's non-goals permit in place of
// network fetch).
func (c *Compiler) Registry() *Registry { return c.registry }

// Compile compiles doc into a root Schema, resolving all `$ref`s found
// anywhere in the tree against nodes registered during the same compile.
func (c *Compiler) Compile(doc Value) (*Schema, *SchemaError) {
	root, err := c.compileNode(nil, doc, "#")
	if err != nil {
		logErrorf(debuglog.ComponentCompiler, "compiling %s: %s", err.Keyword, err.Message)
		return nil, err
	}
	c.registry.Register("", root)
	if err := c.resolveReferences(); err != nil {
		logErrorf(debuglog.ComponentCompiler, "resolving references: %s", err.Message)
		return nil, err
	}
	logDebugf(debuglog.ComponentCompiler, "compiled schema rooted at %q with %d $ref(s)", c.defaultBaseURI, len(c.unresolved))
	return root, nil
}

// CompileBytes parses and compiles a schema document in one call.
func CompileBytes(b []byte) (*Schema, error) {
	v, err := Decode(b)
	if err != nil {
		return nil, err
	}
	c := NewCompiler()
	s, serr := c.Compile(v)
	if serr != nil {
		return nil, serr
	}
	return s, nil
}

func (c *Compiler) baseURIFor(parent *Schema) string {
	if parent != nil {
		return parent.BaseURI
	}
	return c.defaultBaseURI
}

// compileNode compiles one schema object (at JSON Pointer loc within the
// document, for error messages) into a Schema node, per spec.md §4.4.
func (c *Compiler) compileNode(parent *Schema, v Value, loc string) (*Schema, *SchemaError) {
	if v.Kind() != KindObject {
		return nil, &SchemaError{Kind: ErrRootDataType, Location: loc, Message: "schema must be a JSON object in draft-04"}
	}
	obj := v.Object()

	node := &Schema{Parent: parent, BaseURI: c.baseURIFor(parent)}

	if idVal, ok := obj.Get("id"); ok {
		if idVal.Kind() != KindString {
			return nil, typeErr("id", loc, "string")
		}
		node.ID = idVal.StringValue().Go()
		resolved := ResolveURI(node.BaseURI, node.ID)
		node.BaseURI = BaseOf(resolved)
		if node.BaseURI == "" {
			node.BaseURI = resolved
		}
		c.registry.Register(resolved, node)
	}

	if refVal, ok := obj.Get("$ref"); ok {
		if refVal.Kind() != KindString {
			return nil, typeErr("$ref", loc, "string")
		}
		node.Ref = refVal.StringValue().Go()
		target := ResolveURI(node.BaseURI, node.Ref)
		base, frag := splitFragment(target)
		c.unresolved = append(c.unresolved, unresolvedRef{node: node, target: base, pointer: frag, loc: loc})
		// A $ref node may still carry sibling keywords in this implementation
		// (draft-04 permits — though ignores — them); continue compiling the
		// rest so e.g. `description` alongside `$ref` is preserved.
	}

	if err := c.compileTypeKeyword(node, obj, loc); err != nil {
		return nil, err
	}
	if err := c.compileCommonKeywords(node, obj, loc); err != nil {
		return nil, err
	}

	switch {
	case node.TypeAllowed("integer") || node.TypeAllowed("number") || len(node.Types) == 0:
		if err := c.compileNumberKeywords(node, obj, loc); err != nil {
			return nil, err
		}
	}
	if node.TypeAllowed("string") || len(node.Types) == 0 {
		if err := c.compileStringKeywords(node, obj, loc); err != nil {
			return nil, err
		}
	}
	if node.TypeAllowed("array") || len(node.Types) == 0 {
		if err := c.compileArrayKeywords(node, obj, loc); err != nil {
			return nil, err
		}
	}
	if node.TypeAllowed("object") || len(node.Types) == 0 {
		if err := c.compileObjectKeywords(node, obj, loc); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func splitFragment(uri string) (base, fragment string) {
	u := ParseURI(uri)
	return u.WithoutFragment(), u.Fragment()
}

func (c *Compiler) compileTypeKeyword(node *Schema, obj *Object, loc string) *SchemaError {
	tv, ok := obj.Get("type")
	if !ok {
		return nil
	}
	switch tv.Kind() {
	case KindString:
		name := tv.StringValue().Go()
		if !validTypeName(name) {
			return &SchemaError{Kind: ErrValueDataType, Keyword: "type", Location: loc, Message: "unknown type name " + name}
		}
		node.Types = []string{name}
	case KindArray:
		var names []string
		var rerr *SchemaError
		tv.Array().Each(func(i int, e Value) bool {
			if e.Kind() != KindString || !validTypeName(e.StringValue().Go()) {
				rerr = &SchemaError{Kind: ErrValueDataType, Keyword: "type", Location: loc, Message: "invalid type name in array"}
				return false
			}
			names = append(names, e.StringValue().Go())
			return true
		})
		if rerr != nil {
			return rerr
		}
		if len(names) == 0 {
			return &SchemaError{Kind: ErrValueDataDeps, Keyword: "type", Location: loc, Message: "type array must be non-empty"}
		}
		node.Types = names
	default:
		return typeErr("type", loc, "string or array of strings")
	}
	return nil
}

func validTypeName(s string) bool {
	switch s {
	case "null", "boolean", "integer", "number", "string", "array", "object":
		return true
	default:
		return false
	}
}

func (c *Compiler) compileCommonKeywords(node *Schema, obj *Object, loc string) *SchemaError {
	if v, ok := obj.Get("title"); ok {
		if v.Kind() != KindString {
			return typeErr("title", loc, "string")
		}
		node.Title = v.StringValue().Go()
	}
	if v, ok := obj.Get("description"); ok {
		if v.Kind() != KindString {
			return typeErr("description", loc, "string")
		}
		node.Description = v.StringValue().Go()
	}
	if v, ok := obj.Get("default"); ok {
		node.HasDefault = true
		node.Default = v
	}
	if v, ok := obj.Get("enum"); ok {
		if v.Kind() != KindArray || v.Array().Len() == 0 {
			return typeErr("enum", loc, "non-empty array")
		}
		items := v.Array().ToSlice()
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				if Equal(items[i], items[j]) {
					return &SchemaError{Kind: ErrValueDataDeps, Keyword: "enum", Location: loc, Message: "enum values must be unique"}
				}
			}
		}
		node.Enum = items
	}

	for _, kw := range []struct {
		name string
		dst  *[]*Schema
	}{{"allOf", &node.AllOf}, {"anyOf", &node.AnyOf}, {"oneOf", &node.OneOf}} {
		v, ok := obj.Get(kw.name)
		if !ok {
			continue
		}
		if v.Kind() != KindArray || v.Array().Len() == 0 {
			return typeErr(kw.name, loc, "non-empty array of schemas")
		}
		var subs []*Schema
		idx := 0
		var rerr *SchemaError
		v.Array().Each(func(i int, e Value) bool {
			sub, err := c.compileNode(node, e, loc+"/"+kw.name+"/"+strconv.Itoa(idx))
			if err != nil {
				rerr = err
				return false
			}
			subs = append(subs, sub)
			idx++
			return true
		})
		if rerr != nil {
			return rerr
		}
		*kw.dst = subs
	}

	if v, ok := obj.Get("not"); ok {
		sub, err := c.compileNode(node, v, loc+"/not")
		if err != nil {
			return err
		}
		node.Not = sub
	}

	if v, ok := obj.Get("definitions"); ok {
		if v.Kind() != KindObject {
			return typeErr("definitions", loc, "object")
		}
		node.Definitions = map[string]*Schema{}
		var rerr *SchemaError
		v.Object().Each(func(key string, val Value) bool {
			sub, err := c.compileNode(node, val, loc+"/definitions/"+key)
			if err != nil {
				rerr = err
				return false
			}
			node.Definitions[key] = sub
			node.DefinitionOrder = append(node.DefinitionOrder, key)
			return true
		})
		if rerr != nil {
			return rerr
		}
	}

	return nil
}

func (c *Compiler) compileNumberKeywords(node *Schema, obj *Object, loc string) *SchemaError {
	if v, ok := obj.Get("multipleOf"); ok {
		n, ok := NumberFromValue(v)
		if !ok || !n.Positive() {
			return typeErr("multipleOf", loc, "number > 0")
		}
		node.MultipleOf = &n
	}
	if v, ok := obj.Get("minimum"); ok {
		n, ok := NumberFromValue(v)
		if !ok {
			return typeErr("minimum", loc, "number")
		}
		node.Minimum = &n
	}
	if v, ok := obj.Get("maximum"); ok {
		n, ok := NumberFromValue(v)
		if !ok {
			return typeErr("maximum", loc, "number")
		}
		node.Maximum = &n
	}
	if v, ok := obj.Get("exclusiveMinimum"); ok {
		if v.Kind() != KindBool {
			return typeErr("exclusiveMinimum", loc, "boolean")
		}
		node.ExclusiveMinimum = v.Bool()
	}
	if v, ok := obj.Get("exclusiveMaximum"); ok {
		if v.Kind() != KindBool {
			return typeErr("exclusiveMaximum", loc, "boolean")
		}
		node.ExclusiveMaximum = v.Bool()
	}
	return nil
}

func (c *Compiler) compileStringKeywords(node *Schema, obj *Object, loc string) *SchemaError {
	if v, ok := obj.Get("minLength"); ok {
		s, err := parseSlot(v, KUint, FlagNone, "minLength", loc)
		if err != nil {
			return err
		}
		node.MinLength = &s.Uint
	}
	if v, ok := obj.Get("maxLength"); ok {
		s, err := parseSlot(v, KUint, FlagNone, "maxLength", loc)
		if err != nil {
			return err
		}
		node.MaxLength = &s.Uint
	}
	if v, ok := obj.Get("pattern"); ok {
		s, err := parseSlot(v, KRegex, FlagNone, "pattern", loc)
		if err != nil {
			return err
		}
		node.Pattern = s.Regex
		node.PatternSrc = s.Str
	}
	return nil
}

func (c *Compiler) compileArrayKeywords(node *Schema, obj *Object, loc string) *SchemaError {
	if v, ok := obj.Get("items"); ok {
		switch v.Kind() {
		case KindArray:
			node.ItemsIsTuple = true
			idx := 0
			var rerr *SchemaError
			v.Array().Each(func(i int, e Value) bool {
				sub, err := c.compileNode(node, e, loc+"/items/"+strconv.Itoa(idx))
				if err != nil {
					rerr = err
					return false
				}
				node.ItemsTuple = append(node.ItemsTuple, sub)
				idx++
				return true
			})
			if rerr != nil {
				return rerr
			}
		case KindObject:
			sub, err := c.compileNode(node, v, loc+"/items")
			if err != nil {
				return err
			}
			node.ItemsSchema = sub
		default:
			return typeErr("items", loc, "schema or array of schemas")
		}
	}
	if v, ok := obj.Get("additionalItems"); ok {
		slot, err := unionBoolOrSchemaC(c, node, v, "additionalItems", loc)
		if err != nil {
			return err
		}
		node.AdditionalItems = slot
	}
	if v, ok := obj.Get("minItems"); ok {
		s, err := parseSlot(v, KUint, FlagNone, "minItems", loc)
		if err != nil {
			return err
		}
		node.MinItems = &s.Uint
	}
	if v, ok := obj.Get("maxItems"); ok {
		s, err := parseSlot(v, KUint, FlagNone, "maxItems", loc)
		if err != nil {
			return err
		}
		node.MaxItems = &s.Uint
	}
	if v, ok := obj.Get("uniqueItems"); ok {
		if v.Kind() != KindBool {
			return typeErr("uniqueItems", loc, "boolean")
		}
		node.UniqueItems = v.Bool()
	}
	return nil
}

func (c *Compiler) compileObjectKeywords(node *Schema, obj *Object, loc string) *SchemaError {
	if v, ok := obj.Get("properties"); ok {
		if v.Kind() != KindObject {
			return typeErr("properties", loc, "object")
		}
		node.Properties = map[string]*Schema{}
		var rerr *SchemaError
		v.Object().Each(func(key string, val Value) bool {
			sub, err := c.compileNode(node, val, loc+"/properties/"+key)
			if err != nil {
				rerr = err
				return false
			}
			node.Properties[key] = sub
			node.PropertyOrder = append(node.PropertyOrder, key)
			return true
		})
		if rerr != nil {
			return rerr
		}
	}
	if v, ok := obj.Get("patternProperties"); ok {
		if v.Kind() != KindObject {
			return typeErr("patternProperties", loc, "object")
		}
		var rerr *SchemaError
		v.Object().Each(func(key string, val Value) bool {
			re, err := CompileRegex(key)
			if err != nil {
				rerr = &SchemaError{Kind: ErrKeywordPrep, Keyword: "patternProperties", Location: loc, Message: err.Error()}
				return false
			}
			sub, serr := c.compileNode(node, val, loc+"/patternProperties/"+key)
			if serr != nil {
				rerr = serr
				return false
			}
			node.PatternProperties = append(node.PatternProperties, RegexSchema{Pattern: key, Regex: re, Schema: sub})
			return true
		})
		if rerr != nil {
			return rerr
		}
	}
	if v, ok := obj.Get("additionalProperties"); ok {
		slot, err := unionBoolOrSchemaC(c, node, v, "additionalProperties", loc)
		if err != nil {
			return err
		}
		node.AdditionalProperties = slot
	}
	if v, ok := obj.Get("minProperties"); ok {
		s, err := parseSlot(v, KUint, FlagNone, "minProperties", loc)
		if err != nil {
			return err
		}
		node.MinProperties = &s.Uint
	}
	if v, ok := obj.Get("maxProperties"); ok {
		s, err := parseSlot(v, KUint, FlagNone, "maxProperties", loc)
		if err != nil {
			return err
		}
		node.MaxProperties = &s.Uint
	}
	if v, ok := obj.Get("required"); ok {
		s, err := parseSlot(v, KArrayOfStrings, FlagNotEmpty, "required", loc)
		if err != nil {
			return err
		}
		node.Required = s.Strs
	}
	if v, ok := obj.Get("dependencies"); ok {
		if v.Kind() != KindObject {
			return typeErr("dependencies", loc, "object")
		}
		node.Dependencies = map[string]DependencySlot{}
		var rerr *SchemaError
		v.Object().Each(func(key string, val Value) bool {
			dep, err := unionSchemaOrStringArrayC(c, node, val, "dependencies", loc)
			if err != nil {
				rerr = err
				return false
			}
			node.Dependencies[key] = dep
			node.DependencyOrder = append(node.DependencyOrder, key)
			return true
		})
		if rerr != nil {
			return rerr
		}
	}
	return nil
}

// resolveReferences runs the compiler's second pass: every `$ref` recorded
// during compileNode is looked up in the registry now that the whole
// document has been compiled and registered, satisfying forward references.
func (c *Compiler) resolveReferences() *SchemaError {
	for _, u := range c.unresolved {
		target, ok := c.registry.Lookup(u.target)
		if !ok {
			// The ref's base URI matches no registered `id`; fall back to
			// treating it as a pointer into the root document compiled under
			// that base, the common case of a same-document "#/..." ref.
			target, ok = c.registry.Lookup("")
		}
		if !ok && u.pointer == "" {
			return &SchemaError{Kind: ErrReferenceUnresolved, Location: u.loc, Message: "unresolved $ref " + u.node.Ref}
		}
		resolved, err := c.resolvePointerInto(target, u)
		if err != nil {
			return err
		}
		u.node.Resolved = resolved
	}
	return nil
}

func (c *Compiler) resolvePointerInto(root *Schema, u unresolvedRef) (*Schema, *SchemaError) {
	if u.pointer == "" {
		if root == nil {
			return nil, &SchemaError{Kind: ErrReferenceUnresolved, Location: u.loc, Message: "unresolved $ref " + u.node.Ref}
		}
		return root, nil
	}
	p, perr := ParsePointer(u.pointer)
	if perr != nil {
		return nil, &SchemaError{Kind: ErrReferenceUnresolved, Location: u.loc, Message: "malformed $ref pointer: " + perr.Error()}
	}
	cur := root
	if cur == nil {
		cur = c.rootForPointer()
	}
	if cur == nil {
		return nil, &SchemaError{Kind: ErrReferenceUnresolved, Location: u.loc, Message: "no root schema to resolve pointer against"}
	}
	for _, tok := range p.Tokens() {
		next, ok := stepSchemaPointer(cur, tok)
		if !ok {
			return nil, &SchemaError{Kind: ErrReferenceUnresolved, Location: u.loc, Message: "unresolved $ref " + u.node.Ref}
		}
		cur = next
	}
	return cur, nil
}

// rootForPointer returns the schema registered for "" (the root document),
// which Compile registers once the root has been compiled and before
// references are resolved.
func (c *Compiler) rootForPointer() *Schema {
	n, _ := c.registry.Lookup("")
	return n
}

func stepSchemaPointer(node *Schema, tok string) (*Schema, bool) {
	if sub, ok := node.Definitions[tok]; ok {
		return sub, true
	}
	if sub, ok := node.Properties[tok]; ok {
		return sub, true
	}
	switch tok {
	case "items":
		if node.ItemsSchema != nil {
			return node.ItemsSchema, true
		}
	case "not":
		if node.Not != nil {
			return node.Not, true
		}
	case "definitions", "properties":
		return node, true
	}
	return nil, false
}

func unionBoolOrSchemaC(c *Compiler, parent *Schema, v Value, key, loc string) (Slot, *SchemaError) {
	if v.Kind() == KindBool {
		return Slot{Present: true, Kind: KBool, Bool: v.Bool()}, nil
	}
	sub, err := c.compileNode(parent, v, loc+"/"+key)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Present: true, Kind: KSchema, Schema: sub}, nil
}

func unionSchemaOrStringArrayC(c *Compiler, parent *Schema, v Value, key, loc string) (DependencySlot, *SchemaError) {
	if v.Kind() == KindArray {
		s, err := parseSlot(v, KArrayOfStrings, FlagNotEmpty, key, loc)
		if err != nil {
			return DependencySlot{}, err
		}
		return DependencySlot{Strings: s.Strs}, nil
	}
	sub, err := c.compileNode(parent, v, loc+"/"+key)
	if err != nil {
		return DependencySlot{}, err
	}
	return DependencySlot{Schema: sub}, nil
}

