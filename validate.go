package jso

import (
	"strconv"
	"strings"

	"github.com/jso-toolkit/jso/debuglog"
)

// Stream is the streaming (online) validator driven by parser Hooks
// (spec.md §4.7). Its state is an explicit stack of positions — vframe
// below — rather than recursion, per spec.md §9 "Streaming validator
// state". Unlike the C source, which can partially feed keyword checks as
// tokens arrive, this parser hands each hook a value only once it is fully
// formed (spec.md §4.2's array_append/object_update/value contract), so
// Stream reconstructs just enough structure at each frame — via ArrayStart/
// ObjectStart's own Array/Object, independent of whatever the paired decode
// hooks build — to hand the same depth-first evaluator (evaluate, below)
// a complete value at each closing event. This is what makes "stream
// validation equals offline validation over the materialised tree"
// (spec.md §8) hold by construction: both paths call evaluate on the same
// data.
type Stream struct {
	stack  []*vframe
	result *Result
}

// vframe is one position on the stack: the schema governing the value about
// to be (or currently being) built here, the value's instance-location
// pointer for error messages, and — once ArrayStart/ObjectStart fires —
// private storage used only to hand evaluate a complete value when the
// frame closes.
type vframe struct {
	schema    *Schema
	path      string
	forbidden bool
	forbidReason string

	arr *Array
	obj *Object

	pendingKey string
}

// NewStream returns a Stream ready to validate a single top-level value
// against root.
func NewStream(root *Schema) *Stream {
	return &Stream{
		stack:  []*vframe{{schema: root, path: "$"}},
		result: valid(),
	}
}

// Result returns the accumulated verdict. Valid only once the parse driving
// this Stream has completed.
func (s *Stream) Result() *Result { return s.result }

func (s *Stream) top() *vframe { return s.stack[len(s.stack)-1] }

func (s *Stream) push(f *vframe) { s.stack = append(s.stack, f) }

func (s *Stream) pop() *vframe {
	f := s.top()
	s.stack = s.stack[:len(s.stack)-1]
	return f
}

func (s *Stream) fail(e *Error) {
	if s.result.Valid {
		logErrorf(debuglog.ComponentValidator, "%s at %s: %s", e.Keyword, e.Location, e.Error())
		s.result = invalid(e)
	}
}

// bubbleUp hands a just-completed value to whichever container frame is now
// on top (appending for an array parent, Set-ing under pendingKey for an
// object parent); a stack left empty means val was the document root.
func (s *Stream) bubbleUp(val Value) {
	if len(s.stack) == 0 {
		return
	}
	parent := s.top()
	switch {
	case parent.arr != nil:
		parent.arr.Append(val)
	case parent.obj != nil:
		parent.obj.Set(parent.pendingKey, val)
		parent.pendingKey = ""
	}
}

func (s *Stream) ArrayStart() *ParseError {
	s.top().arr = NewArray()
	return nil
}

func (s *Stream) ArrayElementStart(index int) *ParseError {
	parent := s.top()
	child, forbidden, reason := selectItemSchema(parent.schema.effective(), index)
	s.push(&vframe{schema: child, path: parent.path + "/" + strconv.Itoa(index), forbidden: forbidden, forbidReason: reason})
	return nil
}

// ArrayAppend is a no-op on Stream: by the time it fires, the element
// (scalar or composite) has already been evaluated and bubbled up to this
// array's frame by Value/ArrayEnd/ObjectEnd.
func (s *Stream) ArrayAppend(elem Value) *ParseError { return nil }

func (s *Stream) ArrayEnd() *ParseError {
	f := s.pop()
	val := Arr(f.arr)
	s.checkFrame(f, val)
	s.bubbleUp(val)
	return nil
}

func (s *Stream) ObjectStart() *ParseError {
	s.top().obj = NewObject()
	return nil
}

func (s *Stream) ObjectKey(key string) *ParseError {
	parent := s.top()
	parent.pendingKey = key
	child, forbidden, reason := selectPropertySchema(parent.schema.effective(), key)
	s.push(&vframe{schema: child, path: parent.path + "/" + key, forbidden: forbidden, forbidReason: reason})
	return nil
}

// ObjectUpdate is a no-op on Stream; see ArrayAppend's doc comment.
func (s *Stream) ObjectUpdate(key string, val Value) *ParseError { return nil }

func (s *Stream) ObjectEnd() *ParseError {
	f := s.pop()
	val := Obj(f.obj)
	s.checkFrame(f, val)
	s.bubbleUp(val)
	return nil
}

func (s *Stream) Value(v Value) *ParseError {
	f := s.pop()
	s.checkFrame(f, v)
	s.bubbleUp(v)
	return nil
}

func (s *Stream) checkFrame(f *vframe, val Value) {
	if f.forbidden {
		s.fail(&Error{Location: f.path, Reason: f.forbidReason, Message: f.forbidReason})
		return
	}
	if f.schema == nil {
		return
	}
	if err := evaluate(f.schema.effective(), val, f.path); err != nil {
		s.fail(err)
	}
}

// selectItemSchema picks the sub-schema governing array element index under
// schema's `items`/`additionalItems`, per spec.md §4.4/§4.7. A nil schema
// with forbidden=false means "no constraint"; forbidden=true means
// additionalItems:false rejected this index outright.
func selectItemSchema(schema *Schema, index int) (sub *Schema, forbidden bool, reason string) {
	if schema == nil {
		return nil, false, ""
	}
	if schema.ItemsIsTuple {
		if index < len(schema.ItemsTuple) {
			return schema.ItemsTuple[index], false, ""
		}
		switch {
		case schema.AdditionalItems.Present && schema.AdditionalItems.Kind == KBool && !schema.AdditionalItems.Bool:
			return nil, true, "additional item not allowed by additionalItems:false"
		case schema.AdditionalItems.Present && schema.AdditionalItems.Kind == KSchema:
			return schema.AdditionalItems.Schema, false, ""
		default:
			return nil, false, ""
		}
	}
	if schema.ItemsSchema != nil {
		return schema.ItemsSchema, false, ""
	}
	return nil, false, ""
}

// selectPropertySchema picks the sub-schema(s) governing object member key
// under schema's `properties`/`patternProperties`/`additionalProperties`. If
// more than one matching schema applies (properties plus one or more
// patternProperties), they are combined into a synthetic allOf node so the
// normal combinator evaluator enforces all of them.
func selectPropertySchema(schema *Schema, key string) (sub *Schema, forbidden bool, reason string) {
	if schema == nil {
		return nil, false, ""
	}
	var matched []*Schema
	if p, ok := schema.Properties[key]; ok {
		matched = append(matched, p)
	}
	for _, rp := range schema.PatternProperties {
		if rp.Regex.MatchString(key) {
			matched = append(matched, rp.Schema)
		}
	}
	switch len(matched) {
	case 0:
		switch {
		case schema.AdditionalProperties.Present && schema.AdditionalProperties.Kind == KBool && !schema.AdditionalProperties.Bool:
			return nil, true, "additional property not allowed by additionalProperties:false"
		case schema.AdditionalProperties.Present && schema.AdditionalProperties.Kind == KSchema:
			return schema.AdditionalProperties.Schema, false, ""
		default:
			return nil, false, ""
		}
	case 1:
		return matched[0], false, ""
	default:
		return &Schema{AllOf: matched}, false, ""
	}
}

// evaluate is the single depth-first evaluator shared by Stream (online) and
// ValidateValue (offline): given a fully-formed value and the schema
// governing it, check every applicable keyword and recurse into children,
// returning the first mismatch found (spec.md §5 "reports the first
// invalidation").
func evaluate(schema *Schema, v Value, path string) *Error {
	if schema == nil {
		return nil
	}

	if !typeMatches(schema, v) {
		return &Error{Keyword: "type", Location: path, Message: "value does not match declared type",
			Params: map[string]any{"Expected": strings.Join(schema.Types, " or ")}}
	}

	if len(schema.Enum) > 0 {
		match := false
		for _, e := range schema.Enum {
			if Equal(e, v) {
				match = true
				break
			}
		}
		if !match {
			return &Error{Keyword: "enum", Location: path, Message: "value is not one of the enumerated values"}
		}
	}

	if err := evaluateCombinators(schema, v, path); err != nil {
		return err
	}

	switch v.Kind() {
	case KindInt, KindDouble:
		if err := evaluateNumber(schema, v, path); err != nil {
			return err
		}
	case KindString:
		if err := evaluateString(schema, v, path); err != nil {
			return err
		}
	case KindArray:
		if err := evaluateArray(schema, v, path); err != nil {
			return err
		}
	case KindObject:
		if err := evaluateObject(schema, v, path); err != nil {
			return err
		}
	}
	return nil
}

func typeMatches(schema *Schema, v Value) bool {
	if len(schema.Types) == 0 {
		return true
	}
	return schema.TypeAllowed(jsonTypeName(v))
}

func jsonTypeName(v Value) string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindDouble:
		if isWholeNumber(v.Double()) {
			return "integer"
		}
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

func isWholeNumber(f float64) bool {
	return f == float64(int64(f))
}

func evaluateNumber(schema *Schema, v Value, path string) *Error {
	n, _ := NumberFromValue(v)
	if schema.MultipleOf != nil && !n.IsMultipleOf(*schema.MultipleOf) {
		return &Error{Keyword: "multipleOf", Location: path, Message: "value is not a multiple of the declared multipleOf",
			Params: map[string]any{"MultipleOf": schema.MultipleOf.Float()}}
	}
	if schema.Minimum != nil {
		c := n.Cmp(*schema.Minimum)
		if c < 0 || (c == 0 && schema.ExclusiveMinimum) {
			kw := "minimum"
			if schema.ExclusiveMinimum {
				kw = "exclusiveMinimum"
			}
			return &Error{Keyword: kw, Location: path, Message: "value is below the declared minimum",
				Params: map[string]any{"Minimum": schema.Minimum.Float()}}
		}
	}
	if schema.Maximum != nil {
		c := n.Cmp(*schema.Maximum)
		if c > 0 || (c == 0 && schema.ExclusiveMaximum) {
			kw := "maximum"
			if schema.ExclusiveMaximum {
				kw = "exclusiveMaximum"
			}
			return &Error{Keyword: kw, Location: path, Message: "value is above the declared maximum",
				Params: map[string]any{"Maximum": schema.Maximum.Float()}}
		}
	}
	return nil
}

func evaluateString(schema *Schema, v Value, path string) *Error {
	s := v.StringValue()
	length := runeCount(s.Bytes())
	if schema.MinLength != nil && uint64(length) < *schema.MinLength {
		return &Error{Keyword: "minLength", Location: path, Message: "string is shorter than minLength"}
	}
	if schema.MaxLength != nil && uint64(length) > *schema.MaxLength {
		return &Error{Keyword: "maxLength", Location: path, Message: "string is longer than maxLength"}
	}
	if schema.Pattern != nil && !schema.Pattern.MatchString(s.Go()) {
		return &Error{Keyword: "pattern", Location: path, Message: "string does not match pattern"}
	}
	return nil
}

func runeCount(b []byte) int {
	n := 0
	for i := 0; i < len(b); {
		switch {
		case b[i]&0x80 == 0:
			i++
		case b[i]&0xE0 == 0xC0:
			i += 2
		case b[i]&0xF0 == 0xE0:
			i += 3
		case b[i]&0xF8 == 0xF0:
			i += 4
		default:
			i++
		}
		n++
	}
	return n
}

func evaluateArray(schema *Schema, v Value, path string) *Error {
	arr := v.Array()
	if schema.MinItems != nil && uint64(arr.Len()) < *schema.MinItems {
		return &Error{Keyword: "minItems", Location: path, Message: "array has fewer than minItems elements"}
	}
	if schema.MaxItems != nil && uint64(arr.Len()) > *schema.MaxItems {
		return &Error{Keyword: "maxItems", Location: path, Message: "array has more than maxItems elements"}
	}
	if schema.UniqueItems {
		items := arr.ToSlice()
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				if Equal(items[i], items[j]) {
					return &Error{Keyword: "uniqueItems", Location: path, Message: "array contains duplicate elements"}
				}
			}
		}
	}
	var rerr *Error
	arr.Each(func(i int, elem Value) bool {
		sub, forbidden, reason := selectItemSchema(schema, i)
		if forbidden {
			rerr = &Error{Location: path + "/" + strconv.Itoa(i), Message: reason}
			return false
		}
		if sub == nil {
			return true
		}
		if err := evaluate(sub, elem, path+"/"+strconv.Itoa(i)); err != nil {
			rerr = err
			return false
		}
		return true
	})
	return rerr
}

func evaluateObject(schema *Schema, v Value, path string) *Error {
	obj := v.Object()
	if schema.MinProperties != nil && uint64(obj.Len()) < *schema.MinProperties {
		return &Error{Keyword: "minProperties", Location: path, Message: "object has fewer than minProperties members"}
	}
	if schema.MaxProperties != nil && uint64(obj.Len()) > *schema.MaxProperties {
		return &Error{Keyword: "maxProperties", Location: path, Message: "object has more than maxProperties members"}
	}
	for _, req := range schema.Required {
		if !obj.Has(req) {
			return &Error{Keyword: "required", Location: path, Message: "missing required property " + req,
				Params: map[string]any{"Property": req}}
		}
	}
	for _, key := range schema.DependencyOrder {
		dep := schema.Dependencies[key]
		if !obj.Has(key) {
			continue
		}
		if dep.Schema != nil {
			if err := evaluate(dep.Schema, v, path); err != nil {
				return err
			}
			continue
		}
		for _, req := range dep.Strings {
			if !obj.Has(req) {
				return &Error{Keyword: "dependencies", Location: path, Message: "property " + key + " requires " + req,
					Params: map[string]any{"Property": key, "Requires": req}}
			}
		}
	}

	var rerr *Error
	obj.Each(func(key string, val Value) bool {
		sub, forbidden, reason := selectPropertySchema(schema, key)
		if forbidden {
			rerr = &Error{Location: path + "/" + key, Message: reason}
			return false
		}
		if sub == nil {
			return true
		}
		if err := evaluate(sub, val, path+"/"+key); err != nil {
			rerr = err
			return false
		}
		return true
	})
	return rerr
}
