package jso

import (
	"io"

	"github.com/jso-toolkit/jso/debuglog"
)

// Hooks is the pluggable capability set the Parser drives at each grammar
// production (spec.md §4.2, §9 "Pluggable parser hooks"). Every method
// returns a non-nil *ParseError to abort parsing; DecodeHooks/ValidateHooks/
// DecodeValidateHooks are the three built-in bundles.
type Hooks interface {
	ArrayCreate() (Value, *ParseError)
	ArrayStart() *ParseError
	// ArrayElementStart fires just before the element at index is parsed —
	// an addition beyond spec.md §4.2's literal hook table, needed so a
	// streaming validator can push the applicable item sub-schema before
	// descending into that element's own Start/Key/Update/End events (the
	// table's array_append only fires once the element is already fully
	// built, too late to govern its own nested validation).
	ArrayElementStart(index int) *ParseError
	ArrayAppend(arr Value, elem Value) *ParseError
	ArrayEnd(arr Value) *ParseError

	ObjectCreate() (Value, *ParseError)
	ObjectStart() *ParseError
	ObjectKey(key string) *ParseError
	ObjectUpdate(obj Value, key string, val Value) *ParseError
	ObjectEnd(obj Value) *ParseError

	Value(v Value) *ParseError
}

// Parser drives a Scanner through the recursive-descent JSON grammar,
// calling into Hooks at every production per spec.md §4.2.
type Parser struct {
	scanner  *Scanner
	hooks    Hooks
	maxDepth int
	depth    int
	tok      Token
}

// NewParser returns a Parser reading from r with the given hook bundle and
// maximum nesting depth (0 = unlimited), enforced by an explicit counter
// independent of the host call stack (spec.md §9 "Depth as explicit
// counter").
func NewParser(r io.Reader, hooks Hooks, maxDepth int) (*Parser, error) {
	sc, err := NewScanner(r)
	if err != nil {
		return nil, err
	}
	return &Parser{scanner: sc, hooks: hooks, maxDepth: maxDepth}, nil
}

// NewParserBytes is NewParser over an in-memory buffer.
func NewParserBytes(b []byte, hooks Hooks, maxDepth int) *Parser {
	return &Parser{scanner: NewScannerBytes(b), hooks: hooks, maxDepth: maxDepth}
}

func (p *Parser) advance() { p.tok = p.scanner.Next() }

// Parse runs the parser to completion and returns the materialised root
// value (null if hooks discard materialisation) or the first error hit.
func (p *Parser) Parse() (Value, *ParseError) {
	p.advance()
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipTrailingNothing()
	if p.tok.Kind != TokEOI {
		return Value{}, &ParseError{Kind: ErrSyntax, Message: "trailing data after document", Location: p.tok.Loc}
	}
	return v, nil
}

func (p *Parser) skipTrailingNothing() {}

func (p *Parser) enter() *ParseError {
	if p.maxDepth > 0 && p.depth >= p.maxDepth {
		logErrorf(debuglog.ComponentParser, "max depth %d exceeded at %d:%d", p.maxDepth, p.tok.Loc.FirstLine, p.tok.Loc.FirstCol)
		return &ParseError{Kind: ErrDepth, Message: "maximum nesting depth exceeded", Location: p.tok.Loc}
	}
	p.depth++
	logDebugf(debuglog.ComponentParser, "enter depth %d", p.depth)
	return nil
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) parseValue() (Value, *ParseError) {
	switch p.tok.Kind {
	case TokError:
		return Value{}, p.tok.Err
	case TokEOI:
		return Value{}, &ParseError{Kind: ErrSyntax, Message: "unexpected end of input", Location: p.tok.Loc}
	case TokNull:
		p.advance()
		v := Null()
		if err := p.hooks.Value(v); err != nil {
			return Value{}, err
		}
		return v, nil
	case TokTrue:
		p.advance()
		v := Bool(true)
		if err := p.hooks.Value(v); err != nil {
			return Value{}, err
		}
		return v, nil
	case TokFalse:
		p.advance()
		v := Bool(false)
		if err := p.hooks.Value(v); err != nil {
			return Value{}, err
		}
		return v, nil
	case TokInt, TokFloat:
		tok := p.tok
		v, convErr := parseNumberToken(tok)
		p.advance()
		if convErr != nil {
			return Value{}, convErr.(*ParseError)
		}
		if err := p.hooks.Value(v); err != nil {
			return Value{}, err
		}
		return v, nil
	case TokString:
		s := p.tok.Str
		p.advance()
		v := NewString(s)
		if err := p.hooks.Value(v); err != nil {
			return Value{}, err
		}
		return v, nil
	case TokLBracket:
		return p.parseArray()
	case TokLBrace:
		return p.parseObject()
	default:
		return Value{}, &ParseError{Kind: ErrSyntax, Message: "unexpected token", Location: p.tok.Loc}
	}
}

func (p *Parser) parseArray() (Value, *ParseError) {
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	defer p.leave()

	p.advance() // consume '['
	arr, err := p.hooks.ArrayCreate()
	if err != nil {
		return Value{}, err
	}
	if err := p.hooks.ArrayStart(); err != nil {
		return Value{}, err
	}

	if p.tok.Kind == TokRBracket {
		p.advance()
		if err := p.hooks.ArrayEnd(arr); err != nil {
			return Value{}, err
		}
		return arr, nil
	}

	index := 0
	for {
		if err := p.hooks.ArrayElementStart(index); err != nil {
			return Value{}, err
		}
		elem, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		if err := p.hooks.ArrayAppend(arr, elem); err != nil {
			return Value{}, err
		}
		index++
		if p.tok.Kind == TokComma {
			p.advance()
			continue
		}
		break
	}

	if p.tok.Kind != TokRBracket {
		return Value{}, &ParseError{Kind: ErrSyntax, Message: "expected ']'", Location: p.tok.Loc}
	}
	p.advance()
	if err := p.hooks.ArrayEnd(arr); err != nil {
		return Value{}, err
	}
	return arr, nil
}

func (p *Parser) parseObject() (Value, *ParseError) {
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	defer p.leave()

	p.advance() // consume '{'
	obj, err := p.hooks.ObjectCreate()
	if err != nil {
		return Value{}, err
	}
	if err := p.hooks.ObjectStart(); err != nil {
		return Value{}, err
	}

	if p.tok.Kind == TokRBrace {
		p.advance()
		if err := p.hooks.ObjectEnd(obj); err != nil {
			return Value{}, err
		}
		return obj, nil
	}

	for {
		if p.tok.Kind != TokString {
			return Value{}, &ParseError{Kind: ErrSyntax, Message: "expected string key", Location: p.tok.Loc}
		}
		key := p.tok.Str
		p.advance()
		if err := p.hooks.ObjectKey(key); err != nil {
			return Value{}, err
		}
		if p.tok.Kind != TokColon {
			return Value{}, &ParseError{Kind: ErrSyntax, Message: "expected ':'", Location: p.tok.Loc}
		}
		p.advance()
		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		if err := p.hooks.ObjectUpdate(obj, key, val); err != nil {
			return Value{}, err
		}
		if p.tok.Kind == TokComma {
			p.advance()
			continue
		}
		break
	}

	if p.tok.Kind != TokRBrace {
		return Value{}, &ParseError{Kind: ErrSyntax, Message: "expected '}'", Location: p.tok.Loc}
	}
	p.advance()
	if err := p.hooks.ObjectEnd(obj); err != nil {
		return Value{}, err
	}
	return obj, nil
}

// DecodeHooks materialises a value tree and performs no validation.
type DecodeHooks struct{}

func (DecodeHooks) ArrayCreate() (Value, *ParseError)     { return Arr(NewArray()), nil }
func (DecodeHooks) ArrayStart() *ParseError               { return nil }
func (DecodeHooks) ArrayElementStart(index int) *ParseError { return nil }
func (DecodeHooks) ArrayAppend(arr, elem Value) *ParseError {
	arr.Array().Append(elem)
	return nil
}
func (DecodeHooks) ArrayEnd(arr Value) *ParseError { return nil }

func (DecodeHooks) ObjectCreate() (Value, *ParseError) { return Obj(NewObject()), nil }
func (DecodeHooks) ObjectStart() *ParseError           { return nil }
func (DecodeHooks) ObjectKey(key string) *ParseError   { return nil }
func (DecodeHooks) ObjectUpdate(obj Value, key string, val Value) *ParseError {
	obj.Object().Set(key, val)
	return nil
}
func (DecodeHooks) ObjectEnd(obj Value) *ParseError { return nil }

func (DecodeHooks) Value(v Value) *ParseError { return nil }

// ValidateHooks discards materialisation and drives a Stream
// instead, satisfying the "online" validation mode of spec.md §4.7-4.8.
type ValidateHooks struct {
	Stream *Stream
}

func (h *ValidateHooks) ArrayCreate() (Value, *ParseError) { return Value{}, nil }
func (h *ValidateHooks) ArrayStart() *ParseError           { return h.Stream.ArrayStart() }
func (h *ValidateHooks) ArrayElementStart(index int) *ParseError {
	return h.Stream.ArrayElementStart(index)
}
func (h *ValidateHooks) ArrayAppend(arr, elem Value) *ParseError {
	return h.Stream.ArrayAppend(elem)
}
func (h *ValidateHooks) ArrayEnd(arr Value) *ParseError { return h.Stream.ArrayEnd() }

func (h *ValidateHooks) ObjectCreate() (Value, *ParseError) { return Value{}, nil }
func (h *ValidateHooks) ObjectStart() *ParseError           { return h.Stream.ObjectStart() }
func (h *ValidateHooks) ObjectKey(key string) *ParseError   { return h.Stream.ObjectKey(key) }
func (h *ValidateHooks) ObjectUpdate(obj Value, key string, val Value) *ParseError {
	return h.Stream.ObjectUpdate(key, val)
}
func (h *ValidateHooks) ObjectEnd(obj Value) *ParseError { return h.Stream.ObjectEnd() }

func (h *ValidateHooks) Value(v Value) *ParseError { return h.Stream.Value(v) }

// DecodeValidateHooks both materialises and validates in a single pass.
type DecodeValidateHooks struct {
	Decode   DecodeHooks
	Validate ValidateHooks
}

func NewDecodeValidateHooks(s *Stream) *DecodeValidateHooks {
	return &DecodeValidateHooks{Validate: ValidateHooks{Stream: s}}
}

func (h *DecodeValidateHooks) ArrayCreate() (Value, *ParseError) { return h.Decode.ArrayCreate() }
func (h *DecodeValidateHooks) ArrayStart() *ParseError           { return h.Validate.ArrayStart() }
func (h *DecodeValidateHooks) ArrayElementStart(index int) *ParseError {
	return h.Validate.ArrayElementStart(index)
}
func (h *DecodeValidateHooks) ArrayAppend(arr, elem Value) *ParseError {
	if err := h.Decode.ArrayAppend(arr, elem); err != nil {
		return err
	}
	return h.Validate.ArrayAppend(arr, elem)
}
func (h *DecodeValidateHooks) ArrayEnd(arr Value) *ParseError { return h.Validate.ArrayEnd(arr) }

func (h *DecodeValidateHooks) ObjectCreate() (Value, *ParseError) { return h.Decode.ObjectCreate() }
func (h *DecodeValidateHooks) ObjectStart() *ParseError           { return h.Validate.ObjectStart() }
func (h *DecodeValidateHooks) ObjectKey(key string) *ParseError   { return h.Validate.ObjectKey(key) }
func (h *DecodeValidateHooks) ObjectUpdate(obj Value, key string, val Value) *ParseError {
	if err := h.Decode.ObjectUpdate(obj, key, val); err != nil {
		return err
	}
	return h.Validate.ObjectUpdate(obj, key, val)
}
func (h *DecodeValidateHooks) ObjectEnd(obj Value) *ParseError { return h.Validate.ObjectEnd(obj) }

func (h *DecodeValidateHooks) Value(v Value) *ParseError {
	if err := h.Decode.Value(v); err != nil {
		return err
	}
	return h.Validate.Value(v)
}

// Decode parses b into a materialised Value tree with no validation.
func Decode(b []byte) (Value, error) {
	p := NewParserBytes(b, DecodeHooks{}, 0)
	v, err := p.Parse()
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// DecodeWithDepth is Decode with an explicit maximum nesting depth.
func DecodeWithDepth(b []byte, maxDepth int) (Value, error) {
	p := NewParserBytes(b, DecodeHooks{}, maxDepth)
	v, err := p.Parse()
	if err != nil {
		return Value{}, err
	}
	return v, nil
}
