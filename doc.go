// Package jso implements the core of a JSON toolkit: a byte-level scanner
// and recursive-descent parser over a tagged value tree, a JSON Pointer
// (RFC 6901) resolver, a base-URI reference model, and a JSON Schema
// draft-04 compiler and validator that works both offline (over a
// materialised value) and online (event-driven, while the instance is
// still being parsed).
package jso
