package jso

import "sync/atomic"

// String is an immutable, refcounted, binary-safe byte string (spec.md §3).
// Equality is length-then-memcmp; the FNV-1a hash is computed lazily and
// cached. Byte 0 is permitted inside the buffer.
type String struct {
	buf      []byte
	refcount int32
	hash     uint32
	hashed   bool
}

// NewStr allocates a fresh String with refcount 1.
func NewStr(s string) *String {
	return &String{buf: []byte(s), refcount: 1}
}

// NewStrBytes takes ownership of buf (no copy) and returns a fresh String.
func NewStrBytes(buf []byte) *String {
	return &String{buf: buf, refcount: 1}
}

// Retain increments the refcount and returns the receiver, for call sites
// that want to store another owning reference.
func (s *String) Retain() *String {
	if s == nil {
		return nil
	}
	atomic.AddInt32(&s.refcount, 1)
	return s
}

// Release decrements the refcount. The string is eligible for collection by
// the Go runtime once no reference remains; callers should not use s after a
// Release that drops it to zero.
func (s *String) Release() {
	if s == nil {
		return
	}
	atomic.AddInt32(&s.refcount, -1)
}

// Refcount reports the current reference count.
func (s *String) Refcount() int32 {
	if s == nil {
		return 0
	}
	return atomic.LoadInt32(&s.refcount)
}

// Len returns the byte length.
func (s *String) Len() int { return len(s.buf) }

// Bytes returns the underlying bytes. Callers must not mutate them.
func (s *String) Bytes() []byte { return s.buf }

// Go returns the string as a native Go string (a copy is made by the Go
// runtime only if later mutated; String itself never mutates buf).
func (s *String) Go() string { return string(s.buf) }

// Hash returns the cached FNV-1a hash, computing and caching it on first use.
func (s *String) Hash() uint32 {
	if !s.hashed {
		s.hash = fnv1a(s.buf)
		s.hashed = true
	}
	return s.hash
}

// Equal compares two strings by length then byte content, independent of
// refcount.
func (s *String) Equal(o *String) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	if len(s.buf) != len(o.buf) {
		return false
	}
	for i := range s.buf {
		if s.buf[i] != o.buf[i] {
			return false
		}
	}
	return true
}

func fnv1a(b []byte) uint32 {
	const (
		offset = 2166136261
		prime  = 16777619
	)
	h := uint32(offset)
	for _, c := range b {
		h ^= uint32(c)
		h *= prime
	}
	return h
}
