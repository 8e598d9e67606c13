package jso

import "testing"

func TestStringEqual(t *testing.T) {
	a := NewStr("hello")
	b := NewStr("hello")
	c := NewStr("world")

	if !a.Equal(b) {
		t.Fatalf("Equal(%q, %q) = false, want true", a.Go(), b.Go())
	}
	if a.Equal(c) {
		t.Fatalf("Equal(%q, %q) = true, want false", a.Go(), c.Go())
	}
	if a.Equal(nil) {
		t.Fatalf("Equal(nil) = true, want false")
	}
}

func TestStringHashIsStableAndCached(t *testing.T) {
	s := NewStr("the quick brown fox")
	h1 := s.Hash()
	h2 := s.Hash()
	if h1 != h2 {
		t.Fatalf("Hash() not stable across calls: %d != %d", h1, h2)
	}

	other := NewStr("the quick brown fox")
	if s.Hash() != other.Hash() {
		t.Fatalf("equal strings hashed differently")
	}
}

func TestStringBytesZeroByteSafe(t *testing.T) {
	s := NewStrBytes([]byte{'a', 0, 'b'})
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	other := NewStrBytes([]byte{'a', 0, 'b'})
	if !s.Equal(other) {
		t.Fatalf("strings containing a NUL byte should still compare equal")
	}
}

func TestStringRefcount(t *testing.T) {
	s := NewStr("x")
	if s.Refcount() != 1 {
		t.Fatalf("Refcount() on fresh string = %d, want 1", s.Refcount())
	}
	s.Retain()
	if s.Refcount() != 2 {
		t.Fatalf("Refcount() after Retain = %d, want 2", s.Refcount())
	}
	s.Release()
	if s.Refcount() != 1 {
		t.Fatalf("Refcount() after Release = %d, want 1", s.Refcount())
	}

	var nilStr *String
	if nilStr.Refcount() != 0 {
		t.Fatalf("Refcount() on nil receiver = %d, want 0", nilStr.Refcount())
	}
}
