package iosrc

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestMemorySourceReadUntilEOF(t *testing.T) {
	s := NewMemorySource([]byte("hello"))
	buf := make([]byte, 3)

	n, err := s.Read(buf)
	if err != nil || n != 3 || string(buf[:n]) != "hel" {
		t.Fatalf("first Read = %d, %v, %q", n, err, buf[:n])
	}
	n, err = s.Read(buf)
	if err != nil || n != 2 || string(buf[:n]) != "lo" {
		t.Fatalf("second Read = %d, %v, %q", n, err, buf[:n])
	}
	_, err = s.Read(buf)
	if err != io.EOF {
		t.Fatalf("third Read error = %v, want io.EOF", err)
	}
}

func TestMemorySourceWriteIsRejected(t *testing.T) {
	s := NewMemorySource([]byte("x"))
	if _, err := s.Write([]byte("y")); err == nil {
		t.Fatalf("expected an error writing to a read-only MemorySource")
	}
	if s.ErrorCode() == 0 {
		t.Fatalf("ErrorCode() should be non-zero after a failed write")
	}
}

func TestMemorySourceReadAfterCloseErrors(t *testing.T) {
	s := NewMemorySource([]byte("x"))
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, err := s.Read(make([]byte, 1)); err != ErrClosed {
		t.Fatalf("Read after Close = %v, want ErrClosed", err)
	}
}

func TestStringSourceAccumulatesWrites(t *testing.T) {
	s := NewStringSource()
	if _, err := s.Write([]byte("foo")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if _, err := s.Write([]byte("bar")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if s.String() != "foobar" {
		t.Fatalf("String() = %q, want %q", s.String(), "foobar")
	}
}

func TestStringSourceReadIsRejected(t *testing.T) {
	s := NewStringSource()
	if _, err := s.Read(make([]byte, 1)); err == nil {
		t.Fatalf("expected an error reading from a write-only StringSource")
	}
}

func TestStringSourceWriteAfterCloseErrors(t *testing.T) {
	s := NewStringSource()
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, err := s.Write([]byte("x")); err != ErrClosed {
		t.Fatalf("Write after Close = %v, want ErrClosed", err)
	}
}

func TestFileSourceReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	want := "the quick brown fox jumps over the lazy dog"
	if err := os.WriteFile(path, []byte(want), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	s, err := OpenFile(path, RefillAuto, 8)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	defer s.Close()

	var got []byte
	buf := make([]byte, 5)
	for {
		n, err := s.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read error: %v", err)
		}
	}
	if string(got) != want {
		t.Fatalf("read back %q, want %q", got, want)
	}
}

func TestFileSourceCreateAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	s, err := CreateFile(path)
	if err != nil {
		t.Fatalf("CreateFile error: %v", err)
	}
	if _, err := s.Write([]byte("payload")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("file contents = %q, want %q", got, "payload")
	}
}

func TestFileSourceOpenMissingFileErrors(t *testing.T) {
	if _, err := OpenFile(filepath.Join(t.TempDir(), "missing.txt"), RefillAuto, 0); err == nil {
		t.Fatalf("expected an error opening a nonexistent file")
	}
}

func TestFileSourceCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	s, err := OpenFile(path, RefillAuto, 0)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got error: %v", err)
	}
}

func TestFileSourceReadAfterCloseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	s, err := OpenFile(path, RefillAuto, 0)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, err := s.Read(make([]byte, 1)); err != ErrClosed {
		t.Fatalf("Read after Close = %v, want ErrClosed", err)
	}
}
