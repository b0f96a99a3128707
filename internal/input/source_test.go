package input_test

import (
	"io"
	"strings"
	"testing"

	"github.com/db47h/xmlpull/internal/input"
)

type noopCloser struct {
	io.Reader
	closed bool
}

func (c *noopCloser) Close() error {
	c.closed = true
	return nil
}

func TestByteSourceReadByte(t *testing.T) {
	src := input.NewByteSource(strings.NewReader("ab"))
	b, err := src.ReadByte()
	if err != nil || b != 'a' {
		t.Fatalf("ReadByte() = %q, %v, want 'a', nil", b, err)
	}
	b, err = src.ReadByte()
	if err != nil || b != 'b' {
		t.Fatalf("ReadByte() = %q, %v, want 'b', nil", b, err)
	}
	if _, err := src.ReadByte(); err != io.EOF {
		t.Fatalf("ReadByte() at end = %v, want io.EOF", err)
	}
	if !src.IsEOF() {
		t.Error("IsEOF() should be true after reading past the end")
	}
}

func TestByteSourceCloseDelegates(t *testing.T) {
	rc := &noopCloser{Reader: strings.NewReader("x")}
	src := input.NewByteSource(rc)
	if err := src.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}
	if !rc.closed {
		t.Error("Close() did not delegate to the underlying io.Closer")
	}
}

func TestByteSourceCloseNoCloser(t *testing.T) {
	src := input.NewByteSource(strings.NewReader("x"))
	if err := src.Close(); err != nil {
		t.Errorf("Close() on a non-closer reader should be a no-op, got %v", err)
	}
}
