package input_test

import (
	"bytes"
	"testing"

	"github.com/db47h/xmlpull/internal/input"
)

func TestBufferPushPop(t *testing.T) {
	var buf input.Buffer
	if !buf.Empty() {
		t.Fatal("zero-value Buffer is not empty")
	}
	buf.Push('a')
	buf.Push('b')
	if buf.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", buf.Len())
	}
	b, ok := buf.Pop()
	if !ok || b != 'b' {
		t.Fatalf("Pop() = %q, %v, want 'b', true", b, ok)
	}
	b, ok = buf.Pop()
	if !ok || b != 'a' {
		t.Fatalf("Pop() = %q, %v, want 'a', true", b, ok)
	}
	if _, ok := buf.Pop(); ok {
		t.Fatal("Pop() on empty buffer returned ok=true")
	}
}

func TestBufferReverseAppend(t *testing.T) {
	var buf input.Buffer
	buf.ReverseAppend([]byte("abc"))
	var out []byte
	for {
		b, ok := buf.Pop()
		if !ok {
			break
		}
		out = append(out, b)
	}
	if !bytes.Equal(out, []byte("abc")) {
		t.Errorf("Pop sequence after ReverseAppend = %q, want %q", out, "abc")
	}
}

func TestBufferTakeAndClear(t *testing.T) {
	var buf input.Buffer
	buf.Append([]byte("hello"))
	got := buf.Take()
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("Take() = %q, want %q", got, "hello")
	}
	if !buf.Empty() {
		t.Error("Buffer not empty after Take")
	}

	buf.Append([]byte("world"))
	buf.Clear()
	if !buf.Empty() || buf.Len() != 0 {
		t.Error("Clear did not empty the buffer")
	}
}

func TestBufferBytes(t *testing.T) {
	var buf input.Buffer
	buf.Append([]byte("xyz"))
	if !bytes.Equal(buf.Bytes(), []byte("xyz")) {
		t.Errorf("Bytes() = %q, want %q", buf.Bytes(), "xyz")
	}
}
