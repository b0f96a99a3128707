// Copyright 2017-2018 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

// Package input implements the input-source stack the lexer reads from:
// the scratch Buffer, the file/memory Frame, and the LIFO Stack of frames.
package input

// Buffer is a growable byte vector used both as a frame's putback stack
// (most recently pushed byte on top) and as the lexer's token accumulator
// (bytes appended in document order, recovered atomically with Take).
// The zero value is an empty, ready-to-use Buffer; an empty Buffer is a
// valid, distinct state from one that has never been touched.
type Buffer struct {
	b []byte
}

// Push appends one byte. As a putback stack this makes b the next byte
// Pop returns; as an accumulator it appends the next character of the
// token under construction.
func (buf *Buffer) Push(b byte) {
	buf.b = append(buf.b, b)
}

// Append appends bytes in order, equivalent to calling Push for each.
func (buf *Buffer) Append(bs []byte) {
	buf.b = append(buf.b, bs...)
}

// ReverseAppend pushes bs so that the sequence of Pop calls that follow
// yields bs back in its original forward order. This is how lookahead
// bytes that turned out not to match are returned to a putback buffer.
func (buf *Buffer) ReverseAppend(bs []byte) {
	for i := len(bs) - 1; i >= 0; i-- {
		buf.Push(bs[i])
	}
}

// Pop removes and returns the most recently pushed byte. ok is false if the
// buffer is empty.
func (buf *Buffer) Pop() (b byte, ok bool) {
	n := len(buf.b)
	if n == 0 {
		return 0, false
	}
	b = buf.b[n-1]
	buf.b = buf.b[:n-1]
	return b, true
}

// Len returns the number of bytes currently held.
func (buf *Buffer) Len() int { return len(buf.b) }

// Empty reports whether the buffer holds no bytes.
func (buf *Buffer) Empty() bool { return len(buf.b) == 0 }

// Clear empties the buffer without releasing its backing array.
func (buf *Buffer) Clear() {
	buf.b = buf.b[:0]
}

// Take atomically returns the buffer's contents (in append order, i.e. not
// reversed) and empties it.
func (buf *Buffer) Take() []byte {
	out := buf.b
	buf.b = nil
	return out
}

// Bytes returns the buffer's current contents without consuming them.
func (buf *Buffer) Bytes() []byte {
	return buf.b
}
