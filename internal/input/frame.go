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

package input

import (
	"io"

	"github.com/db47h/xmlpull/internal/decode"
	"github.com/db47h/xmlpull/token"
)

// Frame is a single input source: either a file byte source plus decoder, or
// an in-memory entity replacement text. A Frame owns its decoder and byte
// source exclusively and is never shared between two Stacks.
type Frame struct {
	Name    string // file path, or a synthetic "&name;" / "%name;" for entity frames
	Line    int    // 1-based
	Column  int    // 0-based
	Version int    // 0 = unknown, otherwise 1 or 2 (meaning XML 1.0 / 1.1)

	AutoPop bool // pop silently on EOF (parameter-entity inclusion in the DTD)
	Preinit bool // true until the XML/text declaration has been parsed

	SniffedKind decode.Kind // encoding chosen by NewFileFrame's BOM/heuristic sniff; decode.None for memory frames

	putback Buffer // bytes returned to the stream, bypassing EOL normalization
	pending []byte // decoder output bytes not yet consumed, FIFO order

	src     *ByteSource
	decoder decode.Decoder
	eof     bool
}

// NewFileFrame creates a Frame reading from src, sniffing its encoding from
// the leading bytes per the BOM/heuristic table. version, when non-zero,
// seeds the frame's XML version before any declaration is parsed (used when
// an external entity inherits its including document's version).
func NewFileFrame(name string, src *ByteSource, version int) (*Frame, error) {
	f := &Frame{
		Name:    name,
		Line:    1,
		Preinit: true,
		Version: version,
		src:     src,
	}
	peek := make([]byte, 0, 4)
	for len(peek) < 4 {
		b, err := src.ReadByte()
		if err != nil {
			break
		}
		peek = append(peek, b)
	}
	kind, consumed := decode.Sniff(peek)
	f.decoder = decode.New(kind)
	f.SniffedKind = kind
	// Feed whatever the sniff didn't consume through the decoder, in order,
	// so those bytes are decoded and normalized like the rest of the stream.
	for _, b := range peek[consumed:] {
		f.pending = append(f.pending, f.decoder.Push(b)...)
	}
	return f, nil
}

// NewMemoryFrame creates a Frame over an in-memory entity replacement text.
// The text is treated exactly like a putback buffer: already-decoded UTF-8
// bytes that bypass EOL normalization, matching the fact that it was
// normalized (or synthesized) once already when originally produced.
func NewMemoryFrame(name string, version int, text string) *Frame {
	f := &Frame{
		Name:    name,
		Line:    1,
		Preinit: true,
		Version: version,
		eof:     len(text) == 0,
	}
	f.putback.ReverseAppend([]byte(text))
	return f
}

// IsFile reports whether this frame reads from a byte source (as opposed to
// an in-memory replacement text).
func (f *Frame) IsFile() bool { return f.src != nil }

// Close releases the frame's underlying byte source, if it has one. It is
// called automatically when the frame is popped off a Stack.
func (f *Frame) Close() error {
	if f.src != nil {
		return f.src.Close()
	}
	return nil
}

// Push returns a single byte to the frame, to be re-read by the next call to
// NextChar. Used by the lexer to implement one-byte lookahead.
func (f *Frame) Push(b byte) {
	f.putback.Push(b)
}

// IsEOF reports whether the frame is exhausted: both its underlying source
// (if any) and its putback buffer are empty.
func (f *Frame) IsEOF() bool {
	if !f.putback.Empty() || len(f.pending) > 0 {
		return false
	}
	if f.src == nil {
		return f.eof
	}
	return f.eof
}

// SetVersion records the frame's resolved XML version (1 or 2, for XML 1.0
// or 1.1). An external entity may not declare a version newer than the
// document that includes it.
func (f *Frame) SetVersion(v int) error {
	if f.Version == 0 {
		f.Version = v
		return nil
	}
	if v > f.Version {
		return errVersionDowngrade
	}
	return nil
}

// errVersionDowngrade is returned by SetVersion; the lexer wraps it with
// location information before surfacing it to the caller.
var errVersionDowngrade = versionDowngradeError{}

type versionDowngradeError struct{}

func (versionDowngradeError) Error() string {
	return "included external entity declares a higher XML version than its including document"
}

// Location returns the frame's current source position.
func (f *Frame) Location() token.Position {
	return token.Position{Name: f.Name, Line: f.Line, Column: f.Column}
}

// NextChar returns the next normalized UTF-8 byte from the frame and
// advances its line/column bookkeeping. io.EOF is returned once the frame
// is exhausted; any other error is an IoError from the underlying source.
func (f *Frame) NextChar() (byte, error) {
	if b, ok := f.putback.Pop(); ok {
		f.advance(b)
		return b, nil
	}

	c, err := f.pullRaw()
	if err != nil {
		return 0, err
	}

	switch {
	case c == '\r':
		c = '\n'
		n, nerr := f.pullRaw()
		if nerr == nil {
			if f.nel1_1Active() && n == 0xC2 {
				n2, n2err := f.pullRaw()
				if n2err == nil && n2 != 0x85 {
					f.putback.Push(n2)
					f.putback.Push(n)
				}
			} else if n != '\n' {
				f.putback.Push(n)
			}
		}
	case f.nel1_1Active() && c == 0xC2:
		n, nerr := f.pullRaw()
		if nerr == nil {
			if n != 0x85 {
				f.putback.Push(n)
			} else {
				c = '\n'
			}
		}
	case f.nel1_1Active() && c == 0xE2:
		n, nerr := f.pullRaw()
		if nerr == nil {
			if n != 0x80 {
				f.putback.Push(n)
			} else {
				n2, n2err := f.pullRaw()
				if n2err == nil {
					if n2 != 0xA8 {
						f.putback.Push(n2)
						f.putback.Push(n)
					} else {
						c = '\n'
					}
				}
			}
		}
	}

	f.advance(c)
	return c, nil
}

// nel1_1Active reports whether XML 1.1's extra line-ending normalization
// (NEL U+0085, LS U+2028) is in effect: only once the declaration has been
// parsed (Preinit false) and only for Version 2 (XML 1.1).
func (f *Frame) nel1_1Active() bool {
	return !f.Preinit && f.Version == 2
}

// pullRaw returns the next decoded UTF-8 byte directly from the decoder (or
// from previously decoded bytes still pending), bypassing the putback
// buffer. It is also used for the one- or two-byte lookahead EOL
// normalization needs within a single NextChar call.
func (f *Frame) pullRaw() (byte, error) {
	if len(f.pending) > 0 {
		b := f.pending[0]
		f.pending = f.pending[1:]
		return b, nil
	}
	if f.src == nil {
		f.eof = true
		return 0, io.EOF
	}
	for {
		raw, err := f.src.ReadByte()
		if err != nil {
			f.eof = f.src.IsEOF()
			return 0, err
		}
		out := f.decoder.Push(raw)
		if len(out) == 0 {
			continue
		}
		if len(out) > 1 {
			f.pending = append(f.pending, out[1:]...)
		}
		return out[0], nil
	}
}

func (f *Frame) advance(c byte) {
	if c == '\n' {
		f.Line++
		f.Column = 0
	} else if c != 0 {
		f.Column++
	}
}
