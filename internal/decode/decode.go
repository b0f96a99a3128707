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

// Package decode implements the byte-stream-to-UTF-8 transcoders an input
// frame installs after sniffing (or being told) its source encoding, plus
// the BOM/heuristic sniffing table itself.
//
// Pass-through aside, every variant is backed by golang.org/x/text: UTF-16
// by encoding/unicode, UTF-32 by encoding/unicode/utf32, and EBCDIC by
// encoding/charmap's IBM code page 037. Each is driven one source byte at a
// time through its transform.Transformer so the frame can treat every
// encoding identically: push a byte, get zero or more UTF-8 bytes back.
package decode

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// Kind identifies a transcoding variant.
type Kind int

const (
	None Kind = iota
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
	EBCDIC
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	case UTF32LE:
		return "UTF-32LE"
	case UTF32BE:
		return "UTF-32BE"
	case EBCDIC:
		return "EBCDIC"
	default:
		return "unknown"
	}
}

// replacementUTF8 is U+FFFD REPLACEMENT CHARACTER, emitted in place of any
// byte sequence a decoder cannot map.
var replacementUTF8 = []byte{0xEF, 0xBF, 0xBD}

// Decoder is a one-byte-in, zero-or-more-bytes-out transducer from a raw
// source byte stream to UTF-8.
type Decoder interface {
	// Push feeds one source byte and returns the UTF-8 bytes it produced,
	// if any. A nil/empty return means the decoder needs more input bytes
	// before it can emit anything.
	Push(b byte) []byte
}

// New constructs the Decoder for the given Kind. A fresh Decoder must be
// installed per input frame; decoders are not reused across frames.
func New(k Kind) Decoder {
	switch k {
	case None:
		return passthrough{}
	case UTF16LE:
		return newIncremental(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM))
	case UTF16BE:
		return newIncremental(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM))
	case UTF32LE:
		return newIncremental(utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM))
	case UTF32BE:
		return newIncremental(utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM))
	case EBCDIC:
		return newIncremental(charmap.CodePage037)
	default:
		return passthrough{}
	}
}

type passthrough struct{}

func (passthrough) Push(b byte) []byte { return []byte{b} }

// incremental drives an x/text transform.Transformer byte by byte.
type incremental struct {
	t       transform.Transformer
	pending []byte
	dst     [8]byte
}

func newIncremental(enc encoding.Encoding) *incremental {
	return &incremental{t: enc.NewDecoder()}
}

func (d *incremental) Push(b byte) []byte {
	d.pending = append(d.pending, b)
	nDst, nSrc, err := d.t.Transform(d.dst[:], d.pending, false)
	switch err {
	case transform.ErrShortSrc:
		d.pending = d.pending[nSrc:]
		if nDst == 0 {
			return nil
		}
		return append([]byte(nil), d.dst[:nDst]...)
	case nil:
		d.pending = d.pending[nSrc:]
		return append([]byte(nil), d.dst[:nDst]...)
	default:
		// Invalid sequence for this encoding: drop what we had buffered,
		// reset the transformer so it isn't left in a corrupt state, and
		// emit the replacement character per the Decoder contract.
		d.pending = d.pending[:0]
		d.t.Reset()
		return append([]byte(nil), replacementUTF8...)
	}
}

// Sniff inspects up to the first four bytes of a file frame and selects a
// decoder per the BOM/heuristic table. It returns the chosen Kind and how
// many of the peeked bytes the sniff has consumed; the caller feeds the
// remaining peeked bytes through the chosen decoder, in order.
func Sniff(peek []byte) (kind Kind, consume int) {
	has := func(n int) bool { return len(peek) >= n }

	switch {
	case has(3) && peek[0] == 0xEF && peek[1] == 0xBB && peek[2] == 0xBF:
		return None, 3
	case has(4) && peek[0] == 0x00 && peek[1] == 0x00 && peek[2] == 0xFE && peek[3] == 0xFF:
		return UTF32BE, 4
	case has(4) && peek[0] == 0xFF && peek[1] == 0xFE && peek[2] == 0x00 && peek[3] == 0x00:
		return UTF32LE, 4
	case has(2) && peek[0] == 0xFE && peek[1] == 0xFF && !(has(4) && peek[2] == 0x00 && peek[3] == 0x00):
		return UTF16BE, 2
	case has(2) && peek[0] == 0xFF && peek[1] == 0xFE && !(has(4) && peek[2] == 0x00 && peek[3] == 0x00):
		return UTF16LE, 2
	case has(4) && peek[0] == 0x00 && peek[1] == 0x00 && peek[2] == 0x00 && peek[3] == 0x3C:
		return UTF32BE, 0
	case has(4) && peek[0] == 0x3C && peek[1] == 0x00 && peek[2] == 0x00 && peek[3] == 0x00:
		return UTF32LE, 0
	case has(4) && peek[0] == 0x00 && peek[1] == 0x3C && peek[2] == 0x00 && peek[3] == 0x3F:
		return UTF16BE, 0
	case has(4) && peek[0] == 0x3C && peek[1] == 0x00 && peek[2] == 0x3F && peek[3] == 0x00:
		return UTF16LE, 0
	case has(4) && peek[0] == 0x4C && peek[1] == 0x6F && peek[2] == 0xA7 && peek[3] == 0x94:
		return EBCDIC, 0
	default:
		return None, 0
	}
}

// Supported reports whether documents declaring encoding name are decodable.
// UTF-8 (and its aliases, or an empty name) and the UTF-16, UTF-32 and
// EBCDIC names are reported supported. Only the name is checked; whether a
// matching decoder is installed on the frame is not consulted here.
func Supported(name string) bool {
	switch normalizeEncodingName(name) {
	case "utf-8", "utf8", "":
		return true
	case "utf-16", "utf-16le", "utf-16be", "utf-32", "utf-32le", "utf-32be", "ebcdic", "cp037", "ibm037":
		return true
	default:
		return false
	}
}

func normalizeEncodingName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
