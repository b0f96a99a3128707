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

package lexer

// Character classification for the XML Name production. The lexer reads
// normalized UTF-8 bytes one at a time, so multi-byte code points are
// classified lazily as their bytes arrive; rather than decode each rune
// up front we approximate the XML NameStartChar/NameChar productions at
// the byte level: any ASCII letter/underscore/colon or any byte that is
// part of a multi-byte UTF-8 sequence (0x80-0xFF) is accepted as a
// potential name byte. This is deliberately permissive relative to the
// full NameStartChar Unicode range table (which excludes a handful of
// scattered code points); see DESIGN.md for the rationale.
func isNameStartByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z':
		return true
	case b == '_' || b == ':':
		return true
	case b >= 0x80:
		return true
	}
	return false
}

func isNameByte(b byte) bool {
	if isNameStartByte(b) {
		return true
	}
	switch {
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == '.':
		return true
	}
	return false
}

// isSpace reports whether b is XML whitespace (#x20 | #x9 | #xD | #xA). The
// input layer has already normalized #xD and #xD#xA to #xA, but a bare #xD
// cannot occur post-normalization; it is listed here for completeness with
// the grammar.
func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// isChar reports whether r is a legal XML Char for the given version.
// version 2 (XML 1.1) additionally permits the C0 controls #x1-#x1F other
// than tab/LF/CR (which both versions allow); #x0 is never legal. The C1
// range #x7F-#x9F is legal in both versions.
func isChar(r rune, version int) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	if version == 2 {
		switch {
		case r >= 0x1 && r <= 0x8:
			return true
		case r == 0xB || r == 0xC:
			return true
		case r >= 0xE && r <= 0x1F:
			return true
		case r >= 0x7F && r <= 0x84:
			return true
		case r >= 0x86 && r <= 0x9F:
			return true
		}
	}
	return false
}
