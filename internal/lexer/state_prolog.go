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

import (
	"errors"
	"io"

	"github.com/db47h/xmlpull/internal/decode"
	"github.com/db47h/xmlpull/xmlerr"
)

// stateProlog parses everything before the root element: an optional XML
// declaration (only legal as the very first thing in the primary frame),
// Misc* (comments, PIs, whitespace), an optional doctypedecl, more Misc*,
// and finally the root element's start tag.
func stateProlog(l *Lexer) StateFn {
	if f := l.Stack.Current(); f != nil && f.Preinit && f.Line == 1 && f.Column == 0 {
		if next := parseDeclIfPresent(l, true); next != nil {
			return next
		}
	}
	return stateMisc(l, true)
}

// stateMisc consumes leading whitespace, then dispatches exactly one
// construct: a comment, a PI, (if allowDoctype) a doctypedecl, or the root
// element's start tag. Comments and PIs determine their own continuation
// (see commentCont) and typically resume stateMisc themselves; the overall
// effect, across repeated calls from the NextToken driver loop, is Misc*.
func stateMisc(l *Lexer, allowDoctype bool) StateFn {
	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	b, ok, err := l.peek()
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if !ok {
		if !l.seenRoot {
			return l.failf(xmlerr.SyntaxError, "unexpected end of input: no root element")
		}
		return stateEnd
	}
	if b != '<' {
		return l.failf(xmlerr.SyntaxError, "unexpected character %q outside an element", b)
	}
	l.next() // consume '<'

	matched, err := l.matchLiteral("!--")
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if matched {
		return parseComment(l)
	}

	b2, ok2, err := l.peek()
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if ok2 && b2 == '?' {
		l.next()
		return parsePI(l)
	}

	if allowDoctype {
		matched, err = l.matchLiteral("!DOCTYPE")
		if err != nil {
			return l.fail(xmlerr.Wrap(l.pos(), err))
		}
		if matched {
			return parseDoctype(l)
		}
	}

	// Anything else starting with '<' must be the root element's start tag.
	return parseStartTag(l)
}

// prologCont resumes Misc* parsing between the XML/doctype declarations
// and the root element, disallowing a second doctypedecl.
func (l *Lexer) prologCont() StateFn {
	return stateMisc(l, !l.sawDoctype)
}

// parseDeclIfPresent looks for a leading "<?xml" declaration. It returns a
// non-nil StateFn only on error; on success (or absence) it returns nil and
// lets the caller continue into stateMisc.
func parseDeclIfPresent(l *Lexer, isDocument bool) StateFn {
	matched, err := l.matchLiteral("<?xml")
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if !matched {
		return nil
	}
	b, ok, err := l.peek()
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if ok && isNameByte(b) {
		// "<?xml" followed directly by a name byte (e.g. "<?xml-stylesheet")
		// is a processing instruction, not a declaration; push the "<?xml"
		// back is impractical here (PITarget scanning already needs the
		// text), so reconstruct by treating it inline.
		target := "xml" + mustScanRest(l)
		return finishPI(l, target)
	}

	ver, enc, standalone, sawStandalone, err := parseDeclBody(l)
	if err != nil {
		return l.fail(err.(*xmlerr.Error))
	}

	version := 1
	switch ver {
	case "1.0":
		version = 1
	case "1.1":
		version = 2
	default:
		return l.failf(xmlerr.SyntaxError, "unsupported XML version %q", ver)
	}
	f := l.Stack.Current()
	if err := f.SetVersion(version); err != nil {
		return l.failf(xmlerr.SyntaxError, "%s", err)
	}
	if enc != "" && !decode.Supported(enc) {
		return l.failf(xmlerr.UnsupportedEncoding, "unsupported encoding %q", enc)
	}
	if enc != "" && encodingMismatch(f.SniffedKind, enc) {
		l.logf("declared encoding %q contradicts sniffed byte stream %v in %q", enc, f.SniffedKind, f.Name)
		return l.failf(xmlerr.EncodingMismatch, "declared encoding %q does not match the sniffed byte stream", enc)
	}
	f.Preinit = false
	if isDocument {
		l.standalone = standalone
		l.sawStandalone = sawStandalone
	}
	return nil
}

// mustScanRest reads the remainder of a PITarget that starts with "xml"
// (e.g. "xml-stylesheet"): matchLiteral("<?xml") has already consumed
// exactly those five bytes, leaving the rest of the name unread.
func mustScanRest(l *Lexer) string {
	rest, _ := l.scanName()
	return rest
}

// parseDeclBody parses the XMLDecl/TextDecl pseudo-attributes up to and
// including "?>". version is always returned; encoding is "" if the
// pseudo-attribute was absent (legal for TextDecls it is mandatory, but
// that distinction is left to the caller).
func parseDeclBody(l *Lexer) (version, encoding string, standalone, sawStandalone bool, err error) {
	for {
		if serr := l.skipSpace(); serr != nil {
			return "", "", false, false, xmlerr.Wrap(l.pos(), serr)
		}
		matched, merr := l.matchLiteral("?>")
		if merr != nil {
			return "", "", false, false, xmlerr.Wrap(l.pos(), merr)
		}
		if matched {
			return version, encoding, standalone, sawStandalone, nil
		}
		name, value, perr := parsePseudoAttr(l)
		if perr != nil {
			return "", "", false, false, perr
		}
		switch name {
		case "version":
			version = value
		case "encoding":
			encoding = value
		case "standalone":
			standalone = value == "yes"
			sawStandalone = true
		default:
			return "", "", false, false, l.syntaxErrorf("unexpected pseudo-attribute %q in declaration", name)
		}
	}
}

func parsePseudoAttr(l *Lexer) (name, value string, err error) {
	name, serr := l.scanName()
	if serr != nil {
		return "", "", xmlerr.Wrap(l.pos(), serr)
	}
	if name == "" {
		return "", "", l.syntaxErrorf("expected pseudo-attribute name")
	}
	if e := l.skipSpace(); e != nil {
		return "", "", xmlerr.Wrap(l.pos(), e)
	}
	if e := l.expect('='); e != nil {
		if errors.Is(e, io.EOF) {
			return "", "", l.syntaxErrorf("expected '=' after %q", name)
		}
		return "", "", xmlerr.Wrap(l.pos(), e)
	}
	if e := l.skipSpace(); e != nil {
		return "", "", xmlerr.Wrap(l.pos(), e)
	}
	quote, qerr := l.next()
	if qerr != nil {
		return "", "", xmlerr.Wrap(l.pos(), qerr)
	}
	if quote != '"' && quote != '\'' {
		return "", "", l.syntaxErrorf("expected quote to start %q value", name)
	}
	var buf []byte
	for {
		b, berr := l.next()
		if berr != nil {
			if errors.Is(berr, io.EOF) {
				return "", "", l.syntaxErrorf("unterminated %q value", name)
			}
			return "", "", xmlerr.Wrap(l.pos(), berr)
		}
		if b == quote {
			break
		}
		buf = append(buf, b)
	}
	return name, string(buf), nil
}

// encodingMismatch reports an obvious contradiction between the BOM/byte
// heuristic that chose sniffed and an explicit encoding declaration: a
// document sniffed as a 16/32-bit or EBCDIC encoding but declaring
// "utf-8" (or vice versa) cannot be read consistently, since the decoder
// is already installed and driving bytes through it.
func encodingMismatch(sniffed decode.Kind, declared string) bool {
	isWide := sniffed != decode.None
	switch normalizeName(declared) {
	case "utf-8", "utf8", "":
		return isWide
	case "utf-16", "utf-16le", "utf-16be", "utf-32", "utf-32le", "utf-32be":
		return !isWide
	default:
		return false
	}
}

func normalizeName(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
