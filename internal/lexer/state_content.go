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
	"strings"

	"github.com/db47h/xmlpull/token"
	"github.com/db47h/xmlpull/xmlerr"
)

// stateContent is the element-content loop: character data, child
// elements, CDATA sections, comments and PIs, until the innermost open
// element's end tag pops the last name off l.elems, at which point it hands
// off to the epilog (stateMisc with doctype disallowed).
func stateContent(l *Lexer) StateFn {
	for {
		b, err := l.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return l.failf(xmlerr.SyntaxError, "unexpected end of input: unclosed element %q", l.currentElem())
			}
			return l.fail(xmlerr.Wrap(l.pos(), err))
		}
		switch b {
		case '<':
			l.flushText()
			return contentMarkup(l)
		case '&':
			if next := l.readReference(refContent); next != nil {
				return next
			}
		case ']':
			b2, ok2, perr := l.peek()
			if perr != nil {
				return l.fail(xmlerr.Wrap(l.pos(), perr))
			}
			if ok2 && b2 == ']' {
				l.next()
				b3, ok3, perr := l.peek()
				if perr != nil {
					return l.fail(xmlerr.Wrap(l.pos(), perr))
				}
				if ok3 && b3 == '>' {
					return l.failf(xmlerr.SyntaxError, `literal "]]>" not allowed in character data`)
				}
				l.acc.Push(']')
				l.acc.Push(']')
				continue
			}
			l.acc.Push(']')
		default:
			if b < 0x20 && b != '\t' && b != '\n' {
				return l.failf(xmlerr.IllegalChar, "illegal control character 0x%02X in character data", b)
			}
			l.acc.Push(b)
		}
	}
}

// flushText emits the accumulated character data as a Text token, if any.
func (l *Lexer) flushText() {
	if !l.acc.Empty() {
		l.emitAcc(token.Text)
	}
}

func (l *Lexer) currentElem() string {
	if n := len(l.elems); n > 0 {
		return l.elems[n-1]
	}
	return ""
}

// contentMarkup dispatches a construct starting with the '<' already
// consumed by stateContent: CDATA, comment, PI, end tag, or a child
// element's start tag.
func contentMarkup(l *Lexer) StateFn {
	matched, err := l.matchLiteral("![CDATA[")
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if matched {
		return parseCData(l)
	}

	matched, err = l.matchLiteral("!--")
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if matched {
		return parseComment(l)
	}

	b, ok, err := l.peek()
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if ok && b == '?' {
		l.next()
		return parsePI(l)
	}
	if ok && b == '/' {
		l.next()
		return parseEndTag(l)
	}
	return parseStartTag(l)
}

// afterElementClose decides whether to resume element content (more
// elements remain open) or move on to the epilog.
func (l *Lexer) afterElementClose() StateFn {
	if len(l.elems) == 0 {
		return stateMisc(l, false)
	}
	return stateContent
}

// parseCData reads a CDATA section's raw content up to "]]>" (the leading
// "<![CDATA[" already consumed) and emits it as a single CData token. No
// entity or character reference processing happens inside a CDATA section.
func parseCData(l *Lexer) StateFn {
	var buf []byte
	for {
		b, err := l.next()
		if err != nil {
			return l.ioOrSyntax(err, "unterminated CDATA section")
		}
		if b == ']' {
			matched, merr := l.matchLiteral("]>")
			if merr != nil {
				return l.fail(xmlerr.Wrap(l.pos(), merr))
			}
			if matched {
				l.emit(token.CData, buf)
				return stateContent
			}
		}
		buf = append(buf, b)
	}
}

// parseComment reads a comment's content up to "--" (the leading "<!--"
// already consumed) and emits it as a Comment token. "--" may not appear
// inside comment content other than as the terminating "-->".
func parseComment(l *Lexer) StateFn {
	var buf []byte
	for {
		b, err := l.next()
		if err != nil {
			return l.ioOrSyntax(err, "unterminated comment")
		}
		if b == '-' {
			matched, merr := l.matchLiteral("->")
			if merr != nil {
				return l.fail(xmlerr.Wrap(l.pos(), merr))
			}
			if matched {
				l.emit(token.Comment, buf)
				return l.commentCont()
			}
			b2, ok2, perr := l.peek()
			if perr != nil {
				return l.fail(xmlerr.Wrap(l.pos(), perr))
			}
			if ok2 && b2 == '-' {
				return l.failf(xmlerr.SyntaxError, `"--" not allowed inside comment content`)
			}
		}
		buf = append(buf, b)
	}
}

// commentCont decides where to resume after a comment or PI closes: back
// into the DTD's markupdecl|DeclSep loop, element content, the epilog, or
// the prolog's Misc* (before the root element has been seen).
func (l *Lexer) commentCont() StateFn {
	if l.inSubset {
		return resumeSubset
	}
	if !l.seenRoot {
		return l.prologCont()
	}
	if len(l.elems) == 0 {
		return stateMisc(l, false)
	}
	return stateContent
}

// parsePI reads a processing instruction's target and data (the leading
// "<?" already consumed) and emits them as a PiTarget token followed by a
// PiData token.
func parsePI(l *Lexer) StateFn {
	target, err := l.scanName()
	if err != nil {
		return l.ioOrSyntax(err, "malformed processing instruction target")
	}
	if target == "" {
		return l.failf(xmlerr.SyntaxError, "expected processing instruction target")
	}
	if strings.EqualFold(target, "xml") {
		return l.failf(xmlerr.SyntaxError, `processing instruction target "xml" (in any case) is reserved`)
	}
	return finishPI(l, target)
}

func finishPI(l *Lexer, target string) StateFn {
	l.emit(token.PiTarget, []byte(target))
	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	var buf []byte
	for {
		b, err := l.next()
		if err != nil {
			return l.ioOrSyntax(err, "unterminated processing instruction")
		}
		if b == '?' {
			matched, merr := l.matchLiteral(">")
			if merr != nil {
				return l.fail(xmlerr.Wrap(l.pos(), merr))
			}
			if matched {
				break
			}
		}
		buf = append(buf, b)
	}
	l.emit(token.PiData, buf)
	return l.commentCont()
}

// parseStartTag reads a start tag (the leading '<' already consumed): the
// element name, its attributes, and either "/>" (self-closing) or '>'.
func parseStartTag(l *Lexer) StateFn {
	if len(l.elems) == 0 {
		l.seenRoot = true
	}
	name, err := l.scanName()
	if err != nil {
		return l.ioOrSyntax(err, "malformed element name")
	}
	if name == "" {
		return l.failf(xmlerr.SyntaxError, "expected element name")
	}
	l.emit(token.ElementStart, []byte(name))

	seen := map[string]bool{}
	for {
		if err := l.skipSpace(); err != nil {
			return l.fail(xmlerr.Wrap(l.pos(), err))
		}
		b, ok, perr := l.peek()
		if perr != nil {
			return l.fail(xmlerr.Wrap(l.pos(), perr))
		}
		if !ok {
			return l.failf(xmlerr.SyntaxError, "unexpected end of input inside start tag %q", name)
		}
		if b == '/' {
			l.next()
			if err := l.expect('>'); err != nil {
				return l.ioOrSyntax(err, "malformed empty-element tag")
			}
			l.emit(token.ElementEnd, []byte(name))
			return l.afterElementClose()
		}
		if b == '>' {
			l.next()
			l.elems = append(l.elems, name)
			return stateContent
		}
		attrName, err := l.scanName()
		if err != nil {
			return l.ioOrSyntax(err, "malformed attribute name")
		}
		if attrName == "" {
			return l.failf(xmlerr.SyntaxError, "expected attribute name or tag close in %q", name)
		}
		if seen[attrName] {
			return l.failf(xmlerr.SyntaxError, "duplicate attribute %q in element %q", attrName, name)
		}
		seen[attrName] = true
		if err := l.skipSpace(); err != nil {
			return l.fail(xmlerr.Wrap(l.pos(), err))
		}
		if err := l.expect('='); err != nil {
			return l.ioOrSyntax(err, "expected '=' after attribute name")
		}
		if err := l.skipSpace(); err != nil {
			return l.fail(xmlerr.Wrap(l.pos(), err))
		}
		l.emit(token.AttributeName, []byte(attrName))
		if next := l.parseAttrValue(); next != nil {
			return next
		}
	}
}

// parseAttrValue reads a quoted attribute value, applying XML's attribute
// value normalization (literal tab/newline/CR becomes a single space; a
// character reference's decoded character is inserted verbatim; an
// internal entity reference's replacement text is re-read through this
// same loop, recursively subject to the same normalization) and emits it
// as an AttributeValue token.
func (l *Lexer) parseAttrValue() StateFn {
	quote, err := l.next()
	if err != nil {
		return l.ioOrSyntax(err, "expected attribute value")
	}
	if quote != '"' && quote != '\'' {
		return l.failf(xmlerr.SyntaxError, "expected quote to start attribute value")
	}
	startDepth := l.Stack.Len()
	for {
		b, err := l.next()
		if err != nil {
			return l.ioOrSyntax(err, "unterminated attribute value")
		}
		if b == quote && l.Stack.Len() == startDepth {
			l.emitAcc(token.AttributeValue)
			return nil
		}
		switch b {
		case '\t', '\n', '\r':
			l.acc.Push(' ')
		case '<':
			return l.failf(xmlerr.SyntaxError, "literal '<' not allowed in attribute value")
		case '&':
			if next := l.readReference(refAttribute); next != nil {
				return next
			}
		default:
			l.acc.Push(b)
		}
	}
}

// parseEndTag reads an end tag (the leading "</" already consumed),
// verifies it matches the innermost open element, and emits ElementEnd.
func parseEndTag(l *Lexer) StateFn {
	name, err := l.scanName()
	if err != nil {
		return l.ioOrSyntax(err, "malformed end tag name")
	}
	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if err := l.expect('>'); err != nil {
		return l.ioOrSyntax(err, "malformed end tag")
	}
	if len(l.elems) == 0 || l.elems[len(l.elems)-1] != name {
		return l.failf(xmlerr.SyntaxError, "end tag %q does not match the currently open element %q", name, l.currentElem())
	}
	l.elems = l.elems[:len(l.elems)-1]
	l.emit(token.ElementEnd, []byte(name))
	return l.afterElementClose()
}
