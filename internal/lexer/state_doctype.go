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
	"github.com/db47h/xmlpull/entitytab"
	"github.com/db47h/xmlpull/token"
	"github.com/db47h/xmlpull/xmlerr"
)

// parseDoctype reads a doctypedecl (the leading "<!DOCTYPE" already
// consumed): the document element name, an optional ExternalID, an
// optional internal subset, and the closing '>'. Declarations inside the
// internal subset are recognized and folded into l.Tables as they are
// read; ELEMENT/ATTLIST content model and default-value grammar is
// deliberately not validated (declarative validation against a DTD is out
// of this tokenizer's scope), only consumed so that nested '>' inside
// quoted literals does not terminate the declaration early.
func parseDoctype(l *Lexer) StateFn {
	l.sawDoctype = true
	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	name, err := l.scanName()
	if err != nil {
		return l.ioOrSyntax(err, "malformed doctype name")
	}
	if name == "" {
		return l.failf(xmlerr.SyntaxError, "expected document type name")
	}
	l.docTypeName = name
	l.emit(token.DocTypeStart, []byte(name))

	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}

	pub, sys, hasExt, next := l.parseExternalIDIfPresent()
	if next != nil {
		return next
	}
	if hasExt {
		l.pendingExtDTD = &pendingExternalSubset{publicID: pub, systemID: sys}
	}

	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	b, ok, err := l.peek()
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if ok && b == '[' {
		l.next()
		l.internalSubset = true
		l.inSubset = true
		l.subsetDone = afterInternalSubset
		return resumeSubset(l)
	}
	return afterDoctypeSubsets(l)
}

// resumeSubset drives (or resumes) the markupdecl|DeclSep loop; a comment or
// PI encountered inside it emits its token and hands back to resumeSubset
// through commentCont (see l.inSubset), so the loop's true completion always
// runs through here, even across those detours.
func resumeSubset(l *Lexer) StateFn {
	if next := parseInternalSubset(l); next != nil {
		return next
	}
	done := l.subsetDone
	l.subsetDone = nil
	return done
}

// afterInternalSubset runs once the bracketed internal subset's
// markupdecl|DeclSep loop reaches the ']' that closes it.
func afterInternalSubset(l *Lexer) StateFn {
	l.internalSubset = false
	l.inSubset = false
	if err := l.expect(']'); err != nil {
		return l.ioOrSyntax(err, "malformed internal subset")
	}
	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	return afterDoctypeSubsets(l)
}

// afterDoctypeSubsets closes the doctypedecl's final '>' and, if an external
// subset was declared, includes it (where PE references inside markup
// declarations are legal, unlike the internal subset) before emitting
// DocTypeEnd.
func afterDoctypeSubsets(l *Lexer) StateFn {
	if err := l.expect('>'); err != nil {
		return l.ioOrSyntax(err, "malformed doctype declaration")
	}
	if l.pendingExtDTD == nil {
		return finishDoctype(l)
	}
	ext := l.pendingExtDTD
	l.pendingExtDTD = nil
	path, err := l.resolve(l.baseName, ext.publicID, ext.systemID)
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	version := 1
	if f := l.Stack.Current(); f != nil {
		version = f.Version
	}
	l.logf("promoting external DTD subset %q (resolved from %q/%q)", path, ext.publicID, ext.systemID)
	if next := l.pushExternalPE("#dtd;", path, version, true); next != nil {
		return next
	}
	l.inSubset = true
	l.subsetDone = afterExternalSubset
	return resumeSubset(l)
}

// afterExternalSubset reclaims the external subset's auto-pop frame once its
// markupdecl|DeclSep loop runs out of input.
func afterExternalSubset(l *Lexer) StateFn {
	l.inSubset = false
	l.logf("auto-popping exhausted external DTD subset frame")
	l.Stack.PopAutoPopped()
	return finishDoctype(l)
}

func finishDoctype(l *Lexer) StateFn {
	l.emit(token.DocTypeEnd, []byte(l.docTypeName))
	return l.prologCont()
}

func (l *Lexer) parseExternalIDIfPresent() (publicID, systemID string, present bool, next StateFn) {
	matched, err := l.matchLiteral("SYSTEM")
	if err != nil {
		return "", "", false, l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if matched {
		if err := l.skipSpace(); err != nil {
			return "", "", false, l.fail(xmlerr.Wrap(l.pos(), err))
		}
		sys, serr := l.readRawLiteral()
		if serr != nil {
			return "", "", false, l.ioOrSyntax(serr, "malformed SYSTEM literal")
		}
		return "", sys, true, nil
	}
	matched, err = l.matchLiteral("PUBLIC")
	if err != nil {
		return "", "", false, l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if matched {
		if err := l.skipSpace(); err != nil {
			return "", "", false, l.fail(xmlerr.Wrap(l.pos(), err))
		}
		pub, perr := l.readRawLiteral()
		if perr != nil {
			return "", "", false, l.ioOrSyntax(perr, "malformed PUBLIC literal")
		}
		if err := l.skipSpace(); err != nil {
			return "", "", false, l.fail(xmlerr.Wrap(l.pos(), err))
		}
		sys, serr := l.readRawLiteral()
		if serr != nil {
			return "", "", false, l.ioOrSyntax(serr, "malformed SYSTEM literal")
		}
		return pub, sys, true, nil
	}
	return "", "", false, nil
}

// readRawLiteral reads a single-quoted or double-quoted literal verbatim,
// with no entity or character-reference processing: used for
// SystemLiteral and PubidLiteral.
func (l *Lexer) readRawLiteral() (string, error) {
	quote, err := l.next()
	if err != nil {
		return "", err
	}
	if quote != '"' && quote != '\'' {
		return "", l.syntaxErrorf("expected quote to start literal")
	}
	var buf []byte
	for {
		b, err := l.next()
		if err != nil {
			return "", err
		}
		if b == quote {
			return string(buf), nil
		}
		buf = append(buf, b)
	}
}

// parseInternalSubset consumes (markupdecl | DeclSep)* up to (but not
// including) the ']' that closes the internal subset, or, when called for
// the external subset (l.internalSubset is false at that point), up to
// end of input.
func parseInternalSubset(l *Lexer) StateFn {
	for {
		if err := l.skipSpace(); err != nil {
			return l.fail(xmlerr.Wrap(l.pos(), err))
		}
		b, ok, err := l.peek()
		if err != nil {
			return l.fail(xmlerr.Wrap(l.pos(), err))
		}
		if !ok {
			if l.internalSubset {
				return l.failf(xmlerr.SyntaxError, "unexpected end of input inside internal subset")
			}
			return nil // external subset frame exhausted; its auto-pop unwinds the stack
		}
		if !l.internalSubset && l.Stack.CheckRecursion("#dtd;") == nil {
			// next() has already popped the exhausted external subset frame,
			// so the byte just peeked belongs to the including document.
			return nil
		}
		switch b {
		case ']':
			if l.internalSubset {
				return nil
			}
			return l.failf(xmlerr.SyntaxError, "unexpected ']' in external DTD subset")
		case '%':
			l.next()
			if next := l.readReference(refParameter); next != nil {
				return next
			}
			continue
		case '<':
			l.next()
			return dispatchMarkupDecl(l)
		default:
			return l.failf(xmlerr.SyntaxError, "unexpected character %q in DTD", b)
		}
	}
}

func dispatchMarkupDecl(l *Lexer) StateFn {
	matched, err := l.matchLiteral("!ENTITY")
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if matched {
		return parseEntityDecl(l)
	}
	matched, err = l.matchLiteral("!NOTATION")
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if matched {
		return parseNotationDecl(l)
	}
	matched, err = l.matchLiteral("!ELEMENT")
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if matched {
		return l.skipMarkupDeclBody("ELEMENT")
	}
	matched, err = l.matchLiteral("!ATTLIST")
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if matched {
		return l.skipMarkupDeclBody("ATTLIST")
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
	return l.failf(xmlerr.SyntaxError, "unrecognized markup declaration")
}

// skipMarkupDeclBody consumes an ELEMENT or ATTLIST declaration's body
// verbatim up to its closing '>', tracking quoted literals so that a '>'
// inside a default value does not terminate the declaration early.
func (l *Lexer) skipMarkupDeclBody(kind string) StateFn {
	l.inMarkupDecl = true
	defer func() { l.inMarkupDecl = false }()
	var quote byte
	for {
		b, err := l.next()
		if err != nil {
			return l.ioOrSyntax(err, "unterminated "+kind+" declaration")
		}
		if quote != 0 {
			if b == quote {
				quote = 0
			}
			continue
		}
		switch b {
		case '"', '\'':
			quote = b
		case '%':
			if next := l.readReference(refParameter); next != nil {
				return next
			}
		case '>':
			return resumeSubset
		}
	}
}

func parseNotationDecl(l *Lexer) StateFn {
	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if _, err := l.scanName(); err != nil {
		return l.ioOrSyntax(err, "malformed notation name")
	}
	return l.skipMarkupDeclBody("NOTATION")
}

// parseEntityDecl reads an ENTITY declaration (general or parameter,
// internal or external) and folds it into l.Tables.
func parseEntityDecl(l *Lexer) StateFn {
	l.inMarkupDecl = true
	defer func() { l.inMarkupDecl = false }()
	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	isParam := false
	b, ok, err := l.peek()
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if ok && b == '%' {
		l.next()
		isParam = true
		if err := l.skipSpace(); err != nil {
			return l.fail(xmlerr.Wrap(l.pos(), err))
		}
	}
	name, err := l.scanName()
	if err != nil {
		return l.ioOrSyntax(err, "malformed entity name")
	}
	if name == "" {
		return l.failf(xmlerr.SyntaxError, "expected entity name")
	}
	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}

	pub, sys, hasExt, next := l.parseExternalIDIfPresent()
	if next != nil {
		return next
	}

	if hasExt {
		if isParam {
			l.Tables.DeclareExternalParameter(name, entitytab.ExternalParameter{PublicID: pub, SystemID: sys})
			return l.closeDecl()
		}
		if err := l.skipSpace(); err != nil {
			return l.fail(xmlerr.Wrap(l.pos(), err))
		}
		ndata := ""
		matched, merr := l.matchLiteral("NDATA")
		if merr != nil {
			return l.fail(xmlerr.Wrap(l.pos(), merr))
		}
		if matched {
			if err := l.skipSpace(); err != nil {
				return l.fail(xmlerr.Wrap(l.pos(), err))
			}
			ndata, err = l.scanName()
			if err != nil {
				return l.ioOrSyntax(err, "malformed NDATA notation name")
			}
		}
		l.Tables.DeclareExternalGeneral(name, entitytab.ExternalGeneral{PublicID: pub, SystemID: sys, NDATA: ndata})
		return l.closeDecl()
	}

	value, next := l.readEntityValue()
	if next != nil {
		return next
	}
	if isParam {
		l.Tables.DeclareInternalParameter(name, value)
	} else {
		l.Tables.DeclareInternalGeneral(name, value, l.internalSubset == false)
	}
	return l.closeDecl()
}

func (l *Lexer) closeDecl() StateFn {
	if err := l.skipSpace(); err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if err := l.expect('>'); err != nil {
		return l.ioOrSyntax(err, "expected '>' to close declaration")
	}
	return resumeSubset
}

// readEntityValue reads a quoted EntityValue: character references are
// expanded immediately into the literal text; general entity references
// are left untouched as literal "&name;" text (to be resolved later, when
// the entity being declared is itself referenced); parameter entity
// references are expanded inline when legal (external subset) or rejected
// (internal subset, per WFC: PEs in Internal Subset).
func (l *Lexer) readEntityValue() (string, StateFn) {
	quote, err := l.next()
	if err != nil {
		return "", l.ioOrSyntax(err, "expected quote to start entity value")
	}
	if quote != '"' && quote != '\'' {
		return "", l.failf(xmlerr.SyntaxError, "expected quote to start entity value")
	}
	startDepth := l.Stack.Len()
	var buf []byte
	for {
		b, err := l.next()
		if err != nil {
			return "", l.ioOrSyntax(err, "unterminated entity value")
		}
		if b == quote && l.Stack.Len() == startDepth {
			return string(buf), nil
		}
		switch b {
		case '&':
			b2, ok2, perr := l.peek()
			if perr != nil {
				return "", l.fail(xmlerr.Wrap(l.pos(), perr))
			}
			if ok2 && b2 == '#' {
				l.next()
				if next := l.readCharRef(); next != nil {
					return "", next
				}
				buf = append(buf, l.acc.Take()...)
				continue
			}
			name, serr := l.scanName()
			if serr != nil {
				return "", l.ioOrSyntax(serr, "malformed entity reference")
			}
			if serr := l.expect(';'); serr != nil {
				return "", l.ioOrSyntax(serr, "expected ';' after entity name")
			}
			buf = append(buf, '&')
			buf = append(buf, name...)
			buf = append(buf, ';')
		case '%':
			// Pushes a replacement-text frame rather than appending to buf
			// directly: the next loop iteration reads from it transparently,
			// exactly like a general entity reference inside content.
			if next := l.readReference(refParameter); next != nil {
				return "", next
			}
		default:
			buf = append(buf, b)
		}
	}
}
