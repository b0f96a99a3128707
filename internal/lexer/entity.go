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
	"strconv"
	"unicode/utf8"

	"github.com/db47h/xmlpull/entitytab"
	"github.com/db47h/xmlpull/internal/input"
	"github.com/db47h/xmlpull/xmlerr"
)

// refContext distinguishes the three places an entity reference can occur.
type refContext int

const (
	refContent refContext = iota
	refAttribute
	refParameter
)

// readReference consumes a reference already identified by its leading '&'
// or '%' (already consumed by the caller) up to and including the
// terminating ';', dispatching to a character reference or the matching
// entity table. For refContent and refAttribute it pushes a replacement
// text frame when the entity is non-empty; for refParameter it always
// consults the parameter tables, pushing a frame wrapped in spaces.
func (l *Lexer) readReference(ctx refContext) StateFn {
	b, err := l.next()
	if err != nil {
		return l.ioOrSyntax(err, "unterminated reference")
	}
	if ctx != refParameter && b == '#' {
		return l.readCharRef()
	}
	l.backup(b)
	name, err := l.scanName()
	if err != nil {
		return l.ioOrSyntax(err, "malformed entity name")
	}
	if name == "" {
		return l.failf(xmlerr.SyntaxError, "expected entity name")
	}
	if err := l.expect(';'); err != nil {
		return l.ioOrSyntax(err, "expected ';' after entity name")
	}

	switch ctx {
	case refParameter:
		return l.expandParameter(name)
	case refAttribute:
		return l.expandAttributeEntity(name)
	default:
		return l.expandContentEntity(name)
	}
}

// readCharRef consumes the remainder of a character reference ("#NNN;" or
// "#xNN;", the '#' already consumed) and appends its UTF-8 encoding
// directly to l.acc: character references are never subject to further
// substitution.
func (l *Lexer) readCharRef() StateFn {
	hex := false
	b, err := l.next()
	if err != nil {
		return l.ioOrSyntax(err, "unterminated character reference")
	}
	if b == 'x' {
		hex = true
	} else {
		l.backup(b)
	}

	var digits []byte
	for {
		b, err := l.next()
		if err != nil {
			return l.ioOrSyntax(err, "unterminated character reference")
		}
		if b == ';' {
			break
		}
		digits = append(digits, b)
	}
	if len(digits) == 0 {
		return l.failf(xmlerr.SyntaxError, "empty character reference")
	}
	base := 10
	if hex {
		base = 16
	}
	v, err := strconv.ParseUint(string(digits), base, 32)
	if err != nil {
		return l.failf(xmlerr.SyntaxError, "malformed character reference %q", digits)
	}
	r := rune(v)
	version := 1
	if f := l.Stack.Current(); f != nil && f.Version == 2 {
		version = 2
	}
	if !utf8.ValidRune(r) || !isChar(r, version) {
		return l.failf(xmlerr.IllegalChar, "character reference U+%04X is not a legal XML character", v)
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	l.acc.Append(buf[:n])
	return nil
}

func syntheticName(prefix, name string) string { return prefix + name + ";" }

func (l *Lexer) expandContentEntity(name string) StateFn {
	internal, external, found := l.Tables.LookupGeneral(name)
	if !found {
		return l.failf(xmlerr.UnknownEntity, "reference to undeclared entity %q", name)
	}
	if external != nil {
		if l.standalone {
			return l.failf(xmlerr.ExternalInStandalone, "external entity %q referenced in standalone document", name)
		}
		if external.Unparsed() {
			return l.failf(xmlerr.UnparsedEntityRef, "reference to unparsed entity %q", name)
		}
		return l.includeExternalGeneral(name, *external)
	}
	if l.standalone && internal.External {
		return l.failf(xmlerr.ExternalInStandalone, "entity %q declared in external subset of standalone document", name)
	}
	return l.includeInternalGeneral(name, internal.Text)
}

func (l *Lexer) expandAttributeEntity(name string) StateFn {
	internal, external, found := l.Tables.LookupGeneral(name)
	if !found {
		return l.failf(xmlerr.UnknownEntity, "reference to undeclared entity %q", name)
	}
	if external != nil {
		return l.failf(xmlerr.ExternalEntityInAttribute, "external entity %q referenced in attribute value", name)
	}
	if l.standalone && internal.External {
		return l.failf(xmlerr.ExternalInStandalone, "entity %q declared in external subset of standalone document", name)
	}
	return l.includeInternalGeneral(name, internal.Text)
}

func (l *Lexer) includeInternalGeneral(name, text string) StateFn {
	if text == "" {
		return nil
	}
	full := syntheticName("&", name)
	if err := l.Stack.CheckRecursion(full); err != nil {
		return l.failf(xmlerr.RecursiveEntity, "%s", err)
	}
	if l.MaxDepth > 0 && l.Stack.Len() >= l.MaxDepth {
		return l.failf(xmlerr.RecursiveEntity, "entity nesting exceeds maximum depth")
	}
	version := 1
	if f := l.Stack.Current(); f != nil {
		version = f.Version
	}
	l.Stack.Push(input.NewMemoryFrame(full, version, text))
	return nil
}

func (l *Lexer) includeExternalGeneral(name string, e entitytab.ExternalGeneral) StateFn {
	full := syntheticName("&", name)
	if err := l.Stack.CheckRecursion(full); err != nil {
		return l.failf(xmlerr.RecursiveEntity, "%s", err)
	}
	path, err := l.resolve(l.baseName, e.PublicID, e.SystemID)
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	src, err := input.OpenFile(path)
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	version := 1
	if f := l.Stack.Current(); f != nil {
		version = f.Version
	}
	fr, err := input.NewFileFrame(full, src, version)
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	l.Stack.Push(fr)
	return nil
}

func (l *Lexer) expandParameter(name string) StateFn {
	if l.internalSubset && l.inMarkupDecl {
		return l.failf(xmlerr.PEInInternalSubset, "parameter entity reference %%%s; inside internal subset markup declaration", name)
	}
	return l.includePE(name, true)
}

// includePE pushes the replacement text (or external resource) for
// parameter entity name, wrapping it with a leading and trailing space per
// the DTD inclusion rule, and optionally marking the new frame AutoPop so
// the input stack silently reclaims it once exhausted (expandParameter sets
// it for every parameter-entity reference; the external DTD subset is
// pushed through pushExternalPE directly).
func (l *Lexer) includePE(name string, autoPop bool) StateFn {
	full := syntheticName("%", name)
	if err := l.Stack.CheckRecursion(full); err != nil {
		return l.failf(xmlerr.RecursiveEntity, "%s", err)
	}
	version := 1
	if f := l.Stack.Current(); f != nil {
		version = f.Version
	}

	text, external, found := l.Tables.LookupParameter(name)
	if !found {
		return l.failf(xmlerr.UnknownEntity, "reference to undeclared parameter entity %q", name)
	}
	if external == nil {
		if text == "" {
			return nil
		}
		if cur := l.Stack.Current(); cur != nil {
			cur.Push(' ')
		}
		fr := input.NewMemoryFrame(full, version, text)
		fr.AutoPop = autoPop
		fr.Push(' ')
		l.Stack.Push(fr)
		return nil
	}
	path, err := l.resolve(l.baseName, external.PublicID, external.SystemID)
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	return l.pushExternalPE(full, path, version, autoPop)
}

func (l *Lexer) pushExternalPE(full, path string, version int, autoPop bool) StateFn {
	src, err := input.OpenFile(path)
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	fr, err := input.NewFileFrame(full, src, version)
	if err != nil {
		return l.fail(xmlerr.Wrap(l.pos(), err))
	}
	if cur := l.Stack.Current(); cur != nil {
		cur.Push(' ')
	}
	fr.AutoPop = autoPop
	fr.Push(' ')
	l.Stack.Push(fr)
	return nil
}

func (l *Lexer) resolve(base, publicID, systemID string) (string, error) {
	return l.Resolver.Resolve(base, publicID, systemID)
}

func (l *Lexer) ioOrSyntax(err error, msg string) StateFn {
	if errors.Is(err, io.EOF) {
		return l.failf(xmlerr.SyntaxError, "%s: unexpected end of input", msg)
	}
	return l.fail(xmlerr.Wrap(l.pos(), err))
}
