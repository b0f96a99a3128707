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

// Package lexer implements the XML lexical state machine: it walks an
// input.Stack one normalized UTF-8 byte at a time and produces a stream of
// token.Token values, expanding entity references transparently as it goes.
//
// The machine is a chain of functions of type StateFn; each runs until it
// has queued zero or more tokens and returns the StateFn to resume with.
// NextToken drives the chain until the queue is non-empty. This gives
// callers the one-token-per-call pull interface without requiring true
// coroutine suspension: a single pass can queue several tokens (e.g. an
// element's attributes) and NextToken simply drains them one at a time on
// subsequent calls.
package lexer

import (
	"errors"
	"io"

	"github.com/db47h/xmlpull/entitytab"
	"github.com/db47h/xmlpull/internal/input"
	"github.com/db47h/xmlpull/resolver"
	"github.com/db47h/xmlpull/token"
	"github.com/db47h/xmlpull/xmlerr"
)

// Logger is the optional sink for diagnostic tracing. A nil Logger disables
// all tracing; it is never required for correct operation.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// StateFn is one step of the lexical state machine. It returns the StateFn
// to resume with; the sticky End and Error states return themselves.
type StateFn func(*Lexer) StateFn

// Lexer is the XML tokenizer's lexical engine: an input.Stack to read from,
// the entity tables accumulated from DOCTYPE declarations, and a FIFO queue
// of tokens produced but not yet delivered.
type Lexer struct {
	Stack    input.Stack
	Tables   *entitytab.Tables
	Resolver resolver.Resolver
	Logger   Logger
	MaxDepth int // maximum input.Stack depth; 0 disables the limit

	state StateFn
	queue []token.Token

	acc input.Buffer // accumulates the text of the token under construction

	standalone     bool
	sawStandalone  bool
	internalSubset bool // true while reading the DTD's internal subset specifically (gates WFC: PEs in Internal Subset)
	inSubset       bool // true while reading either DTD subset's markupdecl|DeclSep loop, across comment/PI detours
	subsetDone     StateFn
	inMarkupDecl   bool // true while inside an ENTITY/ELEMENT/ATTLIST/NOTATION declaration's body
	elems          []string
	pendingExtDTD  *pendingExternalSubset
	baseName       string // file path of the primary document frame, for relative entity resolution
	docTypeName    string
	sawDoctype     bool
	seenRoot       bool

	err  *xmlerr.Error
	done bool
}

type pendingExternalSubset struct {
	publicID, systemID string
}

// New creates a Lexer with an empty input stack; the primary document frame
// is supplied afterwards with Push.
func New(tables *entitytab.Tables, res resolver.Resolver) *Lexer {
	if res == nil {
		res = resolver.Default{}
	}
	l := &Lexer{
		Tables:   tables,
		Resolver: res,
		MaxDepth: 64,
	}
	l.state = stateProlog
	return l
}

// Push makes fr the lexer's primary (bottom) input frame.
func (l *Lexer) Push(fr *input.Frame) {
	l.baseName = fr.Name
	l.Stack.Push(fr)
}

// NextToken drives the state machine until a token is available and returns
// it. Once an Error or End token has been produced, every subsequent call
// returns the same token again.
func (l *Lexer) NextToken() token.Token {
	for len(l.queue) == 0 {
		if l.state == nil {
			// Should not happen: stateEnd/stateError never return nil
			// without first queuing their sticky token.
			return token.Token{Kind: token.End}
		}
		l.state = l.state(l)
	}
	t := l.queue[0]
	l.queue = l.queue[1:]
	return t
}

// Err returns the sticky error, if the lexer has failed.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// Version reports the document's resolved XML version: 0 if not yet known,
// 1 for XML 1.0, 2 for XML 1.1.
func (l *Lexer) Version() int {
	if f := l.Stack.Current(); f != nil {
		return f.Version
	}
	return 0
}

// Standalone reports the value of the standalone document declaration, and
// whether one was present at all.
func (l *Lexer) Standalone() (value, present bool) {
	return l.standalone, l.sawStandalone
}

// Location reports the current input position.
func (l *Lexer) Location() token.Position {
	if f := l.Stack.Current(); f != nil {
		return f.Location()
	}
	return token.Position{}
}

// emit appends a token to the output queue.
func (l *Lexer) emit(k token.Kind, text []byte) {
	l.queue = append(l.queue, token.Token{Kind: k, Text: text})
}

// emitAcc emits the accumulator's contents as a token and clears it.
func (l *Lexer) emitAcc(k token.Kind) {
	l.emit(k, l.acc.Take())
}

// fail records a sticky error and returns stateError, which emits it as an
// Error token on this and every subsequent call.
func (l *Lexer) fail(err *xmlerr.Error) StateFn {
	l.err = err
	return stateError
}

// failf is a convenience wrapper building an xmlerr.Error at the current
// location.
func (l *Lexer) failf(kind xmlerr.Kind, format string, args ...interface{}) StateFn {
	return l.fail(xmlerr.New(kind, l.pos(), format, args...))
}

// logf forwards a diagnostic trace message to Logger, if one is set.
func (l *Lexer) logf(format string, args ...interface{}) {
	if l.Logger != nil {
		l.Logger.Debugf(format, args...)
	}
}

func (l *Lexer) pos() xmlerr.Position {
	p := l.Location()
	return xmlerr.Position{Name: p.Name, Line: p.Line, Column: p.Column}
}

func stateError(l *Lexer) StateFn {
	l.emit(token.Error, []byte(l.err.Error()))
	return stateError
}

func stateEnd(l *Lexer) StateFn {
	l.emit(token.End, nil)
	return stateEnd
}

// next returns the next normalized byte from the current frame, popping
// exhausted frames transparently (this is what makes entity expansion, both
// content/attribute references and DTD parameter-entity inclusion,
// invisible to callers above this method: see input.Stack for the owning
// chain and input.Frame.NextChar for the per-frame decode/normalize step).
func (l *Lexer) next() (byte, error) {
	for {
		f := l.Stack.Current()
		if f == nil {
			return 0, io.EOF
		}
		b, err := f.NextChar()
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, io.EOF) {
			return 0, err
		}
		if l.Stack.Len() == 1 {
			return 0, io.EOF
		}
		l.Stack.Pop()
	}
}

// backup returns b to the current frame to be read again.
func (l *Lexer) backup(b byte) {
	if f := l.Stack.Current(); f != nil {
		f.Push(b)
	}
}

// scanName returns the longest run of Name bytes starting at the next input
// position (see names.go), leaving the first non-Name byte pushed back.
func (l *Lexer) scanName() (string, error) {
	var buf []byte
	first := true
	for {
		b, err := l.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		if first {
			if !isNameStartByte(b) {
				l.backup(b)
				break
			}
			first = false
		} else if !isNameByte(b) {
			l.backup(b)
			break
		}
		buf = append(buf, b)
	}
	return string(buf), nil
}

// skipSpace consumes zero or more XML whitespace bytes.
func (l *Lexer) skipSpace() error {
	for {
		b, err := l.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !isSpace(b) {
			l.backup(b)
			return nil
		}
	}
}

// expect consumes the next byte and checks it equals c.
func (l *Lexer) expect(c byte) error {
	b, err := l.next()
	if err != nil {
		return err
	}
	if b != c {
		return l.syntaxErrorf("expected %q, got %q", c, b)
	}
	return nil
}

func (l *Lexer) syntaxErrorf(format string, args ...interface{}) *xmlerr.Error {
	return xmlerr.New(xmlerr.SyntaxError, l.pos(), format, args...)
}

// peek reads one byte and immediately backs it up, leaving input unchanged.
// ok is false at EOF.
func (l *Lexer) peek() (b byte, ok bool, err error) {
	b, err = l.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, err
	}
	l.backup(b)
	return b, true, nil
}

// matchLiteral consumes s if it appears next in the input, restoring the
// stream exactly as read if it does not (a partial match, or a mismatching
// byte, is pushed back byte for byte).
func (l *Lexer) matchLiteral(s string) (bool, error) {
	consumed := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		b, err := l.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.unreadAll(consumed)
				return false, nil
			}
			return false, err
		}
		if b != s[i] {
			l.backup(b)
			l.unreadAll(consumed)
			return false, nil
		}
		consumed = append(consumed, b)
	}
	return true, nil
}

// unreadAll pushes bs back onto the input so that the next reads reproduce
// bs in its original order.
func (l *Lexer) unreadAll(bs []byte) {
	for i := len(bs) - 1; i >= 0; i-- {
		l.backup(bs[i])
	}
}
