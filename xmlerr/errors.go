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

// Package xmlerr defines the typed errors the tokenizer can report. They
// live in their own package, rather than in the root package or inside
// internal/lexer, so that both can depend on them without a cycle: the
// lexer constructs them, the root Tokenizer passes them through unchanged.
package xmlerr

import "fmt"

// Kind classifies a tokenizer error.
type Kind int

const (
	SyntaxError Kind = iota
	IllegalChar
	RecursiveEntity
	UnknownEntity
	UnparsedEntityRef
	ExternalEntityInAttribute
	ExternalInStandalone
	PEInInternalSubset
	IoError
	EncodingMismatch
	UnsupportedEncoding
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case IllegalChar:
		return "IllegalChar"
	case RecursiveEntity:
		return "RecursiveEntity"
	case UnknownEntity:
		return "UnknownEntity"
	case UnparsedEntityRef:
		return "UnparsedEntityRef"
	case ExternalEntityInAttribute:
		return "ExternalEntityInAttribute"
	case ExternalInStandalone:
		return "ExternalInStandalone"
	case PEInInternalSubset:
		return "PEInInternalSubset"
	case IoError:
		return "IoError"
	case EncodingMismatch:
		return "EncodingMismatch"
	case UnsupportedEncoding:
		return "UnsupportedEncoding"
	default:
		return "Unknown"
	}
}

// Position is the minimal location information an Error carries. It
// mirrors token.Position but is duplicated here to avoid importing the
// token package purely for this field (keeping xmlerr dependency-free).
type Position struct {
	Name   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Name == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Name, p.Line, p.Column)
}

// Error is the concrete error type returned by the tokenizer. Callers
// distinguish error conditions with errors.As and inspect Kind.
type Error struct {
	Kind Kind
	Pos  Position
	Msg  string
	Err  error // wrapped cause, e.g. the underlying I/O error for IoError
}

func (e *Error) Error() string {
	if e.Pos.Name != "" || e.Pos.Line != 0 {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error of the given kind at pos with a formatted message.
func New(kind Kind, pos Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an IoError wrapping an underlying I/O failure.
func Wrap(pos Position, err error) *Error {
	return &Error{Kind: IoError, Pos: pos, Msg: err.Error(), Err: err}
}
