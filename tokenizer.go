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

package xmlpull

import (
	"github.com/db47h/xmlpull/entitytab"
	"github.com/db47h/xmlpull/internal/input"
	"github.com/db47h/xmlpull/internal/lexer"
	"github.com/db47h/xmlpull/token"
)

// Tokenizer pulls a stream of token.Token values out of a single XML
// document, expanding entity references and resolving external entities as
// it goes. A Tokenizer is not safe for concurrent use: NextToken must be
// called from one goroutine at a time, matching the cooperative,
// single-threaded design of the lexer beneath it.
type Tokenizer struct {
	lex    *lexer.Lexer
	src    *input.ByteSource
	tables *entitytab.Tables
}

// New opens path and returns a Tokenizer positioned at the start of the
// document. The file's encoding is sniffed from its leading bytes; a later
// XML declaration's encoding pseudo-attribute is cross-checked against it.
func New(path string, opts ...Option) (*Tokenizer, error) {
	src, err := input.OpenFile(path)
	if err != nil {
		return nil, err
	}
	fr, err := input.NewFileFrame(path, src, 0)
	if err != nil {
		src.Close()
		return nil, err
	}

	tables := entitytab.New()
	t := &Tokenizer{
		lex:    lexer.New(tables, nil),
		src:    src,
		tables: tables,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.lex.Push(fr)
	return t, nil
}

// NextToken advances the tokenizer and returns the next token. Once an
// Error or End token has been produced, every subsequent call returns the
// same token again; use Err to retrieve the underlying error.
func (t *Tokenizer) NextToken() token.Token {
	return t.lex.NextToken()
}

// Err returns the error that produced the tokenizer's sticky Error state,
// or nil if the tokenizer has not failed.
func (t *Tokenizer) Err() error {
	return t.lex.Err()
}

// Location reports the current source position: the innermost active
// entity frame's name (a file path, or a synthetic "&name;"/"%name;") and
// 1-based line / 0-based column.
func (t *Tokenizer) Location() token.Position {
	return t.lex.Location()
}

// Line reports the current 1-based line number, within whichever frame
// (primary document or entity replacement text) is currently being read.
func (t *Tokenizer) Line() int {
	return t.lex.Location().Line
}

// Column reports the current 0-based column number, within whichever frame
// (primary document or entity replacement text) is currently being read.
func (t *Tokenizer) Column() int {
	return t.lex.Location().Column
}

// Version reports the document's resolved XML version: 0 until an XML
// declaration has been read (and throughout a document that has none), 1
// for XML 1.0, 2 for XML 1.1.
func (t *Tokenizer) Version() int {
	return t.lex.Version()
}

// Standalone reports the value of the standalone document declaration
// pseudo-attribute, and whether one was present at all.
func (t *Tokenizer) Standalone() (value, present bool) {
	return t.lex.Standalone()
}

// Entities returns the entity declaration tables accumulated from the
// document's DTD so far. The returned value is owned by the Tokenizer and
// must not be mutated by the caller.
func (t *Tokenizer) Entities() *entitytab.Tables {
	return t.tables
}

// Close releases the primary document's underlying file. Reaching End or
// Error does not release it; Close may be called at any point.
func (t *Tokenizer) Close() error {
	return t.src.Close()
}
