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

// Package xmlpull implements a pull-style XML 1.0/1.1 tokenizer: a caller
// repeatedly calls Tokenizer.NextToken to drive the lexical state machine
// one token at a time, with entity expansion, external-entity inclusion and
// encoding detection handled transparently by the layers underneath.
//
// A Tokenizer owns one primary document source plus whatever external DTD
// subset and entity replacement-text frames get pushed and popped as it
// reads; see internal/input for the frame stack and internal/lexer for the
// state machine driving it.
//
// Namespace processing, DTD content-model/attribute-default validation, and
// URI resolution beyond a minimal default are deliberately out of scope;
// see the resolver package to plug in a fuller implementation of the last.
package xmlpull
