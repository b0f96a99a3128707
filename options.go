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
	"github.com/db47h/xmlpull/internal/lexer"
	"github.com/db47h/xmlpull/resolver"
)

// Option configures a Tokenizer at construction time, following the
// functional-options idiom.
type Option func(*Tokenizer)

// WithResolver overrides the default PUBLIC/SYSTEM identifier resolver used
// for external entities and external DTD subsets.
func WithResolver(r resolver.Resolver) Option {
	return func(t *Tokenizer) { t.lex.Resolver = r }
}

// Logger receives optional diagnostic tracing; it is never required for
// correct operation. A nil Logger (the default) disables tracing entirely.
type Logger = lexer.Logger

// WithLogger installs a Logger for diagnostic tracing.
func WithLogger(l Logger) Option {
	return func(t *Tokenizer) { t.lex.Logger = l }
}

// WithMaxEntityDepth caps how many input frames (entity expansions plus the
// primary document and any external DTD subset) may be nested at once,
// guarding against entity-expansion bombs that are not simple self-recursion
// (which RecursiveEntity already catches). The cap is checked only when an
// internal general entity is expanded; external entities and parameter
// entities are pushed without checking it. Exceeding it is reported as
// RecursiveEntity. depth <= 0 disables the limit.
func WithMaxEntityDepth(depth int) Option {
	return func(t *Tokenizer) { t.lex.MaxDepth = depth }
}
