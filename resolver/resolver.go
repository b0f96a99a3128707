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

// Package resolver defines the URL-resolution collaborator the tokenizer
// delegates to whenever it needs to turn a PUBLIC/SYSTEM identifier pair
// declared on an external entity or DOCTYPE external subset into something
// a byte source can open. Resolving PUBLIC identifiers against a catalog is
// explicitly out of scope here; callers that need it can supply their own
// Resolver.
package resolver

import "path/filepath"

// Resolver resolves the PUBLIC/SYSTEM identifiers of an external entity or
// external DTD subset, declared in the source named base, to a path a byte
// source can open.
type Resolver interface {
	Resolve(base, publicID, systemID string) (string, error)
}

// Default is the reference Resolver: it ignores publicID entirely and
// resolves systemID relative to the directory of base, or returns it
// unchanged if already absolute. Callers needing PUBLIC-identifier catalog
// lookups should wrap or replace it.
type Default struct{}

// Resolve implements Resolver.
func (Default) Resolve(base, _, systemID string) (string, error) {
	if filepath.IsAbs(systemID) {
		return systemID, nil
	}
	return filepath.Join(filepath.Dir(base), systemID), nil
}
