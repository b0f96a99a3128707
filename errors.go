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

import "github.com/db47h/xmlpull/xmlerr"

// ErrorKind classifies the cause of an Error.
type ErrorKind = xmlerr.Kind

// The error kinds a Tokenizer can report.
const (
	SyntaxError               = xmlerr.SyntaxError
	IllegalChar               = xmlerr.IllegalChar
	RecursiveEntity           = xmlerr.RecursiveEntity
	UnknownEntity             = xmlerr.UnknownEntity
	UnparsedEntityRef         = xmlerr.UnparsedEntityRef
	ExternalEntityInAttribute = xmlerr.ExternalEntityInAttribute
	ExternalInStandalone      = xmlerr.ExternalInStandalone
	PEInInternalSubset        = xmlerr.PEInInternalSubset
	IoError                   = xmlerr.IoError
	EncodingMismatch          = xmlerr.EncodingMismatch
	UnsupportedEncoding       = xmlerr.UnsupportedEncoding
)

// Error is the concrete error type a Tokenizer returns; see xmlerr.Error.
// Callers distinguish failure modes with errors.As into a *xmlpull.Error
// variable and inspecting its Kind field.
type Error = xmlerr.Error
