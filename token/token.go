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

// Package token defines the classified token kinds emitted by the xmlpull
// tokenizer and the source-location type used to report them.
package token

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind int

// Token kinds. Error and End are sticky: once emitted, a Tokenizer will keep
// returning the same kind on every subsequent call.
const (
	Error Kind = iota
	End
	DocTypeStart
	DocTypeEnd
	ElementStart
	ElementEnd
	AttributeName
	AttributeValue
	Text
	PiTarget
	PiData
	Comment
	CData
)

var kindNames = [...]string{
	Error:          "Error",
	End:            "End",
	DocTypeStart:   "DocTypeStart",
	DocTypeEnd:     "DocTypeEnd",
	ElementStart:   "ElementStart",
	ElementEnd:     "ElementEnd",
	AttributeName:  "AttributeName",
	AttributeValue: "AttributeValue",
	Text:           "Text",
	PiTarget:       "PiTarget",
	PiData:         "PiData",
	Comment:        "Comment",
	CData:          "CData",
}

// String returns the Kind's name, matching its constant identifier.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Token is one classified token pulled from the tokenizer, carrying its
// UTF-8 text payload.
type Token struct {
	Kind Kind
	Text []byte
}

// String renders the token for debugging purposes; the format is not
// stable API.
func (t Token) String() string {
	return fmt.Sprintf("%s:%q", t.Kind, t.Text)
}

// Position is a 1-based line, 0-based column source location, named after
// the active input frame at the moment it was captured (a file path for
// file frames, a synthetic "&name;" / "%name;" for entity frames).
type Position struct {
	Name   string
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Name, p.Line, p.Column)
}
