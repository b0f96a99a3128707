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

// Package entitytab holds the four entity-declaration tables a document's
// DTD populates: internal/external general entities and internal/external
// parameter entities. A Tables value outlives every input frame pushed or
// popped while tokenizing a single document.
package entitytab

// InternalGeneral is a general entity declared with a literal replacement
// text ("<!ENTITY name \"text\">").
type InternalGeneral struct {
	Text     string
	External bool // declared in the external subset (relevant to standalone checks)
}

// ExternalGeneral is a general entity declared via SYSTEM/PUBLIC
// ("<!ENTITY name SYSTEM \"uri\">"), optionally unparsed (NDATA).
type ExternalGeneral struct {
	PublicID string
	SystemID string
	NDATA    string // notation name; empty if this is a parsed entity
}

// Unparsed reports whether this general entity carries an NDATA notation
// and is therefore illegal to reference from content or attribute values
// (only from an attribute of declared type ENTITY, which is outside this
// tokenizer's scope).
func (e ExternalGeneral) Unparsed() bool { return e.NDATA != "" }

// ExternalParameter is a parameter entity declared via SYSTEM/PUBLIC.
type ExternalParameter struct {
	PublicID string
	SystemID string
}

// Tables is the set of four entity tables owned by a Tokenizer.
type Tables struct {
	InternalGeneral   map[string]InternalGeneral
	ExternalGeneralTb map[string]ExternalGeneral
	InternalParameter map[string]string
	ExternalParameter map[string]ExternalParameter
}

// predefined holds the five entities the XML spec requires to resolve with
// no declaration, keyed by name, valued with their canonical character
// reference replacement text.
var predefined = map[string]string{
	"lt":   "&#60;",
	"gt":   "&#62;",
	"amp":  "&#38;",
	"apos": "&#39;",
	"quot": "&#34;",
}

// New returns an empty set of entity tables with the five predefined
// general entities pre-populated.
func New() *Tables {
	t := &Tables{
		InternalGeneral:   make(map[string]InternalGeneral, len(predefined)+8),
		ExternalGeneralTb: make(map[string]ExternalGeneral),
		InternalParameter: make(map[string]string),
		ExternalParameter: make(map[string]ExternalParameter),
	}
	for name, text := range predefined {
		t.InternalGeneral[name] = InternalGeneral{Text: text}
	}
	return t
}

// DeclareInternalGeneral records an internal general entity declaration.
// Per XML well-formedness rules, a second declaration for an already-known
// name (in either general-entity table) is silently ignored: the first
// declaration binds.
func (t *Tables) DeclareInternalGeneral(name, text string, external bool) {
	if t.generalDeclared(name) {
		return
	}
	t.InternalGeneral[name] = InternalGeneral{Text: text, External: external}
}

// DeclareExternalGeneral records an external general entity declaration.
func (t *Tables) DeclareExternalGeneral(name string, e ExternalGeneral) {
	if t.generalDeclared(name) {
		return
	}
	t.ExternalGeneralTb[name] = e
}

// DeclareInternalParameter records an internal parameter entity declaration.
func (t *Tables) DeclareInternalParameter(name, text string) {
	if t.parameterDeclared(name) {
		return
	}
	t.InternalParameter[name] = text
}

// DeclareExternalParameter records an external parameter entity declaration.
func (t *Tables) DeclareExternalParameter(name string, e ExternalParameter) {
	if t.parameterDeclared(name) {
		return
	}
	t.ExternalParameter[name] = e
}

func (t *Tables) generalDeclared(name string) bool {
	if _, ok := t.InternalGeneral[name]; ok {
		return true
	}
	_, ok := t.ExternalGeneralTb[name]
	return ok
}

func (t *Tables) parameterDeclared(name string) bool {
	if _, ok := t.InternalParameter[name]; ok {
		return true
	}
	_, ok := t.ExternalParameter[name]
	return ok
}

// LookupGeneral looks up a general entity by name across both the internal
// and external tables, reporting which table (if any) it was found in.
func (t *Tables) LookupGeneral(name string) (internal *InternalGeneral, external *ExternalGeneral, found bool) {
	if g, ok := t.InternalGeneral[name]; ok {
		return &g, nil, true
	}
	if g, ok := t.ExternalGeneralTb[name]; ok {
		return nil, &g, true
	}
	return nil, nil, false
}

// LookupParameter looks up a parameter entity by name across both tables.
func (t *Tables) LookupParameter(name string) (text string, external *ExternalParameter, found bool) {
	if s, ok := t.InternalParameter[name]; ok {
		return s, nil, true
	}
	if e, ok := t.ExternalParameter[name]; ok {
		return "", &e, true
	}
	return "", nil, false
}
