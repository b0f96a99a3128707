package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/db47h/xmlpull/entitytab"
	"github.com/db47h/xmlpull/internal/input"
	"github.com/db47h/xmlpull/internal/lexer"
	"github.com/db47h/xmlpull/token"
)

func newLexer(t *testing.T, doc string) *lexer.Lexer {
	t.Helper()
	l := lexer.New(entitytab.New(), nil)
	l.Push(input.NewMemoryFrame("doc.xml", 0, doc))
	return l
}

// drain pulls tokens until End or Error (inclusive) or a hard cap is hit,
// guarding against an infinite loop in a broken state machine.
func drain(t *testing.T, l *lexer.Lexer) []token.Token {
	t.Helper()
	var toks []token.Token
	for i := 0; i < 10000; i++ {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.End || tok.Kind == token.Error {
			return toks
		}
	}
	t.Fatal("NextToken did not reach End or Error within 10000 tokens")
	return nil
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tk := range toks {
		ks[i] = tk.Kind
	}
	return ks
}

func requireKinds(t *testing.T, toks []token.Token, want ...token.Kind) {
	t.Helper()
	got := kinds(toks)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestMinimalSelfClosingElement(t *testing.T) {
	toks := drain(t, newLexer(t, "<a/>"))
	requireKinds(t, toks, token.ElementStart, token.ElementEnd, token.End)
	if string(toks[0].Text) != "a" || string(toks[1].Text) != "a" {
		t.Errorf("element name mismatch: %q / %q", toks[0].Text, toks[1].Text)
	}
}

func TestElementWithTextAndAttribute(t *testing.T) {
	doc := `<?xml version="1.0"?><root attr="value">text</root>`
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks,
		token.ElementStart, token.AttributeName, token.AttributeValue,
		token.Text, token.ElementEnd, token.End)
	if string(toks[1].Text) != "attr" || string(toks[2].Text) != "value" {
		t.Errorf("attribute mismatch: name=%q value=%q", toks[1].Text, toks[2].Text)
	}
	if string(toks[3].Text) != "text" {
		t.Errorf("text mismatch: %q", toks[3].Text)
	}
}

func TestXMLDeclSetsVersion(t *testing.T) {
	l := newLexer(t, `<?xml version="1.1"?><a/>`)
	drain(t, l)
	if v := l.Version(); v != 2 {
		t.Errorf("Version() = %d, want 2 (XML 1.1)", v)
	}
}

func TestStandaloneReported(t *testing.T) {
	l := newLexer(t, `<?xml version="1.0" standalone="yes"?><a/>`)
	drain(t, l)
	value, present := l.Standalone()
	if !present || !value {
		t.Errorf("Standalone() = %v, %v, want true, true", value, present)
	}
}

func TestStandaloneAbsent(t *testing.T) {
	l := newLexer(t, `<a/>`)
	drain(t, l)
	_, present := l.Standalone()
	if present {
		t.Error("Standalone() reported present=true with no standalone pseudo-attribute")
	}
}

func TestCommentsInPrologAndEpilog(t *testing.T) {
	doc := `<!--before--><a/><!--after-->`
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks, token.Comment, token.ElementStart, token.ElementEnd, token.Comment, token.End)
	if string(toks[0].Text) != "before" || string(toks[3].Text) != "after" {
		t.Errorf("comment text mismatch: %q / %q", toks[0].Text, toks[3].Text)
	}
}

func TestProcessingInstruction(t *testing.T) {
	doc := `<a><?target data here?></a>`
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks, token.ElementStart, token.PiTarget, token.PiData, token.ElementEnd, token.End)
	if string(toks[1].Text) != "target" || string(toks[2].Text) != "data here" {
		t.Errorf("PI mismatch: target=%q data=%q", toks[1].Text, toks[2].Text)
	}
}

func TestReservedPITargetIsError(t *testing.T) {
	doc := `<root><?xml foo?></root>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token, got %v", kinds(toks))
	}
}

func TestCDataSection(t *testing.T) {
	doc := `<a><![CDATA[<not, markup> & stuff]]></a>`
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks, token.ElementStart, token.CData, token.ElementEnd, token.End)
	if string(toks[1].Text) != "<not, markup> & stuff" {
		t.Errorf("CData text mismatch: %q", toks[1].Text)
	}
}

func TestNestedElements(t *testing.T) {
	doc := `<a><b></b><c/></a>`
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks,
		token.ElementStart, token.ElementStart, token.ElementEnd,
		token.ElementStart, token.ElementEnd, token.ElementEnd, token.End)
}

func TestMismatchedEndTagIsError(t *testing.T) {
	toks := drain(t, newLexer(t, `<a></b>`))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token for mismatched end tag, got %v", kinds(toks))
	}
}

func TestDuplicateAttributeIsError(t *testing.T) {
	toks := drain(t, newLexer(t, `<a b="1" b="2"/>`))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token for duplicate attribute, got %v", kinds(toks))
	}
}

func TestIllegalControlCharInContent(t *testing.T) {
	toks := drain(t, newLexer(t, "<a>\x01</a>"))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token for illegal control character, got %v", kinds(toks))
	}
}

func TestCharacterReference(t *testing.T) {
	doc := `<a>&#65;&#x42;</a>`
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks, token.ElementStart, token.Text, token.ElementEnd, token.End)
	if string(toks[1].Text) != "AB" {
		t.Errorf("character reference text = %q, want %q", toks[1].Text, "AB")
	}
}

func TestPredefinedEntity(t *testing.T) {
	doc := `<a>&amp;&lt;&gt;&apos;&quot;</a>`
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks, token.ElementStart, token.Text, token.ElementEnd, token.End)
	if string(toks[1].Text) != `&<>'"` {
		t.Errorf("predefined entity expansion = %q, want %q", toks[1].Text, `&<>'"`)
	}
}

func TestInternalGeneralEntityInContent(t *testing.T) {
	doc := `<!DOCTYPE root [<!ENTITY foo "bar">]><root>&foo;</root>`
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks,
		token.DocTypeStart, token.DocTypeEnd,
		token.ElementStart, token.Text, token.ElementEnd, token.End)
	if string(toks[3].Text) != "bar" {
		t.Errorf("entity expansion text = %q, want %q", toks[3].Text, "bar")
	}
}

func TestInternalGeneralEntityInAttribute(t *testing.T) {
	doc := `<!DOCTYPE root [<!ENTITY val "hello">]><root attr="&val; world"/>`
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks,
		token.DocTypeStart, token.DocTypeEnd,
		token.ElementStart, token.AttributeName, token.AttributeValue,
		token.ElementEnd, token.End)
	if string(toks[4].Text) != "hello world" {
		t.Errorf("attribute value = %q, want %q", toks[4].Text, "hello world")
	}
}

func TestAttributeValueWhitespaceNormalization(t *testing.T) {
	doc := "<a b=\"x\ty\nz\"/>"
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks, token.ElementStart, token.AttributeName, token.AttributeValue, token.ElementEnd, token.End)
	if string(toks[2].Text) != "x y z" {
		t.Errorf("normalized attribute value = %q, want %q", toks[2].Text, "x y z")
	}
}

func TestAttributeValueCharRefWhitespaceNotNormalized(t *testing.T) {
	// Unlike a literal tab/newline/CR byte, the same characters produced by
	// a numeric character reference are inserted verbatim: the attribute
	// value normalization algorithm only collapses whitespace it reads
	// literally off the input.
	doc := "<a b=\"x&#9;y&#10;z\"/>"
	toks := drain(t, newLexer(t, doc))
	requireKinds(t, toks, token.ElementStart, token.AttributeName, token.AttributeValue, token.ElementEnd, token.End)
	if want := "x\ty\nz"; string(toks[2].Text) != want {
		t.Errorf("attribute value = %q, want %q", toks[2].Text, want)
	}
}

func TestRecursiveEntityIsError(t *testing.T) {
	doc := `<!DOCTYPE a [<!ENTITY x "&x;">]><a>&x;</a>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token for recursive entity, got %v", kinds(toks))
	}
}

func TestUnknownEntityIsError(t *testing.T) {
	toks := drain(t, newLexer(t, `<a>&nosuch;</a>`))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token for unknown entity, got %v", kinds(toks))
	}
}

func TestExternalEntityInAttributeIsError(t *testing.T) {
	doc := `<!DOCTYPE a [<!ENTITY e SYSTEM "e.ent">]><a b="&e;"/>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token for external entity in attribute value, got %v", kinds(toks))
	}
}

func TestExternalInStandaloneIsError(t *testing.T) {
	doc := `<?xml version="1.0" standalone="yes"?><!DOCTYPE a [<!ENTITY e SYSTEM "e.ent">]><a>&e;</a>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token for external entity referenced in a standalone document, got %v", kinds(toks))
	}
}

func TestUnparsedEntityRefIsError(t *testing.T) {
	doc := `<!DOCTYPE a [<!NOTATION n SYSTEM "n"><!ENTITY e SYSTEM "e.png" NDATA n>]><a>&e;</a>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token for reference to an unparsed (NDATA) entity, got %v", kinds(toks))
	}
}

func TestParameterEntityInInternalSubsetDeclBodyIsError(t *testing.T) {
	// WFC: PEs in Internal Subset -- a parameter-entity reference inside a
	// markup declaration's body (here, inside an EntityValue literal) is
	// illegal within the internal subset.
	doc := `<!DOCTYPE a [<!ENTITY % pe "CDATA"><!ENTITY x "%pe;">]><a/>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token for parameter entity reference inside internal subset declaration body, got %v", kinds(toks))
	}
}

func TestParameterEntityAsDeclSepIsLegal(t *testing.T) {
	// A parameter-entity reference between declarations (not inside one) is
	// always legal, even in the internal subset.
	doc := `<!DOCTYPE a [<!ENTITY % pe '<!ENTITY y "z">'>%pe;]><a>&y;</a>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind == token.Error {
		t.Fatalf("unexpected Error for legal DeclSep-position parameter entity reference: %v", toks[len(toks)-1])
	}
	requireKinds(t, toks,
		token.DocTypeStart, token.DocTypeEnd,
		token.ElementStart, token.Text, token.ElementEnd, token.End)
	if string(toks[3].Text) != "z" {
		t.Errorf("entity declared via parameter-entity DeclSep not usable: got %q, want %q", toks[3].Text, "z")
	}
}

func TestUnknownParameterEntityIsError(t *testing.T) {
	doc := `<!DOCTYPE a [%nosuch;]><a/>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind != token.Error {
		t.Fatalf("expected Error token for unknown parameter entity, got %v", kinds(toks))
	}
}

func TestStickyErrorRepeats(t *testing.T) {
	l := newLexer(t, `<a></b>`)
	first := drain(t, l)
	errTok := first[len(first)-1]
	if errTok.Kind != token.Error {
		t.Fatalf("expected Error token, got %v", kinds(first))
	}
	second := l.NextToken()
	if second.Kind != token.Error || string(second.Text) != string(errTok.Text) {
		t.Errorf("sticky error did not repeat: first=%v second=%v", errTok, second)
	}
}

func TestStickyEndRepeats(t *testing.T) {
	l := newLexer(t, `<a/>`)
	drain(t, l)
	second := l.NextToken()
	if second.Kind != token.End {
		t.Errorf("sticky End did not repeat: %v", second)
	}
}

func TestErrReturnsUnderlyingError(t *testing.T) {
	l := newLexer(t, `<a></b>`)
	drain(t, l)
	if err := l.Err(); err == nil {
		t.Error("Err() returned nil after a syntax error")
	}
}

func TestErrNilBeforeFailure(t *testing.T) {
	l := newLexer(t, `<a/>`)
	if err := l.Err(); err != nil {
		t.Errorf("Err() = %v before any failure, want nil", err)
	}
}

func TestCommentInsideInternalSubset(t *testing.T) {
	doc := `<!DOCTYPE a [<!-- a comment --><!ENTITY x "y">]><a>&x;</a>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind == token.Error {
		t.Fatalf("unexpected error with a comment in the internal subset: %v", last)
	}
}

func TestAttlistAndElementDeclsAreSkipped(t *testing.T) {
	doc := `<!DOCTYPE a [<!ELEMENT a (#PCDATA)><!ATTLIST a id CDATA #IMPLIED>]><a/>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind != token.End {
		t.Fatalf("expected clean End after skipping ELEMENT/ATTLIST declarations, got %v", kinds(toks))
	}
}

func TestQuotedGreaterThanInAttlistDoesNotEndDecl(t *testing.T) {
	doc := `<!DOCTYPE a [<!ATTLIST a id CDATA ">">]><a/>`
	toks := drain(t, newLexer(t, doc))
	last := toks[len(toks)-1]
	if last.Kind != token.End {
		t.Fatalf("quoted '>' inside ATTLIST default value should not terminate the declaration: got %v", kinds(toks))
	}
}
