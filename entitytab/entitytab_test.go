package entitytab_test

import (
	"testing"

	"github.com/db47h/xmlpull/entitytab"
)

func TestNewPredefined(t *testing.T) {
	tab := entitytab.New()
	for _, name := range []string{"lt", "gt", "amp", "apos", "quot"} {
		g, _, found := tab.LookupGeneral(name)
		if !found {
			t.Fatalf("predefined entity %q not found", name)
		}
		if g == nil || g.Text == "" {
			t.Fatalf("predefined entity %q has no replacement text", name)
		}
	}
}

func TestDeclareInternalGeneralFirstWins(t *testing.T) {
	tab := entitytab.New()
	tab.DeclareInternalGeneral("foo", "first", false)
	tab.DeclareInternalGeneral("foo", "second", false)

	g, _, found := tab.LookupGeneral("foo")
	if !found {
		t.Fatal("entity foo not found")
	}
	if g.Text != "first" {
		t.Errorf("Text = %q, want %q (first declaration should win)", g.Text, "first")
	}
}

func TestDeclareGeneralCrossTableWins(t *testing.T) {
	tab := entitytab.New()
	tab.DeclareInternalGeneral("bar", "internal text", false)
	tab.DeclareExternalGeneral("bar", entitytab.ExternalGeneral{SystemID: "bar.ent"})

	internal, external, found := tab.LookupGeneral("bar")
	if !found || internal == nil || external != nil {
		t.Fatalf("expected internal declaration to win, got internal=%v external=%v found=%v", internal, external, found)
	}
}

func TestLookupGeneralNotFound(t *testing.T) {
	tab := entitytab.New()
	_, _, found := tab.LookupGeneral("nosuch")
	if found {
		t.Error("LookupGeneral for undeclared name reported found")
	}
}

func TestParameterTables(t *testing.T) {
	tab := entitytab.New()
	tab.DeclareInternalParameter("p", "replacement")
	tab.DeclareExternalParameter("q", entitytab.ExternalParameter{SystemID: "q.dtd"})

	text, ext, found := tab.LookupParameter("p")
	if !found || text != "replacement" || ext != nil {
		t.Errorf("LookupParameter(p) = %q, %v, %v", text, ext, found)
	}

	text, ext, found = tab.LookupParameter("q")
	if !found || text != "" || ext == nil || ext.SystemID != "q.dtd" {
		t.Errorf("LookupParameter(q) = %q, %v, %v", text, ext, found)
	}

	// Re-declaring an already-known parameter name is a no-op.
	tab.DeclareInternalParameter("p", "ignored")
	text, _, _ = tab.LookupParameter("p")
	if text != "replacement" {
		t.Errorf("second declaration overwrote first: got %q", text)
	}
}

func TestExternalGeneralUnparsed(t *testing.T) {
	parsed := entitytab.ExternalGeneral{SystemID: "a.xml"}
	unparsed := entitytab.ExternalGeneral{SystemID: "a.png", NDATA: "png"}
	if parsed.Unparsed() {
		t.Error("entity with no NDATA reported Unparsed() == true")
	}
	if !unparsed.Unparsed() {
		t.Error("entity with NDATA reported Unparsed() == false")
	}
}
