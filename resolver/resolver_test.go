package resolver_test

import (
	"path/filepath"
	"testing"

	"github.com/db47h/xmlpull/resolver"
)

func TestDefaultResolveRelative(t *testing.T) {
	var r resolver.Resolver = resolver.Default{}
	got, err := r.Resolve("/docs/main.xml", "-//Ignored//", "entities/foo.ent")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	want := filepath.Join("/docs", "entities/foo.ent")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestDefaultResolveAbsolute(t *testing.T) {
	var r resolver.Resolver = resolver.Default{}
	got, err := r.Resolve("/docs/main.xml", "", "/etc/entities/foo.ent")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "/etc/entities/foo.ent" {
		t.Errorf("Resolve() = %q, want absolute systemID unchanged", got)
	}
}

func TestDefaultResolveIgnoresPublicID(t *testing.T) {
	r := resolver.Default{}
	withPublic, _ := r.Resolve("/docs/main.xml", "-//Some//Public//ID", "foo.ent")
	withoutPublic, _ := r.Resolve("/docs/main.xml", "", "foo.ent")
	if withPublic != withoutPublic {
		t.Errorf("Default resolver result changed with publicID: %q vs %q", withPublic, withoutPublic)
	}
}
