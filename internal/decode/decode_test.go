package decode_test

import (
	"bytes"
	"testing"

	"github.com/db47h/xmlpull/internal/decode"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name       string
		peek       []byte
		wantKind   decode.Kind
		wantConsume int
	}{
		{"utf8 BOM", []byte{0xEF, 0xBB, 0xBF, 0x3C}, decode.None, 3},
		{"utf32 BE BOM", []byte{0x00, 0x00, 0xFE, 0xFF}, decode.UTF32BE, 4},
		{"utf32 LE BOM", []byte{0xFF, 0xFE, 0x00, 0x00}, decode.UTF32LE, 4},
		{"utf16 BE BOM", []byte{0xFE, 0xFF, 0x3C, 0x00}, decode.UTF16BE, 2},
		{"utf16 LE BOM", []byte{0xFF, 0xFE, 0x3C, 0x00}, decode.UTF16LE, 2},
		{"utf32 BE no BOM", []byte{0x00, 0x00, 0x00, 0x3C}, decode.UTF32BE, 0},
		{"utf32 LE no BOM", []byte{0x3C, 0x00, 0x00, 0x00}, decode.UTF32LE, 0},
		{"utf16 BE no BOM", []byte{0x00, 0x3C, 0x00, 0x3F}, decode.UTF16BE, 0},
		{"utf16 LE no BOM", []byte{0x3C, 0x00, 0x3F, 0x00}, decode.UTF16LE, 0},
		{"ebcdic", []byte{0x4C, 0x6F, 0xA7, 0x94}, decode.EBCDIC, 0},
		{"plain ascii", []byte{0x3C, 0x3F, 0x78, 0x6D}, decode.None, 0},
		{"too short", []byte{0x3C}, decode.None, 0},
		{"empty", nil, decode.None, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, consume := decode.Sniff(tt.peek)
			if kind != tt.wantKind || consume != tt.wantConsume {
				t.Errorf("Sniff(%x) = (%v, %d), want (%v, %d)", tt.peek, kind, consume, tt.wantKind, tt.wantConsume)
			}
		})
	}
}

func TestPassthroughDecoder(t *testing.T) {
	d := decode.New(decode.None)
	for _, b := range []byte("hello") {
		out := d.Push(b)
		if len(out) != 1 || out[0] != b {
			t.Fatalf("passthrough Push(%q) = %v, want [%q]", b, out, b)
		}
	}
}

func TestUTF16LERoundTrip(t *testing.T) {
	d := decode.New(decode.UTF16LE)
	// "Hi" in UTF-16LE.
	input := []byte{'H', 0x00, 'i', 0x00}
	var got []byte
	for _, b := range input {
		got = append(got, d.Push(b)...)
	}
	if !bytes.Equal(got, []byte("Hi")) {
		t.Errorf("UTF-16LE decode = %q, want %q", got, "Hi")
	}
}

func TestUTF32BERoundTrip(t *testing.T) {
	d := decode.New(decode.UTF32BE)
	// 'A' (U+0041) in UTF-32BE.
	input := []byte{0x00, 0x00, 0x00, 0x41}
	var got []byte
	for _, b := range input {
		got = append(got, d.Push(b)...)
	}
	if !bytes.Equal(got, []byte("A")) {
		t.Errorf("UTF-32BE decode = %q, want %q", got, "A")
	}
}

func TestEBCDICRoundTrip(t *testing.T) {
	d := decode.New(decode.EBCDIC)
	// 0xC1 is 'A' in EBCDIC code page 037.
	got := d.Push(0xC1)
	if !bytes.Equal(got, []byte("A")) {
		t.Errorf("EBCDIC decode of 0xC1 = %q, want %q", got, "A")
	}
}

func TestKindString(t *testing.T) {
	tests := map[decode.Kind]string{
		decode.None:    "none",
		decode.UTF16LE: "UTF-16LE",
		decode.EBCDIC:  "EBCDIC",
		decode.Kind(99): "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestSupported(t *testing.T) {
	for _, name := range []string{"UTF-8", "utf8", "", "UTF-16", "utf-32be", "EBCDIC"} {
		if !decode.Supported(name) {
			t.Errorf("Supported(%q) = false, want true", name)
		}
	}
	if decode.Supported("shift-jis") {
		t.Error("Supported(\"shift-jis\") = true, want false")
	}
}
