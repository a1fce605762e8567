package skylink

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func testRoot(fill byte) [MerkleRootSize]byte {
	var root [MerkleRootSize]byte
	for i := range root {
		root[i] = fill
	}
	return root
}

func TestRoundTripBytes(t *testing.T) {
	link := NewV1(testRoot(0xAB))
	raw := link.Bytes()
	if len(raw) != RawSize {
		t.Fatalf("Bytes length: got %d want %d", len(raw), RawSize)
	}
	got, err := FromBytes(raw)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got != link {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, link)
	}
}

func TestRoundTripString(t *testing.T) {
	link := NewResolver(testRoot(0x07))
	str := link.String()
	if len(str) != Base64Size {
		t.Fatalf("String length: got %d want %d", len(str), Base64Size)
	}
	got, err := Parse(str)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != link {
		t.Fatalf("round trip mismatch")
	}
}

func TestParsePrefixAndSuffix(t *testing.T) {
	link := NewV1(testRoot(0x11))
	str := link.String()

	for _, in := range []string{
		str,
		URIPrefix + str,
		str + "/path/to/file",
		str + "?attachment=true",
		URIPrefix + str + "/index.html",
	} {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != link {
			t.Fatalf("Parse(%q) mismatch", in)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	link := NewV1(testRoot(0x22))
	str := link.String()

	for _, in := range []string{
		"",
		str[:Base64Size-1],
		str + "x",
		strings.Repeat("!", Base64Size),
	} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q): expected error", in)
		}
	}
	if _, err := Parse(strings.Repeat("!", Base64Size)); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
	if _, err := FromBytes(make([]byte, RawSize+1)); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestBase32RoundTrip(t *testing.T) {
	link := NewV1(testRoot(0x5C))
	str := link.Base32()
	if len(str) != Base32Size {
		t.Fatalf("Base32 length: got %d want %d", len(str), Base32Size)
	}
	if str != strings.ToLower(str) {
		t.Fatalf("Base32 not lowercase: %q", str)
	}
	got, err := ParseBase32(str)
	if err != nil {
		t.Fatalf("ParseBase32: %v", err)
	}
	if got != link {
		t.Fatalf("base32 round trip mismatch")
	}
}

func TestVersion(t *testing.T) {
	v1 := NewV1(testRoot(1))
	if v1.Version() != 1 || v1.IsResolver() {
		t.Fatalf("v1 link misclassified: version=%d", v1.Version())
	}
	v2 := NewResolver(testRoot(1))
	if v2.Version() != 2 || !v2.IsResolver() {
		t.Fatalf("v2 link misclassified: version=%d", v2.Version())
	}
}

func TestEmptySentinel(t *testing.T) {
	var empty Skylink
	if !empty.IsEmpty() {
		t.Fatalf("zero value should be empty")
	}
	if !bytes.Equal(empty.Bytes(), make([]byte, RawSize)) {
		t.Fatalf("empty skylink bytes should be all zero")
	}
	if NewV1(testRoot(1)).IsEmpty() {
		t.Fatalf("non-zero root should not be empty")
	}
	if NewResolver(testRoot(0)).IsEmpty() {
		t.Fatalf("v2 bitfield should not be empty")
	}
}
