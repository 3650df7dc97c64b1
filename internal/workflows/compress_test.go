package workflows

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	plaintext := []byte("account numbers and access codes\n" + strings.Repeat("pentimento ", 64))

	compressed, err := compressSecret(plaintext)
	if err != nil {
		t.Fatalf("compressSecret failed: %v", err)
	}

	got, err := decompressSecret(compressed)
	if err != nil {
		t.Fatalf("decompressSecret failed: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Error("Plaintext does not round-trip through compression")
	}
}

func TestCompressShrinksRepetitiveData(t *testing.T) {
	plaintext := bytes.Repeat([]byte("the same line over and over\n"), 256)

	compressed, err := compressSecret(plaintext)
	if err != nil {
		t.Fatalf("compressSecret failed: %v", err)
	}
	if len(compressed) >= len(plaintext) {
		t.Errorf("Compressed size %d is not smaller than input %d", len(compressed), len(plaintext))
	}
}

func TestCompressEmptyInput(t *testing.T) {
	compressed, err := compressSecret(nil)
	if err != nil {
		t.Fatalf("compressSecret failed: %v", err)
	}

	got, err := decompressSecret(compressed)
	if err != nil {
		t.Fatalf("decompressSecret failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty output, got %d bytes", len(got))
	}
}

func TestDecompressGarbage(t *testing.T) {
	if _, err := decompressSecret([]byte{0x01, 0x02}); err == nil {
		t.Error("Expected error decompressing garbage")
	}
}
