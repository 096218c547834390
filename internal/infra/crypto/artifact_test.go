package crypto

import (
	"strings"
	"testing"
)

func TestContentAddressStable(t *testing.T) {
	first, err := ContentAddress("application/zip", []byte("archive-bytes"))
	if err != nil {
		t.Fatalf("content address: %v", err)
	}
	second, err := ContentAddress("application/zip", []byte("archive-bytes"))
	if err != nil {
		t.Fatalf("content address: %v", err)
	}
	if first != second {
		t.Fatalf("expected stable address, got %s vs %s", first, second)
	}
	if len(first) != 64 || first != strings.ToLower(first) {
		t.Fatalf("expected 64-char lowercase hex address, got %q", first)
	}
}

func TestContentAddressDistinguishesBytes(t *testing.T) {
	a, err := ContentAddress("audio/flac", []byte("take-one"))
	if err != nil {
		t.Fatalf("content address: %v", err)
	}
	b, err := ContentAddress("audio/flac", []byte("take-two"))
	if err != nil {
		t.Fatalf("content address: %v", err)
	}
	if a == b {
		t.Fatalf("expected different addresses for different bytes")
	}
}

func TestContentAddressTextNormalizesLineEndings(t *testing.T) {
	crlf, err := ContentAddress("text/plain", []byte("01 opener\r\n02 encore\r\n"))
	if err != nil {
		t.Fatalf("content address: %v", err)
	}
	lf, err := ContentAddress("text/plain", []byte("01 opener\n02 encore\n"))
	if err != nil {
		t.Fatalf("content address: %v", err)
	}
	if crlf != lf {
		t.Fatalf("expected identical address after CRLF normalization")
	}
}

func TestContentAddressRejectsBadMediaType(t *testing.T) {
	if _, err := ContentAddress("", []byte("x")); err == nil {
		t.Fatalf("expected error for empty media type")
	}
	if _, err := ContentAddress("video/mp4", []byte("x")); err == nil {
		t.Fatalf("expected error for unsupported media type")
	}
}

func TestContentAddressMediaTypeParameters(t *testing.T) {
	plain, err := ContentAddress("audio/flac", []byte("x"))
	if err != nil {
		t.Fatalf("content address: %v", err)
	}
	withParams, err := ContentAddress("Audio/FLAC; charset=binary", []byte("x"))
	if err != nil {
		t.Fatalf("content address: %v", err)
	}
	if plain != withParams {
		t.Fatalf("expected media type parameters to be ignored")
	}
}
