package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Service computes content addresses for uploaded archives. The address is
// the sha256 of the canonicalized bytes, hex encoded.
type Service struct{}

func (Service) ContentAddress(mediaType string, input []byte) (string, error) {
	return ContentAddress(mediaType, input)
}

func ContentAddress(mediaType string, input []byte) (string, error) {
	canonical, err := Canonicalize(mediaType, input)
	if err != nil {
		return "", err
	}
	return sha256Hex(canonical), nil
}

// Canonicalize prepares bytes for hashing. Archive and audio payloads hash
// as-is; text sidecars (setlists, info files) get line endings normalized
// so the address survives platform round trips.
func Canonicalize(mediaType string, input []byte) ([]byte, error) {
	baseType := normalizeMediaType(mediaType)
	if baseType == "" {
		return nil, errors.New("invalid media type")
	}

	switch {
	case baseType == "text/plain":
		return canonicalizeText(input)
	case strings.HasPrefix(baseType, "audio/"),
		baseType == "application/zip",
		baseType == "application/x-tar",
		baseType == "application/gzip",
		baseType == "application/octet-stream":
		return input, nil
	default:
		return nil, fmt.Errorf("unsupported media type: %s", baseType)
	}
}

func sha256Hex(input []byte) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}

func canonicalizeText(input []byte) ([]byte, error) {
	if !utf8.Valid(input) {
		return nil, errors.New("invalid UTF-8")
	}
	return bytes.ReplaceAll(input, []byte("\r\n"), []byte("\n")), nil
}

func normalizeMediaType(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return ""
	}
	parts := strings.SplitN(mediaType, ";", 2)
	return strings.ToLower(strings.TrimSpace(parts[0]))
}
