package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainApiFile = "frbgen/apifile/v1"
	DomainSource  = "frbgen/source/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FileHash computes the content-addressed identity of an ApiFile.
// Two files with the same functions (in the same order) and the same pool
// hash identically regardless of map iteration order.
func FileHash(f *ApiFile) (string, error) {
	if f == nil {
		return "", fmt.Errorf("FileHash: nil file")
	}
	canonical, err := MarshalCanonical(f)
	if err != nil {
		return "", fmt.Errorf("FileHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainApiFile, canonical), nil
}

// SourceHash computes the identity of raw source bytes. Used as a cache key.
func SourceHash(content []byte) string {
	return hashWithDomain(DomainSource, content)
}

// MustFileHash is like FileHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFileHash(f *ApiFile) string {
	hash, err := FileHash(f)
	if err != nil {
		panic(err)
	}
	return hash
}
