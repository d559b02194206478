package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainOperation = "cilsym/operation/v1"
	DomainStream    = "cilsym/opstream/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// OperationHash computes the content hash of a single operation record.
func OperationHash(op OperationInfo) (string, error) {
	canonical, err := MarshalCanonical(op.Canonical())
	if err != nil {
		return "", fmt.Errorf("OperationHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainOperation, canonical), nil
}

// StreamDigest computes the content hash of a whole operation stream.
// Two compilations of the same body with the same signature produce the
// same digest, since temporary names come from a per-compilation counter.
func StreamDigest(ops []OperationInfo) (string, error) {
	canonical, err := MarshalStream(ops)
	if err != nil {
		return "", fmt.Errorf("StreamDigest: %w", err)
	}
	return hashWithDomain(DomainStream, canonical), nil
}

// MarshalStream renders an operation stream as one canonical JSON array.
func MarshalStream(ops []OperationInfo) ([]byte, error) {
	arr := make([]any, len(ops))
	for i, op := range ops {
		arr[i] = op.Canonical()
	}
	return MarshalCanonical(arr)
}
