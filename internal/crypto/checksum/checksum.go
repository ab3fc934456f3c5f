// Package checksum computes the four byte double SHA-256 checksum that
// base58check appends to a payload.
package checksum

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Size is the number of checksum bytes appended to a base58check payload.
const Size = 4

// Sum returns the first Size bytes of SHA-256(SHA-256(data)).
func Sum(data []byte) [Size]byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])

	var out [Size]byte
	copy(out[:], second[:Size])
	return out
}

// Append returns data followed by its checksum.
func Append(data []byte) []byte {
	sum := Sum(data)
	out := make([]byte, 0, len(data)+Size)
	out = append(out, data...)
	return append(out, sum[:]...)
}

// Verify checks if c is the checksum of data.
func Verify(c []byte, data []byte) bool {
	if len(c) != Size {
		return false
	}
	sum := Sum(data)
	return subtle.ConstantTimeCompare(sum[:], c) == 1
}

// Split separates a checked buffer into payload and checksum and verifies
// them. It reports false when b is too short or the checksum mismatches.
func Split(b []byte) ([]byte, bool) {
	if len(b) < Size {
		return nil, false
	}
	payload, c := b[:len(b)-Size], b[len(b)-Size:]
	if !Verify(c, payload) {
		return nil, false
	}
	return payload, true
}
