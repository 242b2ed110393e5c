package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns a hex SHA-256 fingerprint of an uploaded document.
func ContentHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
