package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestLength is the length of a hex-encoded SHA-256 digest
const DigestLength = sha256.Size * 2

// ContentDigest returns the lowercase hex SHA-256 of content.
// Used as the whole-file fingerprint for structures and documents.
func ContentDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
