// Package checksum fingerprints document contents for change detection.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Changed reports whether data no longer hashes to previous.
// An empty previous value always counts as changed.
func Changed(data []byte, previous string) bool {
	return previous == "" || Sum(data) != previous
}
