// Package document derives content-addressed identifiers for rendered
// documents and persists their bytes for later verification.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// idLength is the truncated hex length of the digest. 12 hex characters is
// enough entropy for the expected volume; the id is a convenience handle,
// not a uniqueness guarantee, and a collision silently overwrites.
const idLength = 12

// Derive computes the deterministic identifier of a caller-supplied payload,
// before any verification fields are injected. encoding/json marshals map
// keys in sorted order, so the serialization is canonical with respect to
// key insertion order.
func Derive(payload map[string]interface{}) (string, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize payload for identity: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])[:idLength], nil
}
