package schema

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// AckLen is the number of fingerprint hex characters an operator must supply
// to acknowledge an apply.
const AckLen = 12

// Fingerprint returns the sha256 hex digest of the model's canonical JSON
// encoding. Struct field order makes the encoding stable, so the same model
// always yields the same fingerprint.
func Fingerprint(m *Model) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode meta-model: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(b)), nil
}

// AckPrefix returns the short fingerprint prefix used as the acknowledgment
// token for the safety gate.
func AckPrefix(fingerprint string) string {
	if len(fingerprint) <= AckLen {
		return fingerprint
	}
	return fingerprint[:AckLen]
}
