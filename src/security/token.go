package security

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// TokensMatch reports whether the presented passphrase equals the stored token.
// Equality is exact; the comparison time does not depend on where the strings differ.
func TokensMatch(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// Fingerprint is a BLAKE2b-256 digest over the config id, the receive time and the
// stored payload bytes, hex encoded.
func Fingerprint(configID string, receivedAt time.Time, payload []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(configID))
	h.Write([]byte{0})
	h.Write([]byte(receivedAt.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

var sensitiveKeys = map[string]struct{}{
	"passphrase": {},
	"password":   {},
	"secret":     {},
	"key":        {},
	"token":      {},
	"api_key":    {},
}

const redacted = "[REDACTED]"

// SanitizePayload returns a copy of v that is safe to log: values under
// sensitive keys are replaced at any depth.
func SanitizePayload(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				out[k] = redacted
				continue
			}
			out[k] = SanitizePayload(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = SanitizePayload(val)
		}
		return out
	default:
		return v
	}
}
