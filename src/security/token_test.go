package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensMatch(t *testing.T) {
	assert.True(t, TokensMatch("abc123xyz789", "abc123xyz789"))
	assert.False(t, TokensMatch("abc123xyz789", "wrong"))
	assert.False(t, TokensMatch("abc123xyz789", "ABC123XYZ789"))
	assert.False(t, TokensMatch("abc123xyz789", "abc123xyz789 "))
	assert.False(t, TokensMatch("abc123xyz789", ""))
}

func TestFingerprint(t *testing.T) {
	at := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	payload := []byte(`{"ticker":"AAPL"}`)

	fp := Fingerprint("abc123", at, payload)
	require.Len(t, fp, 64)

	assert.Equal(t, fp, Fingerprint("abc123", at.In(time.FixedZone("X", 3600)), payload))
	assert.NotEqual(t, fp, Fingerprint("abc124", at, payload))
	assert.NotEqual(t, fp, Fingerprint("abc123", at.Add(time.Nanosecond), payload))
	assert.NotEqual(t, fp, Fingerprint("abc123", at, []byte(`{"ticker":"MSFT"}`)))
}

func TestSanitizePayload(t *testing.T) {
	in := map[string]any{
		"passphrase": "abc123xyz789",
		"ticker":     "AAPL",
		"meta": map[string]any{
			"API_KEY": "k",
			"legs":    []any{map[string]any{"token": "t", "qty": 1}},
		},
	}

	out := SanitizePayload(in).(map[string]any)

	assert.Equal(t, "[REDACTED]", out["passphrase"])
	assert.Equal(t, "AAPL", out["ticker"])
	meta := out["meta"].(map[string]any)
	assert.Equal(t, "[REDACTED]", meta["API_KEY"])
	leg := meta["legs"].([]any)[0].(map[string]any)
	assert.Equal(t, "[REDACTED]", leg["token"])
	assert.Equal(t, 1, leg["qty"])

	assert.Equal(t, "abc123xyz789", in["passphrase"], "input must not be mutated")
}
