package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the provider's HMAC of the raw request body.
const SignatureHeader = "X-Provider-Signature"

// VerifySignature checks an inbound webhook body against its signature.
//
// The check must run over the raw, unparsed bytes: re-serializing the JSON
// can change whitespace and key order and silently break verification.
// Missing header or secret fails closed.
func VerifySignature(rawBody []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	want := Sign(rawBody, secret)
	return hmac.Equal([]byte(want), []byte(signature))
}

// Sign computes the hex HMAC-SHA256 the provider sends. Exported for tests
// and local tooling that replays captured events.
func Sign(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
