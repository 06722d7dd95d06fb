// Package coinbase implements the Coinbase Commerce webhook contract: payload
// shapes and HMAC signature verification over the raw request body.
package coinbase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the raw body.
const SignatureHeader = "X-Cc-Webhook-Signature"

type Verifier struct {
	secret []byte
}

func NewVerifier(sharedSecret string) *Verifier {
	return &Verifier{secret: []byte(sharedSecret)}
}

// Verify checks the signature against the exact raw body bytes. The body must
// not be re-serialized before this call; any reordering of JSON keys breaks
// the digest.
func (v *Verifier) Verify(rawBody []byte, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawBody)
	want := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(want), []byte(strings.ToLower(signature)))
}
