package discord

import (
	"crypto/ed25519"
	"encoding/hex"
)

// Verify reports whether signature is a valid Ed25519 signature of
// timestamp||body under publicKey. The key and signature are hex-encoded.
//
// Any malformed input is reported as a verification failure: the caller
// cannot distinguish a forged signature from a garbled one, so a rejection
// leaks nothing about why the request was rejected. The body must be the
// exact bytes received on the wire, not a re-serialized form.
func Verify(publicKey, signature, timestamp string, body []byte) bool {
	key, err := hex.DecodeString(publicKey)
	if err != nil || len(key) != ed25519.PublicKeySize {
		return false
	}

	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	// Reject non-canonical S values before handing off to Verify.
	if sig[63]&224 != 0 {
		return false
	}

	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, []byte(timestamp)...)
	message = append(message, body...)

	return ed25519.Verify(ed25519.PublicKey(key), message, sig)
}
