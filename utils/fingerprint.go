package utils

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// IPFingerprinter derives one-way fingerprints from client addresses so that
// raw IPs are never persisted. The keyed BLAKE2b-256 construction keeps the
// mapping stable per deployment but unguessable without the key.
type IPFingerprinter struct {
	key []byte
}

// NewIPFingerprinter builds a fingerprinter from the deployment secret.
// BLAKE2b accepts keys up to 64 bytes.
func NewIPFingerprinter(secret string) (*IPFingerprinter, error) {
	if secret == "" {
		return nil, fmt.Errorf("ip fingerprint secret must not be empty")
	}
	if len(secret) > 64 {
		return nil, fmt.Errorf("ip fingerprint secret must be at most 64 bytes")
	}
	return &IPFingerprinter{key: []byte(secret)}, nil
}

// Fingerprint hashes a client address into a hex digest.
func (f *IPFingerprinter) Fingerprint(addr string) string {
	h, err := blake2b.New256(f.key)
	if err != nil {
		// Key length is validated at construction; New256 cannot fail here.
		panic(err)
	}
	h.Write([]byte(addr))
	return hex.EncodeToString(h.Sum(nil))
}
