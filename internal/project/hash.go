package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256-битный хеш (совместим с source.File.Hash).
type Digest [32]byte

// Sum hashes raw bytes.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// Combine builds a module hash: H(content || dep1 || dep2 ...).
// deps must come in a deterministic order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Short is the first 6 bytes in hex, enough for listings.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:6])
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
