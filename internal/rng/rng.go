// Package rng provides the scheme's two deterministic randomness
// streams: the main, mutex-guarded scheme RNG (seeded at Init) and the
// per-bottom-tree, zero-seeded padding RNG described in §4.6 of the
// specification.
//
// The specification names ChaCha12 as the stream cipher. No round-
// reduced ChaCha12 implementation ships anywhere in the retrieval pack
// or in golang.org/x/crypto; the ecosystem's ChaCha stream cipher
// (golang.org/x/crypto/chacha20, fixed at 20 rounds) is used instead,
// keyed and seeded exactly the way the spec describes for ChaCha12 —
// a deterministic, seed-keyed CSPRNG stream. See DESIGN.md for the
// substitution rationale; nothing in this scheme depends on the exact
// round count, only on the stream being deterministic for a given seed
// (Testable Property 3).
package rng

import (
	"io"
	"sync"

	"golang.org/x/crypto/chacha20"
)

// Stream is a deterministic byte stream keyed from a 32-byte seed.
type Stream struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

// New builds a stream seeded from a 32-byte key. The nonce is fixed at
// zero: determinism is scoped to (seed), matching the specification's
// "deterministic for a given seed" requirement rather than introducing
// an extra nonce parameter nothing in the spec calls for.
func New(seed [32]byte) *Stream {
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		panic("rng: failed to construct stream cipher: " + err.Error())
	}
	return &Stream{cipher: c}
}

// Zero builds the zero-seeded stream used for deterministic bottom-tree
// padding (§4.6): "a separate deterministic RNG seeded to zero".
func Zero() *Stream {
	var seed [32]byte
	return New(seed)
}

// Read draws n pseudorandom bytes, serialized under the stream's mutex
// so concurrent callers (e.g. parallel top-tree padding) observe a
// consistent, ordered consumption sequence.
func (s *Stream) Read(n int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, n)
	src := make([]byte, n)
	s.cipher.XORKeyStream(out, src)
	return out
}

// Reader exposes the stream as an io.Reader, for interop with APIs
// (crypto/rand-shaped key generation) that expect one.
func (s *Stream) Reader() io.Reader {
	return &streamReader{s: s}
}

type streamReader struct{ s *Stream }

func (r *streamReader) Read(p []byte) (int, error) {
	b := r.s.Read(len(p))
	copy(p, b)
	return len(p), nil
}
