// Package prf implements the scheme's two SHAKE128-based expansions:
// deterministic hash-chain starting points (domain elements) and
// per-epoch signing randomness, both per §4.3 of the specification.
// Generalizes the teacher's internal/prf/shake_to_field.go, but corrects
// its shortcut (plain `% p` on a 64-bit SHAKE chunk) to the rejection
// sampling on 32-bit little-endian chunks the specification requires,
// avoiding the small modulo bias a naive reduction introduces.
package prf

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
)

// labelDomainStart and labelRandomness distinguish the two expansions
// fed into SHAKE128, so that a domain-start output can never collide
// with a randomness output for the same (epoch, index/counter).
var (
	labelDomainStart = []byte{0xae, 0xae, 0x22, 0xff, 0x00, 0x01, 0xfa, 0xff}
	labelRandomness  = []byte{0x21, 0xaf, 0x12, 0x00, 0x01, 0x11, 0xff, 0x00}
)

// rejectBound is the largest multiple of P not exceeding 2^32; 32-bit
// chunks at or above it are rejected to avoid modulo bias.
var rejectBound = (uint64(1) << 32) / field.P * field.P

// KeyGen draws a fresh 32-byte PRF key from rng.
func KeyGen(rng io.Reader) [32]byte {
	var key [32]byte
	if _, err := io.ReadFull(rng, key[:]); err != nil {
		panic("prf: failed to generate key: " + err.Error())
	}
	return key
}

// DomainStart computes PRF(prfKey, epoch, index) -> domain element,
// feeding prf_key || epoch_le || index_le || label into SHAKE128 and
// rejection-sampling hashFE field elements.
func DomainStart(prfKey []byte, epoch uint32, index uint64, hashFE int) domain.Element {
	fe := expand(prfKey, epoch, index, nil, labelDomainStart, hashFE)
	return domain.FromSlice(fe)
}

// Randomness computes get_randomness(prf_key, epoch, message, counter):
// a parallel construction with a distinct label, the message folded in
// directly and the encoding counter carried in the per-epoch index slot.
func Randomness(prfKey []byte, epoch uint32, message []byte, counter uint32, randFE int) []field.Element {
	return expand(prfKey, epoch, uint64(counter), message, labelRandomness, randFE)
}

// expand rejection-samples n field elements out of a SHAKE128 stream
// seeded by prf_key || epoch_le || index_le || extra || label.
func expand(prfKey []byte, epoch uint32, index uint64, extra []byte, label []byte, n int) []field.Element {
	shake := sha3.NewShake128()
	shake.Write(prfKey)

	var epochBytes [4]byte
	binary.LittleEndian.PutUint32(epochBytes[:], epoch)
	shake.Write(epochBytes[:])

	var indexBytes [8]byte
	binary.LittleEndian.PutUint64(indexBytes[:], index)
	shake.Write(indexBytes[:])

	if len(extra) > 0 {
		shake.Write(extra)
	}

	shake.Write(label)

	out := make([]field.Element, n)
	var chunk [4]byte
	for i := 0; i < n; {
		if _, err := io.ReadFull(shake, chunk[:]); err != nil {
			panic("prf: shake read failed: " + err.Error())
		}
		v := uint64(binary.LittleEndian.Uint32(chunk[:]))
		if v >= rejectBound {
			continue
		}
		out[i] = field.FromCanonical(uint32(v % field.P))
		i++
	}
	return out
}
