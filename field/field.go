// Package field implements the KoalaBear prime field using gnark-crypto.
package field

import (
	"encoding/binary"
	"math/big"

	"github.com/consensys/gnark-crypto/field/koalabear"
)

// KoalaBear prime: 2^31 - 2^24 + 1 = 2130706433
const P uint64 = 2130706433

// Element represents a field element in KoalaBear, stored internally in
// Montgomery form by gnark-crypto. Every public operation on the
// underlying type preserves the invariant that the Montgomery
// representation stays below P.
type Element = koalabear.Element

// FromCanonical builds an element from a canonical (non-Montgomery) u32.
func FromCanonical(v uint32) Element {
	var e Element
	e.SetUint64(uint64(v))
	return e
}

// FromU32 is an alias for FromCanonical, matching call sites that think
// in terms of raw u32 PRF/tweak inputs.
func FromU32(v uint32) Element { return FromCanonical(v) }

// ToCanonical Montgomery-reduces e back to a canonical u32.
func ToCanonical(e Element) uint32 {
	return uint32(e.Uint64())
}

// Zero returns the zero element.
func Zero() Element { return koalabear.NewElement(0) }

// One returns the one element.
func One() Element { return koalabear.NewElement(1) }

// Add returns a + b.
func Add(a, b Element) Element {
	var r Element
	r.Add(&a, &b)
	return r
}

// Sub returns a - b.
func Sub(a, b Element) Element {
	var r Element
	r.Sub(&a, &b)
	return r
}

// Mul returns a * b.
func Mul(a, b Element) Element {
	var r Element
	r.Mul(&a, &b)
	return r
}

// Neg returns -a.
func Neg(a Element) Element {
	var r Element
	r.Neg(&a)
	return r
}

// Equal reports whether a and b are the same field element.
func Equal(a, b Element) bool { return a.Equal(&b) }

// FromBytes decodes a 4-byte little-endian Montgomery representation,
// per the wire format fixed in §6 of the specification. A value at or
// above P is reduced modulo P so the stored form stays below P.
func FromBytes(b []byte) Element {
	var e Element
	e[0] = binary.LittleEndian.Uint32(b[:4]) % uint32(P)
	return e
}

// ToBytes encodes e as 4 little-endian bytes of its Montgomery
// representation.
func ToBytes(e Element) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], e[0])
	return b[:]
}

// ToBigInt converts e to its canonical big.Int representation.
func ToBigInt(e Element) *big.Int {
	return e.BigInt(new(big.Int))
}
