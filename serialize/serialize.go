// Package serialize implements the wire format §6 delegates to an
// external collaborator: field elements as 4 little-endian Montgomery
// bytes, domain elements as hash_fe of those, and the public key,
// secret key, and signature structures built from them with u32
// length prefixes wherever a count isn't implicit from the lifetime
// profile.
package serialize

import (
	"encoding/binary"
	"fmt"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/params"
	"github.com/aerius-labs/xmss-koalabear/xmss"
)

// WriteFieldElement appends e's 4-byte little-endian Montgomery form.
func WriteFieldElement(buf []byte, e field.Element) []byte {
	return append(buf, field.ToBytes(e)...)
}

// ReadFieldElement consumes 4 bytes from b, returning the element and
// the remaining bytes.
func ReadFieldElement(b []byte) (field.Element, []byte, error) {
	if len(b) < 4 {
		return field.Element{}, nil, fmt.Errorf("serialize: short read for field element")
	}
	return field.FromBytes(b[:4]), b[4:], nil
}

// WriteFieldElements appends a u32 length prefix followed by each
// element's bytes.
func WriteFieldElements(buf []byte, fe []field.Element) []byte {
	buf = appendU32(buf, uint32(len(fe)))
	for _, e := range fe {
		buf = WriteFieldElement(buf, e)
	}
	return buf
}

// ReadFieldElements consumes a u32-prefixed field element vector.
func ReadFieldElements(b []byte) ([]field.Element, []byte, error) {
	n, rest, err := readU32(b)
	if err != nil {
		return nil, nil, err
	}
	out := make([]field.Element, n)
	for i := range out {
		var e field.Element
		e, rest, err = ReadFieldElement(rest)
		if err != nil {
			return nil, nil, err
		}
		out[i] = e
	}
	return out, rest, nil
}

// WriteDomainElement appends hashFE field elements of d (its meaningful
// prefix; the zero-padded tail is never serialized).
func WriteDomainElement(buf []byte, d domain.Element, hashFE int) []byte {
	for _, e := range d.Truncate(hashFE) {
		buf = WriteFieldElement(buf, e)
	}
	return buf
}

// ReadDomainElement consumes hashFE field elements and zero-extends
// them back to the 8-wide domain storage convention.
func ReadDomainElement(b []byte, hashFE int) (domain.Element, []byte, error) {
	fe := make([]field.Element, hashFE)
	rest := b
	var err error
	for i := range fe {
		fe[i], rest, err = ReadFieldElement(rest)
		if err != nil {
			return domain.Element{}, nil, err
		}
	}
	return domain.FromSlice(fe), rest, nil
}

// WriteDomainElements appends a u32 count followed by each element.
func WriteDomainElements(buf []byte, ds []domain.Element, hashFE int) []byte {
	buf = appendU32(buf, uint32(len(ds)))
	for _, d := range ds {
		buf = WriteDomainElement(buf, d, hashFE)
	}
	return buf
}

// ReadDomainElements consumes a u32-prefixed domain element vector.
func ReadDomainElements(b []byte, hashFE int) ([]domain.Element, []byte, error) {
	n, rest, err := readU32(b)
	if err != nil {
		return nil, nil, err
	}
	out := make([]domain.Element, n)
	for i := range out {
		out[i], rest, err = ReadDomainElement(rest, hashFE)
		if err != nil {
			return nil, nil, err
		}
	}
	return out, rest, nil
}

// WriteFieldElementsNoPrefix appends each element's bytes with no
// length prefix, for vectors whose count is implicit from the lifetime
// profile rather than carried on the wire.
func WriteFieldElementsNoPrefix(buf []byte, fe []field.Element) []byte {
	for _, e := range fe {
		buf = WriteFieldElement(buf, e)
	}
	return buf
}

// ReadFieldElementsN consumes exactly n field elements with no length
// prefix.
func ReadFieldElementsN(b []byte, n int) ([]field.Element, []byte, error) {
	out := make([]field.Element, n)
	rest := b
	var err error
	for i := range out {
		out[i], rest, err = ReadFieldElement(rest)
		if err != nil {
			return nil, nil, err
		}
	}
	return out, rest, nil
}

// WriteDomainElementsNoPrefix appends each element's bytes with no
// length prefix, for vectors whose count is implicit from the lifetime
// profile rather than carried on the wire.
func WriteDomainElementsNoPrefix(buf []byte, ds []domain.Element, hashFE int) []byte {
	for _, d := range ds {
		buf = WriteDomainElement(buf, d, hashFE)
	}
	return buf
}

// ReadDomainElementsN consumes exactly n domain elements with no
// length prefix.
func ReadDomainElementsN(b []byte, n, hashFE int) ([]domain.Element, []byte, error) {
	out := make([]domain.Element, n)
	rest := b
	var err error
	for i := range out {
		out[i], rest, err = ReadDomainElement(rest, hashFE)
		if err != nil {
			return nil, nil, err
		}
	}
	return out, rest, nil
}

// PublicKey serializes pk as parameter ‖ root.
func PublicKey(pk *xmss.PublicKey, lp *params.LifetimeParams) []byte {
	buf := WriteFieldElements(nil, pk.Parameter)
	buf = WriteDomainElement(buf, pk.Root, lp.HashFE)
	return buf
}

// ParsePublicKey is PublicKey's inverse.
func ParsePublicKey(b []byte, lp *params.LifetimeParams) (*xmss.PublicKey, error) {
	parameter, rest, err := ReadFieldElements(b)
	if err != nil {
		return nil, fmt.Errorf("serialize: public key parameter: %w", err)
	}
	root, _, err := ReadDomainElement(rest, lp.HashFE)
	if err != nil {
		return nil, fmt.Errorf("serialize: public key root: %w", err)
	}
	return &xmss.PublicKey{Root: root, Parameter: parameter}, nil
}

// Signature serializes sig as path ‖ rho ‖ hashes, none length prefixed:
// all three counts (log_lifetime, rand_fe, dim) are implicit from lp, so
// carrying a redundant, attacker-controlled length alongside them would
// only create a cross-check the decoder must remember to perform.
func Signature(sig *xmss.Signature, lp *params.LifetimeParams) []byte {
	buf := WriteDomainElementsNoPrefix(nil, sig.Path, lp.HashFE)
	buf = WriteFieldElementsNoPrefix(buf, sig.Rho)
	buf = WriteDomainElementsNoPrefix(buf, sig.Hashes, lp.HashFE)
	return buf
}

// ParseSignature is Signature's inverse. Every field is read for
// exactly the count lp implies, so a truncated or padded blob fails as
// a short/long read rather than silently producing an oversized vector
// downstream.
func ParseSignature(b []byte, lp *params.LifetimeParams) (*xmss.Signature, error) {
	path, rest, err := ReadDomainElementsN(b, lp.LogLifetime, lp.HashFE)
	if err != nil {
		return nil, fmt.Errorf("serialize: signature path: %w", err)
	}
	rho, rest, err := ReadFieldElementsN(rest, lp.RandFE)
	if err != nil {
		return nil, fmt.Errorf("serialize: signature rho: %w", err)
	}
	hashes, rest, err := ReadDomainElementsN(rest, lp.Dim, lp.HashFE)
	if err != nil {
		return nil, fmt.Errorf("serialize: signature hashes: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("serialize: signature has %d trailing bytes", len(rest))
	}
	return &xmss.Signature{Path: path, Rho: rho, Hashes: hashes}, nil
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func readU32(b []byte) (uint32, []byte, error) {
	if len(b) < 4 {
		return 0, nil, fmt.Errorf("serialize: short read for u32 length prefix")
	}
	return binary.LittleEndian.Uint32(b[:4]), b[4:], nil
}
