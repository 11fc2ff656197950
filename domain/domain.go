// Package domain defines the fixed-width field-element vector shared by
// hash-chain states and Merkle-tree nodes throughout the scheme.
package domain

import "github.com/aerius-labs/xmss-koalabear/field"

// Width is the storage width of every domain element: 8 field elements,
// of which only the profile's HashFE leading slots are meaningful. The
// remainder stay zero, per the specification's "zero-extend" convention
// for chain_hash inputs/outputs.
const Width = 8

// Element is a fixed-size domain element: a hash-chain state or a
// Merkle-tree node value.
type Element [Width]field.Element

// FromSlice builds a domain Element from up to Width field elements,
// zero-extending the remainder.
func FromSlice(fe []field.Element) Element {
	var e Element
	copy(e[:], fe)
	return e
}

// Truncate returns the first n elements, the meaningful prefix for a
// profile whose HashFE is less than Width.
func (e Element) Truncate(n int) []field.Element {
	out := make([]field.Element, n)
	copy(out, e[:n])
	return out
}

// Equal reports whether a and b hold the same field elements.
func Equal(a, b Element) bool {
	for i := range a {
		if !field.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of e.
func Clone(e Element) Element {
	var out Element
	copy(out[:], e[:])
	return out
}
