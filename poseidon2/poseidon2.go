// Package poseidon2 implements the Poseidon2 arithmetic sponge
// permutation over the KoalaBear field, at widths 16 and 24, using
// gnark-crypto's round-constant and MDS-matrix tables. It generalizes
// the teacher's bare Permute wrapper with the compress and sponge modes
// the specification's hash family is built from.
package poseidon2

import (
	"github.com/consensys/gnark-crypto/field/koalabear/poseidon2"

	"github.com/aerius-labs/xmss-koalabear/field"
)

// Element is a KoalaBear field element.
type Element = field.Element

// Permutation wraps the gnark-crypto Poseidon2 permutation for a fixed
// width, matching Plonky3's round schedule (external/internal/external).
type Permutation struct {
	perm  *poseidon2.Permutation
	width int
}

// New16 builds the width-16 permutation (8 external rounds, 13 internal
// rounds — Plonky3's default_koalabear_poseidon2_16 parameterization).
func New16() *Permutation {
	return &Permutation{perm: poseidon2.NewPermutation(16, 8, 13), width: 16}
}

// New24 builds the width-24 permutation (8 external rounds, 21 internal
// rounds — Plonky3's default_koalabear_poseidon2_24 parameterization).
func New24() *Permutation {
	return &Permutation{perm: poseidon2.NewPermutation(24, 8, 21), width: 24}
}

// Width returns the permutation's state width.
func (p *Permutation) Width() int { return p.width }

// Permute applies the permutation in place.
func (p *Permutation) Permute(state []Element) {
	if len(state) != p.width {
		panic("poseidon2: state size mismatch")
	}
	if err := p.perm.Permutation(state); err != nil {
		panic("poseidon2: permutation failed: " + err.Error())
	}
}

// Compress zero-pads input to the permutation's width, permutes, adds
// the original (zero-padded) input back element-wise (feed-forward),
// and returns the first outLen elements.
func (p *Permutation) Compress(input []Element, outLen int) []Element {
	if len(input) > p.width {
		panic("poseidon2: compress input longer than width")
	}
	padded := make([]Element, p.width)
	copy(padded, input)

	state := make([]Element, p.width)
	copy(state, padded)
	p.Permute(state)

	for i := range state {
		state[i] = field.Add(state[i], padded[i])
	}
	return state[:outLen]
}

// Sponge absorbs input in chunks of `rate` elements (the remaining
// width-rate slots hold capacityValue for the entire operation, added
// only once at initialization), permuting between chunks, then
// squeezes outLen elements, permuting again whenever more than `rate`
// elements remain to be produced.
func (p *Permutation) Sponge(input []Element, rate int, capacityValue []Element, outLen int) []Element {
	capacity := p.width - rate
	if len(capacityValue) != capacity {
		panic("poseidon2: capacity value length mismatch")
	}

	state := make([]Element, p.width)
	copy(state[rate:], capacityValue)

	for i := 0; i < len(input); i += rate {
		end := i + rate
		if end > len(input) {
			end = len(input)
		}
		for j := 0; j < end-i; j++ {
			state[j] = field.Add(state[j], input[i+j])
		}
		p.Permute(state)
	}

	out := make([]Element, 0, outLen)
	for len(out) < outLen {
		take := rate
		if outLen-len(out) < take {
			take = outLen - len(out)
		}
		out = append(out, state[:take]...)
		if len(out) < outLen {
			p.Permute(state)
		}
	}
	return out
}
