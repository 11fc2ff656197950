package poseidon2

// BatchPermute applies perm to W independent width-sized states in
// lockstep. The specification's SIMD variant packs W lanes into each
// state slot so one call advances W chains at once; nothing in the
// retrieved example pack reaches for actual CPU vector instructions
// (no `unsafe`/asm appears anywhere in the pack), so this batches the
// scalar permutation instead — its public contract is identical
// element-for-element to calling Permute once per lane, which is what
// the specification requires of a SIMD variant.
//
// states[i] must have length perm.Width() for every lane i.
func (p *Permutation) BatchPermute(states [][]Element) {
	for i := range states {
		p.Permute(states[i])
	}
}

// BatchCompress applies Compress to W independent inputs in lockstep,
// returning one output slice per lane.
func (p *Permutation) BatchCompress(inputs [][]Element, outLen int) [][]Element {
	out := make([][]Element, len(inputs))
	for i, in := range inputs {
		out[i] = p.Compress(in, outLen)
	}
	return out
}

// SIMDWidth enumerates the supported lane counts (§4.2: W in {4, 8}).
type SIMDWidth int

const (
	Width4 SIMDWidth = 4
	Width8 SIMDWidth = 8
)
