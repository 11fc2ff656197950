// Package merkle implements the two-level (bottom + top) hash-tree
// engine: padded layer construction, bottom-tree leaf generation
// (SIMD-packed across epochs), top-tree assembly from bottom-tree
// roots, and Merkle co-path extraction/verification (§4.6).
package merkle

import (
	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/internal/rng"
)

// Layer holds one contiguous, absolutely-indexed slice of a hash
// subtree: Nodes[i] sits at absolute position StartIndex+i.
type Layer struct {
	StartIndex uint64
	Nodes      []domain.Element
}

// randDomain draws a uniformly random domain element from stream,
// rejection-sampling each of the hashFE meaningful slots the same way
// internal/prf avoids modulo bias.
var rejectBound = (uint64(1) << 32) / field.P * field.P

func randDomain(stream *rng.Stream, hashFE int) domain.Element {
	fe := make([]field.Element, hashFE)
	for i := 0; i < hashFE; {
		b := stream.Read(4)
		v := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24
		if v >= rejectBound {
			continue
		}
		fe[i] = field.FromCanonical(uint32(v % field.P))
		i++
	}
	return domain.FromSlice(fe)
}

// padLayer enforces the §4.6 padding invariant: the output's start
// index and length are both even. A front pad is drawn when startIndex
// is odd; a back pad is drawn when startIndex+len-1 is even. Both
// checks use the layer's original bounds, so at most one pad of each
// kind is ever added.
func padLayer(stream *rng.Stream, nodes []domain.Element, startIndex uint64, hashFE int) Layer {
	length := uint64(len(nodes))
	needsFront := startIndex%2 == 1
	needsBack := (startIndex+length-1)%2 == 0

	newStart := startIndex
	out := make([]domain.Element, 0, len(nodes)+2)
	if needsFront {
		out = append(out, randDomain(stream, hashFE))
		newStart = startIndex - 1
	}
	out = append(out, nodes...)
	if needsBack {
		out = append(out, randDomain(stream, hashFE))
	}
	return Layer{StartIndex: newStart, Nodes: out}
}
