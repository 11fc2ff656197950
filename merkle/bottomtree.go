package merkle

import (
	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/internal/prf"
	"github.com/aerius-labs/xmss-koalabear/internal/rng"
	"github.com/aerius-labs/xmss-koalabear/params"
	"github.com/aerius-labs/xmss-koalabear/poseidon2"
	"github.com/aerius-labs/xmss-koalabear/tweakhash"
)

// leafSIMDWidth is the lane count used when packing leaf generation
// across epochs (§4.6's "SIMD packing for leaves"). Only full batches
// of this size take the packed path; a tail of fewer epochs falls back
// to the scalar path.
const leafSIMDWidth = int(poseidon2.Width8)

var perm16Batch = poseidon2.New16()

// BuildBottomTree builds bottom-tree index b: its L = BottomTreeLeaves()
// leaves (each from a dim-chain walk reduced by leaf_reduce) and all
// log_lifetime/2 layers above them. Padding uses the zero-seeded
// stream, so the tree is deterministic regardless of build order.
func BuildBottomTree(prfKey []byte, parameter []field.Element, bottomIndex int, lp *params.LifetimeParams) *HashSubTree {
	L := lp.BottomTreeLeaves()
	epochStart := bottomIndex * L

	leaves := make([]domain.Element, L)

	full := (L / leafSIMDWidth) * leafSIMDWidth
	for base := 0; base < full; base += leafSIMDWidth {
		batch := computeLeavesBatch(prfKey, parameter, epochStart+base, leafSIMDWidth, lp)
		copy(leaves[base:base+leafSIMDWidth], batch)
	}
	for e := full; e < L; e++ {
		leaves[e] = computeLeafScalar(prfKey, parameter, epochStart+e, lp)
	}

	leafLayer := Layer{StartIndex: uint64(epochStart), Nodes: leaves}
	stream := rng.Zero()
	layers := buildLayers(stream, leafLayer, 0, lp.LogLifetime/2, parameter, lp)
	return &HashSubTree{Layers: layers}
}

// computeLeafScalar walks all dim chains for one epoch and reduces them
// to a leaf domain element.
func computeLeafScalar(prfKey []byte, parameter []field.Element, epoch int, lp *params.LifetimeParams) domain.Element {
	chainEnds := make([]domain.Element, lp.Dim)
	for c := 0; c < lp.Dim; c++ {
		chainEnds[c] = walkChain(prfKey, parameter, uint32(epoch), uint8(c), lp)
	}
	return tweakhash.LeafReduce(chainEnds, parameter, uint32(epoch), lp)
}

func walkChain(prfKey []byte, parameter []field.Element, epoch uint32, chainIdx uint8, lp *params.LifetimeParams) domain.Element {
	state := prf.DomainStart(prfKey, epoch, uint64(chainIdx), lp.HashFE)
	for pos := 1; pos <= lp.Base-1; pos++ {
		state = tweakhash.ChainHash(state, epoch, chainIdx, uint8(pos), parameter, lp)
	}
	return state
}

// computeLeavesBatch generates width leaves in lockstep: for each of
// the dim chains, all width epochs advance one chain_hash step
// together via a single batched Poseidon2 compress call, matching the
// scalar path element-for-element (only the grouping of independent
// permutation calls differs — see poseidon2.BatchCompress).
func computeLeavesBatch(prfKey []byte, parameter []field.Element, epochStart int, width int, lp *params.LifetimeParams) []domain.Element {
	states := make([]domain.Element, width)
	chainEnds := make([][]domain.Element, width)
	for w := range chainEnds {
		chainEnds[w] = make([]domain.Element, lp.Dim)
	}

	for c := 0; c < lp.Dim; c++ {
		for w := 0; w < width; w++ {
			epoch := uint32(epochStart + w)
			states[w] = prf.DomainStart(prfKey, epoch, uint64(c), lp.HashFE)
		}
		for pos := 1; pos <= lp.Base-1; pos++ {
			inputs := make([][]field.Element, width)
			for w := 0; w < width; w++ {
				epoch := uint32(epochStart + w)
				tweakFE := tweakhash.ToFieldElements(tweakhash.ChainTweakValue(epoch, uint8(c), uint8(pos)), lp.TweakFE)
				input := make([]field.Element, 0, len(parameter)+len(tweakFE)+lp.HashFE)
				input = append(input, parameter...)
				input = append(input, tweakFE...)
				input = append(input, states[w].Truncate(lp.HashFE)...)
				inputs[w] = input
			}
			outs := perm16Batch.BatchCompress(inputs, lp.HashFE)
			for w := 0; w < width; w++ {
				states[w] = domain.FromSlice(outs[w])
			}
		}
		for w := 0; w < width; w++ {
			chainEnds[w][c] = states[w]
		}
	}

	leaves := make([]domain.Element, width)
	for w := 0; w < width; w++ {
		epoch := uint32(epochStart + w)
		leaves[w] = tweakhash.LeafReduce(chainEnds[w], parameter, epoch, lp)
	}
	return leaves
}
