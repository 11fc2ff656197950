package tweakhash

import (
	"math/big"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/params"
	"github.com/aerius-labs/xmss-koalabear/poseidon2"
)

var perm16 = poseidon2.New16()
var perm24 = poseidon2.New24()

// ChainHash implements §4.4's chain_hash: parameter || tweak || state
// zero-padded to width 16, compressed down to hashFE elements, then
// zero-extended back to the 8-wide domain storage.
func ChainHash(state domain.Element, epoch uint32, chainIdx uint8, posInChain uint8, parameter []field.Element, lp *params.LifetimeParams) domain.Element {
	tweakFE := ToFieldElements(ChainTweakValue(epoch, chainIdx, posInChain), lp.TweakFE)

	input := make([]field.Element, 0, len(parameter)+len(tweakFE)+lp.HashFE)
	input = append(input, parameter...)
	input = append(input, tweakFE...)
	input = append(input, state.Truncate(lp.HashFE)...)

	out := perm16.Compress(input, lp.HashFE)
	return domain.FromSlice(out)
}

// TreeHash implements §4.4's tree_hash: parameter || tweak || left ||
// right zero-padded to width 24, compressed down to hashFE elements.
// level is the loop-iteration counter (0-based from the leaf layer);
// the "+1" from §4.4 is applied internally.
func TreeHash(left, right domain.Element, level uint64, posInLevel uint32, parameter []field.Element, lp *params.LifetimeParams) domain.Element {
	tweakFE := ToFieldElements(TreeTweakValue(level+1, posInLevel), lp.TweakFE)

	input := make([]field.Element, 0, len(parameter)+len(tweakFE)+2*lp.HashFE)
	input = append(input, parameter...)
	input = append(input, tweakFE...)
	input = append(input, left.Truncate(lp.HashFE)...)
	input = append(input, right.Truncate(lp.HashFE)...)

	out := perm24.Compress(input, lp.HashFE)
	return domain.FromSlice(out)
}

// LeafReduce implements §4.4's leaf_reduce: sponge-reduces the dim
// chain-end domain elements for one epoch into a single leaf domain
// element, using level=0 (no "+1") for its tweak.
func LeafReduce(chainEnds []domain.Element, parameter []field.Element, epoch uint32, lp *params.LifetimeParams) domain.Element {
	tweakFE := ToFieldElements(TreeTweakValue(0, epoch), lp.TweakFE)

	capDigits := ToFieldElements(leafCapacitySeparator(lp, tweakFE), 24)
	capacityValue := perm24.Compress(capDigits, lp.Capacity)

	input := make([]field.Element, 0, len(parameter)+len(tweakFE)+lp.Dim*lp.HashFE)
	input = append(input, parameter...)
	input = append(input, tweakFE...)
	for _, ce := range chainEnds {
		input = append(input, ce.Truncate(lp.HashFE)...)
	}

	rate := lp.Rate()
	out := perm24.Sponge(input, rate, capacityValue, lp.HashFE)
	return domain.FromSlice(out)
}

// leafCapacitySeparator builds the domain-separating constant
// param_len<<96 | tweak<<64 | dim<<32 | hash_fe described in §4.4,
// used only to derive the leaf-reduction capacity value (never mixed
// into message-carrying state).
func leafCapacitySeparator(lp *params.LifetimeParams, tweakFE []field.Element) *big.Int {
	tweakLow := big.NewInt(0)
	if len(tweakFE) > 0 {
		tweakLow = new(big.Int).SetUint64(uint64(field.ToCanonical(tweakFE[0])))
	}

	v := new(big.Int).SetUint64(uint64(lp.ParamLen))
	v.Lsh(v, 32)
	v.Or(v, tweakLow)
	v.Lsh(v, 32)
	v.Or(v, big.NewInt(int64(lp.Dim)))
	v.Lsh(v, 32)
	v.Or(v, big.NewInt(int64(lp.HashFE)))
	return v
}
