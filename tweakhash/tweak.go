// Package tweakhash implements the specification's three domain-
// separated hash entry points — chain_hash, tree_hash, and leaf_reduce —
// built on the poseidon2 compress and sponge primitives, plus the
// 128-bit tweak construction they share (§4.4).
package tweakhash

import (
	"math/big"

	"github.com/aerius-labs/xmss-koalabear/field"
)

// Domain separators, distinguishing the three tweak kinds.
const (
	ChainSep   = 0x00
	TreeSep    = 0x01
	MessageSep = 0x02
)

// ChainTweakValue packs (epoch<<24) | (chainIdx<<16) | (posInChain<<8) | ChainSep.
func ChainTweakValue(epoch uint32, chainIdx uint8, posInChain uint8) *big.Int {
	v := new(big.Int).SetUint64(uint64(epoch))
	v.Lsh(v, 24)
	v.Or(v, big.NewInt(int64(chainIdx)<<16))
	v.Or(v, big.NewInt(int64(posInChain)<<8))
	v.Or(v, big.NewInt(ChainSep))
	return v
}

// TreeTweakValue packs (level<<40) | (posInLevel<<8) | TreeSep. Internal
// tree_hash calls pass level+1 (the "+1" noted in §4.4 — level-0 nodes
// are leaves, reduced elsewhere); leaf_reduce passes raw level=0.
func TreeTweakValue(level uint64, posInLevel uint32) *big.Int {
	v := new(big.Int).SetUint64(level)
	v.Lsh(v, 40)
	v.Or(v, new(big.Int).Lsh(big.NewInt(int64(posInLevel)), 8))
	v.Or(v, big.NewInt(TreeSep))
	return v
}

// MessageHashTweakValue packs (epoch<<8) | MessageSep.
func MessageHashTweakValue(epoch uint32) *big.Int {
	v := new(big.Int).SetUint64(uint64(epoch))
	v.Lsh(v, 8)
	v.Or(v, big.NewInt(MessageSep))
	return v
}

// ToFieldElements decomposes v into n little-endian base-p digits.
func ToFieldElements(v *big.Int, n int) []field.Element {
	p := new(big.Int).SetUint64(field.P)
	acc := new(big.Int).Set(v)
	digit := new(big.Int)
	out := make([]field.Element, n)
	for i := 0; i < n; i++ {
		digit.Mod(acc, p)
		out[i] = field.FromCanonical(uint32(digit.Uint64()))
		acc.Div(acc, p)
	}
	return out
}
