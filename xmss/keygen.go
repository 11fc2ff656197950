package xmss

import (
	"github.com/aerius-labs/xmss-koalabear/cache"
	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/merkle"
	"github.com/aerius-labs/xmss-koalabear/params"
)

// rejectBound mirrors internal/prf's modulo-bias guard, applied here to
// the main-RNG-sampled public parameter.
var rejectBound = (uint64(1) << 32) / field.P * field.P

func sampleFieldElements(stream interface{ Read(int) []byte }, n int) []field.Element {
	out := make([]field.Element, n)
	for i := 0; i < n; {
		b := stream.Read(4)
		v := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24
		if v >= rejectBound {
			continue
		}
		out[i] = field.FromCanonical(uint32(v % field.P))
		i++
	}
	return out
}

// KeyGen builds a key pair active over [activationEpoch,
// activationEpoch+numActiveEpochs), per §4.7's step sequence: validate,
// align the window to whole bottom trees, sample parameter and
// prf_key, build the first two bottom trees (retained as left/right)
// plus the rest of the window (consumed into the top tree only), then
// build the top tree.
func (s *Scheme) KeyGen(activationEpoch, numActiveEpochs uint64) (*PublicKey, *SecretKey, error) {
	lp := s.LP
	if numActiveEpochs == 0 || activationEpoch+numActiveEpochs > lp.Lifetime() {
		return nil, nil, ErrInvalidActivationParameters
	}

	L := uint64(lp.BottomTreeLeaves())
	start := (activationEpoch / L) * L
	end := ((activationEpoch + numActiveEpochs + L - 1) / L) * L
	if end-start < 2*L {
		end = start + 2*L
	}
	if end > lp.Lifetime() {
		end = lp.Lifetime()
	}
	startB := start / L
	endB := end / L
	if endB-startB < 2 {
		return nil, nil, ErrInsufficientBottomTrees
	}

	parameter := sampleFieldElements(s.mainRNG, lp.ParamLen)
	var prfKey [32]byte
	copy(prfKey[:], s.mainRNG.Read(32))

	numTrees := int(endB - startB)
	trees := make([]*merkle.HashSubTree, numTrees)
	roots := make([]domain.Element, numTrees)

	// The first two are built (and retained) sequentially; they seed
	// the secret key's left/right slots before anything else proceeds.
	trees[0] = buildOrLoadBottomTree(prfKey[:], parameter, int(startB), lp)
	trees[1] = buildOrLoadBottomTree(prfKey[:], parameter, int(startB)+1, lp)
	roots[0] = trees[0].Root()
	roots[1] = trees[1].Root()

	for i := 2; i < numTrees; i++ {
		trees[i] = buildOrLoadBottomTree(prfKey[:], parameter, int(startB)+i, lp)
		roots[i] = trees[i].Root()
	}

	topTree := merkle.BuildTopTree(s.mainRNG, roots, int(startB), parameter, lp)

	pk := &PublicKey{Root: topTree.Root(), Parameter: parameter}
	sk := &SecretKey{
		PRFKey:              prfKey,
		Parameter:           parameter,
		ActivationEpoch:     activationEpoch,
		NumActiveEpochs:     numActiveEpochs,
		LeftBottomTreeIndex: int(startB),
		LeftBottomTree:      trees[0],
		RightBottomTree:     trees[1],
		TopTree:             topTree,
		Prepared:            merkle.NewPreparedWindow(int(startB)),
	}
	return pk, sk, nil
}

// buildOrLoadBottomTree serves bottomIndex from the on-disk cache when
// it holds a record matching (prfKey, parameter, bottomIndex); a cache
// miss (disabled, absent, or a stale/mismatched record) falls back to
// rebuilding from scratch and opportunistically refreshes the cache.
// A write failure is not fatal to key generation: it only costs the
// next run the time this build would have saved.
func buildOrLoadBottomTree(prfKey []byte, parameter []field.Element, bottomIndex int, lp *params.LifetimeParams) *merkle.HashSubTree {
	if tree, ok := cache.Load(prfKey, parameter, bottomIndex, lp); ok {
		return tree
	}
	tree := merkle.BuildBottomTree(prfKey, parameter, bottomIndex, lp)
	_ = cache.Store(tree, prfKey, parameter, bottomIndex, lp)
	return tree
}
