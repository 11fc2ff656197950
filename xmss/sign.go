package xmss

import (
	"fmt"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/encoding"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/internal/prf"
	"github.com/aerius-labs/xmss-koalabear/merkle"
	"github.com/aerius-labs/xmss-koalabear/tweakhash"
)

// Sign implements §4.7's sign: validate the epoch against both the
// key's active interval and its currently prepared bottom-tree window,
// extract the combined co-path, retry the encoder until the chunk sum
// hits target_sum, then walk each chain to its assigned chunk count.
func (s *Scheme) Sign(sk *SecretKey, epoch uint64, message []byte) (*Signature, error) {
	if len(message) != MessageLength {
		return nil, ErrBadMessageLength
	}
	lp := s.LP

	if epoch < sk.ActivationEpoch || epoch >= sk.ActivationEpoch+sk.NumActiveEpochs {
		return nil, ErrKeyNotActive
	}

	L := uint64(lp.BottomTreeLeaves())
	leftB := uint64(sk.LeftBottomTreeIndex)
	B := epoch / L
	if epoch < leftB*L || epoch >= (leftB+2)*L || (sk.Prepared != nil && !sk.Prepared.Prepared(int(B))) {
		return nil, ErrEpochNotPrepared
	}

	bottomTree := sk.LeftBottomTree
	if B != leftB {
		bottomTree = sk.RightBottomTree
	}

	bottomCoPath := merkle.ExtractPath(bottomTree.Layers, epoch)
	topCoPath := merkle.ExtractPath(sk.TopTree.Layers, B)
	path := make([]domain.Element, 0, len(bottomCoPath)+len(topCoPath))
	path = append(path, bottomCoPath...)
	path = append(path, topCoPath...)

	var rho []field.Element
	var chunks []uint8
	found := false
	for counter := uint32(0); counter < maxEncodingAttempts; counter++ {
		candidateRho := prf.Randomness(sk.PRFKey[:], uint32(epoch), message, counter, lp.RandFE)
		candidateChunks, err := encoding.Encode(sk.Parameter, uint32(epoch), candidateRho, message, lp)
		if err != nil {
			return nil, fmt.Errorf("xmss: %w: %v", ErrInvalidHypercubeIndex, err)
		}
		if encoding.Sum(candidateChunks) == lp.TargetSum {
			rho = candidateRho
			chunks = candidateChunks
			found = true
			break
		}
	}
	if !found {
		return nil, ErrEncodingAttemptsExceeded
	}

	hashes := make([]domain.Element, lp.Dim)
	for c := 0; c < lp.Dim; c++ {
		state := prf.DomainStart(sk.PRFKey[:], uint32(epoch), uint64(c), lp.HashFE)
		for pos := 1; pos <= int(chunks[c]); pos++ {
			state = tweakhash.ChainHash(state, uint32(epoch), uint8(c), uint8(pos), sk.Parameter, lp)
		}
		hashes[c] = state
	}

	return &Signature{Path: path, Rho: rho, Hashes: hashes}, nil
}
