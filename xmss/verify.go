package xmss

import (
	"fmt"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/encoding"
	"github.com/aerius-labs/xmss-koalabear/merkle"
	"github.com/aerius-labs/xmss-koalabear/tweakhash"
)

// Verify implements §4.7's verify. It returns (false, nil) for any
// cryptographic mismatch and an error only for structurally invalid
// input (epoch out of range, wrong-length message); a signature whose
// Path, Rho or Hashes has the wrong length yields (false, nil). It
// never re-checks the encoder's chunk sum, treating the signature's
// chunks as authoritative step counts.
func (s *Scheme) Verify(pk *PublicKey, epoch uint64, message []byte, sig *Signature) (bool, error) {
	if len(message) != MessageLength {
		return false, ErrBadMessageLength
	}
	lp := s.LP
	if epoch >= lp.Lifetime() {
		return false, ErrEpochOutOfRange
	}
	if len(sig.Path) != lp.LogLifetime {
		return false, nil
	}
	if len(sig.Rho) != lp.RandFE {
		return false, nil
	}
	if len(sig.Hashes) != lp.Dim {
		return false, nil
	}

	chunks, err := encoding.Encode(pk.Parameter, uint32(epoch), sig.Rho, message, lp)
	if err != nil {
		return false, fmt.Errorf("xmss: %w: %v", ErrInvalidHypercubeIndex, err)
	}

	chainEnds := make([]domain.Element, lp.Dim)
	for c := 0; c < lp.Dim; c++ {
		state := sig.Hashes[c]
		for pos := int(chunks[c]) + 1; pos <= lp.Base-1; pos++ {
			state = tweakhash.ChainHash(state, uint32(epoch), uint8(c), uint8(pos), pk.Parameter, lp)
		}
		chainEnds[c] = state
	}
	leaf := tweakhash.LeafReduce(chainEnds, pk.Parameter, uint32(epoch), lp)

	L := uint64(lp.BottomTreeLeaves())
	startLevel := lp.LogLifetime / 2
	bottomCoPath := sig.Path[:startLevel]
	topCoPath := sig.Path[startLevel:]

	bottomRoot := merkle.WalkPath(leaf, epoch, bottomCoPath, 0, pk.Parameter, lp)
	B := epoch / L
	root := merkle.WalkPath(bottomRoot, B, topCoPath, startLevel, pk.Parameter, lp)

	return domain.Equal(root, pk.Root), nil
}
