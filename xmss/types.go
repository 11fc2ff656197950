package xmss

import (
	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/internal/rng"
	"github.com/aerius-labs/xmss-koalabear/merkle"
	"github.com/aerius-labs/xmss-koalabear/params"
)

// MessageLength is the fixed message size the scheme signs, per §6.
const MessageLength = 32

// maxEncodingAttempts bounds sign's counter retry loop (§4.5).
const maxEncodingAttempts = 100_000

// PublicKey is (root, parameter); copyable by value.
type PublicKey struct {
	Root      domain.Element
	Parameter []field.Element
}

// Signature is the (path, rho, hashes) triple §3 describes.
type Signature struct {
	Path   []domain.Element // bottom co-path ++ top co-path, log_lifetime entries
	Rho    []field.Element  // length rand_fe
	Hashes []domain.Element // length dim, one intermediate chain state per chain
}

// SecretKey owns every tree the orchestrator has built for this key.
// Path slices handed back to callers (via Sign) are independent copies;
// the trees themselves are never shared outside the owning Scheme.
type SecretKey struct {
	PRFKey          [32]byte
	Parameter       []field.Element
	ActivationEpoch uint64
	NumActiveEpochs uint64

	LeftBottomTreeIndex int
	LeftBottomTree      *merkle.HashSubTree
	RightBottomTree     *merkle.HashSubTree
	TopTree             *merkle.HashSubTree

	Prepared *merkle.PreparedWindow
}

// Scheme is the orchestrator: one lifetime profile plus the main
// ChaCha-backed RNG seeded at Init. Only KeyGen draws from the main RNG
// (parameter/prf_key sampling and top-tree padding); Sign and Verify
// never touch it, and AdvancePreparation builds its new bottom tree
// from the zero-seeded padding stream.
type Scheme struct {
	LP      *params.LifetimeParams
	mainRNG *rng.Stream
}

// Init builds a scheme for lp, seeding its main RNG from seed.
func Init(lp *params.LifetimeParams, seed [32]byte) *Scheme {
	return &Scheme{LP: lp, mainRNG: rng.New(seed)}
}
