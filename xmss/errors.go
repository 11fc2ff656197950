package xmss

import "errors"

// Fatal errors, per §7's taxonomy: invalid input or an internal
// invariant violation that makes the calling operation meaningless.
var (
	ErrInvalidActivationParameters = errors.New("xmss: invalid activation parameters")
	ErrInsufficientBottomTrees     = errors.New("xmss: insufficient bottom trees in activation window")
	ErrInvalidHypercubeIndex       = errors.New("xmss: invalid hypercube index")
	ErrInvalidHypercubeMapping     = errors.New("xmss: invalid hypercube mapping")
	ErrEncodingAttemptsExceeded    = errors.New("xmss: encoding attempts exceeded")
)

// Caller errors: the request itself was inapplicable to this key's
// current state, not a cryptographic or structural failure.
var (
	ErrKeyNotActive     = errors.New("xmss: epoch outside the key's active interval")
	ErrEpochNotPrepared = errors.New("xmss: epoch outside the prepared bottom-tree window")
	ErrEpochOutOfRange  = errors.New("xmss: epoch outside the lifetime")
	ErrBadMessageLength = errors.New("xmss: message must be exactly MessageLength bytes")
)
