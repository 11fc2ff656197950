// Package encoding implements the target-sum Winternitz encoder (§4.5):
// a message-hash step built on poseidon2.Compress, and a hypercube
// decode step that maps the resulting integer to a digit vector. sign
// drives this with a counter retry loop until the digits sum to the
// lifetime's target_sum; verify accepts whatever digits come back.
package encoding

import (
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/hypercube"
	"github.com/aerius-labs/xmss-koalabear/params"
	"github.com/aerius-labs/xmss-koalabear/poseidon2"
	"github.com/aerius-labs/xmss-koalabear/tweakhash"
)

var perm24 = poseidon2.New24()

var labelMessage = []byte{0x6d, 0x73, 0x67, 0x5f, 0x65, 0x6e, 0x63, 0x6f, 0x64, 0x65}

// rejectBound mirrors internal/prf's rejection-sampling bound, applied
// here to message-derived field elements instead of PRF output.
var rejectBound = (uint64(1) << 32) / field.P * field.P

// MessageToFieldElements expands an arbitrary-length message into
// msgFE field elements via SHAKE128 rejection sampling, independent of
// any particular epoch or signing key (the message component of the
// message hash is the same across counter retries).
func MessageToFieldElements(message []byte, msgFE int) []field.Element {
	shake := sha3.NewShake128()
	shake.Write(labelMessage)
	shake.Write(message)

	out := make([]field.Element, msgFE)
	var chunk [4]byte
	for i := 0; i < msgFE; {
		if _, err := shake.Read(chunk[:]); err != nil {
			panic("encoding: shake read failed: " + err.Error())
		}
		v := uint64(chunk[0]) | uint64(chunk[1])<<8 | uint64(chunk[2])<<16 | uint64(chunk[3])<<24
		if v >= rejectBound {
			continue
		}
		out[i] = field.FromCanonical(uint32(v % field.P))
		i++
	}
	return out
}

// ApplyTopLevelMessageHash computes the single Poseidon2-24 compression
// described in §4.5: randomness || parameter || epoch_tweak ||
// message_fe || iteration_index=0, zero-padded to width 24, yielding
// the sponge rate's worth of elements (15 in every defined profile).
func ApplyTopLevelMessageHash(parameter []field.Element, epoch uint32, randomness []field.Element, message []byte, lp *params.LifetimeParams) []field.Element {
	epochTweak := tweakhash.ToFieldElements(tweakhash.MessageHashTweakValue(epoch), lp.TweakFE)
	messageFE := MessageToFieldElements(message, lp.MsgFE)

	input := make([]field.Element, 0, lp.RandFE+lp.ParamLen+lp.TweakFE+lp.MsgFE+1)
	input = append(input, randomness...)
	input = append(input, parameter...)
	input = append(input, epochTweak...)
	input = append(input, messageFE...)
	input = append(input, field.Zero()) // iteration_index = 0

	return perm24.Compress(input, lp.Rate())
}

// Encode runs the full target-sum encoder: message hash, reduction to
// an integer modulo dom_size, and hypercube decode. Each chunk is the
// complement (base-1)-a of the decoded vertex digit a, so a vertex in
// layer d yields chunks summing to dim*(base-1)-d. It returns the
// dim-length digit vector (chunks) regardless of whether they sum to
// target_sum — sign checks the sum itself and retries on mismatch;
// verify calls this once per signature and never checks the sum. An
// error is only possible if the hypercube tables reject the reduced
// accumulator, which should not happen for a correctly reduced acc;
// callers must treat it as a fatal, non-retryable failure.
func Encode(parameter []field.Element, epoch uint32, randomness []field.Element, message []byte, lp *params.LifetimeParams) ([]uint8, error) {
	digits := ApplyTopLevelMessageHash(parameter, epoch, randomness, message, lp)

	acc := new(big.Int)
	p := new(big.Int).SetUint64(field.P)
	for i := len(digits) - 1; i >= 0; i-- {
		acc.Mul(acc, p)
		acc.Add(acc, field.ToBigInt(digits[i]))
	}

	li := hypercube.Get(lp.Base, lp.Dim, lp.FinalLayer)
	acc.Mod(acc, li.DomSize())

	layer, offset, err := hypercube.FindLayer(li, acc)
	if err != nil {
		return nil, err
	}
	vertex := hypercube.MapToVertex(li, layer, offset)
	chunks := make([]uint8, len(vertex))
	for i, a := range vertex {
		chunks[i] = uint8(lp.Base-1) - a
	}
	return chunks, nil
}

// Sum returns the sum of a chunk vector, for sign's retry check.
func Sum(chunks []uint8) int {
	s := 0
	for _, c := range chunks {
		s += int(c)
	}
	return s
}
