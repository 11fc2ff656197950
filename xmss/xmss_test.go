package xmss

import (
	"bytes"
	"testing"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/params"
)

func msg42() []byte {
	m := make([]byte, MessageLength)
	for i := range m {
		m[i] = 0x42
	}
	return m
}

func TestRoundTripL8Profile(t *testing.T) {
	s := Init(params.L8, [32]byte{})
	pk, sk, err := s.KeyGen(0, 256)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	message := msg42()
	L := uint64(params.L8.BottomTreeLeaves())

	for _, epoch := range []uint64{0, 1, 16, 127, 255} {
		// Slide the prepared window forward until it covers epoch's
		// bottom tree; KeyGen only retains the first two.
		for uint64(sk.LeftBottomTreeIndex)+1 < epoch/L {
			if err := s.AdvancePreparation(sk); err != nil {
				t.Fatalf("advance toward epoch %d: %v", epoch, err)
			}
		}

		sig, err := s.Sign(sk, epoch, message)
		if err != nil {
			t.Fatalf("sign epoch %d: %v", epoch, err)
		}
		ok, err := s.Verify(pk, epoch, message, sig)
		if err != nil {
			t.Fatalf("verify epoch %d: %v", epoch, err)
		}
		if !ok {
			t.Fatalf("verify epoch %d: expected true", epoch)
		}
	}
}

func TestSignaturePathLength(t *testing.T) {
	s := Init(params.L8, [32]byte{})
	_, sk, err := s.KeyGen(0, 256)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	sig, err := s.Sign(sk, 0, msg42())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig.Path) != params.L8.LogLifetime {
		t.Fatalf("path length = %d, want %d", len(sig.Path), params.L8.LogLifetime)
	}
}

func TestTamperRhoFailsVerify(t *testing.T) {
	s := Init(params.L8, [32]byte{})
	pk, sk, err := s.KeyGen(0, 256)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	message := msg42()
	sig, err := s.Sign(sk, 0, message)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tampered := *sig
	tamperedRho := make([]field.Element, len(sig.Rho))
	copy(tamperedRho, sig.Rho)
	tamperedRho[0] = field.Add(tamperedRho[0], field.One())
	tampered.Rho = tamperedRho

	ok, err := s.Verify(pk, 0, message, &tampered)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatalf("verify should reject a tampered rho")
	}
}

func TestTamperPathFailsVerify(t *testing.T) {
	s := Init(params.L8, [32]byte{})
	pk, sk, err := s.KeyGen(0, 256)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	message := msg42()
	sig, err := s.Sign(sk, 0, message)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tampered := *sig
	tamperedPath := make([]domain.Element, len(sig.Path))
	copy(tamperedPath, sig.Path)
	tamperedPath[0][0] = field.Add(tamperedPath[0][0], field.One())
	tampered.Path = tamperedPath

	ok, err := s.Verify(pk, 0, message, &tampered)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatalf("verify should reject a tampered path node")
	}
}

func TestAdvancePreparationSlidesWindow(t *testing.T) {
	s := Init(params.L8, [32]byte{})
	_, sk, err := s.KeyGen(0, 256)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	message := msg42()

	if _, err := s.Sign(sk, 0, message); err != nil {
		t.Fatalf("sign epoch 0: %v", err)
	}
	if err := s.AdvancePreparation(sk); err != nil {
		t.Fatalf("advance: %v", err)
	}

	L := uint64(params.L8.BottomTreeLeaves())
	if _, err := s.Sign(sk, L, message); err != nil {
		t.Fatalf("sign epoch L after advance: %v", err)
	}
	if _, err := s.Sign(sk, 3*L, message); err != ErrEpochNotPrepared {
		t.Fatalf("sign epoch 3L: expected ErrEpochNotPrepared, got %v", err)
	}
}

func TestCrossSignatureLiveness(t *testing.T) {
	s := Init(params.L8, [32]byte{})
	pk, sk, err := s.KeyGen(0, 256)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	m1 := msg42()
	m2 := bytes.Repeat([]byte{0x24}, MessageLength)

	sig1, err := s.Sign(sk, 5, m1)
	if err != nil {
		t.Fatalf("sign m1: %v", err)
	}
	sig2, err := s.Sign(sk, 5, m2)
	if err != nil {
		t.Fatalf("sign m2: %v", err)
	}

	ok1, _ := s.Verify(pk, 5, m1, sig1)
	ok2, _ := s.Verify(pk, 5, m2, sig2)
	if !ok1 || !ok2 {
		t.Fatalf("both signatures at the same epoch should verify against the unchanged public key")
	}
}

func TestKeyGenDeterministic(t *testing.T) {
	s1 := Init(params.L8, [32]byte{})
	s2 := Init(params.L8, [32]byte{})
	pk1, _, err := s1.KeyGen(0, 256)
	if err != nil {
		t.Fatalf("keygen 1: %v", err)
	}
	pk2, _, err := s2.KeyGen(0, 256)
	if err != nil {
		t.Fatalf("keygen 2: %v", err)
	}
	if !domain.Equal(pk1.Root, pk2.Root) {
		t.Fatalf("identical seed+window should produce bitwise-identical roots")
	}
	for i := range pk1.Parameter {
		if !field.Equal(pk1.Parameter[i], pk2.Parameter[i]) {
			t.Fatalf("identical seed+window should produce bitwise-identical parameters")
		}
	}
}

func TestEncodingAttemptsExceededIsDistinctSentinel(t *testing.T) {
	// maxEncodingAttempts bounds sign's retry loop; confirm the sentinel
	// error exists and is distinct from the caller-state errors.
	if ErrEncodingAttemptsExceeded == ErrKeyNotActive {
		t.Fatalf("sentinel errors must be distinct")
	}
}
