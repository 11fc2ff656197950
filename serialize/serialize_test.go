package serialize

import (
	"testing"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/params"
	"github.com/aerius-labs/xmss-koalabear/xmss"
)

func TestFieldElementRoundTrip(t *testing.T) {
	e := field.FromU32(123456)
	buf := WriteFieldElement(nil, e)
	if len(buf) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(buf))
	}
	got, rest, err := ReadFieldElement(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no trailing bytes")
	}
	if !field.Equal(e, got) {
		t.Fatalf("round trip mismatch")
	}
}

func TestPublicKeyRoundTrip(t *testing.T) {
	lp := params.L8
	pk := &xmss.PublicKey{
		Parameter: []field.Element{field.FromU32(1), field.FromU32(2), field.FromU32(3), field.FromU32(4), field.FromU32(5)},
	}
	var root domain.Element
	root[0] = field.FromU32(9)
	pk.Root = root

	buf := PublicKey(pk, lp)
	got, err := ParsePublicKey(buf, lp)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !domain.Equal(got.Root, pk.Root) {
		t.Fatalf("root mismatch")
	}
	for i := range pk.Parameter {
		if !field.Equal(got.Parameter[i], pk.Parameter[i]) {
			t.Fatalf("parameter mismatch at %d", i)
		}
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	lp := params.L8
	sig := &xmss.Signature{
		Path:   make([]domain.Element, lp.LogLifetime),
		Rho:    make([]field.Element, lp.RandFE),
		Hashes: make([]domain.Element, lp.Dim),
	}
	for i := range sig.Path {
		sig.Path[i][0] = field.FromU32(uint32(i + 1))
	}
	for i := range sig.Rho {
		sig.Rho[i] = field.FromU32(uint32(i + 50))
	}
	for i := range sig.Hashes {
		sig.Hashes[i][0] = field.FromU32(uint32(i + 200))
	}

	buf := Signature(sig, lp)
	got, err := ParseSignature(buf, lp)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Path) != len(sig.Path) || len(got.Rho) != len(sig.Rho) || len(got.Hashes) != len(sig.Hashes) {
		t.Fatalf("length mismatch after round trip")
	}
	for i := range sig.Path {
		if !domain.Equal(got.Path[i], sig.Path[i]) {
			t.Fatalf("path mismatch at %d", i)
		}
	}
}
