package prf

import (
	"crypto/rand"
	"testing"

	"github.com/aerius-labs/xmss-koalabear/field"
)

func TestDomainStartDeterministic(t *testing.T) {
	key := KeyGen(rand.Reader)
	a := DomainStart(key[:], 5, 3, 8)
	b := DomainStart(key[:], 5, 3, 8)
	for i := range a {
		if !field.Equal(a[i], b[i]) {
			t.Fatalf("DomainStart not deterministic at slot %d", i)
		}
	}
}

func TestDomainStartVariesWithIndex(t *testing.T) {
	key := KeyGen(rand.Reader)
	a := DomainStart(key[:], 5, 3, 8)
	b := DomainStart(key[:], 5, 4, 8)
	if feSliceEqual(a[:], b[:]) {
		t.Fatalf("DomainStart did not vary with chain index")
	}
}

func TestRandomnessVariesWithCounter(t *testing.T) {
	key := KeyGen(rand.Reader)
	msg := []byte("hello xmss")
	a := Randomness(key[:], 5, msg, 0, 7)
	b := Randomness(key[:], 5, msg, 1, 7)
	if feSliceEqual(a, b) {
		t.Fatalf("Randomness did not vary with counter")
	}
}

func TestRandomnessVariesWithMessage(t *testing.T) {
	key := KeyGen(rand.Reader)
	a := Randomness(key[:], 5, []byte("message one"), 0, 7)
	b := Randomness(key[:], 5, []byte("message two"), 0, 7)
	if feSliceEqual(a, b) {
		t.Fatalf("Randomness did not vary with message")
	}
}

func feSliceEqual(a, b []field.Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !field.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
