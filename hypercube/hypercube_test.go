package hypercube

import (
	"errors"
	"math/big"
	"testing"
)

func TestDomSizeMatchesBruteForceSmall(t *testing.T) {
	// base=3, dimension=3: brute force all 27 strings and compare per-layer counts.
	li := NewLayerInfo(3, 3, 2*3)
	counts := map[int]int{}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			for c := 0; c < 3; c++ {
				counts[a+b+c]++
			}
		}
	}
	for d := 0; d <= 6; d++ {
		got := li.Sizes(d).Int64()
		if int(got) != counts[d] {
			t.Fatalf("layer %d: got %d want %d", d, got, counts[d])
		}
	}
	if li.DomSize().Int64() != 27 {
		t.Fatalf("dom size = %d, want 27", li.DomSize().Int64())
	}
}

func TestFindLayerBounds(t *testing.T) {
	li := NewLayerInfo(3, 3, 6)
	dom := li.DomSize()
	layer, offset, err := FindLayer(li, big.NewInt(0))
	if err != nil {
		t.Fatalf("acc=0: %v", err)
	}
	if layer != 0 || offset.Sign() != 0 {
		t.Fatalf("acc=0 should land in layer 0 offset 0, got layer=%d offset=%s", layer, offset)
	}
	last := new(big.Int).Sub(dom, big.NewInt(1))
	layer, _, err = FindLayer(li, last)
	if err != nil {
		t.Fatalf("acc=dom_size-1: %v", err)
	}
	if layer != 6 {
		t.Fatalf("acc=dom_size-1 should land in the final layer (6), got %d", layer)
	}
}

func TestFindLayerRejectsOutOfRangeAcc(t *testing.T) {
	li := NewLayerInfo(3, 3, 6)
	_, _, err := FindLayer(li, li.DomSize())
	if !errors.Is(err, ErrAccOutOfRange) {
		t.Fatalf("expected ErrAccOutOfRange, got %v", err)
	}
}

func TestMapToVertexRoundTrip(t *testing.T) {
	li := NewLayerInfo(4, 6, 18)
	for layer := 0; layer <= 18; layer++ {
		size := li.Sizes(layer)
		if size.Sign() == 0 {
			continue
		}
		// Sample a handful of offsets across the layer.
		n := size.Int64()
		step := n/5 + 1
		for off := int64(0); off < n; off += step {
			offset := big.NewInt(off)
			vertex := MapToVertex(li, layer, offset)
			sum := 0
			for _, a := range vertex {
				if int(a) >= li.Base {
					t.Fatalf("digit %d out of range [0,%d)", a, li.Base)
				}
				sum += int(a)
			}
			if sum != layer {
				t.Fatalf("vertex digits sum to %d, want layer %d", sum, layer)
			}
			back := MapToInteger(li, vertex)
			if back.Cmp(offset) != 0 {
				t.Fatalf("round trip mismatch at layer=%d offset=%d: got %s", layer, off, back)
			}
		}
	}
}

func TestGetCachesByKey(t *testing.T) {
	a := Get(8, 64, 77)
	b := Get(8, 64, 77)
	if a != b {
		t.Fatalf("Get did not return the cached instance for identical keys")
	}
	c := Get(8, 64, 76)
	if a == c {
		t.Fatalf("Get returned the same instance for different maxLayer keys")
	}
}

func TestDomSizeMinusOneDecodesToFinalLayerSum(t *testing.T) {
	// Mirrors the scenario in the testable-properties list: acc =
	// prefix_sums[64][77]-1 must decode to vertex digits summing to 77 (the
	// last admissible vertex in the L8 profile's table).
	li := Get(8, 64, 77)
	acc := new(big.Int).Sub(li.DomSize(), big.NewInt(1))
	layer, offset, err := FindLayer(li, acc)
	if err != nil {
		t.Fatalf("find layer: %v", err)
	}
	if layer != 77 {
		t.Fatalf("expected final layer 77, got %d", layer)
	}
	vertex := MapToVertex(li, layer, offset)
	sum := 0
	for _, a := range vertex {
		sum += int(a)
	}
	if sum != 77 {
		t.Fatalf("expected digit sum 77, got %d", sum)
	}
}
