package encoding

import (
	"testing"

	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/params"
)

func TestEncodeChunksInRange(t *testing.T) {
	lp := params.L8
	param := make([]field.Element, lp.ParamLen)
	for i := range param {
		param[i] = field.FromU32(uint32(i + 11))
	}
	randomness := make([]field.Element, lp.RandFE)
	for i := range randomness {
		randomness[i] = field.FromU32(uint32(i + 1))
	}

	chunks, err := Encode(param, 0, randomness, []byte("hello"), lp)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(chunks) != lp.Dim {
		t.Fatalf("expected %d chunks, got %d", lp.Dim, len(chunks))
	}
	for _, c := range chunks {
		if int(c) >= lp.Base {
			t.Fatalf("chunk %d out of range [0,%d)", c, lp.Base)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	lp := params.L8
	param := make([]field.Element, lp.ParamLen)
	randomness := make([]field.Element, lp.RandFE)
	a, err := Encode(param, 7, randomness, []byte("msg"), lp)
	if err != nil {
		t.Fatalf("encode a: %v", err)
	}
	b, err := Encode(param, 7, randomness, []byte("msg"), lp)
	if err != nil {
		t.Fatalf("encode b: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Encode not deterministic at chunk %d", i)
		}
	}
}

func TestEncodeVariesWithRandomness(t *testing.T) {
	lp := params.L8
	param := make([]field.Element, lp.ParamLen)
	r1 := make([]field.Element, lp.RandFE)
	r2 := make([]field.Element, lp.RandFE)
	r2[0] = field.FromU32(1)

	a, err := Encode(param, 7, r1, []byte("msg"), lp)
	if err != nil {
		t.Fatalf("encode a: %v", err)
	}
	b, err := Encode(param, 7, r2, []byte("msg"), lp)
	if err != nil {
		t.Fatalf("encode b: %v", err)
	}
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("Encode did not vary across distinct randomness values")
	}
}

func TestSumHelper(t *testing.T) {
	chunks := []uint8{1, 2, 3, 4}
	if Sum(chunks) != 10 {
		t.Fatalf("Sum() = %d, want 10", Sum(chunks))
	}
}

func TestEncodeOverManyCountersReachesTargetSum(t *testing.T) {
	lp := params.L8
	param := make([]field.Element, lp.ParamLen)
	for i := range param {
		param[i] = field.FromU32(uint32(i + 3))
	}
	found := false
	for counter := uint32(0); counter < 5000; counter++ {
		randomness := make([]field.Element, lp.RandFE)
		randomness[0] = field.FromU32(counter)
		chunks, err := Encode(param, 42, randomness, []byte("retry target"), lp)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if Sum(chunks) == lp.TargetSum {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("did not find a counter reaching target_sum within 5000 tries")
	}
}
