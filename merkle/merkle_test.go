package merkle

import (
	"testing"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/internal/rng"
	"github.com/aerius-labs/xmss-koalabear/params"
)

func testLP() *params.LifetimeParams {
	lp := *params.L8
	return &lp
}

func TestPadLayerInvariants(t *testing.T) {
	stream := rng.Zero()
	cases := []struct {
		start int
		n     int
	}{
		{0, 3}, {1, 3}, {0, 4}, {1, 4}, {2, 5}, {3, 2},
	}
	for _, c := range cases {
		nodes := make([]domain.Element, c.n)
		layer := padLayer(stream, nodes, uint64(c.start), 8)
		if layer.StartIndex%2 != 0 {
			t.Fatalf("start=%d n=%d: padded start index %d is odd", c.start, c.n, layer.StartIndex)
		}
		if len(layer.Nodes)%2 != 0 {
			t.Fatalf("start=%d n=%d: padded length %d is odd", c.start, c.n, len(layer.Nodes))
		}
	}
}

func TestBuildBottomTreeAndPathRoundTrip(t *testing.T) {
	lp := testLP()
	lp.LogLifetime = 4 // small tree: L = 2^2 = 4 leaves, 2 levels
	lp.Dim = 4
	lp.Base = 4

	prfKey := make([]byte, 32)
	for i := range prfKey {
		prfKey[i] = byte(i)
	}
	parameter := make([]field.Element, lp.ParamLen)
	for i := range parameter {
		parameter[i] = field.FromU32(uint32(i + 100))
	}

	tree := BuildBottomTree(prfKey, parameter, 0, lp)
	numLevels := lp.LogLifetime / 2
	if len(tree.Layers) != numLevels+1 {
		t.Fatalf("expected %d layers, got %d", numLevels+1, len(tree.Layers))
	}

	root := tree.Root()

	for pos := uint64(0); pos < uint64(lp.BottomTreeLeaves()); pos++ {
		leaf := tree.Layers[0].Nodes[pos-tree.Layers[0].StartIndex]
		coPath := ExtractPath(tree.Layers, pos)
		if len(coPath) != numLevels {
			t.Fatalf("expected co-path length %d, got %d", numLevels, len(coPath))
		}
		got := WalkPath(leaf, pos, coPath, 0, parameter, lp)
		if !domain.Equal(got, root) {
			t.Fatalf("position %d: reconstructed root mismatch", pos)
		}
	}
}

func TestBuildBottomTreeDeterministic(t *testing.T) {
	lp := testLP()
	lp.LogLifetime = 4
	lp.Dim = 4
	lp.Base = 4

	prfKey := make([]byte, 32)
	parameter := make([]field.Element, lp.ParamLen)

	a := BuildBottomTree(prfKey, parameter, 1, lp)
	b := BuildBottomTree(prfKey, parameter, 1, lp)
	if !domain.Equal(a.Root(), b.Root()) {
		t.Fatalf("bottom tree build is not deterministic")
	}
}

func TestBuildTopTreeFromRoots(t *testing.T) {
	lp := testLP()
	lp.LogLifetime = 6 // 3 bottom-tree levels (L=8), 3 top levels spanning 8 bottom-tree roots
	lp.Dim = 4
	lp.Base = 4

	parameter := make([]field.Element, lp.ParamLen)
	seed := [32]byte{}
	mainStream := rng.New(seed)

	startLevel := lp.LogLifetime / 2
	numRoots := 1 << uint(lp.LogLifetime-startLevel)
	roots := make([]domain.Element, numRoots)
	for i := range roots {
		var d domain.Element
		d[0] = field.FromU32(uint32(i + 1))
		roots[i] = d
	}

	top := BuildTopTree(mainStream, roots, 0, parameter, lp)
	expectedLevels := lp.LogLifetime - startLevel
	if len(top.Layers) != expectedLevels+1 {
		t.Fatalf("expected %d layers, got %d", expectedLevels+1, len(top.Layers))
	}

	root := top.Root()
	coPath := ExtractPath(top.Layers, 0)
	got := WalkPath(roots[0], 0, coPath, startLevel, parameter, lp)
	if !domain.Equal(got, root) {
		t.Fatalf("top tree path reconstruction mismatch")
	}
}
