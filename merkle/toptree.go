package merkle

import (
	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/internal/rng"
	"github.com/aerius-labs/xmss-koalabear/params"
)

// BuildTopTree assembles the top tree from the activation window's
// bottom-tree roots, ordered by bottom-tree index. Its leaf layer's
// start index is the left bottom-tree index, so path extraction
// recenters correctly against absolute bottom-tree-index positions.
// Padding is drawn from the scheme's main RNG (mutex-guarded), shared
// with key generation and any other consumer of that stream.
func BuildTopTree(mainStream *rng.Stream, roots []domain.Element, leftBottomTreeIndex int, parameter []field.Element, lp *params.LifetimeParams) *HashSubTree {
	leafLayer := Layer{StartIndex: uint64(leftBottomTreeIndex), Nodes: roots}
	startLevel := lp.LogLifetime / 2
	numLevels := lp.LogLifetime - startLevel
	layers := buildLayers(mainStream, leafLayer, startLevel, numLevels, parameter, lp)
	return &HashSubTree{Layers: layers}
}
