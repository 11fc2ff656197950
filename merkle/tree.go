package merkle

import (
	"sync"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/field"
	"github.com/aerius-labs/xmss-koalabear/internal/rng"
	"github.com/aerius-labs/xmss-koalabear/params"
	"github.com/aerius-labs/xmss-koalabear/tweakhash"
)

// HashSubTree is a built subtree: all layers are retained so that a
// co-path can be extracted from any position in its bottommost layer.
type HashSubTree struct {
	Layers []Layer
}

// Root returns the subtree's single top-layer node.
func (t *HashSubTree) Root() domain.Element {
	top := t.Layers[len(t.Layers)-1]
	return top.Nodes[0]
}

// buildLayers grows numLevels parent layers on top of leafLayer,
// padding with stream before pairing, and tagging each tree_hash call
// with level = startLevel+i (i the 0-based iteration count). Bottom
// trees pass startLevel=0; the top tree passes startLevel=log_lifetime/2.
// Parent hashing runs across goroutines once a layer is large enough
// to make that worthwhile.
func buildLayers(stream *rng.Stream, leafLayer Layer, startLevel, numLevels int, parameter []field.Element, lp *params.LifetimeParams) []Layer {
	layers := make([]Layer, 0, numLevels+1)

	current := leafLayer
	for i := 0; i < numLevels; i++ {
		padded := padLayer(stream, current.Nodes, current.StartIndex, lp.HashFE)
		layers = append(layers, padded)

		numParents := len(padded.Nodes) / 2
		parents := make([]domain.Element, numParents)
		parentStart := padded.StartIndex / 2
		level := uint64(startLevel + i)

		hashPair := func(idx int) {
			left := padded.Nodes[2*idx]
			right := padded.Nodes[2*idx+1]
			posInLevel := uint32(parentStart) + uint32(idx)
			parents[idx] = tweakhash.TreeHash(left, right, level, posInLevel, parameter, lp)
		}

		if numParents > 100 {
			var wg sync.WaitGroup
			wg.Add(numParents)
			for idx := 0; idx < numParents; idx++ {
				go func(idx int) {
					defer wg.Done()
					hashPair(idx)
				}(idx)
			}
			wg.Wait()
		} else {
			for idx := 0; idx < numParents; idx++ {
				hashPair(idx)
			}
		}

		current = Layer{StartIndex: parentStart, Nodes: parents}
	}
	layers = append(layers, current)
	return layers
}

// ExtractPath walks from an absolute leaf-layer position up to (but
// excluding) the root layer, emitting the sibling node at each level
// in bottom-to-top order.
func ExtractPath(layers []Layer, position uint64) []domain.Element {
	path := make([]domain.Element, 0, len(layers)-1)
	p := position
	for lvl := 0; lvl < len(layers)-1; lvl++ {
		layer := layers[lvl]
		sibling := p ^ 1
		path = append(path, layer.Nodes[sibling-layer.StartIndex])
		p = p >> 1
	}
	return path
}

// WalkPath reconstructs a root from a leaf, its absolute position, and
// a co-path, using tree_hash at level = startLevel+i for the i-th
// co-path entry (bottom co-paths pass startLevel=0; top co-paths pass
// startLevel=log_lifetime/2, matching the levels buildLayers used).
func WalkPath(leaf domain.Element, position uint64, coPath []domain.Element, startLevel int, parameter []field.Element, lp *params.LifetimeParams) domain.Element {
	current := leaf
	p := position
	for i, sibling := range coPath {
		level := uint64(startLevel + i)
		parentPos := uint32(p >> 1)
		if p%2 == 0 {
			current = tweakhash.TreeHash(current, sibling, level, parentPos, parameter, lp)
		} else {
			current = tweakhash.TreeHash(sibling, current, level, parentPos, parameter, lp)
		}
		p = p >> 1
	}
	return current
}
