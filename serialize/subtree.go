package serialize

import (
	"encoding/binary"
	"fmt"

	"github.com/aerius-labs/xmss-koalabear/domain"
	"github.com/aerius-labs/xmss-koalabear/merkle"
	"github.com/aerius-labs/xmss-koalabear/params"
	"github.com/aerius-labs/xmss-koalabear/xmss"
)

// SubTree serializes a built HashSubTree: a u32 layer count, then for
// each layer a u64 start_index, u32 node_count, and the nodes
// themselves. Used for the secret key's top tree and left/right bottom
// trees (§6); the on-disk bottom-tree cache format (package cache) is
// a distinct, versioned variant of the same idea.
func SubTree(tree *merkle.HashSubTree, hashFE int) []byte {
	buf := appendU32(nil, uint32(len(tree.Layers)))
	for _, layer := range tree.Layers {
		buf = appendU64(buf, layer.StartIndex)
		buf = appendU32(buf, uint32(len(layer.Nodes)))
		for _, n := range layer.Nodes {
			buf = WriteDomainElement(buf, n, hashFE)
		}
	}
	return buf
}

// ParseSubTree is SubTree's inverse.
func ParseSubTree(b []byte, hashFE int) (*merkle.HashSubTree, []byte, error) {
	numLayers, rest, err := readU32(b)
	if err != nil {
		return nil, nil, fmt.Errorf("serialize: subtree layer count: %w", err)
	}
	layers := make([]merkle.Layer, numLayers)
	for i := range layers {
		var startIndex uint64
		startIndex, rest, err = readU64(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("serialize: subtree layer %d start index: %w", i, err)
		}
		var nodeCount uint32
		nodeCount, rest, err = readU32(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("serialize: subtree layer %d node count: %w", i, err)
		}
		layerNodes := make([]domain.Element, nodeCount)
		for j := range layerNodes {
			var d domain.Element
			d, rest, err = ReadDomainElement(rest, hashFE)
			if err != nil {
				return nil, nil, fmt.Errorf("serialize: subtree layer %d node %d: %w", i, j, err)
			}
			layerNodes[j] = d
		}
		layers[i] = merkle.Layer{StartIndex: startIndex, Nodes: layerNodes}
	}
	return &merkle.HashSubTree{Layers: layers}, rest, nil
}

func appendU64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func readU64(b []byte) (uint64, []byte, error) {
	if len(b) < 8 {
		return 0, nil, fmt.Errorf("serialize: short read for u64")
	}
	return binary.LittleEndian.Uint64(b[:8]), b[8:], nil
}

// SecretKey serializes sk as prf_key ‖ parameter ‖ u64 activation_epoch
// ‖ u64 num_active_epochs ‖ u32 left_B ‖ serialized top tree ‖
// serialized left bottom tree ‖ serialized right bottom tree.
func SecretKey(sk *xmss.SecretKey, lp *params.LifetimeParams) []byte {
	buf := append([]byte(nil), sk.PRFKey[:]...)
	buf = WriteFieldElements(buf, sk.Parameter)
	buf = appendU64(buf, sk.ActivationEpoch)
	buf = appendU64(buf, sk.NumActiveEpochs)
	buf = appendU32(buf, uint32(sk.LeftBottomTreeIndex))
	buf = append(buf, SubTree(sk.TopTree, lp.HashFE)...)
	buf = append(buf, SubTree(sk.LeftBottomTree, lp.HashFE)...)
	buf = append(buf, SubTree(sk.RightBottomTree, lp.HashFE)...)
	return buf
}

// ParseSecretKey is SecretKey's inverse.
func ParseSecretKey(b []byte, lp *params.LifetimeParams) (*xmss.SecretKey, error) {
	if len(b) < 32 {
		return nil, fmt.Errorf("serialize: short read for prf key")
	}
	var prfKey [32]byte
	copy(prfKey[:], b[:32])
	rest := b[32:]

	parameter, rest, err := ReadFieldElements(rest)
	if err != nil {
		return nil, fmt.Errorf("serialize: secret key parameter: %w", err)
	}
	activationEpoch, rest, err := readU64(rest)
	if err != nil {
		return nil, fmt.Errorf("serialize: activation epoch: %w", err)
	}
	numActiveEpochs, rest, err := readU64(rest)
	if err != nil {
		return nil, fmt.Errorf("serialize: num active epochs: %w", err)
	}
	leftB, rest, err := readU32(rest)
	if err != nil {
		return nil, fmt.Errorf("serialize: left bottom tree index: %w", err)
	}
	topTree, rest, err := ParseSubTree(rest, lp.HashFE)
	if err != nil {
		return nil, fmt.Errorf("serialize: top tree: %w", err)
	}
	leftTree, rest, err := ParseSubTree(rest, lp.HashFE)
	if err != nil {
		return nil, fmt.Errorf("serialize: left bottom tree: %w", err)
	}
	rightTree, _, err := ParseSubTree(rest, lp.HashFE)
	if err != nil {
		return nil, fmt.Errorf("serialize: right bottom tree: %w", err)
	}

	return &xmss.SecretKey{
		PRFKey:              prfKey,
		Parameter:           parameter,
		ActivationEpoch:     activationEpoch,
		NumActiveEpochs:     numActiveEpochs,
		LeftBottomTreeIndex: int(leftB),
		LeftBottomTree:      leftTree,
		RightBottomTree:     rightTree,
		TopTree:             topTree,
		Prepared:            merkle.NewPreparedWindow(int(leftB)),
	}, nil
}
