// Package hypercube implements the layer-size tables and vertex mapping
// the target-sum encoder (§4.5) is built on: for base w and dimension v,
// sizes[v][d] counts length-v base-w digit strings whose digits sum to
// d, prefix_sums accumulates them, and map_to_vertex/map_to_integer
// convert between a rank within a layer and the digit string itself.
package hypercube

import (
	"errors"
	"math/big"
	"sync"
)

// ErrAccOutOfRange is returned by FindLayer when acc falls outside
// [0, DomSize()) — the caller failed to reduce it modulo DomSize first.
var ErrAccOutOfRange = errors.New("hypercube: acc out of range for layer tables")

// LayerInfo holds the precomputed size/prefix-sum tables for one
// (base, dimension, maxLayer) combination.
type LayerInfo struct {
	Base      int
	Dimension int
	MaxLayer  int

	// sizes[v][d] = count of length-v base-Base digit strings summing to d,
	// for v = 0..Dimension, d = 0..MaxLayer.
	sizes [][]*big.Int

	// PrefixSums[d] = sum_{d'<=d} sizes[Dimension][d'].
	PrefixSums []*big.Int
}

// Sizes returns sizes[Dimension][d], the count of vertices in layer d.
func (li *LayerInfo) Sizes(d int) *big.Int {
	return li.sizes[li.Dimension][d]
}

// sizeAt returns sizes[v][d], or zero when d lies outside
// [0, MaxLayer].
func (li *LayerInfo) sizeAt(v, d int) *big.Int {
	if d < 0 || d > li.MaxLayer {
		return big.NewInt(0)
	}
	return li.sizes[v][d]
}

// NewLayerInfo builds the size/prefix-sum tables via the recurrence
// sizes[v][d] = sum_{t=0}^{min(d,w-1)} sizes[v-1][d-t], sizes[0][0] = 1.
func NewLayerInfo(base, dimension, maxLayer int) *LayerInfo {
	sizes := make([][]*big.Int, dimension+1)
	for v := 0; v <= dimension; v++ {
		row := make([]*big.Int, maxLayer+1)
		for d := 0; d <= maxLayer; d++ {
			row[d] = big.NewInt(0)
		}
		sizes[v] = row
	}
	sizes[0][0] = big.NewInt(1)

	for v := 1; v <= dimension; v++ {
		for d := 0; d <= maxLayer; d++ {
			sum := new(big.Int)
			maxT := base - 1
			if d < maxT {
				maxT = d
			}
			for t := 0; t <= maxT; t++ {
				sum.Add(sum, sizes[v-1][d-t])
			}
			sizes[v][d] = sum
		}
	}

	prefix := make([]*big.Int, maxLayer+1)
	running := new(big.Int)
	for d := 0; d <= maxLayer; d++ {
		running = new(big.Int).Add(running, sizes[dimension][d])
		prefix[d] = running
	}

	return &LayerInfo{Base: base, Dimension: dimension, MaxLayer: maxLayer, sizes: sizes, PrefixSums: prefix}
}

// DomSize returns prefix_sums[Dimension][MaxLayer], the size of the
// encoder's admissible domain.
func (li *LayerInfo) DomSize() *big.Int {
	return new(big.Int).Set(li.PrefixSums[li.MaxLayer])
}

var layerCache = struct {
	sync.RWMutex
	data map[[3]int]*LayerInfo
}{data: make(map[[3]int]*LayerInfo)}

// Get returns the cached LayerInfo for (base, dimension, maxLayer),
// building and caching it on first use. Guarded by a mutex with a
// double-checked read lock, matching the teacher's layer-cache pattern.
func Get(base, dimension, maxLayer int) *LayerInfo {
	key := [3]int{base, dimension, maxLayer}

	layerCache.RLock()
	if li, ok := layerCache.data[key]; ok {
		layerCache.RUnlock()
		return li
	}
	layerCache.RUnlock()

	layerCache.Lock()
	defer layerCache.Unlock()
	if li, ok := layerCache.data[key]; ok {
		return li
	}
	li := NewLayerInfo(base, dimension, maxLayer)
	layerCache.data[key] = li
	return li
}

// FindLayer locates the unique layer L such that
// prefix_sums[L-1] <= acc < prefix_sums[L], returning L and the
// in-layer offset acc - prefix_sums[L-1]. It returns ErrAccOutOfRange
// if acc >= DomSize() instead of panicking, so a corrupted or
// out-of-precondition input is reported to the caller rather than
// crashing the process.
func FindLayer(li *LayerInfo, acc *big.Int) (layer int, offset *big.Int, err error) {
	prev := big.NewInt(0)
	for d := 0; d <= li.MaxLayer; d++ {
		if acc.Cmp(li.PrefixSums[d]) < 0 {
			return d, new(big.Int).Sub(acc, prev), nil
		}
		prev = li.PrefixSums[d]
	}
	return 0, nil, ErrAccOutOfRange
}

// MapToVertex decodes (layer, offset) into the unique length-Dimension
// base-Base digit string summing to layer, at lexicographic rank
// offset among vertices of that layer.
func MapToVertex(li *LayerInfo, layer int, offset *big.Int) []uint8 {
	v := make([]uint8, li.Dimension)
	remaining := new(big.Int).Set(offset)
	sum := layer
	positionsLeft := li.Dimension

	for i := 0; i < li.Dimension; i++ {
		positionsLeft--
		if positionsLeft == 0 {
			// Last digit is forced.
			v[i] = uint8(sum)
			break
		}
		lowBound := sum - (li.Base-1)*positionsLeft
		if lowBound < 0 {
			lowBound = 0
		}
		highBound := li.Base - 1
		if sum < highBound {
			highBound = sum
		}
		for a := lowBound; a <= highBound; a++ {
			count := li.sizeAt(positionsLeft, sum-a)
			if remaining.Cmp(count) < 0 {
				v[i] = uint8(a)
				sum -= a
				break
			}
			remaining.Sub(remaining, count)
		}
	}
	return v
}

// MapToInteger is the inverse of MapToVertex: given a digit string, it
// returns its lexicographic rank (offset) within its own layer.
func MapToInteger(li *LayerInfo, vertex []uint8) *big.Int {
	sum := 0
	for _, a := range vertex {
		sum += int(a)
	}

	rank := new(big.Int)
	remainingSum := sum
	positionsLeft := li.Dimension
	for i := 0; i < li.Dimension; i++ {
		positionsLeft--
		if positionsLeft == 0 {
			break
		}
		chosen := int(vertex[i])
		lowBound := remainingSum - (li.Base-1)*positionsLeft
		if lowBound < 0 {
			lowBound = 0
		}
		for a := lowBound; a < chosen; a++ {
			rank.Add(rank, li.sizeAt(positionsLeft, remainingSum-a))
		}
		remainingSum -= chosen
	}
	return rank
}
